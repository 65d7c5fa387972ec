// Package precision provides the primitives shared by the machine-tool
// error models.
//
//   - [Vec3]: a 3-vector used for positions (mm), linear errors (µm) and
//     angular errors (µrad)
//   - [Advisory]: a non-fatal warning returned alongside a computed result
//   - [InputError]: a rejected physical input, wrapping one of the
//     package sentinel errors
//
// # Error Handling
//
// Nothing in the model packages panics on user input. Out-of-range inputs
// are rejected with an error that matches [ErrOutOfRange] or
// [ErrInvalidGeometry] via errors.Is. Numerical risks that do not prevent a
// result, such as an explicit diffusion step above its stability limit, are
// reported as advisories on the result instead.
package precision
