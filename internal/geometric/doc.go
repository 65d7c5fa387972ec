// Package geometric models the volumetric error of a machine tool from its
// per-axis error coefficients.
//
//   - [ErrorModel]: 21 parameters for a 3-axis machine (6 per linear axis
//     plus 3 squareness terms), 41 with two rotary axes
//   - [VolumetricError]: error vector at a point in the work volume
//   - [Compensate]: the commanded position corrected by the predicted error
//   - [ErrorMap]: statistics over a regular grid
//   - [Transform]: homogeneous transforms for chaining coordinate frames
//
// The scalar magnitude of a sample is the norm of its linear components
// only. Angular components are computed and reported but not folded in.
//
// Models are immutable once built and safe for concurrent queries.
package geometric
