package geometric

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/precsim/internal/precision"
)

// Transform is a 4×4 homogeneous transform. The zero value is the identity.
type Transform struct {
	m *mat.Dense
}

func identity() *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{m: identity()}
}

func (t Transform) matrix() *mat.Dense {
	if t.m == nil {
		return identity()
	}
	return t.m
}

// CreateTransform builds R = Rz·Ry·Rx from rotations about X, Y, Z in
// radians, with translation t in the last column.
func CreateTransform(t, r precision.Vec3) Transform {
	cx, sx := math.Cos(r.X), math.Sin(r.X)
	cy, sy := math.Cos(r.Y), math.Sin(r.Y)
	cz, sz := math.Cos(r.Z), math.Sin(r.Z)

	return Transform{m: mat.NewDense(4, 4, []float64{
		cz * cy, cz*sy*sx - sz*cx, cz*sy*cx + sz*sx, t.X,
		sz * cy, sz*sy*sx + cz*cx, sz*sy*cx - cz*sx, t.Y,
		-sy, cy * sx, cy * cx, t.Z,
		0, 0, 0, 1,
	})}
}

// ComposeTransform chains transforms left to right: the result is
// first·rest[0]·rest[1]·…
func ComposeTransform(first Transform, rest ...Transform) Transform {
	acc := mat.DenseCopyOf(first.matrix())
	for _, t := range rest {
		var next mat.Dense
		next.Mul(acc, t.matrix())
		acc = &next
	}
	return Transform{m: acc}
}

func (t Transform) At(i, j int) float64 { return t.matrix().At(i, j) }

// Apply maps a point through the transform.
func (t Transform) Apply(p precision.Vec3) precision.Vec3 {
	v := mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1})
	var out mat.VecDense
	out.MulVec(t.matrix(), v)
	return precision.Vec3{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// Translation returns the translation column.
func (t Transform) Translation() precision.Vec3 {
	m := t.matrix()
	return precision.Vec3{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}
}

// Rows returns the matrix in row-major order.
func (t Transform) Rows() [4][4]float64 {
	m := t.matrix()
	var out [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}
