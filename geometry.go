package papercraft

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var axisOY = mgl64.Vec2{0, 1}

// Sign returns -1, 0 or 1.
func Sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}

// Cross2 is the z component of the 3D cross product of two plane vectors.
func Cross2(v1, v2 mgl64.Vec2) float64 {
	return v1[0]*v2[1] - v1[1]*v2[0]
}

// CrossSign returns the sign of Cross2 as an int.
func CrossSign(v1, v2 mgl64.Vec2) int {
	return int(Sign(Cross2(v1, v2)))
}

// AngleFromTo returns the signed angle in degrees needed to rotate v1 onto v2.
// Counter-clockwise is positive, the result lies in (-180, 180].
func AngleFromTo(v1, v2 mgl64.Vec2) float64 {
	return mgl64.RadToDeg(math.Atan2(Cross2(v1, v2), v1.Dot(v2)))
}

// AngleBetween2 returns the unsigned angle between two plane vectors in degrees.
func AngleBetween2(v1, v2 mgl64.Vec2) float64 {
	return math.Abs(AngleFromTo(v1, v2))
}

// AngleBetween3 returns the unsigned angle between two space vectors in degrees.
func AngleBetween3(v1, v2 mgl64.Vec3) float64 {
	l := v1.Len() * v2.Len()
	if l == 0 {
		return 0
	}
	// clamp against rounding before acos
	c := mgl64.Clamp(v1.Dot(v2)/l, -1, 1)
	return mgl64.RadToDeg(math.Acos(c))
}

// RightTurn reports whether going along v1 then v2 turns clockwise.
func RightTurn(v1, v2 mgl64.Vec2) bool {
	return Cross2(v1, v2) < 0
}

// LeftTurn reports whether going along v1 then v2 turns counter-clockwise.
func LeftTurn(v1, v2 mgl64.Vec2) bool {
	return Cross2(v1, v2) > 0
}

// Rotation returns the 2x2 counter-clockwise rotation by angle degrees.
func Rotation(angle float64) mgl64.Mat2 {
	return mgl64.Rotate2D(mgl64.DegToRad(angle))
}

// Transformation composes a rotation (degrees) followed by a translation
// into a homogeneous 3x3 matrix.
func Transformation(translation mgl64.Vec2, angle float64) mgl64.Mat3 {
	rad := mgl64.DegToRad(angle)
	c, s := math.Cos(rad), math.Sin(rad)
	return mgl64.Mat3{
		c, s, 0,
		-s, c, 0,
		translation[0], translation[1], 1,
	}
}

// HFOVToVFOV converts a horizontal field of view to a vertical one for the
// given width/height aspect ratio. Angles are in degrees.
func HFOVToVFOV(hFOV, aspect float64) float64 {
	half := mgl64.DegToRad(hFOV) / 2
	return mgl64.RadToDeg(2 * math.Atan(math.Tan(half)/aspect))
}

// NormalizeAngle wraps an angle in degrees into [0, 360).
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

func transformPoint(m mgl64.Mat3, p mgl64.Vec2) mgl64.Vec2 {
	return m.Mul3x1(p.Vec3(1)).Vec2()
}

func transformVector(m mgl64.Mat3, v mgl64.Vec2) mgl64.Vec2 {
	return m.Mul3x1(v.Vec3(0)).Vec2()
}

func matrixRotation(m mgl64.Mat3) float64 {
	return NormalizeAngle(mgl64.RadToDeg(math.Atan2(m[1], m[0])))
}

func nearlyCoincident(a, b mgl64.Vec2, eps float64) bool {
	return math.Abs(a[0]-b[0]) < eps && math.Abs(a[1]-b[1]) < eps
}

// TrianglesOverlap runs a separating axis test over the six edge normals of
// two triangles. Projections that overlap by no more than tol count as
// separated, so triangles sharing an edge or a vertex do not overlap.
func TrianglesOverlap(a, b [3]mgl64.Vec2, tol float64) bool {
	for _, tri := range [2]*[3]mgl64.Vec2{&a, &b} {
		for i := 0; i < 3; i++ {
			d := tri[(i+1)%3].Sub(tri[i])
			axis := mgl64.Vec2{d[1], -d[0]}
			l := axis.Len()
			if l == 0 {
				continue
			}
			axis = axis.Mul(1 / l)
			minA, maxA := project(a, axis)
			minB, maxB := project(b, axis)
			if math.Min(maxA, maxB)-math.Max(minA, minB) <= tol {
				return false
			}
		}
	}
	return true
}

func project(tri [3]mgl64.Vec2, axis mgl64.Vec2) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range tri {
		p := v.Dot(axis)
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	return lo, hi
}
