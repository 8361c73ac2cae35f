package math

import (
	m "math"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
	/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
)

/**
 * Note that these are here in order to prevent float64 conversions
 * from leaking into every call site.
 */
func ksin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func kcos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

func ksqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}

func kabs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}

// SinDeg returns the sine of an angle given in degrees.
func SinDeg(deg float32) float32 {
	return ksin(deg * K_DEG2RAD_MULTIPLIER)
}

// CosDeg returns the cosine of an angle given in degrees.
func CosDeg(deg float32) float32 {
	return kcos(deg * K_DEG2RAD_MULTIPLIER)
}

// Mod returns x modulo y with the sign of y, so it is safe for looping times.
func Mod(x, y float32) float32 {
	if y == 0 {
		return 0
	}
	r := float32(m.Mod(float64(x), float64(y)))
	if r < 0 {
		r += y
	}
	return r
}

// ------------------------------------------
// Vector 2
// ------------------------------------------

/**
 * @brief Creates and returns a new 2-element vector using the supplied values.
 *
 * @param x The x value.
 * @param y The y value.
 * @return A new 2-element vector.
 */
func NewVec2(x, y float32) Vec2 {
	return Vec2{
		X: x,
		Y: y,
	}
}

/**
 * @brief Creates and returns a 2-component vector with all components set to 0.0f.
 */
func NewVec2Zero() Vec2 {
	return Vec2{X: 0.0, Y: 0.0}
}

/**
 * @brief Creates and returns a 2-component vector with all components set to 1.0f.
 */
func NewVec2One() Vec2 {
	return Vec2{1.0, 1.0}
}

/**
 *  Adds other to v and returns a copy of the result.
 */
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

/**
 * Subtracts other from v and returns a copy of the result.
 */
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

/**
 *  Multiplies v by scalar and returns a copy of the result.
 */
func (v Vec2) Scale(scalar float32) Vec2 {
	return Vec2{v.X * scalar, v.Y * scalar}
}

/**
 * Returns the squared length of the provided vector.
 */
func (v Vec2) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y
}

/**
 * @brief Returns the length of the provided vector.
 */
func (v Vec2) Length() float32 {
	return ksqrt(v.LengthSquared())
}

/**
 * @brief Compares all elements of v and other and ensures the difference
 * is less than tolerance.
 *
 * @param other The second vector.
 * @param tolerance The difference tolerance. Typically K_FLOAT_EPSILON or similar.
 * @return True if within tolerance; otherwise false.
 */
func (v Vec2) Compare(other Vec2, tolerance float32) bool {
	if kabs(v.X-other.X) > tolerance {
		return false
	}
	if kabs(v.Y-other.Y) > tolerance {
		return false
	}
	return true
}

// ------------------------------------------
// Affine 2D
// ------------------------------------------

/**
 * @brief Creates the identity transform.
 */
func NewAffineIdentity() Affine {
	return Affine{A: 1, D: 1}
}

/**
 * @brief Builds a local transform from translation, rotation (degrees) and scale.
 * Rotation is counter-clockwise in a Y-up space.
 */
func NewAffineTRS(x, y, rotation, scaleX, scaleY float32) Affine {
	cos := CosDeg(rotation)
	sin := SinDeg(rotation)
	return Affine{
		A:  cos * scaleX,
		B:  -sin * scaleY,
		C:  sin * scaleX,
		D:  cos * scaleY,
		TX: x,
		TY: y,
	}
}

/**
 * @brief Returns parent * local, i.e. local expressed in the parent's space.
 */
func (p Affine) Mul(local Affine) Affine {
	return Affine{
		A:  p.A*local.A + p.B*local.C,
		B:  p.A*local.B + p.B*local.D,
		C:  p.C*local.A + p.D*local.C,
		D:  p.C*local.B + p.D*local.D,
		TX: p.A*local.TX + p.B*local.TY + p.TX,
		TY: p.C*local.TX + p.D*local.TY + p.TY,
	}
}

/**
 * @brief Transforms the point (x, y).
 */
func (p Affine) Apply(x, y float32) (float32, float32) {
	return p.A*x + p.B*y + p.TX, p.C*x + p.D*y + p.TY
}

// ------------------------------------------
// Colour
// ------------------------------------------

/**
 * @brief Creates an opaque white colour.
 */
func NewColorWhite() Color {
	return Color{R: 1, G: 1, B: 1, A: 1}
}

/**
 * @brief Component-wise multiply.
 */
func (c Color) Mul(other Color) Color {
	return Color{R: c.R * other.R, G: c.G * other.G, B: c.B * other.B, A: c.A * other.A}
}

/**
 * @brief Converts to 8-bit channels with RGB premultiplied by alpha.
 * Channels are clamped to [0,1] and rounded to nearest.
 */
func (c Color) Premultiplied32() Color32 {
	a := Clamp(c.A, 0, 1)
	return Color32{
		R: to8(Clamp(c.R, 0, 1) * a),
		G: to8(Clamp(c.G, 0, 1) * a),
		B: to8(Clamp(c.B, 0, 1) * a),
		A: to8(a),
	}
}

func to8(v float32) uint8 {
	return uint8(v*255 + 0.5)
}
