package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

/**
 * @brief An RGBA colour with float channels, nominally in [0, 1].
 */
type Color struct {
	R, G, B, A float32
}

/**
 * @brief An RGBA colour with 8-bit channels, premultiplied alpha.
 */
type Color32 struct {
	R, G, B, A uint8
}

/**
 * @brief A 2D affine transform.
 * x' = A*x + B*y + TX
 * y' = C*x + D*y + TY
 */
type Affine struct {
	A, B, C, D float32
	TX, TY     float32
}
