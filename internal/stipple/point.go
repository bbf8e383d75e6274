package stipple

// background is the intensity value treated as empty canvas.
const background = 255

// Point is a coordinate in image pixel space, stored row-major as (Y, X).
type Point struct {
	Y int `json:"y"` // Row (0 = topmost)
	X int `json:"x"` // Column (0 = leftmost)
}

// Dot is a stipple point together with its radius in pixels. Dots are what
// the engine produces and the exporters consume.
type Dot struct {
	P Point   `json:"point"`
	R float64 `json:"radius"`
}
