package rink

// Scale is the raw integer range recorded by the event entry forms.
const Scale = 1000

// Point is a percentage position (0-100 on both axes) on the ice or net surface.
type Point struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

func ToPercent(raw int) float64 {
	return float64(raw) / Scale * 100
}

// Convert rescales a raw (top, left) pair. Callers must drop the (0,0) sentinel
// with IsUnset before converting.
func Convert(top, left int) Point {
	return Point{
		Top:  ToPercent(top),
		Left: ToPercent(left),
	}
}

// IsUnset reports the "no location recorded" sentinel.
func IsUnset(top, left int) bool {
	return top == 0 && left == 0
}

// Mirror flips the left axis for goalie-perspective views.
func Mirror(left int) int {
	return Scale - left
}

// ConvertView converts a raw pair, mirroring the left axis first when flip is set.
func ConvertView(top, left int, flip bool) Point {
	if flip {
		left = Mirror(left)
	}
	return Convert(top, left)
}
