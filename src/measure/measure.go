package measure

import "math"

// Point is a pixel coordinate on the capture surface. The surface renders the
// captured image 1:1, so surface coordinates and image coordinates coincide.
type Point struct {
	X int
	Y int
}

// Measurement is the pair of points picked by the user. Point2 is only ever
// set after Point1.
type Measurement struct {
	Point1 Point
	Point2 Point
}

// Distance returns the euclidean distance between two points in pixels.
// It is always recomputed from the points, never cached.
func Distance(p1, p2 Point) float64 {
	dx := float64(p2.X - p1.X)
	dy := float64(p2.Y - p1.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Distance returns the measurement's pixel distance.
func (m Measurement) Distance() float64 {
	return Distance(m.Point1, m.Point2)
}

// Delta returns the absolute per-axis components of the measurement.
func (m Measurement) Delta() (dx, dy int) {
	dx = m.Point2.X - m.Point1.X
	if dx < 0 {
		dx = -dx
	}
	dy = m.Point2.Y - m.Point1.Y
	if dy < 0 {
		dy = -dy
	}
	return dx, dy
}
