// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"encoding/json"
	"fmt"
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Quad represents an ordered quadrilateral in the corner order OCR engines
// emit: top-left, top-right, bottom-right, bottom-left.
type Quad [4]Point2D

// NewQuad creates an axis-aligned Quad from two opposite corners.
func NewQuad(x0, y0, x1, y1 float64) Quad {
	return Quad{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
	}
}

// TopY returns the top-left corner's y-coordinate.
func (q Quad) TopY() float64 {
	return q[0].Y
}

// BottomY returns the bottom-right corner's y-coordinate.
func (q Quad) BottomY() float64 {
	return q[2].Y
}

// CenterY returns the vertical center: the mean of the top-left and
// bottom-right y-coordinates.
func (q Quad) CenterY() float64 {
	return (q[0].Y + q[2].Y) / 2
}

// LowestY returns the larger of the two bottom corners' y-coordinates.
// Skewed OCR boxes can dip lower on either side.
func (q Quad) LowestY() float64 {
	return math.Max(q[2].Y, q[3].Y)
}

// MarshalJSON encodes the Quad as four [x, y] pairs, matching the wire
// format OCR payloads use.
func (q Quad) MarshalJSON() ([]byte, error) {
	pts := make([][2]float64, 4)
	for i, p := range q {
		pts[i] = [2]float64{p.X, p.Y}
	}
	return json.Marshal(pts)
}

// UnmarshalJSON decodes four [x, y] pairs into the Quad. Anything other
// than exactly four points with at least two coordinates each is rejected.
func (q *Quad) UnmarshalJSON(data []byte) error {
	var pts [][]float64
	if err := json.Unmarshal(data, &pts); err != nil {
		return fmt.Errorf("decode box: %w", err)
	}
	if len(pts) != 4 {
		return fmt.Errorf("box has %d points, want 4", len(pts))
	}
	for i, pt := range pts {
		if len(pt) < 2 {
			return fmt.Errorf("box point %d has %d coordinates, want 2", i, len(pt))
		}
		q[i] = Point2D{X: pt[0], Y: pt[1]}
	}
	return nil
}
