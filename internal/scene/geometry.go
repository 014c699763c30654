package scene

import (
	"fmt"
	"math"

	"gamespace/internal/tables"
)

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

const (
	ShapeBox      = "box"
	ShapeCylinder = "cylinder"
)

// Geometry describes a table top; Size is used by boxes, Radius and Segments by cylinders
type Geometry struct {
	Shape    string  `json:"shape"`
	Size     *Vec3   `json:"size,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
	Segments int     `json:"segments,omitempty"`
}

const (
	seatHeight   = 0.3
	surfaceDepth = 0.1
)

func SurfaceGeometry(kind tables.Kind) Geometry {
	switch kind {
	case tables.KindRectangle:
		return Geometry{Shape: ShapeBox, Size: &Vec3{X: 2, Y: surfaceDepth, Z: 1.2}}
	case tables.KindSquare:
		return Geometry{Shape: ShapeBox, Size: &Vec3{X: 1.5, Y: surfaceDepth, Z: 1.5}}
	case tables.KindCircle:
		return Geometry{Shape: ShapeCylinder, Radius: 0.8, Segments: 16}
	case tables.KindHexagon:
		return Geometry{Shape: ShapeCylinder, Radius: 0.9, Segments: 6}
	case tables.KindPentagon:
		return Geometry{Shape: ShapeCylinder, Radius: 0.8, Segments: 5}
	}
	panic(fmt.Sprintf("scene: unhandled table kind %q", string(kind)))
}

var (
	rectangleSeats = []Vec3{
		{X: -0.8, Y: seatHeight, Z: 0}, // left
		{X: 0.8, Y: seatHeight, Z: 0},  // right
		{X: 0, Y: seatHeight, Z: -0.5}, // back
		{X: 0, Y: seatHeight, Z: 0.5},  // front
	}
	squareSeats = []Vec3{
		{X: -0.6, Y: seatHeight, Z: -0.6},
		{X: 0.6, Y: seatHeight, Z: -0.6},
		{X: -0.6, Y: seatHeight, Z: 0.6},
		{X: 0.6, Y: seatHeight, Z: 0.6},
	}
)

// SeatOffsets places seats around a table, relative to the table centre.
// Fixed layouts cover the usual seat counts; anything larger goes on a ring.
func SeatOffsets(kind tables.Kind, seats int) []Vec3 {
	if seats <= 0 {
		return nil
	}

	switch kind {
	case tables.KindRectangle:
		if seats <= len(rectangleSeats) {
			return append([]Vec3(nil), rectangleSeats[:seats]...)
		}
		return ring(seats, 1.1)
	case tables.KindSquare:
		if seats <= len(squareSeats) {
			return append([]Vec3(nil), squareSeats[:seats]...)
		}
		return ring(seats, 1.1)
	case tables.KindCircle:
		return ring(seats, 1.1)
	case tables.KindHexagon:
		if seats <= 6 {
			return ring(6, 1.2)[:seats]
		}
		return ring(seats, 1.2)
	case tables.KindPentagon:
		if seats <= 5 {
			return ring(5, 1.1)[:seats]
		}
		return ring(seats, 1.1)
	}
	panic(fmt.Sprintf("scene: unhandled table kind %q", string(kind)))
}

func ring(n int, radius float64) []Vec3 {
	out := make([]Vec3, n)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		out[i] = Vec3{X: math.Cos(angle) * radius, Y: seatHeight, Z: math.Sin(angle) * radius}
	}
	return out
}
