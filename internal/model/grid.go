package model

// Default canvas dimensions
const (
	DefaultCanvasWidth  = 50
	DefaultCanvasHeight = 50
)

// Coordinate identifies a cell on the canvas
type Coordinate struct {
	X int // 0-indexed from left
	Y int // 0-indexed from top
}

// InBounds returns true if the coordinate lies within a width x height grid
func (c Coordinate) InBounds(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// Cell is one addressable grid position and its current color
type Cell struct {
	Coord Coordinate
	Color Color
}
