package grid

import (
	"fmt"
	"sync"

	"github.com/mcoot/pixelcanvas/internal/model"
)

// Store owns the canvas color matrix. It is a pure indexed value store:
// no history or ownership logic lives here.
type Store struct {
	mu     sync.RWMutex
	width  int
	height int
	cells  []model.Color // row-major: cells[y*width+x]
}

// New creates a store with every cell set to model.DefaultColor.
// Panics on non-positive dimensions.
func New(width, height int) *Store {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("grid: invalid dimensions %dx%d", width, height))
	}
	cells := make([]model.Color, width*height)
	for i := range cells {
		cells[i] = model.DefaultColor
	}
	return &Store{
		width:  width,
		height: height,
		cells:  cells,
	}
}

// Width returns the number of columns
func (s *Store) Width() int {
	return s.width
}

// Height returns the number of rows
func (s *Store) Height() int {
	return s.height
}

// Contains reports whether the coordinate lies on the grid
func (s *Store) Contains(c model.Coordinate) bool {
	return c.InBounds(s.width, s.height)
}

// Write sets the color of one cell
func (s *Store) Write(c model.Coordinate, color model.Color) error {
	if !s.Contains(c) {
		return fmt.Errorf("%w: (%d, %d)", model.ErrOutOfBounds, c.X, c.Y)
	}
	s.mu.Lock()
	s.cells[s.index(c)] = color & model.MaxColor
	s.mu.Unlock()
	return nil
}

// Read returns the color of one cell
func (s *Store) Read(c model.Coordinate) (model.Color, error) {
	if !s.Contains(c) {
		return 0, fmt.Errorf("%w: (%d, %d)", model.ErrOutOfBounds, c.X, c.Y)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cells[s.index(c)], nil
}

// Snapshot copies the whole grid at a single point in time
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	cells := make([]model.Color, len(s.cells))
	copy(cells, s.cells)
	s.mu.RUnlock()

	return Snapshot{
		width:  s.width,
		height: s.height,
		cells:  cells,
	}
}

// Reset sets every cell back to the default color
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cells {
		s.cells[i] = model.DefaultColor
	}
}

func (s *Store) index(c model.Coordinate) int {
	return c.Y*s.width + c.X
}

// Snapshot is an immutable copy of the grid
type Snapshot struct {
	width  int
	height int
	cells  []model.Color
}

// Width returns the number of columns
func (s Snapshot) Width() int {
	return s.width
}

// Height returns the number of rows
func (s Snapshot) Height() int {
	return s.height
}

// At returns the color at the coordinate, or DefaultColor if out of bounds
func (s Snapshot) At(c model.Coordinate) model.Color {
	if !c.InBounds(s.width, s.height) {
		return model.DefaultColor
	}
	return s.cells[c.Y*s.width+c.X]
}

// Rows returns the grid as hex strings indexed [y][x]
func (s Snapshot) Rows() [][]string {
	rows := make([][]string, s.height)
	for y := 0; y < s.height; y++ {
		row := make([]string, s.width)
		for x := 0; x < s.width; x++ {
			row[x] = s.cells[y*s.width+x].Hex()
		}
		rows[y] = row
	}
	return rows
}

// Equal returns true if both snapshots have the same dimensions and colors
func (s Snapshot) Equal(other Snapshot) bool {
	if s.width != other.width || s.height != other.height {
		return false
	}
	for i := range s.cells {
		if s.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}
