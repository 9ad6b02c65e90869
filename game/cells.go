package game

// CellSet is a dense set of board cells. A nil set is empty.
type CellSet struct {
	grid  Grid
	cells []bool
	n     int
}

func NewCellSet(g Grid) *CellSet {
	return &CellSet{grid: g, cells: make([]bool, g.Size())}
}

// Has reports membership. Out-of-bounds points are never members.
func (s *CellSet) Has(p Point) bool {
	if s == nil || !s.grid.Contains(p) {
		return false
	}
	return s.cells[s.grid.Index(p)]
}

func (s *CellSet) Add(p Point) {
	if !s.grid.Contains(p) {
		return
	}
	i := s.grid.Index(p)
	if !s.cells[i] {
		s.cells[i] = true
		s.n++
	}
}

func (s *CellSet) Remove(p Point) {
	if !s.grid.Contains(p) {
		return
	}
	i := s.grid.Index(p)
	if s.cells[i] {
		s.cells[i] = false
		s.n--
	}
}

func (s *CellSet) Len() int {
	if s == nil {
		return 0
	}
	return s.n
}

func (s *CellSet) Clone() *CellSet {
	if s == nil {
		return nil
	}
	out := &CellSet{grid: s.grid, cells: make([]bool, len(s.cells)), n: s.n}
	copy(out.cells, s.cells)
	return out
}
