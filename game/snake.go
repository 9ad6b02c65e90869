package game

// Snake is one competitor. Body is head-first.
type Snake struct {
	ID            string     `json:"id"`
	Body          []Point    `json:"body"`
	Direction     Direction  `json:"direction"`
	Alive         bool       `json:"alive"`
	Score         int        `json:"score"`
	PendingGrowth int        `json:"pending_growth"`
	Death         DeathCause `json:"death,omitempty"`
	Policy        Policy     `json:"policy"`
}

func (s *Snake) Head() Point { return s.Body[0] }

func (s *Snake) Tail() Point { return s.Body[len(s.Body)-1] }

func (s *Snake) Len() int { return len(s.Body) }

// Occupies reports whether any segment sits on p.
func (s *Snake) Occupies(p Point) bool {
	for _, b := range s.Body {
		if b == p {
			return true
		}
	}
	return false
}

// Advance moves the head to head. When PendingGrowth is positive the tail is
// kept and the counter drops by one, otherwise the tail is removed.
func (s *Snake) Advance(head Point) {
	body := make([]Point, 0, len(s.Body)+1)
	body = append(body, head)
	body = append(body, s.Body...)
	if s.PendingGrowth > 0 {
		s.PendingGrowth--
	} else {
		body = body[:len(body)-1]
	}
	s.Body = body
}

// Grow schedules n extra segments.
func (s *Snake) Grow(n int) { s.PendingGrowth += n }

// Kill freezes the snake in place.
func (s *Snake) Kill(cause DeathCause) {
	s.Alive = false
	s.Death = cause
}

// CanTurn reports whether d is not an instant reversal into the neck.
func (s *Snake) CanTurn(d Direction) bool {
	return len(s.Body) <= 1 || d != s.Direction.Opposite()
}

func (s Snake) Clone() Snake {
	out := s
	if s.Body != nil {
		out.Body = make([]Point, len(s.Body))
		copy(out.Body, s.Body)
	}
	return out
}
