package rules

import "time"

const statsWindow = 100

// Stats summarises the engine's work so far.
type Stats struct {
	Ticks          int           `json:"ticks"`
	FoodSpawned    int           `json:"food_spawned"`
	HeadCollisions int           `json:"head_collisions"`
	AvgStep        time.Duration `json:"avg_step"`
}

type stepStats struct {
	ticks          int
	foodSpawned    int
	headCollisions int

	window [statsWindow]time.Duration
	next   int
	filled int
	sum    time.Duration
}

// record adds one step duration to the rolling window.
func (s *stepStats) record(d time.Duration) {
	s.ticks++
	if s.filled == statsWindow {
		s.sum -= s.window[s.next]
	} else {
		s.filled++
	}
	s.window[s.next] = d
	s.sum += d
	s.next = (s.next + 1) % statsWindow
}

func (s *stepStats) export() Stats {
	out := Stats{Ticks: s.ticks, FoodSpawned: s.foodSpawned, HeadCollisions: s.headCollisions}
	if s.filled > 0 {
		out.AvgStep = s.sum / time.Duration(s.filled)
	}
	return out
}
