// Package game defines the core match types shared by the pathfinder, the
// strategies and the rules engine.
//
// Snapshot is the read-only view handed to strategies and renderers. It is a
// deep copy, so holders may keep it across ticks.
package game

import (
	"encoding/json"
	"fmt"
)

// Phase is the match lifecycle. PhaseGameOver is absorbing.
type Phase uint8

const (
	PhaseRunning Phase = iota
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game-over"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error { return unmarshalEnum(p, b, 2, "phase") }

// Snapshot is the complete state needed by strategies and renderers.
type Snapshot struct {
	Grid    Grid     `json:"-"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Snakes  [2]Snake `json:"snakes"`
	Food    Point    `json:"food"`
	HasFood bool     `json:"has_food"`
	Tick    int      `json:"tick"`
	Phase   Phase    `json:"phase"`
	Result  *Result  `json:"result,omitempty"`
}

type snapshotFields Snapshot

// snapshotJSON adds the neighbour order, which Grid does not carry on the
// wire, so a decoded snapshot can be handed straight to a strategy.
type snapshotJSON struct {
	snapshotFields
	DirectionOrder [4]Direction `json:"direction_order"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	order := s.Grid.Order
	if !ValidOrder(order) {
		order = Directions
	}
	return json.Marshal(snapshotJSON{snapshotFields: snapshotFields(s), DirectionOrder: order})
}

// UnmarshalJSON rebuilds Grid from the board size and the direction order.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var w snapshotJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = Snapshot(w.snapshotFields)
	if !ValidOrder(w.DirectionOrder) {
		w.DirectionOrder = Directions
	}
	s.Grid = Grid{Width: s.Width, Height: s.Height, Order: w.DirectionOrder}
	return nil
}

// Clone performs a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	for i := range s.Snakes {
		out.Snakes[i] = s.Snakes[i].Clone()
	}
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	return out
}

// Snake returns the snake with the given id.
func (s *Snapshot) Snake(id string) (*Snake, bool) {
	for i := range s.Snakes {
		if s.Snakes[i].ID == id {
			return &s.Snakes[i], true
		}
	}
	return nil, false
}

// Opponent returns the snake that is not id.
func (s *Snapshot) Opponent(id string) (*Snake, bool) {
	for i := range s.Snakes {
		if s.Snakes[i].ID != id {
			return &s.Snakes[i], true
		}
	}
	return nil, false
}

// TailVacates reports whether sn's tail cell is certain to be empty after
// this tick: it must be alive, have no growth queued, and be unable to reach
// the food in one move.
func (s *Snapshot) TailVacates(sn *Snake) bool {
	if !sn.Alive || sn.PendingGrowth > 0 {
		return false
	}
	if s.HasFood && Manhattan(sn.Head(), s.Food) == 1 {
		return false
	}
	return true
}

// Obstacles is every occupied cell minus the tails that vacate this tick.
// The set is the same from either snake's point of view.
func (s *Snapshot) Obstacles() *CellSet {
	set := NewCellSet(s.Grid)
	for i := range s.Snakes {
		sn := &s.Snakes[i]
		if len(sn.Body) == 0 {
			continue
		}
		body := sn.Body
		if s.TailVacates(sn) {
			body = body[:len(body)-1]
		}
		for _, p := range body {
			set.Add(p)
		}
	}
	return set
}

// Occupied is every snake cell, dead or alive.
func (s *Snapshot) Occupied() *CellSet {
	set := NewCellSet(s.Grid)
	for i := range s.Snakes {
		for _, p := range s.Snakes[i].Body {
			set.Add(p)
		}
	}
	return set
}

// AliveCount is the number of snakes still moving.
func (s *Snapshot) AliveCount() int {
	n := 0
	for i := range s.Snakes {
		if s.Snakes[i].Alive {
			n++
		}
	}
	return n
}
