package game

import "fmt"

// DeathCause says why a snake died. The zero value means it is alive.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseWall
	CauseSelf
	CauseHeadToHead
	CauseHeadToBody
)

var causeNames = [...]string{"", "wall", "self", "head-to-head", "head-to-body"}

func (c DeathCause) String() string {
	if int(c) < len(causeNames) {
		return causeNames[c]
	}
	return fmt.Sprintf("cause(%d)", uint8(c))
}

func (c DeathCause) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *DeathCause) UnmarshalText(b []byte) error { return unmarshalEnum(c, b, 5, "death cause") }

// Outcome classifies a finished match.
type Outcome uint8

const (
	OutcomeWinner Outcome = iota
	OutcomeTie
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWinner:
		return "winner"
	case OutcomeTie:
		return "tie"
	case OutcomeDraw:
		return "draw"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Outcome) UnmarshalText(b []byte) error { return unmarshalEnum(o, b, 3, "outcome") }

// EndReason records which terminal condition fired.
type EndReason uint8

const (
	EndLastStanding EndReason = iota
	EndAllDead
	EndBoardFull
)

func (r EndReason) String() string {
	switch r {
	case EndLastStanding:
		return "last-standing"
	case EndAllDead:
		return "all-dead"
	case EndBoardFull:
		return "board-full"
	}
	return fmt.Sprintf("reason(%d)", uint8(r))
}

func (r EndReason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *EndReason) UnmarshalText(b []byte) error { return unmarshalEnum(r, b, 3, "end reason") }

// Result is the terminal outcome. WinnerID is empty unless Outcome is OutcomeWinner.
type Result struct {
	Outcome  Outcome   `json:"outcome"`
	WinnerID string    `json:"winner_id,omitempty"`
	Reason   EndReason `json:"reason"`
}

func (r Result) String() string {
	if r.Outcome == OutcomeWinner {
		return fmt.Sprintf("%s wins (%s)", r.WinnerID, r.Reason)
	}
	return fmt.Sprintf("%s (%s)", r.Outcome, r.Reason)
}

// EventKind enumerates the per-tick events.
type EventKind uint8

const (
	EventFoodEaten EventKind = iota
	EventSnakeDied
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventFoodEaten:
		return "food-eaten"
	case EventSnakeDied:
		return "snake-died"
	case EventGameOver:
		return "game-over"
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *EventKind) UnmarshalText(b []byte) error { return unmarshalEnum(k, b, 3, "event kind") }

// Event is a discrete thing that happened during a tick.
type Event struct {
	Kind    EventKind  `json:"kind"`
	SnakeID string     `json:"snake_id,omitempty"`
	Cause   DeathCause `json:"cause,omitempty"`
	Result  *Result    `json:"result,omitempty"`
}

func FoodEaten(id string) Event { return Event{Kind: EventFoodEaten, SnakeID: id} }

func SnakeDied(id string, cause DeathCause) Event {
	return Event{Kind: EventSnakeDied, SnakeID: id, Cause: cause}
}

func GameOver(r Result) Event { return Event{Kind: EventGameOver, Result: &r} }

func (e Event) String() string {
	switch e.Kind {
	case EventFoodEaten:
		return fmt.Sprintf("FoodEaten{%s}", e.SnakeID)
	case EventSnakeDied:
		return fmt.Sprintf("SnakeDied{%s, %s}", e.SnakeID, e.Cause)
	case EventGameOver:
		if e.Result != nil {
			return fmt.Sprintf("GameOver{%s}", e.Result)
		}
	}
	return e.Kind.String()
}

// unmarshalEnum sets dst to the value below n whose name is b.
func unmarshalEnum[T interface {
	~uint8
	String() string
}](dst *T, b []byte, n int, kind string) error {
	for i := 0; i < n; i++ {
		if v := T(i); v.String() == string(b) {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", kind, b)
}
