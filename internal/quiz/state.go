package quiz

import (
	"time"

	"github.com/google/uuid"
)

// Mode enumerates the session flavors.
type Mode string

const (
	ModePractice  Mode = "PRACTICE"
	ModeTimedTest Mode = "TIMED_TEST"
	ModeGrandTest Mode = "GRAND_TEST"
)

// Marking is the combined answered/flagged status of one question within a
// session. The four states are mutually exclusive; a question carries
// MarkingAnswered or MarkingMarkedAnswered exactly when an answer entry
// exists for it.
type Marking int

const (
	MarkingUnseen Marking = iota
	MarkingAnswered
	MarkingMarkedAnswered
	MarkingMarkedUnanswered
)

func (m Marking) String() string {
	switch m {
	case MarkingAnswered:
		return "ANSWERED"
	case MarkingMarkedAnswered:
		return "MARKED_ANSWERED"
	case MarkingMarkedUnanswered:
		return "MARKED_UNANSWERED"
	default:
		return "UNSEEN"
	}
}

// answered reports whether this marking implies a recorded answer.
func (m Marking) answered() bool {
	return m == MarkingAnswered || m == MarkingMarkedAnswered
}

// State is the mutable per-session state. It is owned exclusively by one
// Controller and must not be mutated by callers.
type State struct {
	Pool            *Pool
	Mode            Mode
	CurrentIndex    int
	Answers         map[uuid.UUID]int
	Markings        map[uuid.UUID]Marking
	Bookmarks       map[uuid.UUID]bool
	DurationSeconds int
	TimeLeftSeconds int
	StartedAt       time.Time
}

func newState(pool *Pool, mode Mode, durationSeconds int, now time.Time) *State {
	st := &State{
		Pool:            pool,
		Mode:            mode,
		Answers:         make(map[uuid.UUID]int),
		Markings:        make(map[uuid.UUID]Marking, pool.Len()),
		Bookmarks:       make(map[uuid.UUID]bool),
		DurationSeconds: durationSeconds,
		TimeLeftSeconds: durationSeconds,
		StartedAt:       now,
	}
	for _, id := range pool.IDs() {
		st.Markings[id] = MarkingUnseen
	}
	return st
}

// Snapshot is the serializable projection of a paused session. Remaining
// time is stored as-is: the countdown is session-relative, not
// deadline-based, so a resumed session picks up exactly where it paused.
type Snapshot struct {
	QuestionIDs     []uuid.UUID       `json:"question_ids"`
	Mode            Mode              `json:"mode"`
	CurrentIndex    int               `json:"current_index"`
	Answers         map[uuid.UUID]int `json:"answers"`
	Markings        map[uuid.UUID]int `json:"markings"`
	Bookmarks       []uuid.UUID       `json:"bookmarks"`
	DurationSeconds int               `json:"duration_seconds"`
	TimeLeftSeconds int               `json:"time_left_seconds"`
	StartedAt       time.Time         `json:"started_at"`
}

func (s *State) snapshot() *Snapshot {
	snap := &Snapshot{
		QuestionIDs:     s.Pool.IDs(),
		Mode:            s.Mode,
		CurrentIndex:    s.CurrentIndex,
		Answers:         make(map[uuid.UUID]int, len(s.Answers)),
		Markings:        make(map[uuid.UUID]int, len(s.Markings)),
		DurationSeconds: s.DurationSeconds,
		TimeLeftSeconds: s.TimeLeftSeconds,
		StartedAt:       s.StartedAt,
	}
	for id, opt := range s.Answers {
		snap.Answers[id] = opt
	}
	for id, m := range s.Markings {
		snap.Markings[id] = int(m)
	}
	for id, set := range s.Bookmarks {
		if set {
			snap.Bookmarks = append(snap.Bookmarks, id)
		}
	}
	return snap
}

func stateFromSnapshot(snap *Snapshot, pool *Pool) *State {
	st := &State{
		Pool:            pool,
		Mode:            snap.Mode,
		CurrentIndex:    snap.CurrentIndex,
		Answers:         make(map[uuid.UUID]int, len(snap.Answers)),
		Markings:        make(map[uuid.UUID]Marking, len(snap.Markings)),
		Bookmarks:       make(map[uuid.UUID]bool, len(snap.Bookmarks)),
		DurationSeconds: snap.DurationSeconds,
		TimeLeftSeconds: snap.TimeLeftSeconds,
		StartedAt:       snap.StartedAt,
	}
	for id, opt := range snap.Answers {
		st.Answers[id] = opt
	}
	for id, m := range snap.Markings {
		st.Markings[id] = Marking(m)
	}
	for _, id := range snap.Bookmarks {
		st.Bookmarks[id] = true
	}
	return st
}
