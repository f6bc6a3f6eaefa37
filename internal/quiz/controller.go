package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medprep/neetpg-backend/internal/model"
)

var (
	// ErrSessionConflict is returned by Start when a saved or in-progress
	// session already exists. The existing session must be resumed or
	// submitted first — it is never silently overwritten.
	ErrSessionConflict = errors.New("a saved or active session already exists")

	// ErrSnapshotNotFound is returned by Resume when no snapshot is saved.
	ErrSnapshotNotFound = errors.New("no saved session snapshot exists")

	// ErrSessionTerminated is returned by any mutator invoked after Submit.
	// It indicates a stale reference in the host; the session instance is
	// unusable beyond reading its results.
	ErrSessionTerminated = errors.New("session has already been submitted")

	// ErrSessionNotActive is returned by mutators while the session is
	// paused or not yet started.
	ErrSessionNotActive = errors.New("session is not active")

	// ErrInvalidSelection is returned by SelectAnswer for an option index
	// outside the question's option range, or a question not in the pool.
	ErrInvalidSelection = errors.New("invalid answer selection")

	// ErrEmptyPool is returned by Start when the pool has no questions.
	ErrEmptyPool = errors.New("question pool is empty")
)

// Phase is the controller's lifecycle position.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseActive
	PhasePaused
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "ACTIVE"
	case PhasePaused:
		return "PAUSED"
	case PhaseSubmitted:
		return "SUBMITTED"
	default:
		return "NOT_STARTED"
	}
}

// Gateway persists at most one session snapshot. Save overwrites any prior
// snapshot; Load returns (nil, nil) when none exists.
type Gateway interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
	Clear(ctx context.Context) error
}

// Controller is the sole owner and mutator of a session's State. It
// enforces the marking invariant (a question is ANSWERED/MARKED_ANSWERED
// exactly when an answer entry exists) and session exclusivity via the
// gateway's single snapshot slot.
//
// The controller is not safe for concurrent use; callers must serialize
// access. Every operation is synchronous — the one-second countdown is
// driven externally through Tick.
type Controller struct {
	gateway Gateway
	phase   Phase
	state   *State
	results *ResultsSummary
	now     func() time.Time
}

// NewController creates a controller bound to a snapshot gateway.
func NewController(gateway Gateway) *Controller {
	return &Controller{
		gateway: gateway,
		now:     time.Now,
	}
}

// Start begins a new session over the given pool. It fails with
// ErrSessionConflict while an earlier session is active, paused, or saved
// in the gateway. A controller whose previous session was submitted may
// start a fresh one; the prior results remain readable until then.
func (c *Controller) Start(ctx context.Context, pool *Pool, mode Mode, durationSeconds int) (*State, error) {
	if c.phase == PhaseActive || c.phase == PhasePaused {
		return nil, ErrSessionConflict
	}
	if pool == nil || pool.Len() == 0 {
		return nil, ErrEmptyPool
	}

	saved, err := c.gateway.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("check saved session: %w", err)
	}
	if saved != nil {
		return nil, ErrSessionConflict
	}

	c.state = newState(pool, mode, durationSeconds, c.now())
	c.results = nil
	c.phase = PhaseActive
	return c.state, nil
}

// GoTo moves the navigation cursor. Out-of-range indices are clamped to
// the nearest valid position rather than rejected, so palette-driven
// navigation never errors. No-op unless the session is active.
func (c *Controller) GoTo(index int) {
	if c.phase != PhaseActive {
		return
	}
	if index < 0 {
		index = 0
	}
	if max := c.state.Pool.Len() - 1; index > max {
		index = max
	}
	c.state.CurrentIndex = index
}

// SelectAnswer records the chosen option for a question and promotes its
// marking. Re-selecting simply overwrites the previous choice.
func (c *Controller) SelectAnswer(questionID uuid.UUID, optionIndex int) error {
	if err := c.requireActive(); err != nil {
		return err
	}

	q, ok := c.state.Pool.Find(questionID)
	if !ok {
		return fmt.Errorf("%w: question %s not in pool", ErrInvalidSelection, questionID)
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return fmt.Errorf("%w: option %d of %d", ErrInvalidSelection, optionIndex, len(q.Options))
	}

	c.state.Answers[questionID] = optionIndex
	switch c.state.Markings[questionID] {
	case MarkingUnseen:
		c.state.Markings[questionID] = MarkingAnswered
	case MarkingMarkedUnanswered:
		c.state.Markings[questionID] = MarkingMarkedAnswered
	}
	return nil
}

// ToggleMarkForReview flips the review flag, preserving answered-ness.
func (c *Controller) ToggleMarkForReview(questionID uuid.UUID) error {
	if err := c.requireActive(); err != nil {
		return err
	}

	switch c.state.Markings[questionID] {
	case MarkingUnseen:
		c.state.Markings[questionID] = MarkingMarkedUnanswered
	case MarkingAnswered:
		c.state.Markings[questionID] = MarkingMarkedAnswered
	case MarkingMarkedAnswered:
		c.state.Markings[questionID] = MarkingAnswered
	case MarkingMarkedUnanswered:
		c.state.Markings[questionID] = MarkingUnseen
	}
	return nil
}

// ClearAnswer removes the recorded answer and demotes the marking. No-op
// when nothing is recorded.
func (c *Controller) ClearAnswer(questionID uuid.UUID) error {
	if err := c.requireActive(); err != nil {
		return err
	}

	delete(c.state.Answers, questionID)
	switch c.state.Markings[questionID] {
	case MarkingAnswered:
		c.state.Markings[questionID] = MarkingUnseen
	case MarkingMarkedAnswered:
		c.state.Markings[questionID] = MarkingMarkedUnanswered
	}
	return nil
}

// ToggleBookmark flips a question's bookmark. Bookmarks are independent of
// marking and have no scoring effect.
func (c *Controller) ToggleBookmark(questionID uuid.UUID) error {
	if err := c.requireActive(); err != nil {
		return err
	}

	if c.state.Bookmarks[questionID] {
		delete(c.state.Bookmarks, questionID)
	} else {
		c.state.Bookmarks[questionID] = true
	}
	return nil
}

// Tick consumes one second of the countdown. When the counter runs out
// the session submits itself synchronously, exactly once; later ticks
// are no-ops. The final second is only consumed once that submit lands,
// so a failed gateway clear leaves the session expiring and the next
// tick retries. Sessions with no countdown (practice mode started with
// duration 0) are never expired by Tick.
func (c *Controller) Tick(ctx context.Context) error {
	if c.phase != PhaseActive {
		return nil
	}
	if c.state.TimeLeftSeconds <= 0 {
		return nil
	}

	if c.state.TimeLeftSeconds == 1 {
		if _, err := c.Submit(ctx); err != nil {
			return err
		}
		c.state.TimeLeftSeconds = 0
		return nil
	}

	c.state.TimeLeftSeconds--
	return nil
}

// PauseAndSave deactivates the session and persists its snapshot. The
// saved snapshot keeps blocking new starts until resumed or submitted.
func (c *Controller) PauseAndSave(ctx context.Context) (*Snapshot, error) {
	if c.phase == PhaseSubmitted {
		return nil, ErrSessionTerminated
	}
	if c.phase != PhaseActive {
		return nil, ErrSessionNotActive
	}

	snap := c.state.snapshot()
	if err := c.gateway.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	c.phase = PhasePaused
	return snap, nil
}

// Resume rehydrates the saved session from the gateway. The corpus is
// needed to resolve the snapshot's question IDs back into full questions;
// the recorded ID sequence is replayed verbatim.
func (c *Controller) Resume(ctx context.Context, corpus []model.Question) (*State, error) {
	if c.phase == PhaseActive {
		return nil, ErrSessionConflict
	}
	if c.phase == PhaseSubmitted {
		return nil, ErrSessionTerminated
	}

	snap, err := c.gateway.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return nil, ErrSnapshotNotFound
	}

	pool, err := RebuildPool(corpus, snap.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("rebuild pool: %w", err)
	}

	c.state = stateFromSnapshot(snap, pool)
	c.results = nil
	c.phase = PhaseActive
	return c.state, nil
}

// Submit finalizes the session, releases the saved-session slot and
// computes the results summary. Valid from the active or paused state; a
// second Submit fails with ErrSessionTerminated and leaves the original
// results untouched.
func (c *Controller) Submit(ctx context.Context) (*ResultsSummary, error) {
	switch c.phase {
	case PhaseSubmitted:
		return nil, ErrSessionTerminated
	case PhaseNotStarted:
		return nil, ErrSessionNotActive
	}

	if err := c.gateway.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear saved session: %w", err)
	}

	summary := Score(c.state.Pool, c.state)
	c.results = &summary
	c.phase = PhaseSubmitted
	return c.results, nil
}

// ─── Read-only accessors ────────────────────────────────────────────

// Phase returns the controller's lifecycle position.
func (c *Controller) Phase() Phase { return c.phase }

// IsActive reports whether the session accepts mutations.
func (c *Controller) IsActive() bool { return c.phase == PhaseActive }

// State exposes the session state for rendering. Callers must treat it as
// read-only.
func (c *Controller) State() *State { return c.state }

// Results returns the summary of the submitted session, or nil.
func (c *Controller) Results() *ResultsSummary { return c.results }

// CurrentQuestion returns the question under the navigation cursor.
func (c *Controller) CurrentQuestion() (model.Question, bool) {
	if c.state == nil || c.state.Pool.Len() == 0 {
		return model.Question{}, false
	}
	return c.state.Pool.Question(c.state.CurrentIndex), true
}

// MarkingFor returns the current marking of one question.
func (c *Controller) MarkingFor(questionID uuid.UUID) Marking {
	if c.state == nil {
		return MarkingUnseen
	}
	return c.state.Markings[questionID]
}

// TimeLeft returns the remaining countdown in seconds.
func (c *Controller) TimeLeft() int {
	if c.state == nil {
		return 0
	}
	return c.state.TimeLeftSeconds
}

func (c *Controller) requireActive() error {
	switch c.phase {
	case PhaseSubmitted:
		return ErrSessionTerminated
	case PhaseActive:
		return nil
	default:
		return ErrSessionNotActive
	}
}
