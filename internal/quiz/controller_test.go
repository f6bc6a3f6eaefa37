package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/medprep/neetpg-backend/internal/model"
)

func testQuestions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			ID:            uuid.New(),
			Text:          fmt.Sprintf("Question %d", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectOption: i % 4,
			Subject:       "Medicine",
		}
	}
	return qs
}

func startSession(t *testing.T, n, duration int) *Controller {
	t.Helper()
	ctrl := NewController(NewMemoryGateway())
	if _, err := ctrl.Start(context.Background(), NewPool(testQuestions(n)), ModeTimedTest, duration); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return ctrl
}

// checkMarkingInvariant verifies that a question is marked as answered
// exactly when an answer entry exists for it.
func checkMarkingInvariant(t *testing.T, st *State) {
	t.Helper()
	for _, id := range st.Pool.IDs() {
		_, hasAnswer := st.Answers[id]
		marking := st.Markings[id]
		if marking.answered() != hasAnswer {
			t.Errorf("invariant violated for %s: marking=%s, answer present=%v", id, marking, hasAnswer)
		}
	}
}

func TestStart_EmptyPool(t *testing.T) {
	ctrl := NewController(NewMemoryGateway())
	if _, err := ctrl.Start(context.Background(), NewPool(nil), ModePractice, 0); !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
}

func TestStart_InitialState(t *testing.T) {
	ctrl := startSession(t, 4, 240)
	st := ctrl.State()

	if st.CurrentIndex != 0 {
		t.Errorf("expected currentIndex 0, got %d", st.CurrentIndex)
	}
	if st.TimeLeftSeconds != 240 {
		t.Errorf("expected 240s left, got %d", st.TimeLeftSeconds)
	}
	if !ctrl.IsActive() {
		t.Error("expected session to be active")
	}
	for _, id := range st.Pool.IDs() {
		if st.Markings[id] != MarkingUnseen {
			t.Errorf("expected UNSEEN marking for %s, got %s", id, st.Markings[id])
		}
	}
	checkMarkingInvariant(t, st)
}

func TestSelectAnswer_PromotesMarking(t *testing.T) {
	ctrl := startSession(t, 4, 240)
	st := ctrl.State()
	qid := st.Pool.Question(0).ID

	if err := ctrl.SelectAnswer(qid, 1); err != nil {
		t.Fatalf("SelectAnswer failed: %v", err)
	}
	if st.Markings[qid] != MarkingAnswered {
		t.Errorf("expected ANSWERED, got %s", st.Markings[qid])
	}

	// Overwriting with a different option keeps no history.
	if err := ctrl.SelectAnswer(qid, 3); err != nil {
		t.Fatalf("re-select failed: %v", err)
	}
	if st.Answers[qid] != 3 {
		t.Errorf("expected answer 3, got %d", st.Answers[qid])
	}
	checkMarkingInvariant(t, st)
}

func TestSelectAnswer_OnMarkedQuestion(t *testing.T) {
	ctrl := startSession(t, 4, 240)
	st := ctrl.State()
	qid := st.Pool.Question(1).ID

	if err := ctrl.ToggleMarkForReview(qid); err != nil {
		t.Fatal(err)
	}
	if st.Markings[qid] != MarkingMarkedUnanswered {
		t.Fatalf("expected MARKED_UNANSWERED, got %s", st.Markings[qid])
	}

	if err := ctrl.SelectAnswer(qid, 0); err != nil {
		t.Fatal(err)
	}
	if st.Markings[qid] != MarkingMarkedAnswered {
		t.Errorf("expected MARKED_ANSWERED, got %s", st.Markings[qid])
	}
	checkMarkingInvariant(t, st)
}

func TestSelectAnswer_InvalidOption(t *testing.T) {
	ctrl := startSession(t, 4, 240)
	qid := ctrl.State().Pool.Question(0).ID

	if err := ctrl.SelectAnswer(qid, 4); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("expected ErrInvalidSelection for index 4, got %v", err)
	}
	if err := ctrl.SelectAnswer(qid, -1); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("expected ErrInvalidSelection for index -1, got %v", err)
	}
	if err := ctrl.SelectAnswer(uuid.New(), 0); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("expected ErrInvalidSelection for unknown question, got %v", err)
	}
	checkMarkingInvariant(t, ctrl.State())
}

// Scenario E: toggling review twice on an unseen question round-trips
// through MARKED_UNANSWERED back to UNSEEN.
func TestToggleMarkForReview_RoundTripsUnseen(t *testing.T) {
	ctrl := startSession(t, 4, 240)
	st := ctrl.State()
	qid := st.Pool.Question(2).ID

	if err := ctrl.ToggleMarkForReview(qid); err != nil {
		t.Fatal(err)
	}
	if st.Markings[qid] != MarkingMarkedUnanswered {
		t.Fatalf("expected MARKED_UNANSWERED, got %s", st.Markings[qid])
	}

	if err := ctrl.ToggleMarkForReview(qid); err != nil {
		t.Fatal(err)
	}
	if st.Markings[qid] != MarkingUnseen {
		t.Errorf("expected UNSEEN after double toggle, got %s", st.Markings[qid])
	}
	checkMarkingInvariant(t, st)
}

func TestClearAnswer_DemotesMarking(t *testing.T) {
	ctrl := startSession(t, 4, 240)
	st := ctrl.State()
	qid := st.Pool.Question(0).ID

	// ANSWERED → UNSEEN
	if err := ctrl.SelectAnswer(qid, 0); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.ClearAnswer(qid); err != nil {
		t.Fatal(err)
	}
	if st.Markings[qid] != MarkingUnseen {
		t.Errorf("expected UNSEEN, got %s", st.Markings[qid])
	}

	// MARKED_ANSWERED → MARKED_UNANSWERED
	if err := ctrl.SelectAnswer(qid, 0); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.ToggleMarkForReview(qid); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.ClearAnswer(qid); err != nil {
		t.Fatal(err)
	}
	if st.Markings[qid] != MarkingMarkedUnanswered {
		t.Errorf("expected MARKED_UNANSWERED, got %s", st.Markings[qid])
	}

	// Clearing with nothing recorded is a no-op.
	if err := ctrl.ClearAnswer(st.Pool.Question(3).ID); err != nil {
		t.Errorf("expected no-op clear, got %v", err)
	}
	checkMarkingInvariant(t, st)
}

func TestToggleBookmark_IndependentOfMarking(t *testing.T) {
	ctrl := startSession(t, 4, 240)
	st := ctrl.State()
	qid := st.Pool.Question(1).ID

	if err := ctrl.ToggleBookmark(qid); err != nil {
		t.Fatal(err)
	}
	if !st.Bookmarks[qid] {
		t.Error("expected bookmark set")
	}
	if st.Markings[qid] != MarkingUnseen {
		t.Errorf("bookmark must not affect marking, got %s", st.Markings[qid])
	}

	if err := ctrl.ToggleBookmark(qid); err != nil {
		t.Fatal(err)
	}
	if st.Bookmarks[qid] {
		t.Error("expected bookmark cleared")
	}
}

func TestGoTo_Clamps(t *testing.T) {
	ctrl := startSession(t, 5, 300)

	ctrl.GoTo(3)
	if got := ctrl.State().CurrentIndex; got != 3 {
		t.Errorf("expected index 3, got %d", got)
	}

	ctrl.GoTo(99)
	if got := ctrl.State().CurrentIndex; got != 4 {
		t.Errorf("expected clamp to 4, got %d", got)
	}

	ctrl.GoTo(-7)
	if got := ctrl.State().CurrentIndex; got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
}

// Scenario A: all four answered correctly.
func TestSubmit_AllCorrect(t *testing.T) {
	ctrl := startSession(t, 4, 240)
	st := ctrl.State()

	for i := 0; i < 4; i++ {
		q := st.Pool.Question(i)
		if err := ctrl.SelectAnswer(q.ID, q.CorrectOption); err != nil {
			t.Fatal(err)
		}
	}

	res, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	want := ResultsSummary{Score: 16, Correct: 4, Incorrect: 0, Attempted: 4, TotalQuestions: 4}
	if res.Score != want.Score || res.Correct != want.Correct || res.Incorrect != want.Incorrect ||
		res.Attempted != want.Attempted || res.TotalQuestions != want.TotalQuestions {
		t.Errorf("got %+v, want %+v", res, want)
	}
}

// Scenario B: 2 correct, 1 incorrect, 1 unattempted.
func TestSubmit_MixedOutcome(t *testing.T) {
	ctrl := startSession(t, 4, 240)
	st := ctrl.State()

	q0, q1, q2 := st.Pool.Question(0), st.Pool.Question(1), st.Pool.Question(2)
	if err := ctrl.SelectAnswer(q0.ID, q0.CorrectOption); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.SelectAnswer(q1.ID, q1.CorrectOption); err != nil {
		t.Fatal(err)
	}
	wrong := (q2.CorrectOption + 1) % len(q2.Options)
	if err := ctrl.SelectAnswer(q2.ID, wrong); err != nil {
		t.Fatal(err)
	}

	res, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if res.Score != 7 || res.Correct != 2 || res.Incorrect != 1 || res.Attempted != 3 || res.TotalQuestions != 4 {
		t.Errorf("got %+v, want score=7 correct=2 incorrect=1 attempted=3 total=4", res)
	}
}

// Scenario C: timer expiry on an untouched session auto-submits.
func TestTick_ExpiryAutoSubmits(t *testing.T) {
	ctrl := startSession(t, 5, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := ctrl.Tick(ctx); err != nil {
			t.Fatalf("tick %d failed: %v", i, err)
		}
	}

	if ctrl.Phase() != PhaseSubmitted {
		t.Fatalf("expected SUBMITTED after expiry, got %s", ctrl.Phase())
	}

	res := ctrl.Results()
	if res == nil {
		t.Fatal("expected results after auto-submit")
	}
	if res.Attempted != 0 || res.Score != 0 {
		t.Errorf("expected attempted=0 score=0, got %+v", res)
	}

	// Further ticks are no-ops.
	if err := ctrl.Tick(ctx); err != nil {
		t.Errorf("post-submit tick must be a no-op, got %v", err)
	}
}

func TestSubmit_SecondCallFails(t *testing.T) {
	ctrl := startSession(t, 4, 240)
	ctx := context.Background()

	first, err := ctrl.Submit(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ctrl.Submit(ctx); !errors.Is(err, ErrSessionTerminated) {
		t.Fatalf("expected ErrSessionTerminated, got %v", err)
	}

	// The original summary is untouched.
	if again := ctrl.Results(); again != first {
		t.Error("results changed after failed re-submit")
	}
}

func TestMutatorsAfterSubmit_Fail(t *testing.T) {
	ctrl := startSession(t, 4, 240)
	ctx := context.Background()
	qid := ctrl.State().Pool.Question(0).ID

	if _, err := ctrl.Submit(ctx); err != nil {
		t.Fatal(err)
	}

	if err := ctrl.SelectAnswer(qid, 0); !errors.Is(err, ErrSessionTerminated) {
		t.Errorf("SelectAnswer: expected ErrSessionTerminated, got %v", err)
	}
	if err := ctrl.ToggleMarkForReview(qid); !errors.Is(err, ErrSessionTerminated) {
		t.Errorf("ToggleMarkForReview: expected ErrSessionTerminated, got %v", err)
	}
	if err := ctrl.ClearAnswer(qid); !errors.Is(err, ErrSessionTerminated) {
		t.Errorf("ClearAnswer: expected ErrSessionTerminated, got %v", err)
	}
	if _, err := ctrl.PauseAndSave(ctx); !errors.Is(err, ErrSessionTerminated) {
		t.Errorf("PauseAndSave: expected ErrSessionTerminated, got %v", err)
	}
}

// Scenario D: a saved snapshot blocks Start; after resume+submit a fresh
// start succeeds.
func TestSessionExclusivity(t *testing.T) {
	ctx := context.Background()
	gateway := NewMemoryGateway()
	corpus := testQuestions(4)

	ctrl := NewController(gateway)
	if _, err := ctrl.Start(ctx, NewPool(corpus), ModeTimedTest, 240); err != nil {
		t.Fatal(err)
	}
	if _, err := ctrl.PauseAndSave(ctx); err != nil {
		t.Fatal(err)
	}

	// A second controller sharing the gateway (e.g. after a reload) must
	// refuse to start while the snapshot exists.
	other := NewController(gateway)
	if _, err := other.Start(ctx, NewPool(corpus), ModeTimedTest, 240); !errors.Is(err, ErrSessionConflict) {
		t.Fatalf("expected ErrSessionConflict, got %v", err)
	}

	if _, err := other.Resume(ctx, corpus); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if _, err := other.Submit(ctx); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	fresh := NewController(gateway)
	if _, err := fresh.Start(ctx, NewPool(corpus), ModeTimedTest, 240); err != nil {
		t.Fatalf("expected Start to succeed after submit, got %v", err)
	}
}

func TestResume_NoSnapshot(t *testing.T) {
	ctrl := NewController(NewMemoryGateway())
	if _, err := ctrl.Resume(context.Background(), testQuestions(4)); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}

// Round-trip: resume(pauseAndSave()) restores answers, markings,
// bookmarks, remaining time and the pool's ID sequence.
func TestPauseResume_RoundTrip(t *testing.T) {
	ctx := context.Background()
	gateway := NewMemoryGateway()
	corpus := testQuestions(6)

	ctrl := NewController(gateway)
	if _, err := ctrl.Start(ctx, NewPool(corpus), ModeGrandTest, 600); err != nil {
		t.Fatal(err)
	}
	st := ctrl.State()

	q0, q1, q2 := st.Pool.Question(0), st.Pool.Question(1), st.Pool.Question(2)
	if err := ctrl.SelectAnswer(q0.ID, 2); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.SelectAnswer(q1.ID, 0); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.ToggleMarkForReview(q1.ID); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.ToggleMarkForReview(q2.ID); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.ToggleBookmark(q0.ID); err != nil {
		t.Fatal(err)
	}
	ctrl.GoTo(2)
	for i := 0; i < 45; i++ {
		if err := ctrl.Tick(ctx); err != nil {
			t.Fatal(err)
		}
	}

	wantIDs := st.Pool.IDs()
	wantTimeLeft := st.TimeLeftSeconds

	if _, err := ctrl.PauseAndSave(ctx); err != nil {
		t.Fatal(err)
	}

	resumed := NewController(gateway)
	restored, err := resumed.Resume(ctx, corpus)
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}

	if restored.TimeLeftSeconds != wantTimeLeft {
		t.Errorf("timeLeft: got %d, want %d", restored.TimeLeftSeconds, wantTimeLeft)
	}
	if restored.CurrentIndex != 2 {
		t.Errorf("currentIndex: got %d, want 2", restored.CurrentIndex)
	}
	if restored.Mode != ModeGrandTest {
		t.Errorf("mode: got %s, want %s", restored.Mode, ModeGrandTest)
	}

	gotIDs := restored.Pool.IDs()
	if len(gotIDs) != len(wantIDs) {
		t.Fatalf("pool length: got %d, want %d", len(gotIDs), len(wantIDs))
	}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Errorf("pool ID order diverged at %d", i)
		}
	}

	if restored.Answers[q0.ID] != 2 || restored.Answers[q1.ID] != 0 {
		t.Errorf("answers not restored: %v", restored.Answers)
	}
	if restored.Markings[q0.ID] != MarkingAnswered {
		t.Errorf("q0 marking: got %s", restored.Markings[q0.ID])
	}
	if restored.Markings[q1.ID] != MarkingMarkedAnswered {
		t.Errorf("q1 marking: got %s", restored.Markings[q1.ID])
	}
	if restored.Markings[q2.ID] != MarkingMarkedUnanswered {
		t.Errorf("q2 marking: got %s", restored.Markings[q2.ID])
	}
	if !restored.Bookmarks[q0.ID] {
		t.Error("bookmark not restored")
	}
	checkMarkingInvariant(t, restored)
}

func TestMutatorsWhilePaused_Fail(t *testing.T) {
	ctx := context.Background()
	ctrl := startSession(t, 4, 240)
	qid := ctrl.State().Pool.Question(0).ID

	if _, err := ctrl.PauseAndSave(ctx); err != nil {
		t.Fatal(err)
	}

	if err := ctrl.SelectAnswer(qid, 0); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("expected ErrSessionNotActive, got %v", err)
	}
	if err := ctrl.Tick(ctx); err != nil {
		t.Errorf("tick while paused must be a no-op, got %v", err)
	}
	if ctrl.TimeLeft() != 240 {
		t.Errorf("countdown must not run while paused, got %d", ctrl.TimeLeft())
	}
}

func TestSubmit_FromPausedReleasesSlot(t *testing.T) {
	ctx := context.Background()
	gateway := NewMemoryGateway()
	ctrl := NewController(gateway)
	if _, err := ctrl.Start(ctx, NewPool(testQuestions(4)), ModeTimedTest, 240); err != nil {
		t.Fatal(err)
	}
	if _, err := ctrl.PauseAndSave(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := ctrl.Submit(ctx); err != nil {
		t.Fatalf("Submit from paused failed: %v", err)
	}

	snap, err := gateway.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap != nil {
		t.Error("expected snapshot slot cleared after submit")
	}
}

// flakyClearGateway fails a fixed number of Clear calls before behaving
// like its wrapped gateway.
type flakyClearGateway struct {
	Gateway
	failures int
}

func (g *flakyClearGateway) Clear(ctx context.Context) error {
	if g.failures > 0 {
		g.failures--
		return errors.New("store unavailable")
	}
	return g.Gateway.Clear(ctx)
}

// A failed gateway clear during expiry must not burn the final second:
// the session stays active at one second left and the next tick retries
// the submit.
func TestTick_ExpiryRetriesFailedSubmit(t *testing.T) {
	ctx := context.Background()
	gateway := &flakyClearGateway{Gateway: NewMemoryGateway(), failures: 1}
	ctrl := NewController(gateway)
	if _, err := ctrl.Start(ctx, NewPool(testQuestions(3)), ModeTimedTest, 2); err != nil {
		t.Fatal(err)
	}

	if err := ctrl.Tick(ctx); err != nil {
		t.Fatal(err)
	}

	if err := ctrl.Tick(ctx); err == nil {
		t.Fatal("expected the expiry tick to surface the clear failure")
	}
	if ctrl.Phase() != PhaseActive {
		t.Fatalf("expected session still active, got %s", ctrl.Phase())
	}
	if ctrl.TimeLeft() != 1 {
		t.Fatalf("final second consumed before the submit landed, left=%d", ctrl.TimeLeft())
	}

	if err := ctrl.Tick(ctx); err != nil {
		t.Fatalf("retry tick failed: %v", err)
	}
	if ctrl.Phase() != PhaseSubmitted {
		t.Fatalf("expected SUBMITTED after retry, got %s", ctrl.Phase())
	}
	if ctrl.TimeLeft() != 0 {
		t.Errorf("expected countdown at zero, got %d", ctrl.TimeLeft())
	}
	if ctrl.Results() == nil {
		t.Error("expected results after the retried expiry")
	}
}
