package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medprep/neetpg-backend/internal/config"
	"github.com/medprep/neetpg-backend/internal/model"
	"github.com/medprep/neetpg-backend/internal/quiz"
	"github.com/rs/zerolog"
)

// CorpusSource provides the full question corpus for pool building.
type CorpusSource interface {
	ListAll(ctx context.Context) ([]model.Question, error)
}

// GatewayFactory produces per-user snapshot gateways.
type GatewayFactory interface {
	ForUser(userID string) quiz.Gateway
}

// ResultSink receives finished attempts for asynchronous persistence.
type ResultSink interface {
	Publish(ctx context.Context, a *model.Attempt) error
}

// StartRequest describes a new session: its mode and the pool filter.
type StartRequest struct {
	Mode   string      `json:"mode" binding:"required,oneof=PRACTICE TIMED_TEST GRAND_TEST"`
	Filter quiz.Filter `json:"filter"`
}

// StateView is the client-facing projection of a running session. Correct
// options are never included.
type StateView struct {
	Phase           string               `json:"phase"`
	Mode            string               `json:"mode"`
	CurrentIndex    int                  `json:"current_index"`
	DurationSeconds int                  `json:"duration_seconds"`
	TimeLeft        int                  `json:"time_left"`
	TotalQuestions  int                  `json:"total_questions"`
	Questions       []model.QuestionView `json:"questions"`
	Answers         map[string]int       `json:"answers"`
	Palette         map[string]int       `json:"palette"`
	Bookmarks       []string             `json:"bookmarks"`
}

// liveSession pairs a controller with its ticker and change notifications.
// The controller itself is not goroutine-safe, so every access goes
// through the session mutex.
type liveSession struct {
	mu      sync.Mutex
	ctrl    *quiz.Controller
	userID  string
	subject string
	cancel  context.CancelFunc
	notify  chan struct{}
}

// QuizService hosts live quiz sessions, one per user. It owns pool
// building, the one-second countdown driver, and publishing finished
// attempts to the result queue.
type QuizService struct {
	cfg      *config.Config
	corpus   CorpusSource
	gateways GatewayFactory
	sink     ResultSink
	log      zerolog.Logger

	mu          sync.Mutex
	live        map[string]*liveSession
	lastResults map[string]*quiz.ResultsSummary
}

// NewQuizService creates a new QuizService.
func NewQuizService(cfg *config.Config, corpus CorpusSource, gateways GatewayFactory, sink ResultSink, log zerolog.Logger) *QuizService {
	return &QuizService{
		cfg:         cfg,
		corpus:      corpus,
		gateways:    gateways,
		sink:        sink,
		log:         log.With().Str("component", "quiz_service").Logger(),
		live:        make(map[string]*liveSession),
		lastResults: make(map[string]*quiz.ResultsSummary),
	}
}

// Start builds a pool from the corpus and begins a new session for the
// user. Fails with quiz.ErrSessionConflict while a live or saved session
// exists, and with quiz.ErrEmptyPool when no questions match the filter.
func (s *QuizService) Start(ctx context.Context, userID string, req StartRequest) (*StateView, error) {
	s.mu.Lock()
	if _, exists := s.live[userID]; exists {
		s.mu.Unlock()
		return nil, quiz.ErrSessionConflict
	}
	s.mu.Unlock()

	corpus, err := s.corpus.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	pool := quiz.BuildPool(corpus, req.Filter, rng)

	mode := quiz.Mode(req.Mode)
	ctrl := quiz.NewController(s.gateways.ForUser(userID))
	if _, err := ctrl.Start(ctx, pool, mode, s.durationFor(mode, pool.Len())); err != nil {
		return nil, err
	}

	ls := &liveSession{
		ctrl:    ctrl,
		userID:  userID,
		subject: req.Filter.Subject,
		notify:  make(chan struct{}, 1),
	}

	s.mu.Lock()
	if _, exists := s.live[userID]; exists {
		s.mu.Unlock()
		return nil, quiz.ErrSessionConflict
	}
	s.live[userID] = ls
	s.mu.Unlock()

	s.startTicker(ls)
	s.log.Info().Str("user_id", userID).Str("mode", req.Mode).Int("questions", pool.Len()).Msg("Session started")

	return buildStateView(ctrl), nil
}

// Resume rehydrates the user's saved session from its snapshot and brings
// it back live.
func (s *QuizService) Resume(ctx context.Context, userID string) (*StateView, error) {
	s.mu.Lock()
	if _, exists := s.live[userID]; exists {
		s.mu.Unlock()
		return nil, quiz.ErrSessionConflict
	}
	s.mu.Unlock()

	corpus, err := s.corpus.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ctrl := quiz.NewController(s.gateways.ForUser(userID))
	st, err := ctrl.Resume(ctx, corpus)
	if err != nil {
		return nil, err
	}

	ls := &liveSession{
		ctrl:    ctrl,
		userID:  userID,
		subject: poolSubject(st.Pool),
		notify:  make(chan struct{}, 1),
	}

	s.mu.Lock()
	if _, exists := s.live[userID]; exists {
		s.mu.Unlock()
		return nil, quiz.ErrSessionConflict
	}
	s.live[userID] = ls
	s.mu.Unlock()

	s.startTicker(ls)
	s.log.Info().Str("user_id", userID).Msg("Session resumed")

	return buildStateView(ctrl), nil
}

// State returns the current view of the user's live session.
func (s *QuizService) State(userID string) (*StateView, error) {
	ls, err := s.session(userID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	return buildStateView(ls.ctrl), nil
}

// Answer selects an option for a question.
func (s *QuizService) Answer(userID string, questionID uuid.UUID, option int) (*StateView, error) {
	return s.mutate(userID, func(ctrl *quiz.Controller) error {
		return ctrl.SelectAnswer(questionID, option)
	})
}

// ClearAnswer removes a recorded answer.
func (s *QuizService) ClearAnswer(userID string, questionID uuid.UUID) (*StateView, error) {
	return s.mutate(userID, func(ctrl *quiz.Controller) error {
		return ctrl.ClearAnswer(questionID)
	})
}

// ToggleMark flips a question's mark-for-review flag.
func (s *QuizService) ToggleMark(userID string, questionID uuid.UUID) (*StateView, error) {
	return s.mutate(userID, func(ctrl *quiz.Controller) error {
		return ctrl.ToggleMarkForReview(questionID)
	})
}

// ToggleBookmark flips a question's bookmark.
func (s *QuizService) ToggleBookmark(userID string, questionID uuid.UUID) (*StateView, error) {
	return s.mutate(userID, func(ctrl *quiz.Controller) error {
		return ctrl.ToggleBookmark(questionID)
	})
}

// GoTo moves the navigation cursor.
func (s *QuizService) GoTo(userID string, index int) (*StateView, error) {
	return s.mutate(userID, func(ctrl *quiz.Controller) error {
		ctrl.GoTo(index)
		return nil
	})
}

// Pause saves the session snapshot and takes the session off the live
// map. The snapshot keeps blocking new starts until resumed or submitted.
func (s *QuizService) Pause(ctx context.Context, userID string) error {
	ls, err := s.session(userID)
	if err != nil {
		return err
	}

	ls.mu.Lock()
	_, err = ls.ctrl.PauseAndSave(ctx)
	ls.mu.Unlock()
	if err != nil {
		return err
	}

	s.remove(ls)
	s.log.Info().Str("user_id", userID).Msg("Session paused")
	return nil
}

// Submit finalizes the session, publishes the attempt, and returns the
// results summary.
func (s *QuizService) Submit(ctx context.Context, userID string) (*quiz.ResultsSummary, error) {
	ls, err := s.session(userID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	mode := ls.ctrl.State().Mode
	total := ls.ctrl.State().Pool.Len()
	results, err := ls.ctrl.Submit(ctx)
	ls.mu.Unlock()
	if err != nil {
		return nil, err
	}

	// Results are recorded before the removal signal fires so a watcher
	// woken by it never sees the session gone with no summary to read.
	s.recordResults(userID, results)
	s.remove(ls)
	s.publishAttempt(ctx, ls, mode, total, results)
	return results, nil
}

// Results returns the summary of the user's most recently submitted
// session, or nil when none has finished yet.
func (s *QuizService) Results(userID string) *quiz.ResultsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResults[userID]
}

// Watch returns a channel that fires after every state change on the
// user's live session. Used by the WebSocket stream.
func (s *QuizService) Watch(userID string) (<-chan struct{}, error) {
	ls, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	return ls.notify, nil
}

// ─── Internals ──────────────────────────────────────────────────────

func (s *QuizService) durationFor(mode quiz.Mode, poolLen int) int {
	switch mode {
	case quiz.ModeTimedTest:
		return poolLen * s.cfg.SecondsPerQuestion
	case quiz.ModeGrandTest:
		return int(s.cfg.GrandTestDuration.Seconds())
	default:
		// Practice runs without a countdown.
		return 0
	}
}

func (s *QuizService) session(userID string) (*liveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls, ok := s.live[userID]
	if !ok {
		return nil, quiz.ErrSessionNotActive
	}
	return ls, nil
}

func (s *QuizService) mutate(userID string, fn func(*quiz.Controller) error) (*StateView, error) {
	ls, err := s.session(userID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	if err := fn(ls.ctrl); err != nil {
		ls.mu.Unlock()
		return nil, err
	}
	view := buildStateView(ls.ctrl)
	ls.mu.Unlock()

	signal(ls.notify)
	return view, nil
}

func (s *QuizService) remove(ls *liveSession) {
	s.mu.Lock()
	if current, ok := s.live[ls.userID]; ok && current == ls {
		delete(s.live, ls.userID)
	}
	s.mu.Unlock()

	if ls.cancel != nil {
		ls.cancel()
	}
	signal(ls.notify)
}

// startTicker drives the session countdown at one tick per second. When a
// tick expires the session it publishes the attempt and cleans up.
func (s *QuizService) startTicker(ls *liveSession) {
	ctx, cancel := context.WithCancel(context.Background())
	ls.cancel = cancel

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ls.mu.Lock()
				mode := ls.ctrl.State().Mode
				total := ls.ctrl.State().Pool.Len()
				if err := ls.ctrl.Tick(ctx); err != nil {
					s.log.Error().Err(err).Str("user_id", ls.userID).Msg("Tick failed")
				}
				submitted := ls.ctrl.Phase() == quiz.PhaseSubmitted
				results := ls.ctrl.Results()
				ls.mu.Unlock()

				if submitted {
					s.log.Info().Str("user_id", ls.userID).Msg("Session expired, auto-submitted")
					s.recordResults(ls.userID, results)
					s.remove(ls)
					s.publishAttempt(context.Background(), ls, mode, total, results)
					return
				}

				signal(ls.notify)
			}
		}
	}()
}

func (s *QuizService) recordResults(userID string, results *quiz.ResultsSummary) {
	if results == nil {
		return
	}
	s.mu.Lock()
	s.lastResults[userID] = results
	s.mu.Unlock()
}

func (s *QuizService) publishAttempt(ctx context.Context, ls *liveSession, mode quiz.Mode, total int, results *quiz.ResultsSummary) {
	if results == nil {
		return
	}

	attempt := &model.Attempt{
		UserID:           ls.userID,
		Mode:             string(mode),
		Subject:          ls.subject,
		Score:            results.Score,
		Correct:          results.Correct,
		Incorrect:        results.Incorrect,
		Attempted:        results.Attempted,
		TotalQuestions:   total,
		TimeTakenSeconds: results.TimeTakenSeconds,
		SubmittedAt:      time.Now(),
	}

	if err := s.sink.Publish(ctx, attempt); err != nil {
		s.log.Error().Err(err).Str("user_id", ls.userID).Msg("Failed to publish attempt")
	}
}

func buildStateView(ctrl *quiz.Controller) *StateView {
	st := ctrl.State()

	view := &StateView{
		Phase:           ctrl.Phase().String(),
		Mode:            string(st.Mode),
		CurrentIndex:    st.CurrentIndex,
		DurationSeconds: st.DurationSeconds,
		TimeLeft:        st.TimeLeftSeconds,
		TotalQuestions:  st.Pool.Len(),
		Questions:       make([]model.QuestionView, 0, st.Pool.Len()),
		Answers:         make(map[string]int, len(st.Answers)),
		Palette:         make(map[string]int, len(st.Markings)),
		Bookmarks:       make([]string, 0, len(st.Bookmarks)),
	}

	for _, q := range st.Pool.Questions() {
		view.Questions = append(view.Questions, q.View())
	}
	for id, opt := range st.Answers {
		view.Answers[id.String()] = opt
	}
	for id, m := range st.Markings {
		view.Palette[id.String()] = int(m)
	}
	for id, set := range st.Bookmarks {
		if set {
			view.Bookmarks = append(view.Bookmarks, id.String())
		}
	}
	return view
}

// signal performs a non-blocking notification send.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// poolSubject returns the shared subject of a pool's questions, or the
// empty string for mixed pools.
func poolSubject(pool *quiz.Pool) string {
	questions := pool.Questions()
	if len(questions) == 0 {
		return ""
	}
	subject := questions[0].Subject
	for _, q := range questions[1:] {
		if q.Subject != subject {
			return ""
		}
	}
	return subject
}
