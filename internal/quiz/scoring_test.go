package quiz

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func scoringFixture() (*Pool, *State) {
	qs := testQuestions(10)
	pool := NewPool(qs)
	st := newState(pool, ModeTimedTest, 600, time.Now())
	return pool, st
}

func TestScore_Unattempted(t *testing.T) {
	pool, st := scoringFixture()
	res := Score(pool, st)

	if res.Score != 0 || res.Attempted != 0 || res.TotalQuestions != 10 {
		t.Errorf("got %+v, want all-zero over 10 questions", res)
	}
}

func TestScore_NegativeTotal(t *testing.T) {
	pool, st := scoringFixture()

	// One correct, five incorrect: 4 - 5 = -1.
	for i := 0; i < 6; i++ {
		q := pool.Question(i)
		opt := q.CorrectOption
		if i > 0 {
			opt = (opt + 1) % len(q.Options)
		}
		st.Answers[q.ID] = opt
	}

	res := Score(pool, st)
	if res.Score != -1 {
		t.Errorf("expected score -1, got %d", res.Score)
	}
	if res.Percentage() >= 0 {
		t.Errorf("expected negative percentage, got %f", res.Percentage())
	}
}

func TestScore_Arithmetic(t *testing.T) {
	cases := []struct {
		name      string
		correct   int
		incorrect int
	}{
		{"all correct", 10, 0},
		{"all incorrect", 0, 10},
		{"mixed", 4, 3},
		{"single correct", 1, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pool, st := scoringFixture()
			for i := 0; i < tc.correct; i++ {
				q := pool.Question(i)
				st.Answers[q.ID] = q.CorrectOption
			}
			for i := tc.correct; i < tc.correct+tc.incorrect; i++ {
				q := pool.Question(i)
				st.Answers[q.ID] = (q.CorrectOption + 1) % len(q.Options)
			}

			res := Score(pool, st)

			if res.Score != tc.correct*4-tc.incorrect {
				t.Errorf("score: got %d, want %d", res.Score, tc.correct*4-tc.incorrect)
			}
			if res.Attempted != res.Correct+res.Incorrect {
				t.Errorf("attempted %d != correct %d + incorrect %d", res.Attempted, res.Correct, res.Incorrect)
			}
			if res.Attempted > res.TotalQuestions {
				t.Errorf("attempted %d exceeds total %d", res.Attempted, res.TotalQuestions)
			}
		})
	}
}

// Score must be pure: identical inputs yield identical summaries.
func TestScore_Deterministic(t *testing.T) {
	pool, st := scoringFixture()
	for i := 0; i < 5; i++ {
		q := pool.Question(i)
		st.Answers[q.ID] = q.CorrectOption
	}
	st.TimeLeftSeconds = 123

	first := Score(pool, st)
	second := Score(pool, st)

	if first != second {
		t.Errorf("expected identical summaries, got %+v vs %+v", first, second)
	}
}

func TestScore_TimeTaken(t *testing.T) {
	pool, st := scoringFixture()
	st.TimeLeftSeconds = 450

	res := Score(pool, st)
	if res.TimeTakenSeconds != 150 {
		t.Errorf("expected 150s taken, got %d", res.TimeTakenSeconds)
	}
}

func TestPercentage(t *testing.T) {
	res := ResultsSummary{Score: 16, TotalQuestions: 4}
	if got := res.Percentage(); math.Abs(got-100) > 1e-9 {
		t.Errorf("expected 100%%, got %f", got)
	}

	res = ResultsSummary{Score: 7, TotalQuestions: 4}
	if got := res.Percentage(); math.Abs(got-43.75) > 1e-9 {
		t.Errorf("expected 43.75%%, got %f", got)
	}

	res = ResultsSummary{TotalQuestions: 0}
	if got := res.Percentage(); got != 0 {
		t.Errorf("expected 0%% for empty pool, got %f", got)
	}
}

// Answers recorded for questions outside the pool must not contribute.
func TestScore_IgnoresStrayAnswers(t *testing.T) {
	pool, st := scoringFixture()
	st.Answers[uuid.New()] = 0

	res := Score(pool, st)
	if res.Attempted != 0 || res.Score != 0 {
		t.Errorf("stray answer contributed: %+v", res)
	}
}
