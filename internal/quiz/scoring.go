package quiz

// NEET-PG marking scheme: +4 for a correct answer, −1 for an incorrect
// one, 0 for unattempted. The total can go negative.
const (
	PointsPerCorrect    = 4
	PenaltyPerIncorrect = 1
)

// ResultsSummary is the derived outcome of a submitted session. It is
// always recomputable from the final state and never the source of truth.
type ResultsSummary struct {
	Score            int `json:"score"`
	Correct          int `json:"correct"`
	Incorrect        int `json:"incorrect"`
	Attempted        int `json:"attempted"`
	TotalQuestions   int `json:"total_questions"`
	TimeTakenSeconds int `json:"time_taken_seconds"`
}

// Percentage is the score relative to the pool maximum. Negative when
// penalties outweigh earned points; that is the intended behavior of the
// marking scheme, not a clamping bug.
func (r ResultsSummary) Percentage() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.TotalQuestions*PointsPerCorrect) * 100
}

// Score computes the results summary for a session. It is pure: identical
// (pool, state) inputs always produce an identical summary, so review
// screens can recompute instead of storing.
func Score(pool *Pool, st *State) ResultsSummary {
	summary := ResultsSummary{
		TotalQuestions:   pool.Len(),
		TimeTakenSeconds: st.DurationSeconds - st.TimeLeftSeconds,
	}

	for _, q := range pool.questions {
		chosen, ok := st.Answers[q.ID]
		if !ok {
			continue
		}
		if chosen == q.CorrectOption {
			summary.Correct++
		} else {
			summary.Incorrect++
		}
	}

	summary.Attempted = summary.Correct + summary.Incorrect
	summary.Score = summary.Correct*PointsPerCorrect - summary.Incorrect*PenaltyPerIncorrect
	return summary
}
