package quiz

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/medprep/neetpg-backend/internal/model"
)

// Filter describes the selection criteria for building a question pool.
// Empty fields/slices are skipped; provided fields are combined with AND
// semantics. Keyword matches case-insensitively against question text and
// the keywords field.
type Filter struct {
	Subject         string   `json:"subject,omitempty"`
	Sources         []string `json:"sources,omitempty"`
	Modules         []string `json:"modules,omitempty"`
	Subtopics       []string `json:"subtopics,omitempty"`
	Difficulty      string   `json:"difficulty,omitempty"`
	CognitiveSkills []string `json:"cognitive_skills,omitempty"`
	Keyword         string   `json:"keyword,omitempty"`
	Count           int      `json:"count,omitempty"`
}

// Pool is an immutable ordered selection of questions for one session.
// Its identity is the resolved question ID sequence, so a resumed session
// replays the exact same questions even if the corpus changes.
type Pool struct {
	questions []model.Question
}

// NewPool wraps an already-resolved question sequence.
func NewPool(questions []model.Question) *Pool {
	qs := make([]model.Question, len(questions))
	copy(qs, questions)
	return &Pool{questions: qs}
}

// BuildPool filters the corpus, shuffles the matches uniformly and
// truncates to f.Count. Fewer matches than requested is not an error; the
// shorter pool is returned as-is (best-effort policy).
func BuildPool(corpus []model.Question, f Filter, rng *rand.Rand) *Pool {
	var matches []model.Question
	for _, q := range corpus {
		if matchesFilter(q, f) {
			matches = append(matches, q)
		}
	}

	rng.Shuffle(len(matches), func(i, j int) {
		matches[i], matches[j] = matches[j], matches[i]
	})

	if f.Count > 0 && len(matches) > f.Count {
		matches = matches[:f.Count]
	}

	return &Pool{questions: matches}
}

// RebuildPool reconstructs a pool from a snapshot's ID sequence, preserving
// order. Fails if any recorded question no longer exists in the corpus.
func RebuildPool(corpus []model.Question, ids []uuid.UUID) (*Pool, error) {
	byID := make(map[uuid.UUID]model.Question, len(corpus))
	for _, q := range corpus {
		byID[q.ID] = q
	}

	questions := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("question %s no longer exists in corpus", id)
		}
		questions = append(questions, q)
	}

	return &Pool{questions: questions}, nil
}

// Len returns the number of questions in the pool.
func (p *Pool) Len() int {
	return len(p.questions)
}

// Question returns the question at position i. Callers must keep i within
// [0, Len()).
func (p *Pool) Question(i int) model.Question {
	return p.questions[i]
}

// Find returns the pooled question with the given ID.
func (p *Pool) Find(id uuid.UUID) (model.Question, bool) {
	for _, q := range p.questions {
		if q.ID == id {
			return q, true
		}
	}
	return model.Question{}, false
}

// IDs returns the pool's question ID sequence in order.
func (p *Pool) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(p.questions))
	for i, q := range p.questions {
		ids[i] = q.ID
	}
	return ids
}

// Questions returns a copy of the pooled questions in order.
func (p *Pool) Questions() []model.Question {
	qs := make([]model.Question, len(p.questions))
	copy(qs, p.questions)
	return qs
}

func matchesFilter(q model.Question, f Filter) bool {
	if f.Subject != "" && q.Subject != f.Subject {
		return false
	}
	if len(f.Sources) > 0 && !containsString(f.Sources, q.Source) {
		return false
	}
	if len(f.Modules) > 0 && !containsString(f.Modules, q.Module) {
		return false
	}
	if len(f.Subtopics) > 0 && !containsString(f.Subtopics, q.Subtopic) {
		return false
	}
	if f.Difficulty != "" && q.Difficulty != f.Difficulty {
		return false
	}
	if len(f.CognitiveSkills) > 0 && !containsString(f.CognitiveSkills, q.CognitiveSkill) {
		return false
	}
	if f.Keyword != "" {
		kw := strings.ToLower(f.Keyword)
		if !strings.Contains(strings.ToLower(q.Text), kw) &&
			!strings.Contains(strings.ToLower(q.Keywords), kw) {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
