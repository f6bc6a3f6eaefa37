package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/medprep/neetpg-backend/internal/config"
	"github.com/medprep/neetpg-backend/internal/middleware"
	"github.com/medprep/neetpg-backend/internal/model"
	"github.com/medprep/neetpg-backend/internal/quiz"
	"github.com/medprep/neetpg-backend/internal/service"
	ws "github.com/medprep/neetpg-backend/internal/websocket"
	"github.com/rs/zerolog"
)

type stubCorpus struct {
	questions []model.Question
}

func (s *stubCorpus) ListAll(ctx context.Context) ([]model.Question, error) {
	return s.questions, nil
}

type stubGatewayFactory struct {
	mu       sync.Mutex
	gateways map[string]*quiz.MemoryGateway
}

func (s *stubGatewayFactory) ForUser(userID string) quiz.Gateway {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.gateways[userID]; ok {
		return g
	}
	g := quiz.NewMemoryGateway()
	s.gateways[userID] = g
	return g
}

type stubSink struct{}

func (s *stubSink) Publish(ctx context.Context, a *model.Attempt) error { return nil }

func streamCorpus(n int) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			ID:            uuid.New(),
			Text:          "q",
			Options:       []string{"A", "B", "C", "D"},
			CorrectOption: 0,
			Subject:       "Anatomy",
		}
	}
	return questions
}

// streamTestServer wires a real quiz service behind the stream handler,
// with a middleware stub standing in for JWT validation.
func streamTestServer(t *testing.T, userID string) (*httptest.Server, *service.QuizService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		SecondsPerQuestion: 60,
		GrandTestDuration:  200 * time.Minute,
	}
	svc := service.NewQuizService(cfg, &stubCorpus{questions: streamCorpus(6)},
		&stubGatewayFactory{gateways: make(map[string]*quiz.MemoryGateway)}, &stubSink{}, zerolog.Nop())

	h := NewWSHandler(svc, zerolog.Nop(), nil)

	r := gin.New()
	r.GET("/ws/v1/quiz/stream", func(c *gin.Context) {
		c.Set(middleware.ContextKeyClaims, &service.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		})
	}, h.QuizStream)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

func dialStream(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/v1/quiz/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// The stream has two server-side writers: the read loop answering
// actions and the push loop forwarding state changes. Hammering both at
// once must yield a clean frame sequence, not a torn connection.
func TestQuizStream_ConcurrentActionsAndPushes(t *testing.T) {
	const pings = 50

	srv, svc := streamTestServer(t, "user-stream")
	ctx := context.Background()

	if _, err := svc.Start(ctx, "user-stream", service.StartRequest{Mode: "TIMED_TEST"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	conn := dialStream(t, srv)

	// State pushes ride the session's notify channel, so server-side
	// mutations stand in for timer ticks here.
	pushesDone := make(chan struct{})
	go func() {
		defer close(pushesDone)
		for i := 0; i < pings; i++ {
			if _, err := svc.GoTo("user-stream", i%6); err != nil {
				return
			}
		}
	}()

	go func() {
		for i := 0; i < pings; i++ {
			conn.WriteJSON(ws.RequestEnvelope{Action: ws.ActionPing})
		}
	}()

	var pongs, states int
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for pongs < pings {
		var event struct {
			Event ws.Event `json:"event"`
		}
		if err := conn.ReadJSON(&event); err != nil {
			t.Fatalf("stream broke after %d pongs, %d states: %v", pongs, states, err)
		}
		switch event.Event {
		case ws.EventPong:
			pongs++
		case ws.EventState:
			states++
		case ws.EventError:
			t.Fatal("unexpected error frame")
		}
	}
	<-pushesDone

	if states == 0 {
		t.Error("expected at least one state push alongside the pongs")
	}
}

// Submitting over the stream must deliver the results frame and close
// the connection.
func TestQuizStream_SubmitClosesStream(t *testing.T) {
	srv, svc := streamTestServer(t, "user-submit")
	ctx := context.Background()

	state, err := svc.Start(ctx, "user-submit", service.StartRequest{Mode: "PRACTICE"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	conn := dialStream(t, srv)
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	// Answer the first question correctly, then submit.
	qid := state.Questions[0].ID.String()
	if err := conn.WriteJSON(ws.AnswerRequest{Action: ws.ActionAnswer, QuestionID: qid, Option: 0}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(ws.RequestEnvelope{Action: ws.ActionSubmit}); err != nil {
		t.Fatal(err)
	}

	var submitted ws.SubmittedResponse
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("stream broke before results: %v", err)
		}
		var event struct {
			Event ws.Event `json:"event"`
		}
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatal(err)
		}
		if event.Event != ws.EventSubmitted {
			continue
		}
		if err := json.Unmarshal(raw, &submitted); err != nil {
			t.Fatal(err)
		}
		break
	}

	if submitted.Results == nil || submitted.Results.Score != 4 {
		t.Errorf("expected score 4 in results frame, got %+v", submitted.Results)
	}

	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the stream to close after submit")
	}
}
