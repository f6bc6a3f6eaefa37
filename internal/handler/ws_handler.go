package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/medprep/neetpg-backend/internal/middleware"
	"github.com/medprep/neetpg-backend/internal/service"
	ws "github.com/medprep/neetpg-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live quiz session state over WebSocket.
type WSHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(quizService *service.QuizService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		quizService: quizService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// QuizStream godoc
// WS /ws/v1/quiz/stream
// Upgrades to WebSocket for real-time session interaction: every action
// and every countdown tick pushes a fresh state event. The read loop and
// the push loop share the connection through ws.Conn, which serializes
// their frames.
func (h *WSHandler) QuizStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	userID := claims.UserID()

	notify, err := h.quizService.Watch(userID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no live session"})
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	wsLog := h.log.With().Str("user_id", userID).Logger()
	wsLog.Info().Msg("Client connected")

	done := make(chan struct{})
	go h.pushLoop(conn, userID, notify, done, wsLog)
	defer close(done)

	h.sendState(conn, userID)

	for {
		payload, err := conn.ReadRaw()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var msg ws.RequestEnvelope
		if err := json.Unmarshal(payload, &msg); err != nil {
			conn.WriteError("invalid message")
			continue
		}

		if finished := h.handleAction(conn, userID, msg.Action, payload, wsLog); finished {
			return
		}
	}
}

// handleAction dispatches one client action. It reports true when the
// session finished and the stream should close.
func (h *WSHandler) handleAction(conn *ws.Conn, userID string, action ws.Action, payload []byte, wsLog zerolog.Logger) bool {
	switch action {
	case ws.ActionAnswer:
		var req ws.AnswerRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			conn.WriteError("invalid payload")
			return false
		}
		qid, err := uuid.Parse(req.QuestionID)
		if err != nil {
			conn.WriteError("invalid question_id format")
			return false
		}
		if _, err := h.quizService.Answer(userID, qid, req.Option); err != nil {
			conn.WriteError(err.Error())
		}

	case ws.ActionClear, ws.ActionMark, ws.ActionBookmark:
		var req ws.QuestionRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			conn.WriteError("invalid payload")
			return false
		}
		qid, err := uuid.Parse(req.QuestionID)
		if err != nil {
			conn.WriteError("invalid question_id format")
			return false
		}
		if err := h.applyQuestionAction(userID, action, qid); err != nil {
			conn.WriteError(err.Error())
		}

	case ws.ActionGoTo:
		var req ws.GoToRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			conn.WriteError("invalid payload")
			return false
		}
		if _, err := h.quizService.GoTo(userID, req.Index); err != nil {
			conn.WriteError(err.Error())
		}

	case ws.ActionPause:
		if err := h.quizService.Pause(context.Background(), userID); err != nil {
			conn.WriteError(err.Error())
			return false
		}
		wsLog.Info().Msg("Session paused over stream")
		return true

	case ws.ActionSubmit:
		results, err := h.quizService.Submit(context.Background(), userID)
		if err != nil {
			conn.WriteError(err.Error())
			return false
		}
		conn.WriteTyped(ws.SubmittedResponse{Event: ws.EventSubmitted, Results: results})
		wsLog.Info().Int("score", results.Score).Msg("Session submitted over stream")
		return true

	case ws.ActionPing:
		conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})

	default:
		wsLog.Warn().Str("action", string(action)).Msg("Unknown action")
		conn.WriteError("unknown action: " + string(action))
	}
	return false
}

func (h *WSHandler) applyQuestionAction(userID string, action ws.Action, qid uuid.UUID) error {
	var err error
	switch action {
	case ws.ActionClear:
		_, err = h.quizService.ClearAnswer(userID, qid)
	case ws.ActionMark:
		_, err = h.quizService.ToggleMark(userID, qid)
	case ws.ActionBookmark:
		_, err = h.quizService.ToggleBookmark(userID, qid)
	}
	return err
}

// pushLoop forwards state changes to the client until the connection or
// the session ends. When the session expires mid-stream it delivers the
// final results before exiting.
func (h *WSHandler) pushLoop(conn *ws.Conn, userID string, notify <-chan struct{}, done <-chan struct{}, wsLog zerolog.Logger) {
	for {
		select {
		case <-done:
			return
		case <-notify:
			if h.sendState(conn, userID) {
				continue
			}
			if results := h.quizService.Results(userID); results != nil {
				conn.WriteTyped(ws.SubmittedResponse{Event: ws.EventSubmitted, Results: results})
				wsLog.Info().Msg("Final results pushed after expiry")
			}
			return
		}
	}
}

// sendState pushes the current palette and countdown. Returns false when
// the session is no longer live.
func (h *WSHandler) sendState(conn *ws.Conn, userID string) bool {
	view, err := h.quizService.State(userID)
	if err != nil {
		return false
	}

	conn.WriteTyped(ws.StateResponse{
		Event:        ws.EventState,
		CurrentIndex: view.CurrentIndex,
		TimeLeft:     view.TimeLeft,
		Palette:      view.Palette,
	})
	return true
}
