package api

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/example/boss-orchestrator/internal/models"
	"github.com/example/boss-orchestrator/internal/orchestrator"
)

// EventError is sent on the stream when the ask payload is rejected.
const EventError = "error"

// AskStream handles GET /ask/stream. The client sends one ask payload; the
// server forwards round events as they happen, then the answer, then closes.
func (s *Server) AskStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		s.log.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()
	if s.cfg.MaxBodyBytes > 0 {
		conn.SetReadLimit(s.cfg.MaxBodyBytes)
	}

	ctx := r.Context()
	var p askPayload
	if err := wsjson.Read(ctx, conn, &p); err != nil {
		s.log.Debug("websocket read failed", "error", err)
		return
	}
	req, err := s.buildRequest(ctx, p)
	if err != nil {
		_ = wsjson.Write(ctx, conn, orchestrator.Event{Event: EventError, Payload: errorResponse{Error: err.Error()}})
		_ = conn.Close(websocket.StatusPolicyViolation, "invalid ask")
		return
	}

	events, unsubscribe := s.boss.Hub().Subscribe(req.TaskID)
	defer unsubscribe()

	done := make(chan models.Answer, 1)
	go func() { done <- s.boss.Ask(ctx, req) }()

	for {
		select {
		case msg := <-events:
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				s.log.Debug("websocket write failed", "task_id", req.TaskID, "error", err)
				return
			}
		case ans := <-done:
			unsubscribe()
			for msg := range events {
				if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
					return
				}
			}
			ev := orchestrator.Event{Event: orchestrator.EventAnswer, TaskID: ans.TaskID, Payload: ans}
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				return
			}
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		}
	}
}
