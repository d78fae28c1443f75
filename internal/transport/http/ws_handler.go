package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"content-release-service/internal/app"
	"content-release-service/internal/domain"
	"content-release-service/internal/logger"
)

const writeWait = 5 * time.Second

// CountdownHandler streams a lesson's countdown over a websocket until the
// access decision leaves the locked state.
type CountdownHandler struct {
	access   *app.AccessEvaluator
	interval time.Duration
	upgrader websocket.Upgrader
	log      *logger.Logger
}

func NewCountdownHandler(access *app.AccessEvaluator, interval time.Duration, log *logger.Logger) *CountdownHandler {
	if interval <= 0 {
		interval = time.Second
	}
	return &CountdownHandler{
		access:   access,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log.With("component", "CountdownHandler"),
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS sends a "countdown" message every interval while the lesson is
// locked, then one final "access" message, then closes.
func (h *CountdownHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	eventSlug, lessonSlug, key := q.Get("event"), q.Get("lesson"), q.Get("key")
	if eventSlug == "" || lessonSlug == "" {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: apiError{
			Message: "missing event or lesson",
			Code:    codeInvalidRequest,
		}})
		return
	}

	ctx := r.Context()
	decision, err := h.access.EvaluateAccess(ctx, eventSlug, lessonSlug, key)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// The client never sends anything meaningful; reading only detects close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for decision.Status == domain.AccessLocked {
		countdown := domain.CountdownFor(decision.Lesson, h.access.Now())
		if err := h.write(conn, outboundMessage[domain.Countdown]{Type: "countdown", Payload: countdown}); err != nil {
			return
		}

		select {
		case <-gone:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		decision, err = h.access.EvaluateAccess(ctx, eventSlug, lessonSlug, key)
		if err != nil {
			h.log.Warn("countdown evaluation failed", "error", err)
			return
		}
	}

	body := newAccessBody(decision, domain.CountdownFor(decision.Lesson, h.access.Now()))
	if err := h.write(conn, outboundMessage[accessBody]{Type: "access", Payload: body}); err != nil {
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(decision.Status)),
		time.Now().Add(writeWait))
}

func (h *CountdownHandler) write(conn *websocket.Conn, msg any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		h.log.Debug("ws write error", "error", err)
		return err
	}
	return nil
}
