package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleTrainStream upgrades GET /api/train/stream to a websocket and
// pushes one StepResult per training step, so the frontend can plot
// the loss live. The number of steps comes from the ?steps query
// parameter.
//
// Each step takes the session lock only for its own duration, so
// /api/graph can interleave with a long stream.
func (s *Server) handleTrainStream(c *gin.Context) {
	logger := slog.With("handler", "train_stream")

	steps, err := strconv.Atoi(c.DefaultQuery("steps", "100"))
	if err != nil || steps <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "steps must be a positive integer", Code: "INVALID_REQUEST"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	for i := 0; i < steps; i++ {
		s.mu.Lock()
		sess := s.sess
		if sess == nil {
			s.mu.Unlock()
			_ = ws.WriteJSON(ErrorResponse{Error: "no session; call /api/init first", Code: "NO_SESSION"})
			return
		}
		loss, root := sess.trainer.Step()
		sess.lastRoot = root
		result := StepResult{Step: sess.trainer.Steps(), Loss: loss}
		s.mu.Unlock()

		if err := ws.WriteJSON(result); err != nil {
			logger.Info("websocket client went away", "error", err)
			return
		}
	}

	_ = ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
}
