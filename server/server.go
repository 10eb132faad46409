// Package server exposes the engine and its training demo over HTTP,
// so a browser frontend can drive training and draw the live
// computation graph. It is strictly an observer and driver: all graph
// semantics live in engine and nn.
package server

import (
	"embed"
	"io/fs"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scalargrad/engine"
	"scalargrad/nn"
	"scalargrad/viz"
)

//go:embed web
var webFS embed.FS

// Server owns the HTTP handlers and the active training session.
//
// One mutex serializes every graph touch: construction, backward
// passes, optimizer updates, and snapshots. The engine defines no
// notion of a concurrent backward pass, so the server never attempts
// one.
type Server struct {
	mu   sync.Mutex
	sess *session
}

// session is one live training run: a network, its trainer, and the
// loss graph left behind by the most recent step.
type session struct {
	id       string
	trainer  *nn.Trainer
	lastRoot *engine.Value
}

// New creates a server with no active session.
func New() *Server {
	return &Server{}
}

// Handler builds the gin router with every route attached.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/init", s.handleInit)
	api.POST("/train", s.handleTrain)
	api.GET("/graph", s.handleGraph)
	api.GET("/train/stream", s.handleTrainStream)

	web, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	router.StaticFS("/ui", http.FS(web))
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/ui/")
	})

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleInit(c *gin.Context) {
	logger := slog.With("handler", "init")

	req := InitRequest{}
	if err := decodeOptionalJSON(c, &req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	if len(req.Hidden) == 0 {
		req.Hidden = []int{4, 4}
	}
	if req.LearningRate <= 0 {
		req.LearningRate = 0.1
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	layers := append(append([]int(nil), req.Hidden...), 1)
	rng := rand.New(rand.NewSource(req.Seed))
	model := nn.NewMLP(rng, 2, layers)

	sess := &session{
		id:      uuid.New().String(),
		trainer: nn.NewTrainer(model, req.LearningRate, nn.XORDataset()),
	}

	s.mu.Lock()
	s.sess = sess
	s.mu.Unlock()

	logger.Info("session created",
		"session_id", sess.id,
		"layers", layers,
		"learning_rate", req.LearningRate)

	c.JSON(http.StatusOK, InitResponse{
		SessionID: sess.id,
		Layers:    append([]int{2}, layers...),
		Params:    len(model.Parameters()),
	})
}

func (s *Server) handleTrain(c *gin.Context) {
	logger := slog.With("handler", "train")

	req := TrainRequest{}
	if err := decodeOptionalJSON(c, &req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	if req.Steps <= 0 {
		req.Steps = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sess
	if sess == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no session; call /api/init first", Code: "NO_SESSION"})
		return
	}

	resp := TrainResponse{SessionID: sess.id}
	for i := 0; i < req.Steps; i++ {
		loss, root := sess.trainer.Step()
		sess.lastRoot = root
		resp.Steps = append(resp.Steps, StepResult{Step: sess.trainer.Steps(), Loss: loss})
	}
	for _, sample := range nn.XORDataset() {
		resp.Predictions = append(resp.Predictions, Prediction{
			Input:  sample.Input,
			Target: sample.Target,
			Output: sess.trainer.Predict(sample.Input),
		})
	}

	logger.Info("trained",
		"session_id", sess.id,
		"steps", req.Steps,
		"loss", resp.Steps[len(resp.Steps)-1].Loss)

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGraph(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess == nil || s.sess.lastRoot == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no finished graph; train first", Code: "NO_GRAPH"})
		return
	}
	c.JSON(http.StatusOK, viz.Snapshot(s.sess.lastRoot))
}

// decodeOptionalJSON binds the body when one is present. Empty bodies
// mean "use defaults" rather than an error.
func decodeOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dst)
}
