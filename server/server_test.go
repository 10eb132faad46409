package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scalargrad/viz"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := New().Handler()
	w := doJSON(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTrainBeforeInitFails(t *testing.T) {
	h := New().Handler()

	w := doJSON(t, h, http.MethodPost, "/api/train", `{"steps":5}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NO_SESSION", resp.Code)
}

func TestGraphBeforeTrainFails(t *testing.T) {
	h := New().Handler()

	w := doJSON(t, h, http.MethodPost, "/api/init", `{"seed":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/graph", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NO_GRAPH", resp.Code)
}

func TestInitTrainGraphRoundTrip(t *testing.T) {
	h := New().Handler()

	w := doJSON(t, h, http.MethodPost, "/api/init", `{"hidden":[3],"learning_rate":0.1,"seed":42}`)
	require.Equal(t, http.StatusOK, w.Code)

	var initResp InitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initResp))
	assert.NotEmpty(t, initResp.SessionID)
	assert.Equal(t, []int{2, 3, 1}, initResp.Layers)
	assert.Equal(t, 3*3+4, initResp.Params)

	w = doJSON(t, h, http.MethodPost, "/api/train", `{"steps":5}`)
	require.Equal(t, http.StatusOK, w.Code)

	var trainResp TrainResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trainResp))
	assert.Equal(t, initResp.SessionID, trainResp.SessionID)
	require.Len(t, trainResp.Steps, 5)
	assert.Equal(t, 5, trainResp.Steps[4].Step)
	require.Len(t, trainResp.Predictions, 4)

	w = doJSON(t, h, http.MethodGet, "/api/graph", "")
	require.Equal(t, http.StatusOK, w.Code)

	var g viz.Graph
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.NotEmpty(t, g.Nodes)
	assert.NotEmpty(t, g.Edges)
	// The snapshot is taken after backward, so the loss root carries
	// the seed gradient.
	assert.Equal(t, 1.0, g.Nodes[g.Root].Grad)
}

func TestInitDefaultsApply(t *testing.T) {
	h := New().Handler()

	w := doJSON(t, h, http.MethodPost, "/api/init", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp InitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int{2, 4, 4, 1}, resp.Layers)
	assert.Equal(t, 37, resp.Params)
}

func TestTrainStreamWebsocket(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	w, err := http.Post(srv.URL+"/api/init", "application/json", strings.NewReader(`{"seed":7}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, w.StatusCode)
	w.Body.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/train/stream?steps=3"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer ws.Close()

	for i := 1; i <= 3; i++ {
		var step StepResult
		require.NoError(t, ws.ReadJSON(&step))
		assert.Equal(t, i, step.Step)
		assert.Greater(t, step.Loss, 0.0)
	}
}
