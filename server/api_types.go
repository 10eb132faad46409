package server

// InitRequest is the payload for POST /api/init. All fields are
// optional; the server fills in XOR-demo defaults when omitted.
type InitRequest struct {
	// Hidden lists the hidden layer widths. The two-input layer and
	// the single-output layer are implied by the XOR task.
	Hidden []int `json:"hidden"`

	LearningRate float64 `json:"learning_rate"`

	// Seed fixes weight initialization for reproducible sessions.
	// Zero means seed from the clock.
	Seed int64 `json:"seed"`
}

// InitResponse describes the freshly created training session.
type InitResponse struct {
	SessionID string `json:"session_id"`
	Layers    []int  `json:"layers"`
	Params    int    `json:"params"`
}

// TrainRequest controls how many steps POST /api/train runs in one call.
type TrainRequest struct {
	Steps int `json:"steps"`
}

// StepResult reports one training step.
type StepResult struct {
	Step int     `json:"step"`
	Loss float64 `json:"loss"`
}

// Prediction reports the network output for one dataset sample.
type Prediction struct {
	Input  []float64 `json:"input"`
	Target float64   `json:"target"`
	Output float64   `json:"output"`
}

// TrainResponse summarizes a batch of training steps.
type TrainResponse struct {
	SessionID   string       `json:"session_id"`
	Steps       []StepResult `json:"steps"`
	Predictions []Prediction `json:"predictions"`
}

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
