package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventProgress Event = "progress"
	EventDone     Event = "done"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// ProgressResponse relays one batch compute progress update.
type ProgressResponse struct {
	Event  Event  `json:"event"`
	JobID  string `json:"job_id"`
	RollNo int    `json:"roll_no,omitempty"`
	Index  int    `json:"index"`
	Total  int    `json:"total"`
	Stage  string `json:"stage"`
	Error  string `json:"error,omitempty"`
}

// DoneResponse closes out the stream once the batch run finishes.
type DoneResponse struct {
	Event Event  `json:"event"`
	JobID string `json:"job_id"`
	Total int    `json:"total"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
