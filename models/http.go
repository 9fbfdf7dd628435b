package models

// Response statuses carried by every [Envelope].
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusError   = "error"
)

// Envelope is the JSON body shape shared by every endpoint.
type Envelope struct {
	Status  string `json:"status"`
	Token   string `json:"token,omitempty"`
	Result  *int   `json:"result,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Success wraps data in a successful envelope.
func Success(data any) Envelope {
	return Envelope{Status: StatusSuccess, Data: data}
}

// SuccessList wraps a collection and its item count.
func SuccessList(data any, count int) Envelope {
	return Envelope{Status: StatusSuccess, Result: &count, Data: data}
}

// ErrorEnvelope is the client-facing failure body. Error, Kind and Stack are
// only filled in development mode.
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Stack   string `json:"stack,omitempty"`
	Details any    `json:"details,omitempty"`
}

// AppInfo describes the running API build.
type AppInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}
