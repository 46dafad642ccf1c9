package domain

// Status is the connectivity state of the selected exchange.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
)

func (s Status) String() string {
	return string(s)
}

// ConnectionState is the observable state of the connection monitor.
// Connecting is transient: it only holds while a probe is in flight.
type ConnectionState struct {
	Status       Status `json:"status"`
	LastError    string `json:"last_error,omitempty"`
	RetryAttempt int    `json:"retry_attempt"`
	LatencyMs    int64  `json:"latency_ms,omitempty"`
}
