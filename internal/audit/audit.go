package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// LogEntry is one structured audit record.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	ActorID   string                 `json:"actor_id"`
	Roles     []string               `json:"roles,omitempty"`
	Action    string                 `json:"action"`   // method + path
	Resource  string                 `json:"resource"` // path
	Status    int                    `json:"status"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Logger records audit entries.
type Logger interface {
	Log(entry LogEntry)
}

// JSONLogger writes one JSON object per line to an io.Writer.
type JSONLogger struct {
	out io.Writer
}

// NewJSONLogger constructs a JSONLogger.
func NewJSONLogger(w io.Writer) *JSONLogger {
	return &JSONLogger{out: w}
}

func (l *JSONLogger) Log(entry LogEntry) {
	if entry.Metadata != nil {
		maskSensitive(entry.Metadata)
	}

	bytes, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit log error: %v\n", err)
		return
	}
	l.out.Write(bytes)
	l.out.Write([]byte("\n"))
}

// maskSensitive redacts credential material that slips into metadata.
func maskSensitive(m map[string]interface{}) {
	sensitiveKeys := []string{"password", "token", "secret", "authorization"}
	for k := range m {
		lowerK := strings.ToLower(k)
		for _, s := range sensitiveKeys {
			if strings.Contains(lowerK, s) {
				m[k] = "***REDACTED***"
				break
			}
		}
	}
}
