// Package monitor implements live filesystem monitoring: a watcher that
// drives file events through the analysis pipeline and a broadcaster that
// fans results out to subscribers.
package monitor

import (
	"time"

	"github.com/0xA1M/sentinel-scan/internal/analysis"
	"github.com/0xA1M/sentinel-scan/internal/catalog"
)

// EventType classifies the filesystem change that triggered an analysis.
type EventType string

const (
	EventCreated  EventType = "created"
	EventModified EventType = "modified"
)

// Event is one analyzed file change. Events are handed to the broadcaster
// and not persisted by the core.
type Event struct {
	FilePath  string           `json:"file_path"`
	EventType EventType        `json:"event_type"`
	Timestamp time.Time        `json:"timestamp"`
	FileType  catalog.FileType `json:"file_type"`
	Analysis  *analysis.Result `json:"analysis_result"`
}

// Status is the process-wide monitoring state reported to collaborators.
type Status struct {
	Running        bool     `json:"running"`
	MonitoredPaths []string `json:"monitored_paths"`
	FileExtensions []string `json:"file_extensions,omitempty"` // empty = unrestricted
}

// MessageType discriminates the feed envelope payload.
type MessageType string

const (
	MessageStatus    MessageType = "status"
	MessageFileEvent MessageType = "file_event"
)

// Message is the envelope delivered to subscribers: either a monitoring
// event or a status change. The first message on any new subscription is
// always the current status.
type Message struct {
	Type   MessageType `json:"type"`
	Status *Status     `json:"status,omitempty"`
	Event  *Event      `json:"event,omitempty"`
}

// StartReport is returned by a successful Start call: the effective watch
// set plus any requested paths that were rejected.
type StartReport struct {
	MonitoredPaths []string `json:"monitored_paths"`
	InvalidPaths   []string `json:"invalid_paths,omitempty"`
}
