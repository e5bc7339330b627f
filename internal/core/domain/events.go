package domain

import "time"

// EventType defines the type of real-time event.
type EventType string

const (
	EventSnapshotUpdated EventType = "SNAPSHOT_UPDATED"
	EventSyncFailed      EventType = "SYNC_FAILED"
	EventPong            EventType = "PONG"
)

// Event is the payload sent over WebSocket.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// SyncState is the poller's externally visible status.
type SyncState struct {
	Loading    bool       `json:"loading"`
	LastSyncAt *time.Time `json:"lastSyncAt"`
	Version    uint64     `json:"version"`
	Count      int        `json:"count"`
	LastError  string     `json:"lastError,omitempty"`
}

// WindowEventKind is a consumer lifecycle signal that should trigger a
// refresh, mirroring the browser's focus and visibilitychange events.
type WindowEventKind string

const (
	WindowFocus      WindowEventKind = "focus"
	WindowVisibility WindowEventKind = "visibilitychange"
)

// WindowEvent carries the visibility state for visibility changes.
type WindowEvent struct {
	Kind    WindowEventKind
	Visible bool
}
