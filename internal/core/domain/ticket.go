package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// CanonicalStatus is the normalized lifecycle state of a ticket. It is
// always derived from Ticket.Status and never stored.
type CanonicalStatus string

const (
	StatusOpen       CanonicalStatus = "open"
	StatusInProgress CanonicalStatus = "in_progress"
	StatusResolved   CanonicalStatus = "resolved"
)

// UnknownLabel is used for distribution rows whose source field is empty.
const UnknownLabel = "Unknown"

// ParseStatus recognizes status text, ignoring case and surrounding
// whitespace. The boolean is false for text that is not a known synonym.
func ParseStatus(raw string) (CanonicalStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "open", "pending":
		return StatusOpen, true
	case "in_progress", "in progress", "progress":
		return StatusInProgress, true
	case "resolved", "closed":
		return StatusResolved, true
	default:
		return StatusOpen, false
	}
}

// NormalizeStatus maps free-form status text to a canonical status.
// Anything unrecognized, including the empty string, is open.
func NormalizeStatus(raw string) CanonicalStatus {
	status, _ := ParseStatus(raw)
	return status
}

// IsValid reports whether s is one of the three canonical values.
func (s CanonicalStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Label returns the display label used by the admin status selector.
func (s CanonicalStatus) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusResolved:
		return "Resolved"
	default:
		return "Open"
	}
}

// StatusLabels lists the selectable status labels in display order.
func StatusLabels() []string {
	return []string{StatusOpen.Label(), StatusInProgress.Label(), StatusResolved.Label()}
}

// Ticket is a support request as served by the remote ticket API.
type Ticket struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Priority     string `json:"priority"`
	Status       string `json:"status"`
	AdminComment string `json:"admin_comment,omitempty"`
	CreatedAt    string `json:"created_at"`
	UserID       *int64 `json:"user_id,omitempty"`
}

// CanonicalStatus derives the ticket's canonical status.
func (t Ticket) CanonicalStatus() CanonicalStatus {
	return NormalizeStatus(t.Status)
}

// HasPriority reports whether the ticket's priority matches p, ignoring case.
func (t Ticket) HasPriority(p string) bool {
	return strings.EqualFold(t.Priority, p)
}

// createdAtLayouts are tried in order. The remote API emits naive UTC
// timestamps without an offset.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// CreatedTime parses CreatedAt. The second return value is false when the
// field is empty or unparseable.
func (t Ticket) CreatedTime() (time.Time, bool) {
	return ParseTimestamp(t.CreatedAt)
}

// ParseTimestamp parses a remote timestamp; naive values are taken as UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// NormalizeLabel prepares a free-form field for grouping: surrounding
// whitespace is trimmed, empty becomes Unknown, and the first character is
// upper-cased with the remainder left as is.
func NormalizeLabel(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return UnknownLabel
	}
	first, size := utf8.DecodeRuneInString(text)
	return string(unicode.ToUpper(first)) + text[size:]
}

// SinceLabel renders the coarse age of a timestamp relative to now, e.g.
// "just now", "5m ago", "3h ago", "2d ago".
func SinceLabel(raw string, now time.Time) string {
	ts, ok := ParseTimestamp(raw)
	if !ok {
		return "just now"
	}
	diff := now.Sub(ts)
	if diff < time.Minute {
		return "just now"
	}
	minutes := int(diff / time.Minute)
	if minutes < 60 {
		return strconv.Itoa(minutes) + "m ago"
	}
	hours := minutes / 60
	if hours < 24 {
		return strconv.Itoa(hours) + "h ago"
	}
	return strconv.Itoa(hours/24) + "d ago"
}
