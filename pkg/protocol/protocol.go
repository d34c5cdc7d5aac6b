// Package protocol defines the JSON wire frames exchanged with the crawl
// worker and the typed event union the rest of the client consumes.
//
// Outbound frames are commands:
//
//	{"action":"start","keyword":"...","headless":false,"ignore_urls":[...]}
//	{"action":"stop"}
//
// Inbound frames are events:
//
//	{"type":"log","payload":"> Feed loaded."}
//	{"type":"row","payload":{"name":...,"link":...}}
//	{"type":"status","payload":"RUNNING"}
//	{"type":"image","payload":"<base64 png>"}
//
// The worker is a trusted collaborator, but frames are still validated on
// receipt so a malformed frame degrades to a decode error instead of a
// corrupt buffer.
package protocol

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/Rachel1809/gmaps-scraper/pkg/model"
)

// Action names for outbound commands.
const (
	ActionStart = "start"
	ActionStop  = "stop"
)

// Event type tags for inbound frames.
const (
	EventLog    = "log"
	EventRow    = "row"
	EventStatus = "status"
	EventImage  = "image"
)

// Decode errors.
var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrBadPayload       = errors.New("malformed event payload")
)

// Command is an outbound control frame.
type Command struct {
	Action     string   `json:"action"`
	Keyword    string   `json:"keyword,omitempty"`
	Headless   bool     `json:"headless,omitempty"`
	IgnoreURLs []string `json:"ignore_urls,omitempty"`
}

// StartCommand builds the control frame that starts or resumes a run.
// ignoreURLs carries the Dedup Ledger snapshot; empty means new session.
func StartCommand(keyword string, headless bool, ignoreURLs []string) Command {
	if ignoreURLs == nil {
		ignoreURLs = []string{}
	}
	return Command{
		Action:     ActionStart,
		Keyword:    keyword,
		Headless:   headless,
		IgnoreURLs: ignoreURLs,
	}
}

// StopCommand builds the control frame that requests cessation of the
// active run.
func StopCommand() Command {
	return Command{Action: ActionStop}
}

// Encode serializes the command to a JSON text frame.
func (c Command) Encode() ([]byte, error) {
	// The start action always carries ignore_urls, even when empty, so the
	// worker can distinguish "new session" from an absent field.
	if c.Action == ActionStart && c.IgnoreURLs == nil {
		c.IgnoreURLs = []string{}
	}
	type wire struct {
		Action     string   `json:"action"`
		Keyword    string   `json:"keyword,omitempty"`
		Headless   bool     `json:"headless"`
		IgnoreURLs []string `json:"ignore_urls"`
	}
	if c.Action == ActionStop {
		return json.Marshal(struct {
			Action string `json:"action"`
		}{Action: ActionStop})
	}
	return json.Marshal(wire{
		Action:     c.Action,
		Keyword:    c.Keyword,
		Headless:   c.Headless,
		IgnoreURLs: c.IgnoreURLs,
	})
}

// Event is one inbound frame, decoded into exactly one variant.
// The zero value is not a valid event; use DecodeEvent.
type Event struct {
	Type string

	// Exactly one of the following is meaningful, keyed by Type.
	Log    string          // EventLog: one human-readable status line
	Row    model.Record    // EventRow: one collected listing
	Status model.RunStatus // EventStatus: authoritative run state
	Image  string          // EventImage: base64-encoded PNG frame
}

// envelope is the raw shape of every inbound frame.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeEvent parses and validates one inbound text frame.
func DecodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("decoding event envelope: %w", err)
	}

	switch env.Type {
	case EventLog:
		var line string
		if err := json.Unmarshal(env.Payload, &line); err != nil {
			return Event{}, fmt.Errorf("%w: log: %v", ErrBadPayload, err)
		}
		return Event{Type: EventLog, Log: line}, nil

	case EventRow:
		var rec model.Record
		if err := json.Unmarshal(env.Payload, &rec); err != nil {
			return Event{}, fmt.Errorf("%w: row: %v", ErrBadPayload, err)
		}
		return Event{Type: EventRow, Row: rec}, nil

	case EventStatus:
		var raw string
		if err := json.Unmarshal(env.Payload, &raw); err != nil {
			return Event{}, fmt.Errorf("%w: status: %v", ErrBadPayload, err)
		}
		status, ok := model.ParseRunStatus(raw)
		if !ok {
			return Event{}, fmt.Errorf("%w: status %q", ErrBadPayload, raw)
		}
		return Event{Type: EventStatus, Status: status}, nil

	case EventImage:
		var b64 string
		if err := json.Unmarshal(env.Payload, &b64); err != nil {
			return Event{}, fmt.Errorf("%w: image: %v", ErrBadPayload, err)
		}
		return Event{Type: EventImage, Image: b64}, nil

	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEventType, env.Type)
	}
}
