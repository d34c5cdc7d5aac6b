// Package session implements the client side of the collection run
// protocol: the run state machine, the resume/new-session decision, the
// ingestion buffers fed by the worker's event stream, and the derived
// dedup ledger sent back to the worker on resume.
//
// A Session is owned by the single event-processing context (the Bubble
// Tea update loop). Messages are applied run-to-completion, one at a
// time, which is what makes the append-only buffer semantics safe
// without locking.
package session

import (
	"errors"
	"fmt"

	"github.com/Rachel1809/gmaps-scraper/pkg/model"
	"github.com/Rachel1809/gmaps-scraper/pkg/protocol"
)

// LogCap is the bounded retention of the log buffer. Once exceeded, the
// oldest entries are evicted first.
const LogCap = 100

// ErrEmptyKeyword is returned by RequestStart for a blank search phrase.
// The action has no side effect beyond a diagnostic log entry; no
// control message is sent.
var ErrEmptyKeyword = errors.New("keyword must not be empty")

// StartResult describes the outcome of a successful RequestStart.
type StartResult struct {
	// Command is the control frame to send over the transport channel.
	Command protocol.Command

	// Resumed is true when the start targeted the same keyword as the
	// previous run, preserving buffers and carrying the dedup ledger.
	Resumed bool

	// Superseded holds the previous run's records when a different
	// keyword replaced it, so the caller can archive them before they
	// are gone. Nil on resume and on the first start.
	Superseded []model.Record
}

// Session tracks one keyword-scoped collection run: its lifecycle state,
// its record and log buffers, and the most recent live-preview frame.
// The buffers' contents are valid only for the keyword that produced
// them; the new-session branch of RequestStart is the only place they
// are cleared.
type Session struct {
	keyword  string
	status   model.RunStatus
	headless bool

	records []model.Record
	logs    []string
	frame   string // base64 PNG, most recent frame only
}

// New returns an idle session with empty buffers.
func New() *Session {
	return &Session{status: model.StatusIdle}
}

// RequestStart validates the keyword and derives the outbound start
// command. A keyword equal (after trimming) to the previous start's is a
// RESUME: buffers survive and the command carries the dedup ledger. Any
// other keyword is a NEW SESSION: buffers and the live frame are cleared
// and the skip-list is empty.
//
// The local status is deliberately not forced to running here; the
// worker's status event is the authority, so the UI only ever shows
// confirmed state.
func (s *Session) RequestStart(keyword string, headless bool) (StartResult, error) {
	trimmed := model.NormalizeKeyword(keyword)
	if trimmed == "" {
		s.AppendLog("! Keyword is empty. Nothing to start.")
		return StartResult{}, ErrEmptyKeyword
	}

	s.headless = headless

	if s.keyword != "" && trimmed == s.keyword {
		skip := s.SkipList()
		s.AppendLog(fmt.Sprintf("> Resuming '%s' (%d collected)...", trimmed, len(s.records)))
		return StartResult{
			Command: protocol.StartCommand(trimmed, headless, skip),
			Resumed: true,
		}, nil
	}

	superseded := s.records
	s.records = nil
	s.logs = nil
	s.frame = ""
	s.keyword = trimmed
	s.AppendLog(fmt.Sprintf("> Starting '%s'...", trimmed))

	return StartResult{
		Command:    protocol.StartCommand(trimmed, headless, nil),
		Superseded: superseded,
	}, nil
}

// RequestStop derives the stop command. Valid only while the run is
// confirmed running; anywhere else it is a no-op and ok is false. The
// local status is, again, driven by the worker's subsequent status
// event, not forced here.
func (s *Session) RequestStop() (cmd protocol.Command, ok bool) {
	if s.status != model.StatusRunning {
		return protocol.Command{}, false
	}
	return protocol.StopCommand(), true
}

// Apply folds one inbound event into the session. Events arrive on a
// single channel and are applied in order; no reordering or coalescing
// happens here, so the visible log and row order is exactly the worker's
// emission order.
func (s *Session) Apply(ev protocol.Event) {
	switch ev.Type {
	case protocol.EventLog:
		s.AppendLog(ev.Log)
	case protocol.EventRow:
		// Unconditional append: the worker already applied the supplied
		// skip-list, so the client does not re-filter on ingest.
		s.records = append(s.records, ev.Row)
	case protocol.EventStatus:
		// Worker-asserted state is applied without local validation.
		s.status = ev.Status
	case protocol.EventImage:
		// Full replacement, never merged.
		s.frame = ev.Image
	}
}

// AppendLog appends one log line, evicting the oldest entries beyond
// LogCap. Also used for synthetic transport lifecycle entries.
func (s *Session) AppendLog(line string) {
	s.logs = append(s.logs, line)
	if excess := len(s.logs) - LogCap; excess > 0 {
		s.logs = append(s.logs[:0], s.logs[excess:]...)
	}
}

// MarkOffline forces the session offline. Called when the transport
// channel closes; offline is terminal until a new channel exists.
func (s *Session) MarkOffline() {
	s.status = model.StatusOffline
}

// SkipList returns the dedup ledger: the distinct, non-empty,
// non-sentinel links of every buffered record, in first-appearance
// order. Order does not affect correctness, only the determinism of the
// outbound payload.
func (s *Session) SkipList() []string {
	seen := make(map[string]struct{}, len(s.records))
	out := make([]string, 0, len(s.records))
	for _, r := range s.records {
		if !r.HasIdentity() {
			continue
		}
		if _, dup := seen[r.Link]; dup {
			continue
		}
		seen[r.Link] = struct{}{}
		out = append(out, r.Link)
	}
	return out
}

// Keyword returns the keyword recorded from the previous successful
// start, or empty before the first one.
func (s *Session) Keyword() string { return s.keyword }

// Status returns the current confirmed run state.
func (s *Session) Status() model.RunStatus { return s.status }

// Headless reports the display-mode flag from the last start request.
func (s *Session) Headless() bool { return s.headless }

// Records returns the row buffer. Callers must treat it as read-only.
func (s *Session) Records() []model.Record { return s.records }

// Logs returns the log buffer, oldest first. Read-only for callers.
func (s *Session) Logs() []string { return s.logs }

// Frame returns the most recent base64 preview frame, or empty when no
// frame has arrived since the last clear.
func (s *Session) Frame() string { return s.frame }
