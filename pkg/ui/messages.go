package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rachel1809/gmaps-scraper/pkg/archive"
	"github.com/Rachel1809/gmaps-scraper/pkg/export"
	"github.com/Rachel1809/gmaps-scraper/pkg/model"
	"github.com/Rachel1809/gmaps-scraper/pkg/protocol"
	"github.com/Rachel1809/gmaps-scraper/pkg/transport"
	"github.com/Rachel1809/gmaps-scraper/pkg/watcher"
)

// ChannelReadyMsg reports a successful dial.
type ChannelReadyMsg struct {
	Channel *transport.Channel
}

// ChannelErrorMsg reports a failed dial.
type ChannelErrorMsg struct {
	Err error
}

// ChannelEventMsg carries one inbound worker event.
type ChannelEventMsg struct {
	Event protocol.Event
}

// ChannelClosedMsg fires when a connection is lost. Channel identifies
// which one: a reconnect closes the superseded channel, and its close
// must not be mistaken for the live channel's.
type ChannelClosedMsg struct {
	Channel *transport.Channel
	Err     error
}

// SendFailedMsg reports a control frame that could not be written.
type SendFailedMsg struct {
	Err error
}

// ExportDoneMsg reports the outcome of a snapshot export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// ArchivedMsg reports the outcome of archiving a superseded run.
type ArchivedMsg struct {
	Keyword string
	Rows    int
	Err     error
}

// ConfigChangedMsg fires when the config file changes on disk.
type ConfigChangedMsg struct{}

// FlashClearMsg expires a transient footer message. The sequence number
// keeps an old timer from clearing a newer flash.
type FlashClearMsg struct {
	Seq int
}

// DialCmd connects to the worker off the update loop.
func DialCmd(endpoint string) tea.Cmd {
	return func() tea.Msg {
		ch, err := transport.Dial(endpoint)
		if err != nil {
			return ChannelErrorMsg{Err: err}
		}
		return ChannelReadyMsg{Channel: ch}
	}
}

// WaitForChannelEventCmd waits for the next inbound event. Re-armed
// after every delivery so events flow through the update loop one at a
// time.
func WaitForChannelEventCmd(c *transport.Channel) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return nil
		}
		ev, ok := <-c.Events()
		if !ok {
			var err error
			select {
			case err = <-c.Closed():
			default:
			}
			return ChannelClosedMsg{Channel: c, Err: err}
		}
		return ChannelEventMsg{Event: ev}
	}
}

// SendCmd writes one control frame off the update loop.
func SendCmd(c *transport.Channel, cmd protocol.Command) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return SendFailedMsg{Err: transport.ErrChannelClosed}
		}
		if err := c.Send(cmd); err != nil {
			return SendFailedMsg{Err: err}
		}
		return nil
	}
}

// ExportCmd serializes the current rows to disk.
func ExportCmd(s *export.Serializer, dir string, records []model.Record, mask model.ColumnMask, format export.Format) tea.Cmd {
	return func() tea.Msg {
		path, err := s.WriteFile(dir, records, mask, format)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// ArchiveCmd saves a superseded run's rows to the local archive.
func ArchiveCmd(store *archive.Store, keyword string, records []model.Record) tea.Cmd {
	return func() tea.Msg {
		if store == nil || len(records) == 0 {
			return nil
		}
		_, err := store.SaveRun(keyword, records)
		return ArchivedMsg{Keyword: keyword, Rows: len(records), Err: err}
	}
}

// WatchConfigCmd waits for the next config file change.
func WatchConfigCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		if w == nil {
			return nil
		}
		<-w.Changed()
		return ConfigChangedMsg{}
	}
}
