// Package ui provides the terminal user interface for gmctl: a keyword
// input, the live worker log, the collected rows, and the optional
// browser preview, all driven by the worker's event stream.
//
// All session mutation happens inside Update. Transport and disk work
// run in commands off the loop and report back as messages, so every
// event is applied run-to-completion with no locking.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rachel1809/gmaps-scraper/pkg/archive"
	"github.com/Rachel1809/gmaps-scraper/pkg/config"
	"github.com/Rachel1809/gmaps-scraper/pkg/debug"
	"github.com/Rachel1809/gmaps-scraper/pkg/export"
	"github.com/Rachel1809/gmaps-scraper/pkg/model"
	"github.com/Rachel1809/gmaps-scraper/pkg/protocol"
	"github.com/Rachel1809/gmaps-scraper/pkg/session"
	"github.com/Rachel1809/gmaps-scraper/pkg/transport"
	"github.com/Rachel1809/gmaps-scraper/pkg/watcher"
)

type focus int

const (
	focusInput focus = iota
	focusLogs
)

const flashDuration = 4 * time.Second

// Model is the main Bubble Tea model for gmctl.
type Model struct {
	cfg   config.Config
	theme Theme

	sess       *session.Session
	channel    *transport.Channel
	store      *archive.Store
	serializer *export.Serializer
	cfgWatcher *watcher.Watcher

	keyword  textinput.Model
	logView  viewport.Model
	helpView viewport.Model
	spin     spinner.Model

	columns         ColumnsModel
	showColumns     bool
	showHelp        bool
	showQuitConfirm bool
	showPreview     bool
	preview         string

	focused   focus
	connected bool
	dialing   bool

	flash    string
	flashErr bool
	flashSeq int

	width  int
	height int
	ready  bool
}

// NewModel builds the initial model. The archive store and config
// watcher may be nil; the related features degrade to no-ops.
func NewModel(cfg config.Config, store *archive.Store, cfgWatcher *watcher.Watcher) Model {
	theme := DefaultTheme()

	ti := textinput.New()
	ti.Placeholder = "coffee shops in hanoi"
	ti.CharLimit = 120
	ti.Prompt = "keyword: "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Running)

	return Model{
		cfg:         cfg,
		theme:       theme,
		sess:        session.New(),
		store:       store,
		serializer:  export.New(),
		cfgWatcher:  cfgWatcher,
		keyword:     ti,
		logView:     viewport.New(0, 0),
		helpView:    viewport.New(0, 0),
		spin:        sp,
		showPreview: cfg.ShowPreview(),
		dialing:     true, // Init dials immediately
	}
}

// Endpoint returns the worker URL derived from the current config.
func (m Model) Endpoint() string {
	return transport.Endpoint(m.cfg.Worker.Host, m.cfg.Worker.Port, m.cfg.Worker.TunnelHosts)
}

// Session exposes the underlying session for tests.
func (m Model) Session() *session.Session { return m.sess }

// Stop releases background resources. Call after the program exits.
func (m Model) Stop() {
	if m.channel != nil {
		m.channel.Close()
	}
	if m.cfgWatcher != nil {
		m.cfgWatcher.Stop()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		DialCmd(m.Endpoint()),
		WatchConfigCmd(m.cfgWatcher),
		m.spin.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.refreshLogs(true)
		m.renderPreview()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ChannelReadyMsg:
		m.channel = msg.Channel
		m.connected = true
		m.dialing = false
		return m, WaitForChannelEventCmd(m.channel)

	case ChannelErrorMsg:
		m.dialing = false
		m.sess.MarkOffline()
		m.sess.AppendLog(fmt.Sprintf("! Could not reach worker: %v", msg.Err))
		m.refreshLogs(false)
		return m, m.setFlash("Worker unreachable — press r to retry", true)

	case ChannelEventMsg:
		m.sess.Apply(msg.Event)
		if msg.Event.Type == protocol.EventImage {
			m.renderPreview()
		}
		m.refreshLogs(false)
		return m, WaitForChannelEventCmd(m.channel)

	case ChannelClosedMsg:
		// A reconnect closes the superseded channel; its close may land
		// after the new channel is ready and must not take it down.
		if msg.Channel != m.channel {
			return m, nil
		}
		m.connected = false
		m.channel = nil
		m.sess.MarkOffline()
		m.sess.AppendLog("! Connection lost.")
		m.refreshLogs(false)
		return m, m.setFlash("Connection lost — press r to reconnect", true)

	case SendFailedMsg:
		m.sess.AppendLog(fmt.Sprintf("! Send failed: %v", msg.Err))
		m.refreshLogs(false)
		return m, m.setFlash("Send failed", true)

	case ExportDoneMsg:
		switch {
		case msg.Err == export.ErrEmptyDataset:
			return m, m.setFlash("No rows to export yet", true)
		case msg.Err != nil:
			return m, m.setFlash(fmt.Sprintf("Export failed: %v", msg.Err), true)
		default:
			m.sess.AppendLog(fmt.Sprintf("> Saved %s", msg.Path))
			m.refreshLogs(false)
			return m, m.setFlash(fmt.Sprintf("Saved %s", msg.Path), false)
		}

	case ArchivedMsg:
		if msg.Err != nil {
			debug.Log("archiving %q failed: %v", msg.Keyword, msg.Err)
			return m, m.setFlash("Could not archive previous run", true)
		}
		m.sess.AppendLog(fmt.Sprintf("> Archived %d rows for '%s'.", msg.Rows, msg.Keyword))
		m.refreshLogs(false)
		return m, nil

	case ConfigChangedMsg:
		cmds := []tea.Cmd{WatchConfigCmd(m.cfgWatcher)}
		cfg, err := config.Load()
		if err != nil {
			debug.Log("config reload failed: %v", err)
			return m, tea.Batch(append(cmds, m.setFlash("Config reload failed", true))...)
		}
		m.cfg = cfg
		m.showPreview = cfg.ShowPreview()
		return m, tea.Batch(append(cmds, m.setFlash("Config reloaded", false))...)

	case FlashClearMsg:
		if msg.Seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showQuitConfirm {
		switch msg.String() {
		case "y", "enter":
			return m, tea.Quit
		case "n", "esc", "q":
			m.showQuitConfirm = false
		}
		return m, nil
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		default:
			var cmd tea.Cmd
			m.helpView, cmd = m.helpView.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.showColumns {
		var action columnsAction
		m.columns, action = m.columns.Update(msg)
		switch action {
		case columnsApply:
			m.cfg.SetMask(m.columns.Mask())
			m.showColumns = false
			if err := config.Save(m.cfg); err != nil {
				debug.Log("saving column mask: %v", err)
				return m, m.setFlash("Columns updated (saving config failed)", true)
			}
			return m, m.setFlash("Columns updated", false)
		case columnsCancel:
			m.showColumns = false
		}
		return m, nil
	}

	if m.focused == focusInput {
		switch msg.String() {
		case "enter":
			return m.requestStart()
		case "tab", "esc":
			m.focused = focusLogs
			m.keyword.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.keyword, cmd = m.keyword.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "tab", "i", "/":
		m.focused = focusInput
		return m, m.keyword.Focus()
	case "s":
		return m.requestStop()
	case "e":
		return m, ExportCmd(m.serializer, m.cfg.UI.ExportDir, m.sess.Records(), m.cfg.Mask(), export.FormatCSV)
	case "x":
		return m, ExportCmd(m.serializer, m.cfg.UI.ExportDir, m.sess.Records(), m.cfg.Mask(), export.FormatXLSX)
	case "c":
		m.columns = NewColumnsModel(m.theme, m.cfg.Mask())
		m.showColumns = true
		return m, nil
	case "y":
		return m.copyNewestLink()
	case "p":
		m.showPreview = !m.showPreview
		m.layout()
		m.refreshLogs(true)
		m.renderPreview()
		return m, nil
	case "r":
		if m.dialing {
			return m, nil
		}
		m.dialing = true
		m.sess.AppendLog(fmt.Sprintf("> Connecting to %s...", m.Endpoint()))
		m.refreshLogs(false)
		return m, DialCmd(m.Endpoint())
	case "?":
		m.showHelp = true
		m.helpView.SetContent(renderHelp(m.helpView.Width))
		m.helpView.GotoTop()
		return m, nil
	case "q":
		// Quitting mid-run abandons rows that only exist in the buffer.
		if m.sess.Status() == model.StatusRunning {
			m.showQuitConfirm = true
			return m, nil
		}
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}
}

func (m Model) requestStart() (tea.Model, tea.Cmd) {
	if !m.connected {
		return m, m.setFlash("Not connected — press r to reconnect", true)
	}

	prev := m.sess.Keyword()
	res, err := m.sess.RequestStart(m.keyword.Value(), m.cfg.UI.Headless)
	m.refreshLogs(false)
	if err != nil {
		return m, m.setFlash("Enter a keyword first", true)
	}

	m.renderPreview()

	cmds := []tea.Cmd{SendCmd(m.channel, res.Command)}
	if len(res.Superseded) > 0 {
		cmds = append(cmds, ArchiveCmd(m.store, prev, res.Superseded))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) requestStop() (tea.Model, tea.Cmd) {
	cmd, ok := m.sess.RequestStop()
	if !ok {
		return m, m.setFlash("No crawl is running", true)
	}
	m.sess.AppendLog("> Stopping...")
	m.refreshLogs(false)
	return m, SendCmd(m.channel, cmd)
}

func (m Model) copyNewestLink() (tea.Model, tea.Cmd) {
	records := m.sess.Records()
	for i := len(records) - 1; i >= 0; i-- {
		if !records[i].HasIdentity() {
			continue
		}
		if err := clipboard.WriteAll(records[i].Link); err != nil {
			return m, m.setFlash("Clipboard unavailable", true)
		}
		return m, m.setFlash("Link copied", false)
	}
	return m, m.setFlash("No row with a link yet", true)
}

// setFlash shows a transient footer message and arms its expiry.
func (m *Model) setFlash(text string, isErr bool) tea.Cmd {
	m.flash = text
	m.flashErr = isErr
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return FlashClearMsg{Seq: seq}
	})
}

// layout recomputes component sizes from the window size.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	bodyHeight := m.height - 6 // header, input, footer, panel borders
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	logWidth := m.width - m.rightWidth() - 6
	if logWidth < 20 {
		logWidth = 20
	}

	m.keyword.Width = m.width - 14
	m.logView.Width = logWidth
	m.logView.Height = bodyHeight
	m.helpView.Width = m.width - 8
	m.helpView.Height = m.height - 4
}

func (m Model) rightWidth() int {
	if m.width >= 110 {
		return 44
	}
	return m.width / 3
}

// refreshLogs repaints the log viewport. The view follows the tail
// unless the user scrolled up; force overrides that after a relayout.
func (m *Model) refreshLogs(force bool) {
	follow := force || m.logView.AtBottom()
	m.logView.SetContent(strings.Join(m.sess.Logs(), "\n"))
	if follow {
		m.logView.GotoBottom()
	}
}

// renderPreview rebuilds the preview cache from the session's frame.
func (m *Model) renderPreview() {
	if !m.showPreview || !m.ready {
		m.preview = ""
		return
	}
	frame := m.sess.Frame()
	if frame == "" {
		m.preview = ""
		return
	}

	cols := m.rightWidth() - 4
	rows := (m.height - 6) / 2
	rendered, err := RenderFrame(frame, cols, rows)
	if err != nil {
		debug.Log("rendering preview frame: %v", err)
		m.preview = ""
		return
	}
	m.preview = rendered
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.showHelp {
		return m.theme.Panel.Padding(0, 1).Render(m.helpView.View())
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.inputView(),
		lipgloss.JoinHorizontal(lipgloss.Top, m.logsView(), m.rightView()),
		m.footerView(),
	)

	if m.showColumns {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.columns.View())
	}
	if m.showQuitConfirm {
		prompt := m.theme.Title.Render("Quit while a crawl is running?") + "\n\n" +
			m.theme.HintText.Render("Collected rows not yet exported will be lost.") + "\n\n" +
			m.theme.HintKey.Render("y") + m.theme.HintText.Render(" quit · ") +
			m.theme.HintKey.Render("n") + m.theme.HintText.Render(" stay")
		box := m.theme.PanelFocus.Padding(1, 2).Render(prompt)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return main
}

func (m Model) headerView() string {
	badge := m.theme.statusBadge(m.sess.Status())
	if m.sess.Status() == model.StatusRunning {
		badge = m.spin.View() + badge
	}

	left := m.theme.Title.Render("gmctl") + "  " + badge
	right := m.theme.Header.Render(m.Endpoint())
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

func (m Model) inputView() string {
	style := m.theme.Panel
	if m.focused == focusInput {
		style = m.theme.PanelFocus
	}
	return style.Width(m.width - 2).Render(m.keyword.View())
}

func (m Model) logsView() string {
	style := m.theme.Panel
	if m.focused == focusLogs {
		style = m.theme.PanelFocus
	}
	return style.Render(m.logView.View())
}

func (m Model) rightView() string {
	width := m.rightWidth()
	records := m.sess.Records()

	var sb strings.Builder
	sb.WriteString(m.theme.Title.Render(fmt.Sprintf("Rows: %d", len(records))))
	sb.WriteByte('\n')

	shown := 8
	if len(records) < shown {
		shown = len(records)
	}
	for _, r := range records[len(records)-shown:] {
		sb.WriteByte('\n')
		sb.WriteString(summaryLine(r, width-4))
	}

	if m.showPreview && m.preview != "" {
		sb.WriteString("\n\n")
		sb.WriteString(m.theme.Header.Render("Preview"))
		sb.WriteByte('\n')
		sb.WriteString(m.preview)
	}

	return m.theme.Panel.Width(width).Render(sb.String())
}

func (m Model) footerView() string {
	if m.flash != "" {
		style := m.theme.Flash
		if m.flashErr {
			style = m.theme.FlashError
		}
		return " " + style.Render(m.flash)
	}

	hints := []string{"enter start", "s stop", "e csv", "x xlsx", "c columns", "? help", "q quit"}
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		key, text, _ := strings.Cut(h, " ")
		parts = append(parts, m.theme.HintKey.Render(key)+" "+m.theme.HintText.Render(text))
	}
	return " " + strings.Join(parts, m.theme.HintText.Render(" · "))
}
