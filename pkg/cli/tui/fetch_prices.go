package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skrobi/price/pkg/client"
	"github.com/skrobi/price/pkg/prices"
)

// fetchPricesModel drives the "fetch all prices" flow: a sequential pass
// over every tracked link with live progress, a log tail, and a results
// table that failed links join as pending manual-entry rows.
type fetchPricesModel struct {
	runner *prices.Runner
	table  *prices.Table
	notify *prices.NotificationCenter
	manual *prices.ManualEntry

	// Runner events are funnelled through this channel into Update.
	events chan tea.Msg
	cancel context.CancelFunc

	bar     progress.Model
	percent int
	done    int
	total   int
	logs    []string

	running bool
	ended   bool
	outcome prices.Outcome

	// Manual entry state
	selected    int
	editingRow  string
	priceInput  textinput.Model
	currencyIdx int
}

const logTailSize = 6

// NewFetchPricesModel constructs the batch fetch flow.
func NewFetchPricesModel(apiClient *client.Client, throttle time.Duration) tea.Model {
	table := prices.NewTable()
	notify := prices.NewNotificationCenter()
	renderer := prices.NewRenderer(table)
	events := make(chan tea.Msg, 64)

	priceInput := textinput.New()
	priceInput.Placeholder = "0.00"
	priceInput.CharLimit = 16
	priceInput.Width = 12

	return &fetchPricesModel{
		runner:     prices.NewRunner(apiClient, renderer, &channelReporter{ch: events}, throttle),
		table:      table,
		notify:     notify,
		manual:     prices.NewManualEntry(apiClient, renderer, table, notify),
		events:     events,
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		priceInput: priceInput,
	}
}

// channelReporter forwards runner callbacks into the Bubble Tea loop.
type channelReporter struct {
	ch chan tea.Msg
}

func (r *channelReporter) Progress(done, total, percent int) {
	r.ch <- batchProgressMsg{done: done, total: total, percent: percent}
}

func (r *channelReporter) Log(line string)      { r.ch <- batchLogMsg{line: line} }
func (r *channelReporter) LogError(line string) { r.ch <- batchLogMsg{line: line, isError: true} }

func (r *channelReporter) Done(outcome prices.Outcome, err error) {
	r.ch <- batchDoneMsg{outcome: outcome, err: err}
}

type batchProgressMsg struct {
	done, total, percent int
}

type batchLogMsg struct {
	line    string
	isError bool
}

type batchDoneMsg struct {
	outcome prices.Outcome
	err     error
}

type reloadMsg struct{}

type repaintMsg time.Time

type manualSavedMsg struct{}

type manualFailedMsg struct{}

func (m *fetchPricesModel) Init() tea.Cmd {
	return tea.Batch(m.startRun(), m.waitForEvent(), repaintTick())
}

// startRun kicks off the batch loop in its own goroutine; all results come
// back through the events channel.
func (m *fetchPricesModel) startRun() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.ended = false
	m.percent = 0
	m.done = 0
	m.total = 0
	return func() tea.Msg {
		_ = m.runner.Start(ctx)
		return nil
	}
}

func (m *fetchPricesModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// repaintTick keeps the view fresh so notification expiry shows up without
// user input.
func repaintTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return repaintMsg(t)
	})
}

func (m *fetchPricesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editingRow != "" {
			return m.updateManualEdit(msg)
		}
		return m.updateKeys(msg)

	case batchProgressMsg:
		m.done = msg.done
		m.total = msg.total
		m.percent = msg.percent
		return m, m.waitForEvent()

	case batchLogMsg:
		line := msg.line
		if msg.isError {
			line = errorStyle.Render(line)
		}
		m.logs = append(m.logs, line)
		if len(m.logs) > 100 {
			m.logs = m.logs[len(m.logs)-100:]
		}
		return m, m.waitForEvent()

	case batchDoneMsg:
		m.running = false
		m.ended = true
		m.outcome = msg.outcome
		cmds := []tea.Cmd{m.waitForEvent()}
		if msg.outcome == prices.OutcomeCompleted {
			// Mirror the post-run page refresh: a short pause, then back
			// to the menu with fresh data on the next visit.
			cmds = append(cmds, tea.Tick(prices.ReloadDelay, func(time.Time) tea.Msg {
				return reloadMsg{}
			}))
		}
		return m, tea.Batch(cmds...)

	case reloadMsg:
		if m.cancel != nil {
			m.cancel()
		}
		return m, flowDone

	case repaintMsg:
		return m, repaintTick()

	case manualSavedMsg:
		m.editingRow = ""
		m.priceInput.Blur()
		m.clampSelection()
		return m, nil

	case manualFailedMsg:
		// Row and draft are kept; the notification explains the failure.
		return m, nil
	}

	return m, nil
}

func (m *fetchPricesModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case "esc", "q":
		if m.running {
			m.runner.Cancel()
			return m, nil
		}
		return m, flowDone

	case "s":
		if m.running {
			m.runner.Cancel()
		}
		return m, nil

	case "r":
		if !m.running && m.ended && m.outcome != prices.OutcomeCompleted {
			m.logs = nil
			return m, m.startRun()
		}
		return m, nil

	case "enter":
		rows := m.table.Rows()
		if m.selected < len(rows) && rows[m.selected].Kind == prices.RowManual {
			row := rows[m.selected]
			m.editingRow = row.ID
			m.priceInput.SetValue(row.Draft.Price)
			m.currencyIdx = currencyIndex(row.Draft.Currency)
			m.priceInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case "d":
		rows := m.table.Rows()
		if m.selected < len(rows) && rows[m.selected].Kind == prices.RowManual {
			m.manual.Dismiss(rows[m.selected].ID)
			m.clampSelection()
		}
		return m, nil
	}

	if newSelected, handled := handleListNavigation(key, m.selected, m.table.Len()); handled {
		m.selected = newSelected
		return m, nil
	}

	return m, nil
}

func (m *fetchPricesModel) updateManualEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case "esc":
		m.editingRow = ""
		m.priceInput.Blur()
		return m, nil

	case "tab":
		m.currencyIdx = (m.currencyIdx + 1) % len(prices.Currencies)
		return m, nil

	case "enter":
		return m, m.saveManual(m.editingRow)
	}

	var cmd tea.Cmd
	m.priceInput, cmd = m.priceInput.Update(msg)
	return m, cmd
}

func (m *fetchPricesModel) saveManual(rowID string) tea.Cmd {
	price := m.priceInput.Value()
	currency := prices.Currencies[m.currencyIdx]
	return func() tea.Msg {
		m.table.UpdateDraft(rowID, price, currency)
		if err := m.manual.Save(context.Background(), rowID); err != nil {
			return manualFailedMsg{}
		}
		return manualSavedMsg{}
	}
}

func (m *fetchPricesModel) clampSelection() {
	if total := m.table.Len(); m.selected >= total && total > 0 {
		m.selected = total - 1
	} else if total == 0 {
		m.selected = 0
	}
}

func currencyIndex(currency string) int {
	for i, c := range prices.Currencies {
		if c == currency {
			return i
		}
	}
	return 0
}

func (m *fetchPricesModel) View() string {
	var b strings.Builder
	b.WriteString(renderTitle("Fetch Prices"))

	if banner := renderNotification(m.notify); banner != "" {
		b.WriteString(banner + "\n")
	}

	if m.running {
		b.WriteString(m.bar.ViewAs(float64(m.percent) / 100))
		if m.total > 0 {
			b.WriteString(fmt.Sprintf("  %d/%d", m.done, m.total))
		}
		b.WriteString("\n\n")
	} else if m.ended {
		switch m.outcome {
		case prices.OutcomeCompleted:
			b.WriteString(renderSuccess("All prices processed. Returning to menu...") + "\n\n")
		case prices.OutcomeStopped:
			b.WriteString(renderWarning("Stopped by user.") + "\n\n")
		case prices.OutcomeNothingToDo:
			b.WriteString(mutedStyle.Render("No links to process.") + "\n\n")
		case prices.OutcomeFailed:
			b.WriteString(renderError("Fetch run failed, see log below.") + "\n\n")
		}
	}

	// Log tail
	if len(m.logs) > 0 {
		start := 0
		if len(m.logs) > logTailSize {
			start = len(m.logs) - logTailSize
		}
		for _, line := range m.logs[start:] {
			b.WriteString(mutedStyle.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(renderDivider(60) + "\n")

	rows := m.table.Rows()
	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("No prices fetched yet.") + "\n")
	}
	for i, row := range rows {
		b.WriteString(renderResultRow(row, i == m.selected))
		if row.ID == m.editingRow {
			b.WriteString(fmt.Sprintf("    %s %s  %s %s\n",
				fieldLabelStyle.Render("Price:"),
				m.priceInput.View(),
				fieldLabelStyle.Render("Currency:"),
				boldStyle.Render(prices.Currencies[m.currencyIdx]),
			))
			b.WriteString("    " + helpStyle.Render("Enter to save, Tab to change currency, Esc to cancel") + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.editingRow != "":
		// Help rendered inline next to the input.
	case m.running:
		b.WriteString(helpStyle.Render("'s' or Esc to stop, Ctrl+C to quit") + "\n")
	default:
		help := "↑/↓ select, Enter to fill a manual price, 'd' to dismiss, Esc for menu"
		if m.ended && m.outcome != prices.OutcomeCompleted {
			help += ", 'r' to rerun"
		}
		b.WriteString(helpStyle.Render(help) + "\n")
	}

	return b.String()
}
