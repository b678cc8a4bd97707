package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skrobi/price/pkg/client"
	"github.com/skrobi/price/pkg/models"
)

// rootModel is the Bubble Tea model that acts as an app shell for multiple flows.
// It presents a simple menu and then hands control to a specific flow model.
type rootModel struct {
	// Shared dependencies
	client   *client.Client
	throttle time.Duration

	// Account info shown under the menu once loaded.
	userInfo *models.UserInfo

	// Current active flow (when nil, we are in the main menu)
	current tea.Model
}

// NewRootModel constructs the root app-shell model that can launch multiple flows.
func NewRootModel(apiClient *client.Client, throttle time.Duration) tea.Model {
	return &rootModel{
		client:   apiClient,
		throttle: throttle,
	}
}

type userInfoMsg struct {
	info *models.UserInfo
}

func (m *rootModel) Init() tea.Cmd {
	// Load account info in the background; the menu renders immediately.
	return func() tea.Msg {
		info, err := m.client.UserInfo(context.Background())
		if err != nil {
			return userInfoMsg{}
		}
		return userInfoMsg{info: info}
	}
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case flowDoneMsg:
		m.current = nil
		return m, m.Init()

	case userInfoMsg:
		if msg.info != nil {
			m.userInfo = msg.info
		}
		return m, nil

	case tea.KeyMsg:
		if m.current != nil {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "1":
			return m.launch(NewFetchPricesModel(m.client, m.throttle))
		case "2":
			return m.launch(NewProductActionsModel(m.client))
		case "3":
			return m.launch(NewFindShopsModel(m.client))
		case "4":
			return m.launch(NewSubstitutesModel(m.client))
		}
		return m, nil
	}

	// If we have an active flow, delegate all messages to it.
	if m.current != nil {
		var cmd tea.Cmd
		m.current, cmd = m.current.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *rootModel) launch(flow tea.Model) (tea.Model, tea.Cmd) {
	m.current = flow
	return m, flow.Init()
}

func (m *rootModel) View() string {
	// When a flow is active, defer to its view.
	if m.current != nil {
		return m.current.View()
	}

	var b strings.Builder

	b.WriteString(renderTitle("Price Tracker"))
	b.WriteString(renderDivider(60))
	b.WriteString("\n\n")
	b.WriteString(boldStyle.Render("Select an action:") + "\n\n")
	b.WriteString("  " + selectedMarkerStyle.Render("1)") + " Fetch all prices\n")
	b.WriteString("  " + selectedMarkerStyle.Render("2)") + " Products (fetch, manual price, edit, delete)\n")
	b.WriteString("  " + selectedMarkerStyle.Render("3)") + " Find product in shops\n")
	b.WriteString("  " + selectedMarkerStyle.Render("4)") + " Substitute groups\n")
	b.WriteString("\n")

	if m.userInfo != nil {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Signed in as %s, %d prices scraped",
			m.userInfo.UserID, m.userInfo.Stats.PricesScraped)) + "\n\n")
	}

	b.WriteString(helpStyle.Render("Press the number of an option, or 'q' / Esc to quit.") + "\n")

	return b.String()
}
