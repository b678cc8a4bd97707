package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skrobi/price/pkg/client"
	"github.com/skrobi/price/pkg/models"
	"github.com/skrobi/price/pkg/prices"
)

// substitutesModel manages substitute groups: it shows the substitutes of
// a product with their PLN price ranges, removes members from a group, and
// creates new groups from marked products.
type substitutesModel struct {
	client *client.Client

	step     subStep
	err      error
	message  string
	products []models.Product
	selected int
	marked   map[int]bool // product IDs marked for a new group

	searchInput textinput.Model
	nameInput   textinput.Model

	substitutes []models.Substitute
	subCursor   int
}

type subStep int

const (
	subStepSearch subStep = iota
	subStepSearching
	subStepProducts
	subStepLoading
	subStepList
	subStepGroupName
	subStepBusy
)

// NewSubstitutesModel creates the substitutes flow.
func NewSubstitutesModel(apiClient *client.Client) tea.Model {
	searchInput := textinput.New()
	searchInput.Placeholder = "Product name..."
	searchInput.CharLimit = 255
	searchInput.Width = 40
	searchInput.Focus()

	nameInput := textinput.New()
	nameInput.Placeholder = "Group name"
	nameInput.CharLimit = 255
	nameInput.Width = 40

	return &substitutesModel{
		client:      apiClient,
		step:        subStepSearch,
		searchInput: searchInput,
		nameInput:   nameInput,
		marked:      make(map[int]bool),
	}
}

func (m *substitutesModel) Init() tea.Cmd {
	return textinput.Blink
}

type substitutesLoadedMsg struct {
	substitutes []models.Substitute
	err         error
}

type substituteRemovedMsg struct {
	productID int
	err       error
}

type groupCreatedMsg struct {
	err error
}

func (m *substitutesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKeys(msg)

	case productsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = subStepSearch
			return m, nil
		}
		m.err = nil
		m.products = msg.products
		m.selected = 0
		m.step = subStepProducts
		return m, nil

	case substitutesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = subStepProducts
			return m, nil
		}
		m.err = nil
		m.substitutes = msg.substitutes
		m.subCursor = 0
		m.step = subStepList
		return m, nil

	case substituteRemovedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = subStepList
			return m, nil
		}
		m.err = nil
		m.message = "Removed from group"
		// Reload so the price ranges reflect the smaller group.
		return m, m.loadSubstitutes()

	case groupCreatedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = subStepProducts
			return m, nil
		}
		m.err = nil
		m.message = "Substitute group created"
		m.marked = make(map[int]bool)
		m.step = subStepProducts
		return m, nil
	}

	return m, nil
}

func (m *substitutesModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.step {
	case subStepSearch:
		switch key {
		case "esc":
			return m, flowDone
		case "enter":
			query := strings.TrimSpace(m.searchInput.Value())
			if query == "" {
				m.err = fmt.Errorf("enter a search phrase")
				return m, nil
			}
			m.err = nil
			m.step = subStepSearching
			return m, func() tea.Msg {
				products, err := m.client.SearchProducts(context.Background(), query)
				return productsLoadedMsg{products: products, err: err}
			}
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd

	case subStepProducts:
		switch key {
		case "esc", "q":
			m.step = subStepSearch
			m.searchInput.Focus()
			return m, textinput.Blink
		case " ":
			if len(m.products) > 0 {
				id := m.products[m.selected].ID
				m.marked[id] = !m.marked[id]
			}
			return m, nil
		case "g":
			if len(m.markedIDs()) < 2 {
				m.err = fmt.Errorf("mark at least two products with Space first")
				return m, nil
			}
			m.err = nil
			m.nameInput.SetValue("")
			m.nameInput.Focus()
			m.step = subStepGroupName
			return m, textinput.Blink
		case "enter":
			if len(m.products) > 0 {
				m.step = subStepLoading
				return m, m.loadSubstitutes()
			}
			return m, nil
		}
		if newSelected, handled := handleListNavigation(key, m.selected, len(m.products)); handled {
			m.selected = newSelected
		}
		return m, nil

	case subStepList:
		switch key {
		case "esc", "q":
			m.step = subStepProducts
			m.message = ""
			return m, nil
		case "d":
			if len(m.substitutes) > 0 {
				m.step = subStepBusy
				productID := m.substitutes[m.subCursor].ID
				return m, func() tea.Msg {
					err := m.client.RemoveFromGroup(context.Background(), productID)
					return substituteRemovedMsg{productID: productID, err: err}
				}
			}
			return m, nil
		}
		if newCursor, handled := handleListNavigation(key, m.subCursor, len(m.substitutes)); handled {
			m.subCursor = newCursor
		}
		return m, nil

	case subStepGroupName:
		switch key {
		case "esc":
			m.step = subStepProducts
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				m.err = fmt.Errorf("group name must not be empty")
				return m, nil
			}
			m.err = nil
			m.step = subStepBusy
			req := models.CreateGroupRequest{Name: name, ProductIDs: m.markedIDs()}
			return m, func() tea.Msg {
				return groupCreatedMsg{err: m.client.CreateSubstituteGroup(context.Background(), req)}
			}
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *substitutesModel) loadSubstitutes() tea.Cmd {
	productID := m.products[m.selected].ID
	return func() tea.Msg {
		substitutes, err := m.client.Substitutes(context.Background(), productID)
		return substitutesLoadedMsg{substitutes: substitutes, err: err}
	}
}

func (m *substitutesModel) markedIDs() []int {
	var ids []int
	for id, marked := range m.marked {
		if marked {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *substitutesModel) View() string {
	var b strings.Builder
	b.WriteString(renderTitle("Substitutes"))

	switch m.step {
	case subStepSearch:
		b.WriteString(fieldLabelStyle.Render("Search:") + "\n")
		b.WriteString(m.searchInput.View() + "\n")
		if m.err != nil {
			b.WriteString("\n" + renderError(m.err.Error()) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("Enter to search, Esc for menu") + "\n")

	case subStepSearching:
		b.WriteString(renderLoadingState("Searching..."))

	case subStepProducts:
		if len(m.products) == 0 {
			b.WriteString(renderEmptyState("No products found."))
			break
		}
		if m.message != "" {
			b.WriteString(renderSuccess(m.message) + "\n\n")
		}
		if m.err != nil {
			b.WriteString(renderError(m.err.Error()) + "\n\n")
		}
		for i, product := range m.products {
			marker := " "
			style := rowNameStyle
			if i == m.selected {
				marker = selectedMarkerStyle.Render("→")
				style = selectedStyle
			}
			check := "[ ]"
			if m.marked[product.ID] {
				check = successStyle.Render("[x]")
			}
			b.WriteString(fmt.Sprintf("%s %s %s\n", marker, check,
				style.Render(fmt.Sprintf("#%d %s", product.ID, product.Name))))
		}
		b.WriteString("\n" + helpStyle.Render("↑/↓ select, Enter to view substitutes, Space to mark, 'g' to create group, Esc to go back") + "\n")

	case subStepLoading:
		b.WriteString(renderLoadingState("Loading substitutes..."))

	case subStepBusy:
		b.WriteString(renderLoadingState("Working..."))

	case subStepList:
		product := m.products[m.selected]
		b.WriteString(boldStyle.Render(fmt.Sprintf("#%d %s", product.ID, product.Name)) + "\n\n")
		if m.message != "" {
			b.WriteString(renderSuccess(m.message) + "\n\n")
		}
		if m.err != nil {
			b.WriteString(renderError(m.err.Error()) + "\n\n")
		}
		if len(m.substitutes) == 0 {
			b.WriteString(mutedStyle.Render("This product has no substitutes.") + "\n")
		}
		for i, sub := range m.substitutes {
			marker := " "
			style := rowNameStyle
			if i == m.subCursor {
				marker = selectedMarkerStyle.Render("→")
				style = selectedStyle
			}
			b.WriteString(fmt.Sprintf("%s %s %s\n", marker,
				style.Render(fmt.Sprintf("#%d %s", sub.ID, sub.Name)),
				mutedStyle.Render(fmt.Sprintf("%d link(s)", sub.LinksCount))))
			b.WriteString("    " + plnStyle.Render(formatPriceRange(sub)) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("↑/↓ select, 'd' to remove from group, Esc to go back") + "\n")

	case subStepGroupName:
		b.WriteString(fmt.Sprintf("Creating a group from %d product(s)\n\n", len(m.markedIDs())))
		b.WriteString(fieldLabelStyle.Render("Group name:") + "\n")
		b.WriteString(m.nameInput.View() + "\n")
		if m.err != nil {
			b.WriteString("\n" + renderError(m.err.Error()) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("Enter to create, Esc to cancel") + "\n")
	}

	return b.String()
}

// formatPriceRange renders a substitute's PLN price range, or a placeholder
// when the group member has no prices yet.
func formatPriceRange(sub models.Substitute) string {
	if sub.MinPrice == nil || sub.MaxPrice == nil {
		return "no prices"
	}
	if *sub.MinPrice == *sub.MaxPrice {
		return fmt.Sprintf("%.2f %s", *sub.MinPrice, prices.ReferenceCurrency)
	}
	return fmt.Sprintf("%.2f - %.2f %s", *sub.MinPrice, *sub.MaxPrice, prices.ReferenceCurrency)
}
