package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skrobi/price/pkg/client"
	"github.com/skrobi/price/pkg/models"
)

// findShopsModel searches every configured shop for a product and lets the
// user attach found links to it. Shops that failed can be retried one by
// one.
type findShopsModel struct {
	client *client.Client

	step     findStep
	err      error
	message  string
	products []models.Product
	selected int

	searchInput textinput.Model

	results []models.ShopSearchResult
	entries []shopEntry
	cursor  int
}

type findStep int

const (
	findStepSearch findStep = iota
	findStepSearching
	findStepProducts
	findStepFinding
	findStepResults
	findStepBusy
)

// shopEntry is one selectable line in the flattened results list: either a
// match that can be added as a link, or a failed shop that can be retried.
type shopEntry struct {
	shopIdx  int
	matchIdx int // -1 for a failed shop
}

// NewFindShopsModel creates the find-in-shops flow.
func NewFindShopsModel(apiClient *client.Client) tea.Model {
	searchInput := textinput.New()
	searchInput.Placeholder = "Product name..."
	searchInput.CharLimit = 255
	searchInput.Width = 40
	searchInput.Focus()

	return &findShopsModel{
		client:      apiClient,
		step:        findStepSearch,
		searchInput: searchInput,
	}
}

func (m *findShopsModel) Init() tea.Cmd {
	return textinput.Blink
}

type shopsFoundMsg struct {
	results []models.ShopSearchResult
	err     error
}

type foundLinkAddedMsg struct {
	title string
	err   error
}

type shopRetriedMsg struct {
	shopIdx int
	matches []models.ShopMatch
	err     error
}

func (m *findShopsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKeys(msg)

	case productsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = findStepSearch
			return m, nil
		}
		m.err = nil
		m.products = msg.products
		m.selected = 0
		m.step = findStepProducts
		return m, nil

	case shopsFoundMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = findStepProducts
			return m, nil
		}
		m.err = nil
		m.results = msg.results
		m.rebuildEntries()
		m.cursor = 0
		m.step = findStepResults
		return m, nil

	case foundLinkAddedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.message = fmt.Sprintf("Link added: %s", msg.title)
		}
		m.step = findStepResults
		return m, nil

	case shopRetriedMsg:
		if msg.err != nil {
			m.results[msg.shopIdx].Error = msg.err.Error()
		} else {
			m.err = nil
			m.results[msg.shopIdx].Success = true
			m.results[msg.shopIdx].Error = ""
			m.results[msg.shopIdx].Results = msg.matches
			m.rebuildEntries()
		}
		m.step = findStepResults
		return m, nil
	}

	return m, nil
}

func (m *findShopsModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.step {
	case findStepSearch:
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
			m.step = findStepSearching
			return m, func() tea.Msg {
				products, err := m.client.SearchProducts(context.Background(), query)
				return productsLoadedMsg{products: products, err: err}
			}
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd

	case findStepProducts:
		switch key {
		case "esc", "q":
			m.step = findStepSearch
			m.searchInput.Focus()
			return m, textinput.Blink
		case "enter":
			if len(m.products) > 0 {
				m.step = findStepFinding
				productID := m.products[m.selected].ID
				return m, func() tea.Msg {
					results, err := m.client.FindInShops(context.Background(), productID)
					return shopsFoundMsg{results: results, err: err}
				}
			}
			return m, nil
		}
		if newSelected, handled := handleListNavigation(key, m.selected, len(m.products)); handled {
			m.selected = newSelected
		}
		return m, nil

	case findStepResults:
		switch key {
		case "esc", "q":
			m.step = findStepProducts
			m.message = ""
			return m, nil
		case "enter":
			return m.activateEntry()
		}
		if newCursor, handled := handleListNavigation(key, m.cursor, len(m.entries)); handled {
			m.cursor = newCursor
		}
		return m, nil
	}

	return m, nil
}

func (m *findShopsModel) activateEntry() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.entries) {
		return m, nil
	}
	entry := m.entries[m.cursor]
	result := m.results[entry.shopIdx]
	productID := m.products[m.selected].ID

	if entry.matchIdx < 0 {
		// Retry a shop whose search failed.
		m.step = findStepBusy
		shopIdx := entry.shopIdx
		shopID := result.Shop.ShopID
		return m, func() tea.Msg {
			matches, err := m.client.SearchInSingleShop(context.Background(), productID, shopID)
			return shopRetriedMsg{shopIdx: shopIdx, matches: matches, err: err}
		}
	}

	match := result.Results[entry.matchIdx]
	m.step = findStepBusy
	req := models.AddFoundLinkRequest{
		ProductID: productID,
		ShopID:    result.Shop.ShopID,
		URL:       match.URL,
		Title:     match.Title,
	}
	return m, func() tea.Msg {
		if err := m.client.AddFoundLink(context.Background(), req); err != nil {
			return foundLinkAddedMsg{err: err}
		}
		return foundLinkAddedMsg{title: req.Title}
	}
}

func (m *findShopsModel) rebuildEntries() {
	m.entries = m.entries[:0]
	for shopIdx, result := range m.results {
		if !result.Success {
			m.entries = append(m.entries, shopEntry{shopIdx: shopIdx, matchIdx: -1})
			continue
		}
		for matchIdx := range result.Results {
			m.entries = append(m.entries, shopEntry{shopIdx: shopIdx, matchIdx: matchIdx})
		}
	}
	if m.cursor >= len(m.entries) {
		m.cursor = 0
	}
}

func (m *findShopsModel) View() string {
	var b strings.Builder
	b.WriteString(renderTitle("Find in Shops"))

	switch m.step {
	case findStepSearch:
		b.WriteString(fieldLabelStyle.Render("Search:") + "\n")
		b.WriteString(m.searchInput.View() + "\n")
		if m.err != nil {
			b.WriteString("\n" + renderError(m.err.Error()) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("Enter to search, Esc for menu") + "\n")

	case findStepSearching:
		b.WriteString(renderLoadingState("Searching..."))

	case findStepProducts:
		if len(m.products) == 0 {
			b.WriteString(renderEmptyState("No products found."))
			break
		}
		if m.err != nil {
			b.WriteString(renderError(m.err.Error()) + "\n\n")
		}
		b.WriteString(renderProductList(m.products, m.selected))
		b.WriteString("\n" + helpStyle.Render("↑/↓ select, Enter to search all shops, Esc to go back") + "\n")

	case findStepFinding:
		b.WriteString(renderLoadingState("Searching all shops, this may take a while..."))

	case findStepBusy:
		b.WriteString(renderLoadingState("Working..."))

	case findStepResults:
		product := m.products[m.selected]
		b.WriteString(boldStyle.Render(fmt.Sprintf("#%d %s", product.ID, product.Name)) + "\n\n")

		if m.message != "" {
			b.WriteString(renderSuccess(m.message) + "\n\n")
		}
		if m.err != nil {
			b.WriteString(renderError(m.err.Error()) + "\n\n")
		}
		if len(m.entries) == 0 {
			b.WriteString(mutedStyle.Render("Nothing found in any shop.") + "\n")
		}

		lastShop := -1
		for i, entry := range m.entries {
			result := m.results[entry.shopIdx]
			if entry.shopIdx != lastShop {
				b.WriteString(boldStyle.Render(result.Shop.Name) +
					rowShopStyle.Render(" ("+result.Shop.ShopID+")") + "\n")
				lastShop = entry.shopIdx
			}

			marker := " "
			style := rowNameStyle
			if i == m.cursor {
				marker = selectedMarkerStyle.Render("→")
				style = selectedStyle
			}

			if entry.matchIdx < 0 {
				b.WriteString(fmt.Sprintf("  %s %s %s\n",
					marker,
					warningStyle.Render("search failed: "+result.Error),
					helpStyle.Render("(Enter to retry)")))
				continue
			}

			match := result.Results[entry.matchIdx]
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				marker,
				style.Render(truncate(match.Title, 60)),
				mutedStyle.Render(fmt.Sprintf("%.0f%%", match.Similarity*100))))
			b.WriteString("      " + mutedStyle.Render(truncate(match.URL, 70)) + "\n")
		}

		b.WriteString("\n" + helpStyle.Render("↑/↓ select, Enter to add link / retry shop, Esc to go back") + "\n")
	}

	return b.String()
}
