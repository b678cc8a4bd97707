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

// productActionsModel lets the user search for a product and run per-product
// operations: fetch a single link's price, add a manual price, edit or
// delete the product, and edit or delete one of its links.
type productActionsModel struct {
	client *client.Client

	step     productStep
	action   productAction
	err      error
	message  string
	products []models.Product
	selected int
	menuIdx  int

	searchInput textinput.Model

	// Generic form state for the chosen action.
	inputs  []textinput.Model
	labels  []string
	focused int

	// Context for the manual-price follow-up after a failed link fetch.
	failedFetch *models.LinkFetchRequest
	fetchError  string
}

type productStep int

const (
	stepSearch productStep = iota
	stepSearching
	stepProducts
	stepActions
	stepForm
	stepConfirmDelete
	stepBusy
	stepResult
)

type productAction int

const (
	actionFetchLink productAction = iota
	actionManualPrice
	actionEditProduct
	actionDeleteProduct
	actionEditLink
	actionDeleteLink
)

var productActionLabels = []string{
	"Fetch price from a link",
	"Add manual price",
	"Edit product",
	"Delete product",
	"Edit link",
	"Delete link",
}

// NewProductActionsModel creates the product actions flow.
func NewProductActionsModel(apiClient *client.Client) tea.Model {
	searchInput := textinput.New()
	searchInput.Placeholder = "Product name..."
	searchInput.CharLimit = 255
	searchInput.Width = 40
	searchInput.Focus()

	return &productActionsModel{
		client:      apiClient,
		step:        stepSearch,
		searchInput: searchInput,
	}
}

func (m *productActionsModel) Init() tea.Cmd {
	return textinput.Blink
}

type productsLoadedMsg struct {
	products []models.Product
	err      error
}

type actionDoneMsg struct {
	message string
	err     error
}

type linkFetchedMsg struct {
	req  models.LinkFetchRequest
	resp *models.LinkFetchResponse
	err  error
}

func (m *productActionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKeys(msg)

	case productsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = stepSearch
			return m, nil
		}
		m.err = nil
		m.products = msg.products
		m.selected = 0
		m.step = stepProducts
		return m, nil

	case linkFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = stepResult
			return m, nil
		}
		if msg.resp.Success {
			m.message = fmt.Sprintf("%s Price fetched: %s %s",
				prices.TypeTag(msg.resp.PriceType),
				prices.FormatPrice(msg.resp.Price), msg.resp.Currency)
			m.failedFetch = nil
		} else {
			m.message = ""
			m.err = fmt.Errorf("fetch failed: %s", msg.resp.Error)
			if msg.resp.ShowManualModal {
				req := msg.req
				m.failedFetch = &req
				m.fetchError = msg.resp.Error
			}
		}
		m.step = stepResult
		return m, nil

	case actionDoneMsg:
		m.message = msg.message
		m.err = msg.err
		m.step = stepResult
		return m, nil
	}

	return m, nil
}

func (m *productActionsModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.step {
	case stepSearch:
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
			m.step = stepSearching
			return m, m.search(query)
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd

	case stepProducts:
		switch key {
		case "esc", "q":
			m.step = stepSearch
			m.searchInput.Focus()
			return m, textinput.Blink
		case "enter":
			if len(m.products) > 0 {
				m.menuIdx = 0
				m.step = stepActions
			}
			return m, nil
		}
		if newSelected, handled := handleListNavigation(key, m.selected, len(m.products)); handled {
			m.selected = newSelected
		}
		return m, nil

	case stepActions:
		switch key {
		case "esc", "q":
			m.step = stepProducts
			return m, nil
		case "enter":
			return m.chooseAction(productAction(m.menuIdx))
		}
		if newIdx, handled := handleListNavigation(key, m.menuIdx, len(productActionLabels)); handled {
			m.menuIdx = newIdx
		}
		return m, nil

	case stepForm:
		switch key {
		case "esc":
			m.step = stepActions
			return m, nil
		case "enter":
			if m.focused < len(m.inputs)-1 {
				m.inputs[m.focused].Blur()
				m.focused++
				m.inputs[m.focused].Focus()
				return m, textinput.Blink
			}
			return m.submitForm()
		case "tab":
			m.inputs[m.focused].Blur()
			m.focused = (m.focused + 1) % len(m.inputs)
			m.inputs[m.focused].Focus()
			return m, textinput.Blink
		}
		var cmd tea.Cmd
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
		return m, cmd

	case stepConfirmDelete:
		switch key {
		case "y", "Y":
			m.step = stepBusy
			return m, m.deleteProduct()
		case "n", "N", "esc":
			m.step = stepActions
		}
		return m, nil

	case stepResult:
		if key == "m" && m.failedFetch != nil {
			// Manual follow-up with shop and URL carried over from the
			// failed fetch.
			m.action = actionManualPrice
			m.beginForm([]string{"Price", "Currency"}, []string{"0.00", "PLN"})
			return m, textinput.Blink
		}
		switch key {
		case "esc", "q", "enter":
			m.err = nil
			m.message = ""
			m.failedFetch = nil
			m.step = stepActions
		}
		return m, nil
	}

	return m, nil
}

func (m *productActionsModel) chooseAction(action productAction) (tea.Model, tea.Cmd) {
	m.action = action
	m.failedFetch = nil

	switch action {
	case actionFetchLink:
		m.beginForm([]string{"Shop ID", "URL"}, []string{"shop-a", "https://..."})
	case actionManualPrice:
		m.beginForm([]string{"Shop ID", "URL", "Price", "Currency"},
			[]string{"shop-a", "https://...", "0.00", "PLN"})
	case actionEditProduct:
		m.beginForm([]string{"Name", "EAN"}, []string{m.currentProduct().Name, "optional"})
		m.inputs[0].SetValue(m.currentProduct().Name)
		m.inputs[1].SetValue(m.currentProduct().EAN)
	case actionDeleteProduct:
		m.step = stepConfirmDelete
		return m, nil
	case actionEditLink:
		m.beginForm([]string{"Current shop ID", "Current URL", "New shop ID", "New URL"},
			[]string{"shop-a", "https://...", "shop-a", "https://..."})
	case actionDeleteLink:
		m.beginForm([]string{"Shop ID", "URL"}, []string{"shop-a", "https://..."})
	}
	return m, textinput.Blink
}

func (m *productActionsModel) beginForm(labels, placeholders []string) {
	m.err = nil
	m.labels = labels
	m.inputs = make([]textinput.Model, len(labels))
	for i := range m.inputs {
		input := textinput.New()
		input.Placeholder = placeholders[i]
		input.CharLimit = 2048
		input.Width = 60
		m.inputs[i] = input
	}
	m.focused = 0
	m.inputs[0].Focus()
	m.step = stepForm
}

func (m *productActionsModel) currentProduct() models.Product {
	if m.selected < len(m.products) {
		return m.products[m.selected]
	}
	return models.Product{}
}

func (m *productActionsModel) formValue(i int) string {
	return strings.TrimSpace(m.inputs[i].Value())
}

func (m *productActionsModel) submitForm() (tea.Model, tea.Cmd) {
	product := m.currentProduct()

	switch m.action {
	case actionFetchLink:
		req := models.LinkFetchRequest{
			ProductID: product.ID,
			ShopID:    m.formValue(0),
			URL:       m.formValue(1),
		}
		m.step = stepBusy
		return m, func() tea.Msg {
			resp, err := m.client.FetchPriceForLink(context.Background(), req)
			return linkFetchedMsg{req: req, resp: resp, err: err}
		}

	case actionManualPrice:
		var priceIdx, currencyIdx = 2, 3
		req := models.ManualPriceRequest{ProductID: product.ID}
		if m.failedFetch != nil {
			req.ShopID = m.failedFetch.ShopID
			req.URL = m.failedFetch.URL
			priceIdx, currencyIdx = 0, 1
		} else {
			req.ShopID = m.formValue(0)
			req.URL = m.formValue(1)
		}

		price, err := prices.ParsePrice(m.formValue(priceIdx))
		if err != nil {
			m.err = err
			return m, nil
		}
		req.Price = price
		req.Currency = strings.ToUpper(m.formValue(currencyIdx))
		if req.Currency == "" {
			req.Currency = prices.ReferenceCurrency
		}

		// The single-link flow has its own endpoint; direct entry uses the
		// batch one.
		save := m.client.AddManualPrice
		if m.failedFetch != nil {
			save = m.client.AddManualPriceForLink
		}

		m.step = stepBusy
		return m, func() tea.Msg {
			if err := save(context.Background(), req); err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{message: fmt.Sprintf("Price saved: %.2f %s", req.Price, req.Currency)}
		}

	case actionEditProduct:
		req := models.UpdateProductRequest{
			ProductID: product.ID,
			Name:      m.formValue(0),
			EAN:       m.formValue(1),
		}
		if req.Name == "" {
			m.err = fmt.Errorf("product name must not be empty")
			return m, nil
		}
		m.step = stepBusy
		return m, func() tea.Msg {
			if err := m.client.UpdateProduct(context.Background(), req); err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{message: "Product updated"}
		}

	case actionEditLink:
		req := models.UpdateLinkRequest{
			ProductID:      product.ID,
			OriginalShopID: m.formValue(0),
			OriginalURL:    m.formValue(1),
			NewShopID:      m.formValue(2),
			NewURL:         m.formValue(3),
		}
		m.step = stepBusy
		return m, func() tea.Msg {
			if err := m.client.UpdateProductLink(context.Background(), req); err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{message: "Link updated"}
		}

	case actionDeleteLink:
		req := models.DeleteLinkRequest{
			ProductID: product.ID,
			ShopID:    m.formValue(0),
			URL:       m.formValue(1),
		}
		m.step = stepBusy
		return m, func() tea.Msg {
			if err := m.client.DeleteProductLink(context.Background(), req); err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{message: "Link deleted"}
		}
	}

	return m, nil
}

func (m *productActionsModel) search(query string) tea.Cmd {
	return func() tea.Msg {
		products, err := m.client.SearchProducts(context.Background(), query)
		return productsLoadedMsg{products: products, err: err}
	}
}

func (m *productActionsModel) deleteProduct() tea.Cmd {
	productID := m.currentProduct().ID
	return func() tea.Msg {
		if err := m.client.DeleteProduct(context.Background(), productID); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{message: "Product deleted"}
	}
}

func (m *productActionsModel) View() string {
	var b strings.Builder
	b.WriteString(renderTitle("Products"))

	switch m.step {
	case stepSearch:
		b.WriteString(fieldLabelStyle.Render("Search:") + "\n")
		b.WriteString(m.searchInput.View() + "\n")
		if m.err != nil {
			b.WriteString("\n" + renderError(m.err.Error()) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("Enter to search, Esc for menu") + "\n")

	case stepSearching:
		b.WriteString(renderLoadingState("Searching..."))

	case stepProducts:
		if len(m.products) == 0 {
			b.WriteString(renderEmptyState("No products found."))
			break
		}
		b.WriteString(renderProductList(m.products, m.selected))
		b.WriteString("\n" + helpStyle.Render("↑/↓ select, Enter for actions, Esc for search") + "\n")

	case stepActions:
		product := m.currentProduct()
		b.WriteString(boldStyle.Render(fmt.Sprintf("#%d %s", product.ID, product.Name)) + "\n\n")
		for i, label := range productActionLabels {
			marker := " "
			style := rowNameStyle
			if i == m.menuIdx {
				marker = selectedMarkerStyle.Render("→")
				style = selectedStyle
			}
			b.WriteString(fmt.Sprintf("%s %s\n", marker, style.Render(label)))
		}
		b.WriteString("\n" + helpStyle.Render("↑/↓ select, Enter to choose, Esc to go back") + "\n")

	case stepForm:
		product := m.currentProduct()
		b.WriteString(boldStyle.Render(fmt.Sprintf("#%d %s", product.ID, product.Name)))
		b.WriteString(mutedStyle.Render("  " + productActionLabels[m.action]))
		b.WriteString("\n\n")
		if m.failedFetch != nil {
			b.WriteString(renderWarning("Automatic fetch failed: "+m.fetchError) + "\n")
			b.WriteString(mutedStyle.Render(m.failedFetch.ShopID+"  "+m.failedFetch.URL) + "\n\n")
		}
		for i, input := range m.inputs {
			b.WriteString(fieldLabelStyle.Render(m.labels[i]+":") + "\n")
			b.WriteString(input.View() + "\n")
		}
		if m.err != nil {
			b.WriteString("\n" + renderError(m.err.Error()) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("Enter for next field / submit, Esc to go back") + "\n")

	case stepConfirmDelete:
		product := m.currentProduct()
		b.WriteString(renderWarning(fmt.Sprintf("Delete product #%d %s with all its links and prices?", product.ID, product.Name)) + "\n\n")
		b.WriteString(helpStyle.Render("'y' to delete, 'n' to cancel") + "\n")

	case stepBusy:
		b.WriteString(renderLoadingState("Working..."))

	case stepResult:
		if m.err != nil {
			b.WriteString(renderError(m.err.Error()) + "\n")
			if m.failedFetch != nil {
				b.WriteString("\n" + helpStyle.Render("'m' to add the price manually, Esc to go back") + "\n")
				break
			}
		} else {
			b.WriteString(renderSuccess(m.message) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("Press Enter or Esc to continue") + "\n")
	}

	return b.String()
}
