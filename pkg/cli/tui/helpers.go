package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skrobi/price/pkg/models"
	"github.com/skrobi/price/pkg/prices"
)

// renderEmptyState renders a standard empty state message
func renderEmptyState(message string) string {
	return "\n" + mutedStyle.Render(message) + "\n\n" +
		helpStyle.Render("Press Esc to go back...") + "\n"
}

// renderLoadingState renders a standard loading message
func renderLoadingState(message string) string {
	return "\n" + infoStyle.Render(message) + "\n"
}

// truncate shortens a string to maxLen, appending "..." when cut.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// renderResultRow renders one table row. Success rows show price, PLN
// value and extraction method; manual rows show the failure and the
// pending manual-entry draft.
func renderResultRow(row prices.Row, selected bool) string {
	marker := " "
	nameStyle := rowNameStyle
	if selected {
		marker = selectedMarkerStyle.Render("→")
		nameStyle = selectedStyle
	}

	var b strings.Builder
	switch row.Kind {
	case prices.RowSuccess:
		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			marker,
			row.TypeTag,
			nameStyle.Render(row.ProductName),
			rowShopStyle.Render("("+row.ShopID+")"),
		))
		b.WriteString(fmt.Sprintf("    %s  %s  %s\n",
			priceStyle.Render(row.Price+" "+row.Currency),
			plnStyle.Render(row.PLN+" PLN"),
			mutedStyle.Render(row.Time),
		))
	case prices.RowManual:
		draft := row.Draft
		b.WriteString(fmt.Sprintf("%s ✏️ %s %s\n",
			marker,
			nameStyle.Render(row.ProductName),
			rowShopStyle.Render("("+row.ShopID+")"),
		))
		b.WriteString(fmt.Sprintf("    %s\n", warningStyle.Render(draft.Error)))
		b.WriteString(fmt.Sprintf("    %s\n",
			mutedStyle.Render("Enter price manually or dismiss ('enter' / 'd')")))
	}
	return b.String()
}

// renderProductList renders a selectable list of products.
func renderProductList(products []models.Product, selected int) string {
	var b strings.Builder
	for i, product := range products {
		marker := " "
		nameStyle := rowNameStyle
		if i == selected {
			marker = selectedMarkerStyle.Render("→")
			nameStyle = selectedStyle
		}
		label := fmt.Sprintf("#%d %s", product.ID, product.Name)
		if product.EAN != "" {
			label += mutedStyle.Render("  EAN " + product.EAN)
		}
		b.WriteString(fmt.Sprintf("%s %s\n", marker, nameStyle.Render(label)))
	}
	return b.String()
}

// handleListNavigation handles common navigation keys for list views (up/down/j/k)
// Returns the new selected index and whether navigation occurred
func handleListNavigation(key string, selected int, total int) (newSelected int, handled bool) {
	switch key {
	case "up", "k":
		if selected > 0 {
			return selected - 1, true
		}
		return selected, true
	case "down", "j":
		if selected < total-1 {
			return selected + 1, true
		}
		return selected, true
	}
	return selected, false
}

// flowDoneMsg tells the root model that the active flow has finished and
// the menu should be shown again.
type flowDoneMsg struct{}

// flowDone is a tea.Cmd that hands control back to the main menu.
func flowDone() tea.Msg {
	return flowDoneMsg{}
}
