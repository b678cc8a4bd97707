package prices

import "sync"

// RowKind distinguishes static result rows from editable manual-entry rows.
type RowKind int

const (
	RowSuccess RowKind = iota
	RowManual
)

// ManualDraft is the ephemeral state of a manual-entry row: everything
// needed to save a hand-entered price once the user fills it in.
type ManualDraft struct {
	RowID       string
	ProductID   int
	ProductName string // raw, unescaped
	ShopID      string
	URL         string
	Error       string
	Price       string // as typed by the user
	Currency    string
}

// Row is one rendered line of the results table. Text fields hold
// display-safe (escaped) strings.
type Row struct {
	ID          string
	Kind        RowKind
	Time        string
	ProductName string
	ShopID      string
	PriceType   string
	TypeTag     string
	Price       string
	Currency    string
	PLN         string

	// First marks the row that replaced the empty-state placeholder.
	First bool

	// Draft is set only on manual-entry rows.
	Draft *ManualDraft
}

// Table is the render target for fetch results: an insertion-ordered
// sequence of rows, newest first. It replaces the DOM table of the web UI
// so the batch loop and renderer stay testable without a real surface.
type Table struct {
	mu   sync.Mutex
	rows []Row
}

// NewTable creates an empty results table.
func NewTable() *Table {
	return &Table{}
}

// InsertRow prepends a row. The first row inserted into an empty table is
// marked as having replaced the empty-state placeholder.
func (t *Table) InsertRow(row Row) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row.First = len(t.rows) == 0
	t.rows = append([]Row{row}, t.rows...)
}

// RemoveRow deletes the row with the given id.
func (t *Table) RemoveRow(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, row := range t.rows {
		if row.ID == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return true
		}
	}
	return false
}

// Row returns the row with the given id.
func (t *Table) Row(id string) (Row, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range t.rows {
		if row.ID == id {
			return row, true
		}
	}
	return Row{}, false
}

// UpdateDraft stores the in-progress price and currency of a manual row.
func (t *Table) UpdateDraft(id, price, currency string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if t.rows[i].ID == id && t.rows[i].Draft != nil {
			draft := *t.rows[i].Draft
			draft.Price = price
			draft.Currency = currency
			t.rows[i].Draft = &draft
			return true
		}
	}
	return false
}

// Rows returns a snapshot of the table, newest first.
func (t *Table) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}
