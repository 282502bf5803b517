package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/warehouse/ledger"
	"github.com/robinvdvleuten/warehouse/output"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// reportTable is a titled table; numeric columns are right-aligned.
type reportTable struct {
	headers []string
	numeric map[int]bool
	rows    [][]string
}

func (t *reportTable) write(w io.Writer, plain bool) {
	if plain {
		t.writePlain(w)
		return
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case t.numeric[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})
	_, _ = fmt.Fprintln(w, tbl.Render())
}

// writePlain aligns columns by display width, for pipes and --plain.
func (t *reportTable) writePlain(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	line := func(cells []string) {
		padded := make([]string, len(cells))
		for i, cell := range cells {
			if t.numeric[i] {
				padded[i] = runewidth.FillLeft(cell, widths[i])
			} else {
				padded[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(padded, "  "), " "))
	}

	line(t.headers)
	rule := make([]string, len(widths))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}
	line(rule)
	for _, row := range t.rows {
		line(row)
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func writeBalance(w io.Writer, styles *output.Styles, r *ledger.Report) {
	_, _ = fmt.Fprintln(w, "\n--- Balance ---")
	_, _ = fmt.Fprintf(w, "Income:             %s\n", styles.Money(r.IncomeTotal()))
	_, _ = fmt.Fprintf(w, "Expenses:           %s\n", styles.Money(r.ExpenseTotal()))
	_, _ = fmt.Fprintf(w, "  of which shipping: %s\n", styles.Money(r.ShippingTotal()))
	_, _ = fmt.Fprintf(w, "%s      %s\n", styles.Keyword("Total balance:"), styles.Money(r.NetBalance()))
}

func writeInventory(w io.Writer, plain bool, r *ledger.Report) {
	_, _ = fmt.Fprintln(w, "\n--- Current inventory ---")
	items := r.InventorySnapshot()
	if len(items) == 0 {
		printInfof(w, "The inventory is empty")
		return
	}

	t := &reportTable{
		headers: []string{"#", "Item", "Added", "Quantity", "Unit price", "Value"},
		numeric: map[int]bool{0: true, 3: true, 4: true, 5: true},
	}
	for _, it := range items {
		t.rows = append(t.rows, []string{
			strconv.Itoa(it.PackageNumber),
			it.Name,
			it.AddedAt.Format(ledger.TimeLayout),
			it.Quantity.String(),
			money(it.UnitPrice),
			money(it.Value()),
		})
	}
	t.write(w, plain)
	_, _ = fmt.Fprintf(w, "Stock value: %s\n", money(r.InventoryValue()))
}

func writeTransactions(w io.Writer, plain bool, r *ledger.Report) {
	_, _ = fmt.Fprintln(w, "\n--- Transactions ---")
	rows := r.TransactionTable()
	if len(rows) == 0 {
		printInfof(w, "No transactions recorded")
		return
	}

	t := &reportTable{
		headers: []string{"#", "Date", "Item", "Type", "Units", "Amount"},
		numeric: map[int]bool{0: true, 4: true, 5: true},
	}
	for _, row := range rows {
		e := row.Entry
		t.rows = append(t.rows, []string{
			strconv.Itoa(e.Sequence),
			e.RecordedAt.Format(ledger.TimeLayout),
			e.Name,
			row.Type.String(),
			e.Units.String(),
			money(e.Amount),
		})
	}
	t.write(w, plain)
	_, _ = fmt.Fprintf(w, "Total balance: %s\n", money(r.NetBalance()))
}

func writeHistory(w io.Writer, plain bool, r *ledger.Report) {
	_, _ = fmt.Fprintln(w, "\n--- History ---")
	records := r.History()
	if len(records) == 0 {
		printInfof(w, "No operations recorded")
		return
	}

	t := &reportTable{headers: []string{"Date", "Operation", "Details"}}
	for _, h := range records {
		t.rows = append(t.rows, []string{h.RecordedAt.Format(ledger.TimeLayout), h.Operation, h.Details})
	}
	t.write(w, plain)
}

func writeShipments(w io.Writer, plain bool, r *ledger.Report) {
	_, _ = fmt.Fprintln(w, "\n--- Shipments ---")
	shipments := r.Shipments()
	if len(shipments) == 0 {
		printInfof(w, "No shipments sent")
		return
	}

	t := &reportTable{
		headers: []string{"ID", "Item", "Date", "Destination", "Shipping cost"},
		numeric: map[int]bool{0: true, 4: true},
	}
	for _, s := range shipments {
		t.rows = append(t.rows, []string{
			strconv.Itoa(s.ID),
			s.ItemName,
			s.ShippedAt.Format(ledger.TimeLayout),
			s.Destination,
			money(s.ShippingCost),
		})
	}
	t.write(w, plain)
	_, _ = fmt.Fprintf(w, "Total shipping: %s\n", money(r.ShippingTotal().Neg()))
}
