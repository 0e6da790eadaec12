package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/storefront/internal/state"
)

// tableColumn defines a column in the product table.
type tableColumn struct {
	label string
	width int
	right bool
}

func (c tableColumn) pad(s string) string {
	s = truncate(s, c.width)
	if c.right {
		return padLeft(s, c.width)
	}
	return padRight(s, c.width)
}

// productColumns sizes the table for the inner panel width. The name column
// takes what is left after the fixed columns.
func productColumns(width int, withDescription bool) []tableColumn {
	price := tableColumn{label: "Price", width: 10, right: true}
	stock := tableColumn{label: "Stock", width: 12, right: true}

	if withDescription {
		rest := width - price.width - stock.width - 6
		name := tableColumn{label: "Name", width: maxInt(rest*2/5, 12)}
		desc := tableColumn{label: "Description", width: maxInt(rest-name.width, 8)}
		return []tableColumn{name, price, stock, desc}
	}
	name := tableColumn{label: "Name", width: maxInt(width-price.width-stock.width-4, 8)}
	return []tableColumn{name, price, stock}
}

// renderProducts renders the product panel at the given outer size.
func (m Model) renderProducts(width, height int) string {
	styles := m.theme.Styles()
	focused := m.pane == PaneProducts
	inner := maxInt(width-2, 10)
	rows := maxInt(height-4, 1)

	var b strings.Builder
	title := fmt.Sprintf("Products (%d)", len(m.snapshot.Products))
	b.WriteString(m.panelTitle(title, focused, state.OpProducts))
	b.WriteString("\n")

	cols := productColumns(inner, m.width >= LayoutDescriptionWidth)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.pad(c.label)
	}
	b.WriteString(styles.MutedText.Bold(true).Render(strings.Join(header, "  ")))
	b.WriteString("\n")

	products := m.snapshot.Products
	switch {
	case len(products) == 0 && m.snapshot.Op(state.OpProducts).InFlight:
		b.WriteString(styles.FaintText.Render("Loading products..."))
	case len(products) == 0:
		b.WriteString(styles.FaintText.Render("No products. Press a to add one."))
	default:
		start, end := window(m.productRow, len(products), rows)
		lines := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			p := products[i]
			cells := []string{
				cols[0].pad(p.Name),
				cols[1].pad(state.FormatMoney(state.Price(p))),
				cols[2].pad(stockLabel(p.Stock)),
			}
			if len(cols) > 3 {
				cells = append(cells, cols[3].pad(strings.ReplaceAll(p.Description, "\n", " ")))
			}
			line := strings.Join(cells, "  ")
			switch {
			case i == m.productRow && focused:
				line = styles.Selected.Render(padRight(line, inner))
			case i == m.productRow:
				line = styles.AccentText.Render(line)
			case !p.InStock():
				line = styles.FaintText.Render(line)
			default:
				line = styles.Text.Render(line)
			}
			lines = append(lines, line)
		}
		b.WriteString(strings.Join(lines, "\n"))
	}

	return m.panel(focused).Width(inner).Height(height - 2).Render(b.String())
}

// panelTitle renders a panel heading with the op's busy or error marker.
func (m Model) panelTitle(title string, focused bool, op state.Op) string {
	styles := m.theme.Styles()
	style := styles.MutedText.Bold(true)
	if focused {
		style = styles.AccentText.Bold(true)
	}
	out := style.Render(title)
	st := m.snapshot.Op(op)
	switch {
	case st.InFlight:
		out += " " + styles.WarningText.Render("●")
	case st.Err != "":
		out += " " + styles.DangerText.Render(st.Err)
	}
	return out
}

func (m Model) panel(focused bool) lipgloss.Style {
	styles := m.theme.Styles()
	if focused {
		return styles.PanelFocus
	}
	return styles.Panel
}

// window returns the [start, end) slice of n rows that keeps sel visible in
// a view of size rows.
func window(sel, n, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	start := 0
	if sel >= rows {
		start = sel - rows + 1
	}
	return start, minInt(start+rows, n)
}
