package ui

import (
	"fmt"
	"strings"

	"github.com/five82/storefront/internal/state"
)

// renderBasket renders the basket panel. Lines whose product no longer
// exists are not shown and do not count toward the total.
func (m Model) renderBasket(width, height int) string {
	styles := m.theme.Styles()
	focused := m.pane == PaneBasket
	inner := maxInt(width-2, 10)
	rows := maxInt(height-5, 1)

	var b strings.Builder
	b.WriteString(m.panelTitle("Basket", focused, state.OpBasket))
	b.WriteString("\n")

	lines := m.snapshot.VisibleBasket()
	if len(lines) == 0 {
		if m.snapshot.Op(state.OpBasket).InFlight {
			b.WriteString(styles.FaintText.Render("Loading basket..."))
		} else {
			b.WriteString(styles.FaintText.Render("Basket is empty. Press b on a product."))
		}
	} else {
		amountWidth := 12
		qtyWidth := 5
		nameWidth := maxInt(inner-amountWidth-qtyWidth-2, 6)

		start, end := window(m.basketRow, len(lines), rows)
		out := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			item := lines[i]
			line := padRight(truncate(item.Product.Name, nameWidth), nameWidth) + " " +
				padLeft(fmt.Sprintf("×%d", item.Quantity), qtyWidth) + " " +
				padLeft(state.FormatMoney(state.LineTotal(item)), amountWidth)
			switch {
			case i == m.basketRow && focused:
				line = styles.Selected.Render(padRight(line, inner))
			case i == m.basketRow:
				line = styles.AccentText.Render(line)
			default:
				line = styles.Text.Render(line)
			}
			out = append(out, line)
		}
		b.WriteString(strings.Join(out, "\n"))
	}

	// Intent errors for basket changes show under the lines.
	for _, op := range []state.Op{state.OpBasketAdd, state.OpBasketRemove} {
		if msg := m.snapshot.Op(op).Err; msg != "" {
			b.WriteString("\n")
			b.WriteString(styles.DangerText.Render(truncate(msg, inner)))
		}
	}

	body := b.String()
	total := padRight(styles.MutedText.Render(fmt.Sprintf("Total (%d items)", m.snapshot.BasketUnits())), inner-12) +
		padLeft(styles.SuccessText.Render(state.FormatMoney(m.snapshot.BasketTotal())), 12)

	// pin the total to the bottom of the panel
	used := strings.Count(body, "\n") + 1
	if gap := height - 2 - used - 1; gap > 0 {
		body += strings.Repeat("\n", gap)
	}
	body += "\n" + total

	return m.panel(focused).Width(inner).Height(height - 2).Render(body)
}
