package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// basketPanelWidth is the basket column width in the side-by-side layout.
const basketPanelWidth = 44

// renderMain lays out header, product and basket panels, and footer. Wide
// terminals place the basket to the right; narrow ones stack it below.
func (m Model) renderMain() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := maxInt(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 6)

	var body string
	if m.width < LayoutCompactWidth {
		productsHeight := maxInt(bodyHeight*3/5, 5)
		basketHeight := maxInt(bodyHeight-productsHeight, 5)
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.renderProducts(m.width, productsHeight),
			m.renderBasket(m.width, basketHeight),
		)
	} else {
		basketWidth := basketPanelWidth
		productsWidth := m.width - basketWidth
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderProducts(productsWidth, bodyHeight),
			m.renderBasket(basketWidth, bodyHeight),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
