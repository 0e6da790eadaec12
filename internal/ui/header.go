package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/five82/storefront/internal/state"
)

// renderHeader renders the status bar with catalog and basket totals.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("storefront", styles.Logo)}

	if !compact && m.apiURL != "" {
		parts = append(parts, bg.Render(truncate(m.apiURL, 40), styles.FaintText))
	}

	parts = append(parts,
		bg.Render("Products:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Products)), styles.Text),
		bg.Render("Basket:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", m.snapshot.BasketUnits()), styles.Text)+bg.Space()+
			bg.Render(state.FormatMoney(m.snapshot.BasketTotal()), styles.SuccessText),
	)

	switch {
	case m.snapshot.Busy():
		parts = append(parts, bg.Render("● syncing", styles.WarningText))
	case m.snapshot.LastUpdated.IsZero():
		parts = append(parts, bg.Render("○ not loaded", styles.FaintText))
	default:
		age := humanizeDuration(m.now.Sub(m.snapshot.LastUpdated))
		if age != "now" {
			age += " ago"
		}
		parts = append(parts, bg.Render("updated "+age, styles.MutedText))
	}

	// Fetch failures stay visible until the next successful fetch.
	maxErr := 60
	if compact {
		maxErr = 30
	}
	for _, op := range []state.Op{state.OpProducts, state.OpBasket} {
		if msg := m.snapshot.Op(op).Err; msg != "" {
			parts = append(parts,
				bg.Render("!", styles.DangerText)+bg.Space()+
					bg.Render(truncate(msg, maxErr), styles.DangerText))
		}
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderFooter renders key hints and the transient flash message.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var bindings []key.Binding
	if m.showActivity {
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Escape, m.keys.Quit}
	} else {
		bindings = m.keys.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, bg.Render(h.Key, styles.AccentText)+bg.Space()+bg.Render(strings.ToLower(h.Desc), styles.MutedText))
	}
	content := bg.Join(hints, "  ")

	if m.flash != "" {
		content = bg.Render(m.flash, styles.WarningText.Bold(true)) + bg.Spaces(3) + content
	}
	return styles.Footer.Width(m.width).MaxHeight(1).Render(content)
}
