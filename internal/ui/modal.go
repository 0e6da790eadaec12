package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/storefront/internal/api"
	"github.com/five82/storefront/internal/form"
	"github.com/five82/storefront/internal/state"
)

const modalWidth = 56

// handleDialogKey processes keys while a product dialog is open.
func (m Model) handleDialogKey(kind state.DialogKind, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch kind {
	case state.DialogAdd, state.DialogEdit:
		return m.handleFormKey(kind, msg)

	case state.DialogView:
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Submit), key.Matches(msg, m.keys.Quit):
			m.ctrl.Cancel(state.DialogView)
			m.applySnapshot(m.ctrl.Snapshot())
		case key.Matches(msg, m.keys.Edit):
			p := m.snapshot.Dialogs.View.Target
			m.ctrl.Cancel(state.DialogView)
			m.ctrl.OpenEdit(p)
			m.applySnapshot(m.ctrl.Snapshot())
			return m, m.form.focusCmd()
		}
		return m, nil

	case state.DialogDelete:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			cmd := m.submit(state.OpDelete, m.ctrl.ConfirmDelete)
			return m, cmd
		case key.Matches(msg, m.keys.Deny):
			m.ctrl.Cancel(state.DialogDelete)
			m.applySnapshot(m.ctrl.Snapshot())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleFormKey(kind state.DialogKind, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	op, _ := kind.Op()

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.ctrl.Cancel(kind)
		m.applySnapshot(m.ctrl.Snapshot())
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		submit := m.ctrl.SubmitAdd
		if kind == state.DialogEdit {
			submit = m.ctrl.SubmitEdit
		}
		cmd := m.submit(op, submit)
		return m, cmd

	case key.Matches(msg, m.keys.NextField):
		return m, m.form.move(1)

	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.move(-1)
	}

	cmd := m.form.update(msg)
	field, raw := m.form.field(), m.form.value()
	if kind == state.DialogAdd {
		m.ctrl.SetAddField(field, raw)
	} else {
		m.ctrl.SetEditField(field, raw)
	}
	m.applySnapshot(m.ctrl.Snapshot())
	return m, cmd
}

// renderDialog renders the open dialog centered on screen.
func (m Model) renderDialog(kind state.DialogKind) string {
	var body string
	switch kind {
	case state.DialogAdd:
		body = m.renderFormDialog("Add Product", state.OpCreate, "Saving...")
	case state.DialogEdit:
		title := fmt.Sprintf("Edit Product: %s", truncate(m.snapshot.Dialogs.Edit.Target.Name, 30))
		body = m.renderFormDialog(title, state.OpUpdate, "Saving...")
	case state.DialogView:
		body = m.renderViewDialog(m.snapshot.Dialogs.View.Target)
	case state.DialogDelete:
		body = m.renderDeleteDialog(m.snapshot.Dialogs.Delete.Target)
	}
	styles := m.theme.Styles()
	return m.place(styles.Modal.Width(modalWidth).Render(body))
}

func (m Model) renderFormDialog(title string, op state.Op, busy string) string {
	styles := m.theme.Styles()
	labelStyle := styles.MutedText.Width(14)

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n\n")
	for i, in := range m.form.inputs {
		label := form.Fields[i].String()
		if i == m.form.focus {
			b.WriteString(styles.AccentText.Width(14).Render(label))
		} else {
			b.WriteString(labelStyle.Render(label))
		}
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderOpStatus(op, busy))
	b.WriteString(styles.FaintText.Render("enter save · tab next field · esc cancel"))
	return b.String()
}

func (m Model) renderViewDialog(p api.Product) string {
	styles := m.theme.Styles()
	labelStyle := styles.MutedText.Width(14)

	stock := styles.SuccessText.Render(stockLabel(p.Stock))
	if !p.InStock() {
		stock = styles.DangerText.Render(stockLabel(p.Stock))
	}
	desc := p.Description
	if strings.TrimSpace(desc) == "" {
		desc = styles.FaintText.Render("No description")
	}

	rows := []string{
		styles.AccentText.Bold(true).Render(p.Name),
		"",
		labelStyle.Render("Price") + styles.Text.Render(state.FormatMoney(state.Price(p))),
		labelStyle.Render("Stock") + stock,
		labelStyle.Render("ID") + styles.FaintText.Render(fmt.Sprintf("%d", p.ID)),
		"",
		lipgloss.NewStyle().Width(modalWidth - 6).Render(desc),
		"",
		styles.FaintText.Render("e edit · esc close"),
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderDeleteDialog(p api.Product) string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete Product"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(fmt.Sprintf("Delete %q?", p.Name)))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("This cannot be undone."))
	b.WriteString("\n\n")
	b.WriteString(m.renderOpStatus(state.OpDelete, "Deleting..."))
	b.WriteString(styles.FaintText.Render("y confirm · n cancel"))
	return b.String()
}

// renderOpStatus shows the in-flight notice or the last error of op,
// followed by a blank line, or nothing when the op is idle.
func (m Model) renderOpStatus(op state.Op, busy string) string {
	styles := m.theme.Styles()
	st := m.snapshot.Op(op)
	switch {
	case st.InFlight:
		return styles.WarningText.Render(busy) + "\n\n"
	case st.Err != "":
		return styles.DangerText.Render(st.Err) + "\n\n"
	default:
		return ""
	}
}
