package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storefront/internal/logtail"
)

// activityMsg carries the tail of the log file.
type activityMsg struct {
	entries []logtail.Entry
	err     error
}

// readActivityCmd reads the tail of the log file off the update loop.
func readActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return activityMsg{}
		}
		lines, err := logtail.Read(path, ActivityLineLimit)
		if err != nil {
			return activityMsg{err: err}
		}
		msg := activityMsg{}
		for _, line := range lines {
			// unparsed lines keep Raw and render faint
			e, _ := logtail.Parse(line)
			msg.entries = append(msg.entries, e)
		}
		return msg
	}
}

// setActivity formats entries into the viewport. The view follows new
// lines only when it was already at the bottom.
func (m *Model) setActivity(msg activityMsg) {
	m.activityErr = msg.err
	if msg.err != nil {
		return
	}
	styles := m.theme.Styles()

	lines := make([]string, 0, len(msg.entries))
	for _, e := range msg.entries {
		if e.Level == "" {
			lines = append(lines, styles.FaintText.Render(e.Raw))
			continue
		}
		text := e.Format()
		// color the level column, which follows the timestamp
		if i := strings.Index(text, e.Level); i >= 0 {
			text = styles.MutedText.Render(text[:i]) +
				styles.LevelStyle(e.Level).Render(e.Level) +
				styles.Text.Render(text[i+len(e.Level):])
		}
		lines = append(lines, text)
	}

	atBottom := m.activity.AtBottom()
	m.activity.SetContent(strings.Join(lines, "\n"))
	if atBottom || m.activity.YOffset == 0 {
		m.activity.GotoBottom()
	}
}

func (m *Model) resizeActivity() {
	m.activity.Width = maxInt(m.width-4, 10)
	m.activity.Height = maxInt(m.height-5, 1)
}

// renderActivityView renders the log tail between header and footer.
func (m Model) renderActivityView() string {
	styles := m.theme.Styles()

	title := styles.AccentText.Bold(true).Render("Activity")
	if m.logPath != "" {
		title += " " + styles.FaintText.Render(truncate(m.logPath, maxInt(m.width-16, 10)))
	}

	var body string
	switch {
	case m.logPath == "":
		body = styles.FaintText.Render("Logging to stderr; no activity file.")
	case m.activityErr != nil:
		body = styles.DangerText.Render(m.activityErr.Error())
	default:
		body = m.activity.View()
	}

	panel := styles.PanelFocus.Width(maxInt(m.width-2, 10)).Height(maxInt(m.height-4, 1)).
		Render(title + "\n" + body)
	return strings.Join([]string{m.renderHeader(), panel, m.renderFooter()}, "\n")
}
