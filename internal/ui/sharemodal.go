package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/kidplan/internal/sharelink"
)

// shareModal shows the link produced by a share and offers to copy it.
type shareModal struct {
	link    string
	days    int
	copied  bool
	copyErr error
}

func (s shareModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case copyResultMsg:
		s.copied = msg.err == nil
		s.copyErr = msg.err
		return s, nil, false
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Copy):
			return s, copyLinkCmd(s.link), false
		case key.Matches(msg, keys.Confirm), key.Matches(msg, keys.Escape):
			return s, nil, true
		}
	}
	return s, nil, false
}

func (s shareModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(styles.SuccessText.Render("Schedule shared"))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Send this link to the other parent:"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Accent)).
		Width(ModalWidth - 6).
		Render(s.link))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("%d days · %s", s.days, humanize.Bytes(uint64(len(s.link))))))
	b.WriteString("\n\n")

	switch {
	case s.copyErr != nil:
		b.WriteString(styles.DangerText.Render("Copy failed: " + s.copyErr.Error()))
		b.WriteString("\n")
	case s.copied:
		b.WriteString(styles.SuccessText.Render("Copied to clipboard"))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("c copy · enter/esc close"))
	return b.String()
}

func copyLinkCmd(link string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: sharelink.Copy(link)}
	}
}
