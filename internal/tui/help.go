package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tagsheet/internal/docs"
)

// helpView shows the key reference in a scrollable viewport above the grid.
type helpView struct {
	vp    viewport.Model
	style string
}

func newHelpView(width, height int, style string) *helpView {
	h := &helpView{style: style}
	h.vp = viewport.New(width, height)
	h.setContent()
	return h
}

func (h *helpView) setContent() {
	md, _ := docs.Get("keys")
	h.vp.SetContent(renderMarkdown(md, h.style, h.vp.Width-2))
}

func (h *helpView) SetSize(width, height int) {
	h.vp.Width, h.vp.Height = width, height
	h.setContent()
}

func (h *helpView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.vp, cmd = h.vp.Update(msg)
	return cmd
}

func (h *helpView) View() string {
	footer := lipgloss.NewStyle().Faint(true).Render("esc / ? / q to close")
	return lipgloss.JoinVertical(lipgloss.Left, h.vp.View(), footer)
}
