package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/xBounceIT/praetor/internal/store"
)

type clientsModel struct {
	store  *store.Store
	width  int
	height int

	clients      []store.Client
	cursor       int
	showArchived bool

	formActive bool
	form       *huh.Form
	editing    bool

	formName  *string
	editingID int64
}

func newClientsModel(s *store.Store) clientsModel {
	name := ""
	return clientsModel{
		store:    s,
		formName: &name,
	}
}

func (c *clientsModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type clientsDataMsg struct {
	clients []store.Client
}

func (c clientsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		clients, _ := c.store.ListClients(c.showArchived)
		return clientsDataMsg{clients: clients}
	}
}

func (c clientsModel) update(msg tea.Msg) (clientsModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case clientsDataMsg:
		c.clients = msg.clients
		if c.cursor >= len(c.clients) {
			c.cursor = max(0, len(c.clients)-1)
		}
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.clients)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.New):
			return c.showForm(false)
		case key.Matches(msg, keys.Edit):
			if len(c.clients) > 0 {
				return c.showForm(true)
			}
		case key.Matches(msg, keys.Delete):
			if len(c.clients) > 0 {
				c.store.ArchiveClient(c.clients[c.cursor].ID)
				return c, c.refresh()
			}
		}
	}
	return c, nil
}

func (c clientsModel) showForm(edit bool) (clientsModel, tea.Cmd) {
	*c.formName = ""
	c.editing = edit
	if edit {
		cl := c.clients[c.cursor]
		*c.formName = cl.Name
		c.editingID = cl.ID
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Client Name").Value(c.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c clientsModel) updateForm(msg tea.Msg) (clientsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		if *c.formName != "" {
			if c.editing {
				c.store.UpdateClient(c.editingID, *c.formName)
			} else {
				c.store.CreateClient(*c.formName)
			}
		}
		return c, c.refresh()
	}

	return c, cmd
}

func (c clientsModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Client")
		if c.editing {
			title = titleStyle.Render("Edit Client")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Clients")

	if len(c.clients) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No clients yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, cl := range c.clients {
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s", cursor, cl.Name)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: archive"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
