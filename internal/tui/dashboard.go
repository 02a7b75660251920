package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/xBounceIT/praetor/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	loggedToday    float64
	scheduledToday float64
	dailyGoal      float64
	todayEntries   []store.TimeEntry
	projects       []store.Project
	cursor         int

	formActive bool
	form       *huh.Form
	formType   string // "log", "complete"

	// Form field pointers (survive value copies)
	formProject *string
	formTask    *string
	formHours   *string
	formNotes   *string

	completingID int64 // entry being marked done
}

func newDashboardModel(s *store.Store) dashboardModel {
	proj, task, hours, notes := "", "", "", ""
	return dashboardModel{
		store:       s,
		formProject: &proj,
		formTask:    &task,
		formHours:   &hours,
		formNotes:   &notes,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	logged    float64
	scheduled float64
	goal      float64
	entries   []store.TimeEntry
	projects  []store.Project
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		tomorrow := today.AddDate(0, 0, 1)

		logged, scheduled, _ := d.store.GetDayTotals(today)
		goal := d.store.GetFloatSetting("daily_goal_hours", 8)
		entries, _ := d.store.ListEntries(store.EntryFilter{From: &today, To: &tomorrow})
		projects, _ := d.store.ListProjects(false)

		return dashboardDataMsg{
			logged:    logged,
			scheduled: scheduled,
			goal:      goal,
			entries:   entries,
			projects:  projects,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.loggedToday = msg.logged
		d.scheduledToday = msg.scheduled
		d.dailyGoal = msg.goal
		d.todayEntries = msg.entries
		d.projects = msg.projects
		if d.cursor >= len(d.todayEntries) {
			d.cursor = max(0, len(d.todayEntries)-1)
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.todayEntries)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.New):
			return d.showLogForm()
		case key.Matches(msg, keys.Done):
			if d.cursor < len(d.todayEntries) {
				e := d.todayEntries[d.cursor]
				if e.Placeholder {
					return d.showCompleteForm(e)
				}
			}
		case key.Matches(msg, keys.Delete):
			if d.cursor < len(d.todayEntries) {
				d.store.DeleteEntry(d.todayEntries[d.cursor].ID)
				return d, d.loadData()
			}
		}
	}
	return d, nil
}

func (d dashboardModel) showLogForm() (dashboardModel, tea.Cmd) {
	if len(d.projects) == 0 {
		return d, func() tea.Msg {
			return statusMsg{text: "No projects yet. Press 3 to go to Projects and create one.", isError: true}
		}
	}

	*d.formProject = strconv.FormatInt(d.projects[0].ID, 10)
	*d.formTask = ""
	*d.formHours = ""
	*d.formNotes = ""
	d.formType = "log"

	projectOptions := make([]huh.Option[string], len(d.projects))
	for i, p := range d.projects {
		projectOptions[i] = huh.NewOption(p.Name, strconv.FormatInt(p.ID, 10))
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Project").Options(projectOptions...).Value(d.formProject),
			huh.NewInput().Title("Task").Value(d.formTask),
			huh.NewInput().Title("Hours").Value(d.formHours).Validate(validateHours),
			huh.NewInput().Title("Notes").Value(d.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showCompleteForm(e store.TimeEntry) (dashboardModel, tea.Cmd) {
	*d.formHours = strconv.FormatFloat(e.Hours, 'f', -1, 64)
	d.formType = "complete"
	d.completingID = e.ID

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Hours spent on %q", e.TaskName)).
				Value(d.formHours).
				Validate(validateHours),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		switch d.formType {
		case "log":
			if *d.formTask != "" {
				pid, _ := strconv.ParseInt(*d.formProject, 10, 64)
				hours, _ := strconv.ParseFloat(*d.formHours, 64)
				now := time.Now().UTC()
				today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
				entry, err := d.store.LogEntry(pid, *d.formTask, today, hours, *d.formNotes)
				if err != nil {
					return d, func() tea.Msg {
						return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
					}
				}
				return d, tea.Batch(
					d.loadData(),
					func() tea.Msg { return entryLoggedMsg{entry: entry} },
				)
			}
			return d, d.loadData()
		case "complete":
			hours, _ := strconv.ParseFloat(*d.formHours, 64)
			d.store.CompleteEntry(d.completingID, hours)
			return d, d.loadData()
		}
	}

	return d, cmd
}

func validateHours(s string) error {
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("enter a number of hours")
	}
	if h <= 0 || h > 24 {
		return fmt.Errorf("hours must be between 0 and 24")
	}
	return nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("Log Entry")
		if d.formType == "complete" {
			title = titleStyle.Render("Mark Done")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View())
		return panelStyle.Width(contentWidth).Render(content)
	}

	totalsPanel := d.renderTotalsPanel(contentWidth)
	entriesPanel := d.renderEntriesPanel(contentWidth)

	return lipgloss.JoinVertical(lipgloss.Left, totalsPanel, entriesPanel)
}

func (d dashboardModel) renderTotalsPanel(w int) string {
	style := totalsStyle
	if d.dailyGoal > 0 && d.loggedToday >= d.dailyGoal {
		style = goalMetStyle
	}
	display := style.Width(w - 6).Render(formatHours(d.loggedToday))

	goalLine := mutedStyle.Render(fmt.Sprintf("goal %s", formatHours(d.dailyGoal)))
	if d.scheduledToday > 0 {
		goalLine += warningStyle.Render(fmt.Sprintf("  ·  %s still scheduled", formatHours(d.scheduledToday)))
	}

	dateLine := subtitleStyle.Render(time.Now().Format("Monday, Jan 2"))

	content := lipgloss.JoinVertical(lipgloss.Center,
		display,
		goalLine,
		dateLine,
	)
	return activePanelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderEntriesPanel(w int) string {
	title := titleStyle.Render("Today")
	if len(d.todayEntries) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("Nothing logged or scheduled today. Press n to log an entry."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for i, e := range d.todayEntries {
		project, _ := d.store.GetProject(e.ProjectID)
		pName := "?"
		if project != nil {
			pName = project.Name
		}

		status := successStyle.Render("✓")
		hours := formatHours(e.Hours)
		if e.Placeholder {
			status = warningStyle.Render("○")
			hours = "planned " + hours
		}

		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		row := style.Render(fmt.Sprintf("%s%s %-16s %-24s %s", cursor, status, pName, e.TaskName, hours))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: log entry  x: mark done  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
