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
	"github.com/xBounceIT/praetor/internal/recur"
	"github.com/xBounceIT/praetor/internal/store"
)

var projectColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

type projectsModel struct {
	store  *store.Store
	width  int
	height int

	projects     []store.Project
	clients      []store.Client
	tasks        []store.Task
	cursor       int
	taskCursor   int
	showArchived bool
	viewingTasks bool // true = viewing tasks of selected project

	formActive bool
	form       *huh.Form
	formType   string // "project", "edit_project", "task", "recurrence"

	// Form field pointers (survive value copies)
	formName    *string
	formColor   *string
	formClient  *string
	formPattern *string
	formStart   *string
	formEnd     *string
	formHours   *string

	editingID int64 // project or task ID being edited
}

func newProjectsModel(s *store.Store) projectsModel {
	name, color, client := "", projectColors[0], ""
	pattern, start, end, hours := "", "", "", ""
	return projectsModel{
		store:       s,
		formName:    &name,
		formColor:   &color,
		formClient:  &client,
		formPattern: &pattern,
		formStart:   &start,
		formEnd:     &end,
		formHours:   &hours,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type projectsDataMsg struct {
	projects []store.Project
	clients  []store.Client
}

type tasksDataMsg struct {
	tasks []store.Task
}

func (p projectsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		projects, _ := p.store.ListProjects(p.showArchived)
		clients, _ := p.store.ListClients(false)
		return projectsDataMsg{projects: projects, clients: clients}
	}
}

func (p projectsModel) refreshTasks() tea.Cmd {
	if p.cursor >= len(p.projects) {
		return nil
	}
	pid := p.projects[p.cursor].ID
	return func() tea.Msg {
		tasks, _ := p.store.ListTasks(pid, false)
		return tasksDataMsg{tasks: tasks}
	}
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		p.projects = msg.projects
		p.clients = msg.clients
		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		return p, nil

	case tasksDataMsg:
		p.tasks = msg.tasks
		if p.taskCursor >= len(p.tasks) {
			p.taskCursor = max(0, len(p.tasks)-1)
		}
		return p, nil

	case tea.KeyMsg:
		if p.viewingTasks {
			return p.updateTaskView(msg)
		}
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.projects) > 0 {
			p.viewingTasks = true
			p.taskCursor = 0
			return p, p.refreshTasks()
		}
	case key.Matches(msg, keys.New):
		return p.showProjectForm(false)
	case key.Matches(msg, keys.Edit):
		if len(p.projects) > 0 {
			return p.showProjectForm(true)
		}
	case key.Matches(msg, keys.Delete):
		if len(p.projects) > 0 {
			proj := p.projects[p.cursor]
			p.store.ArchiveProject(proj.ID)
			return p, p.refresh()
		}
	}
	return p, nil
}

func (p projectsModel) updateTaskView(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		p.viewingTasks = false
		return p, nil
	case key.Matches(msg, keys.Up):
		if p.taskCursor > 0 {
			p.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.taskCursor < len(p.tasks)-1 {
			p.taskCursor++
		}
	case key.Matches(msg, keys.New):
		return p.showNewTaskForm()
	case key.Matches(msg, keys.Recur):
		if len(p.tasks) > 0 {
			return p.showRecurrenceForm()
		}
	case key.Matches(msg, keys.Clear):
		if len(p.tasks) > 0 {
			task := p.tasks[p.taskCursor]
			if task.Recurring {
				p.store.ClearRecurrence(task.ID)
				// Pending placeholders are meaningless once the rule
				// is gone; completed entries are kept.
				p.store.DeletePlaceholders(task.ProjectID, task.Name)
				return p, tea.Batch(p.refreshTasks(), func() tea.Msg {
					return statusMsg{text: fmt.Sprintf("Recurrence cleared for %q", task.Name)}
				})
			}
		}
	case key.Matches(msg, keys.Delete):
		if len(p.tasks) > 0 {
			task := p.tasks[p.taskCursor]
			p.store.ArchiveTask(task.ID)
			return p, p.refreshTasks()
		}
	}
	return p, nil
}

func (p projectsModel) showProjectForm(edit bool) (projectsModel, tea.Cmd) {
	if len(p.clients) == 0 {
		return p, func() tea.Msg {
			return statusMsg{text: "No clients yet. Press 2 to go to Clients and create one.", isError: true}
		}
	}

	*p.formName = ""
	*p.formColor = projectColors[0]
	*p.formClient = strconv.FormatInt(p.clients[0].ID, 10)
	p.formType = "project"
	if edit {
		proj := p.projects[p.cursor]
		*p.formName = proj.Name
		*p.formColor = proj.Color
		*p.formClient = strconv.FormatInt(proj.ClientID, 10)
		p.formType = "edit_project"
		p.editingID = proj.ID
	}

	clientOptions := make([]huh.Option[string], len(p.clients))
	for i, c := range p.clients {
		clientOptions[i] = huh.NewOption(c.Name, strconv.FormatInt(c.ID, 10))
	}
	colorOptions := make([]huh.Option[string], len(projectColors))
	for i, c := range projectColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(p.formName),
			huh.NewSelect[string]().Title("Client").Options(clientOptions...).Value(p.formClient),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(p.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showNewTaskForm() (projectsModel, tea.Cmd) {
	*p.formName = ""
	p.formType = "task"

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task Name").Value(p.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showRecurrenceForm() (projectsModel, tea.Cmd) {
	task := p.tasks[p.taskCursor]
	*p.formPattern = task.Pattern
	*p.formStart = ""
	if !task.RecurStart.IsZero() {
		*p.formStart = task.RecurStart.Format(time.DateOnly)
	}
	*p.formEnd = ""
	if task.RecurEnd != nil {
		*p.formEnd = task.RecurEnd.Format(time.DateOnly)
	}
	*p.formHours = ""
	if task.RecurHours > 0 {
		*p.formHours = strconv.FormatFloat(task.RecurHours, 'f', -1, 64)
	}
	p.formType = "recurrence"
	p.editingID = task.ID

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Pattern").
				Description("daily, weekly, monthly, or monthly:<first|second|third|fourth|last>:<0-6>").
				Value(p.formPattern).
				Validate(validatePattern),
			huh.NewInput().
				Title("Start date (YYYY-MM-DD, empty = today)").
				Value(p.formStart).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("End date (YYYY-MM-DD, empty = open-ended)").
				Value(p.formEnd).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Planned hours per occurrence").
				Value(p.formHours).
				Validate(validateHours),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func validatePattern(s string) error {
	if _, ok := recur.ParseRule(s); !ok {
		return fmt.Errorf("unrecognized pattern")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		switch p.formType {
		case "project":
			if *p.formName != "" {
				cid, _ := strconv.ParseInt(*p.formClient, 10, 64)
				p.store.CreateProject(cid, *p.formName, *p.formColor)
			}
			return p, p.refresh()
		case "edit_project":
			if *p.formName != "" {
				cid, _ := strconv.ParseInt(*p.formClient, 10, 64)
				p.store.UpdateProject(p.editingID, cid, *p.formName, *p.formColor)
			}
			return p, p.refresh()
		case "task":
			if *p.formName != "" && p.cursor < len(p.projects) {
				p.store.CreateTask(p.projects[p.cursor].ID, *p.formName)
			}
			return p, p.refreshTasks()
		case "recurrence":
			return p.saveRecurrence()
		}
	}

	return p, cmd
}

func (p projectsModel) saveRecurrence() (projectsModel, tea.Cmd) {
	var start time.Time
	if *p.formStart != "" {
		start, _ = time.Parse(time.DateOnly, *p.formStart)
	}
	var end *time.Time
	if *p.formEnd != "" {
		e, _ := time.Parse(time.DateOnly, *p.formEnd)
		end = &e
	}
	hours, _ := strconv.ParseFloat(*p.formHours, 64)

	if err := p.store.SetRecurrence(p.editingID, *p.formPattern, start, end, hours); err != nil {
		return p, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}

	// Materialize right away so the schedule reflects the new rule.
	return p, tea.Batch(
		p.refreshTasks(),
		func() tea.Msg { return requestMaterializeMsg{} },
	)
}

func (p projectsModel) clientName(id int64) string {
	for _, c := range p.clients {
		if c.ID == id {
			return c.Name
		}
	}
	return "?"
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		var title string
		switch p.formType {
		case "edit_project":
			title = titleStyle.Render("Edit Project")
		case "task":
			title = titleStyle.Render("New Task")
		case "recurrence":
			title = titleStyle.Render("Recurrence")
		default:
			title = titleStyle.Render("New Project")
		}
		formView := p.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(p.width - 4).Render(content)
	}

	if p.viewingTasks {
		return p.renderTaskView()
	}
	return p.renderProjectList()
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	// Table header
	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-20s", "", "Name", "Client"))
	rows = append(rows, header)

	for i, proj := range p.projects {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(proj.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%s %-24s %-20s", cursor, colorDot, proj.Name, p.clientName(proj.ClientID)))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: archive  enter: tasks"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p projectsModel) renderTaskView() string {
	w := p.width - 4
	proj := p.projects[p.cursor]
	colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(proj.Color)).Render("●")
	title := titleStyle.Render(fmt.Sprintf("%s %s — Tasks", colorDot, proj.Name))

	if len(p.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, task := range p.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == p.taskCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		recurInfo := ""
		if task.Recurring {
			info := task.Pattern
			if task.RecurHours > 0 {
				info += " " + formatHours(task.RecurHours)
			}
			if task.RecurEnd != nil {
				info += " until " + task.RecurEnd.Format(time.DateOnly)
			}
			recurInfo = highlightStyle.Render(" ↻ " + info)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s", cursor, task.Name))+recurInfo)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new task  r: recurrence  c: clear recurrence  d: archive  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
