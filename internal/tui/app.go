package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xBounceIT/praetor/internal/export"
	"github.com/xBounceIT/praetor/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	logger *slog.Logger
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	clients   clientsModel
	projects  projectsModel
	schedule  scheduleModel
	settings  settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, logger *slog.Logger) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		logger:     logger,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s),
		clients:    newClientsModel(s),
		projects:   newProjectsModel(s),
		schedule:   newScheduleModel(s),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

// startupMaterializeDelay leaves the first paint snappy; the schedule run
// follows shortly after.
const startupMaterializeDelay = 2 * time.Second

func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(startupMaterializeDelay, func(time.Time) tea.Msg {
			return requestMaterializeMsg{}
		}),
		a.dashboard.loadData(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.clients.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.schedule.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Refresh):
			a.status = "Materializing schedule..."
			return a, materializeCmd(a.store, a.logger)
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewClients
			return a, a.clients.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewProjects
			return a, a.projects.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSchedule
			return a, a.schedule.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 5
			return a, a.refreshCurrentView()
		}

	case requestMaterializeMsg:
		return a, materializeCmd(a.store, a.logger)

	case materializeDoneMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("Schedule error: %v", msg.err)
		} else if msg.created > 0 {
			a.status = fmt.Sprintf("Scheduled %d new entries", msg.created)
		} else {
			a.status = "Schedule up to date"
		}
		return a, a.refreshCurrentView()

	case statusMsg:
		a.status = msg.text
		return a, nil

	case entryLoggedMsg:
		a.status = "Entry logged"
		return a, a.dashboard.loadData()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewClients:
		a.clients, cmd = a.clients.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewSchedule:
		a.schedule, cmd = a.schedule.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.formActive
	case viewClients:
		return a.clients.formActive
	case viewProjects:
		return a.projects.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewClients:
		return a.clients.refresh()
	case viewProjects:
		return a.projects.refresh()
	case viewSchedule:
		return a.schedule.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewClients:
		content = a.clients.view()
	case viewProjects:
		content = a.projects.view()
	case viewSchedule:
		content = a.schedule.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker(contentHeight)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("praetor")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Today's progress indicator in footer
	todayInfo := ""
	if logged, goal := a.dashboard.loggedToday, a.dashboard.dailyGoal; goal > 0 {
		style := successStyle
		if logged < goal {
			style = warningStyle
		}
		todayInfo = style.Render(fmt.Sprintf(" %s/%s", formatHours(logged), formatHours(goal)))
	}

	left := footerStyle.Render(helpView)
	right := todayInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker(_ int) string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON", "ICS (calendar)"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 2 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		entries, err := a.store.ListEntries(store.EntryFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		// Build project lookup
		projects := make(map[int64]*store.Project)
		plist, _ := a.store.ListProjects(true)
		for i := range plist {
			projects[plist[i].ID] = &plist[i]
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format(time.DateOnly)

		var path string
		switch format {
		case 0:
			path = filepath.Join(home, fmt.Sprintf("praetor-export-%s.csv", dateStr))
			if err := export.ToCSV(entries, projects, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		case 1:
			path = filepath.Join(home, fmt.Sprintf("praetor-export-%s.json", dateStr))
			if err := export.ToJSON(entries, projects, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		default:
			path = filepath.Join(home, fmt.Sprintf("praetor-schedule-%s.ics", dateStr))
			if err := export.ToICS(entries, projects, path); err != nil {
				return statusMsg{text: fmt.Sprintf("ICS error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
