package tui

import (
	"fmt"

	"github.com/xBounceIT/praetor/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewClients
	viewProjects
	viewSchedule
	viewSettings
)

var viewNames = []string{"Dashboard", "Clients", "Projects", "Schedule", "Settings"}

// --- Messages ---

type materializeDoneMsg struct {
	created int
	err     error
}

// requestMaterializeMsg asks the root model to run the recurrence driver,
// e.g. after a task's recurrence changed.
type requestMaterializeMsg struct{}

type clientCreatedMsg struct {
	client *store.Client
}

type projectCreatedMsg struct {
	project *store.Project
}

type taskCreatedMsg struct {
	task *store.Task
}

type entryLoggedMsg struct {
	entry *store.TimeEntry
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
