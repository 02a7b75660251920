package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xBounceIT/praetor/internal/store"
)

type scheduleModel struct {
	store  *store.Store
	width  int
	height int

	days    []store.ScheduledDay
	pending []store.TimeEntry
	cursor  int
	offset  int // 7-day blocks past today (0 = current window)

	chart barchart.Model
}

func newScheduleModel(s *store.Store) scheduleModel {
	return scheduleModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (s *scheduleModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type scheduleDataMsg struct {
	days    []store.ScheduledDay
	pending []store.TimeEntry
}

func (s scheduleModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := s.dateRange()
		days, _ := s.store.GetScheduledByDay(from, to)

		pending := true
		entries, _ := s.store.ListEntries(store.EntryFilter{
			From:        &from,
			To:          &to,
			Placeholder: &pending,
		})
		return scheduleDataMsg{days: days, pending: entries}
	}
}

func (s scheduleModel) dateRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, 7*s.offset)
	return start, start.AddDate(0, 0, 7)
}

func (s scheduleModel) update(msg tea.Msg) (scheduleModel, tea.Cmd) {
	switch msg := msg.(type) {
	case scheduleDataMsg:
		s.days = msg.days
		// ListEntries returns newest-created first; re-sort by date so the
		// cursor walks the window chronologically.
		s.pending = msg.pending
		for i := 1; i < len(s.pending); i++ {
			for j := i; j > 0 && s.pending[j].EntryDate.Before(s.pending[j-1].EntryDate); j-- {
				s.pending[j], s.pending[j-1] = s.pending[j-1], s.pending[j]
			}
		}
		if s.cursor >= len(s.pending) {
			s.cursor = max(0, len(s.pending)-1)
		}
		s.buildChart()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
			return s, nil
		case key.Matches(msg, keys.Down):
			if s.cursor < len(s.pending)-1 {
				s.cursor++
			}
			return s, nil
		case key.Matches(msg, keys.Done):
			return s.completeSelected()
		case key.Matches(msg, keys.Left):
			if s.offset > 0 {
				s.offset--
			}
			return s, s.refresh()
		case key.Matches(msg, keys.Right):
			s.offset++
			return s, s.refresh()
		}
	}
	return s, nil
}

// completeSelected turns the placeholder under the cursor into a completed
// entry at its planned hours.
func (s scheduleModel) completeSelected() (scheduleModel, tea.Cmd) {
	if s.cursor >= len(s.pending) {
		return s, nil
	}
	e := s.pending[s.cursor]
	if err := s.store.CompleteEntry(e.ID, e.Hours); err != nil {
		return s, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	return s, tea.Batch(
		s.refresh(),
		func() tea.Msg { return entryLoggedMsg{entry: &e} },
	)
}

func (s *scheduleModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	from, to := s.dateRange()

	// One bar per day in the window, zero bars included so gaps are visible
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(time.DateOnly)
		label := d.Format("Mon 02")

		hours := 0.0
		for _, sd := range s.days {
			if sd.Date == dateStr {
				hours = sd.Hours
			}
		}

		style := lipgloss.NewStyle().Foreground(colorSecondary)
		if hours == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}

		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: "scheduled", Value: hours, Style: style},
			},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s scheduleModel) view() string {
	w := s.width - 4

	from, to := s.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Schedule"), "  ", dateLabel,
	)

	chartView := s.chart.View()
	tableView := s.renderPendingTable(w)
	nav := mutedStyle.Render("  ←/→: navigate  x: done  m: materialize now")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", tableView, "", nav,
		),
	)
}

func (s scheduleModel) renderPendingTable(w int) string {
	if len(s.pending) == 0 {
		return mutedStyle.Render("  Nothing scheduled in this window")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %-24s %8s", "Date", "Task", "Hours"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 48))))

	for i, e := range s.pending {
		cursor := "  "
		if i == s.cursor {
			cursor = "> "
		}
		rows = append(rows, fmt.Sprintf("%s%-12s %-24s %8s",
			cursor, e.EntryDate.Format(time.DateOnly), e.TaskName, formatHours(e.Hours),
		))
	}

	return strings.Join(rows, "\n")
}
