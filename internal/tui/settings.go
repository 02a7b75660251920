package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/xBounceIT/praetor/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings []store.Setting
	holidays []store.Holiday
	cursor   int // over holidays

	formActive bool
	form       *huh.Form
	formType   string // "settings", "holiday"

	// Form values as pointers (survive value copies)
	saturdayOff  *string
	horizonDays  *string
	dailyGoal    *string
	weekStart    *string
	holidayDate  *string
	holidayName  *string
}

func newSettingsModel(s *store.Store) settingsModel {
	sat, hor, dg, ws := "", "", "", ""
	hd, hn := "", ""
	return settingsModel{
		store:       s,
		saturdayOff: &sat,
		horizonDays: &hor,
		dailyGoal:   &dg,
		weekStart:   &ws,
		holidayDate: &hd,
		holidayName: &hn,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
	holidays []store.Holiday
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		holidays, _ := s.store.ListHolidays()
		return settingsDataMsg{settings: settings, holidays: holidays}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		s.holidays = msg.holidays
		if s.cursor >= len(s.holidays) {
			s.cursor = max(0, len(s.holidays)-1)
		}
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showSettingsForm()
		case key.Matches(msg, keys.New):
			return s.showHolidayForm()
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < len(s.holidays)-1 {
				s.cursor++
			}
		case key.Matches(msg, keys.Delete):
			if len(s.holidays) > 0 {
				s.store.RemoveHoliday(s.holidays[s.cursor].Date)
				return s, s.refresh()
			}
		}
	}
	return s, nil
}

func (s settingsModel) showSettingsForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.saturdayOff = s.getVal("saturday_is_holiday", "true")
	*s.horizonDays = s.getVal("schedule_horizon_days", "14")
	*s.dailyGoal = s.getVal("daily_goal_hours", "8")
	*s.weekStart = s.getVal("week_start", "monday")
	s.formType = "settings"

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Saturdays are non-working").
				Options(
					huh.NewOption("Yes", "true"),
					huh.NewOption("No", "false"),
				).Value(s.saturdayOff),
			huh.NewInput().Title("Schedule horizon (days)").Value(s.horizonDays),
			huh.NewInput().Title("Daily goal (hours)").Value(s.dailyGoal),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.weekStart),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showHolidayForm() (settingsModel, tea.Cmd) {
	*s.holidayDate = ""
	*s.holidayName = ""
	s.formType = "holiday"

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(s.holidayDate).Validate(validateDate),
			huh.NewInput().Title("Name").Value(s.holidayName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validateDate(v string) error {
	if _, err := time.Parse(time.DateOnly, v); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		switch s.formType {
		case "settings":
			s.saveSettings()
			// Calendar settings change what counts as a working day, so
			// regenerate the schedule.
			return s, tea.Batch(s.refresh(), func() tea.Msg {
				return requestMaterializeMsg{}
			})
		case "holiday":
			if d, err := time.Parse(time.DateOnly, *s.holidayDate); err == nil {
				s.store.SetHoliday(d, *s.holidayName)
			}
			return s, tea.Batch(s.refresh(), func() tea.Msg {
				return requestMaterializeMsg{}
			})
		}
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	s.store.SetSetting("saturday_is_holiday", *s.saturdayOff)
	s.store.SetSetting("schedule_horizon_days", *s.horizonDays)
	s.store.SetSetting("daily_goal_hours", *s.dailyGoal)
	s.store.SetSetting("week_start", *s.weekStart)
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		if s.formType == "holiday" {
			title = titleStyle.Render("Add Holiday")
		}
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(setting.Value)
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, titleStyle.Render("Holidays"))
	rows = append(rows, "")
	if len(s.holidays) == 0 {
		rows = append(rows, mutedStyle.Render("  No holidays configured"))
	}
	for i, h := range s.holidays {
		cursor := "  "
		style := normalItemStyle
		if i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s  %s", cursor, h.Date.Format(time.DateOnly), h.Name)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: edit settings  n: add holiday  d: remove holiday"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
