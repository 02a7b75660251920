package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/xBounceIT/praetor/internal/store"
)

func ToCSV(entries []store.TimeEntry, projects map[int64]*store.Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Project", "Task", "Date", "Hours", "Status", "Notes"}); err != nil {
		return err
	}

	for _, e := range entries {
		projectName := "Unknown"
		if p, ok := projects[e.ProjectID]; ok {
			projectName = p.Name
		}
		status := "logged"
		if e.Placeholder {
			status = "scheduled"
		}

		row := []string{
			fmt.Sprintf("%d", e.ID),
			projectName,
			e.TaskName,
			e.EntryDate.Format(time.DateOnly),
			formatHours(e.Hours),
			status,
			e.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.2f", h)
}
