package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xBounceIT/praetor/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID        int64   `json:"id"`
	Project   string  `json:"project"`
	ProjectID int64   `json:"project_id"`
	Task      string  `json:"task"`
	Date      string  `json:"date"`
	Hours     float64 `json:"hours"`
	Scheduled bool    `json:"scheduled,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

func ToJSON(entries []store.TimeEntry, projects map[int64]*store.Project, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
	}

	for _, e := range entries {
		projectName := "Unknown"
		if p, ok := projects[e.ProjectID]; ok {
			projectName = p.Name
		}

		export.Entries = append(export.Entries, jsonEntry{
			ID:        e.ID,
			Project:   projectName,
			ProjectID: e.ProjectID,
			Task:      e.TaskName,
			Date:      e.EntryDate.Format(time.DateOnly),
			Hours:     e.Hours,
			Scheduled: e.Placeholder,
			Notes:     e.Notes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
