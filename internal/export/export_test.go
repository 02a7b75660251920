package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xBounceIT/praetor/internal/store"
)

func sampleData() ([]store.TimeEntry, map[int64]*store.Project) {
	entries := []store.TimeEntry{
		{
			ID:        1,
			ProjectID: 1,
			TaskName:  "Bug fix",
			EntryDate: time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
			Hours:     2.5,
			Notes:     "worked on feature",
		},
		{
			ID:        2,
			ProjectID: 2,
			TaskName:  "Design",
			EntryDate: time.Date(2024, time.June, 4, 0, 0, 0, 0, time.UTC),
			Hours:     1,
		},
		{
			ID:          3,
			ProjectID:   1,
			TaskName:    "Standup",
			EntryDate:   time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC),
			Hours:       0.5,
			Placeholder: true, // still scheduled
		},
	}

	projects := map[int64]*store.Project{
		1: {ID: 1, Name: "Project Alpha", Color: "#FF0000"},
		2: {ID: 2, Name: "Project Beta", Color: "#00FF00"},
	}

	return entries, projects
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	entries, projects := sampleData()
	path := filepath.Join(t.TempDir(), "test.csv")

	err := ToCSV(entries, projects, path)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	// Check header
	header := records[0]
	expectedHeader := []string{"ID", "Project", "Task", "Date", "Hours", "Status", "Notes"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	// Check first data row
	row := records[1]
	if row[0] != "1" {
		t.Fatalf("ID = %q, want 1", row[0])
	}
	if row[1] != "Project Alpha" {
		t.Fatalf("Project = %q, want Project Alpha", row[1])
	}
	if row[2] != "Bug fix" {
		t.Fatalf("Task = %q, want Bug fix", row[2])
	}
	if row[3] != "2024-06-03" {
		t.Fatalf("Date = %q, want 2024-06-03", row[3])
	}
	if row[4] != "2.50" {
		t.Fatalf("Hours = %q, want 2.50", row[4])
	}
	if row[5] != "logged" {
		t.Fatalf("Status = %q, want logged", row[5])
	}
	if row[6] != "worked on feature" {
		t.Fatalf("Notes = %q, want 'worked on feature'", row[6])
	}

	// Placeholder entry is marked scheduled
	scheduledRow := records[3]
	if scheduledRow[5] != "scheduled" {
		t.Fatalf("placeholder status = %q, want scheduled", scheduledRow[5])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	err := ToCSV(nil, nil, path)
	if err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, _ := r.ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVUnknownProject(t *testing.T) {
	entries := []store.TimeEntry{
		{
			ID:        1,
			ProjectID: 999,
			TaskName:  "Orphan",
			EntryDate: time.Now(),
			Hours:     1,
		},
	}
	path := filepath.Join(t.TempDir(), "unknown.csv")

	err := ToCSV(entries, map[int64]*store.Project{}, path)
	if err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, _ := r.ReadAll()
	if records[1][1] != "Unknown" {
		t.Fatalf("expected 'Unknown' for missing project, got %q", records[1][1])
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, nil, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	entries := []store.TimeEntry{
		{
			ID:        1,
			ProjectID: 1,
			TaskName:  `task with "quotes"`,
			EntryDate: time.Now(),
			Hours:     1,
			Notes:     `notes with "quotes" and, commas`,
		},
	}
	projects := map[int64]*store.Project{
		1: {ID: 1, Name: `Project "Special"`},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	err := ToCSV(entries, projects, path)
	if err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][1] != `Project "Special"` {
		t.Fatalf("project name mangled: %q", records[1][1])
	}
	if records[1][6] != `notes with "quotes" and, commas` {
		t.Fatalf("notes mangled: %q", records[1][6])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	entries, projects := sampleData()
	path := filepath.Join(t.TempDir(), "test.json")

	err := ToJSON(entries, projects, path)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(result.Entries))
	}
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}

	// Check first entry
	e := result.Entries[0]
	if e.ID != 1 {
		t.Fatalf("ID = %d, want 1", e.ID)
	}
	if e.Project != "Project Alpha" {
		t.Fatalf("Project = %q, want Project Alpha", e.Project)
	}
	if e.Task != "Bug fix" {
		t.Fatalf("Task = %q, want Bug fix", e.Task)
	}
	if e.Date != "2024-06-03" {
		t.Fatalf("Date = %q, want 2024-06-03", e.Date)
	}
	if e.Hours != 2.5 {
		t.Fatalf("Hours = %v, want 2.5", e.Hours)
	}
	if e.Scheduled {
		t.Fatal("logged entry should not be marked scheduled")
	}
	if e.Notes != "worked on feature" {
		t.Fatalf("Notes = %q", e.Notes)
	}

	// Placeholder entry carries the scheduled flag
	if !result.Entries[2].Scheduled {
		t.Fatal("placeholder entry should be marked scheduled")
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	err := ToJSON(nil, nil, path)
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Entries != nil {
		t.Fatal("entries should be nil/null for empty export")
	}
}

func TestToJSONUnknownProject(t *testing.T) {
	entries := []store.TimeEntry{
		{ID: 1, ProjectID: 999, TaskName: "Orphan", EntryDate: time.Now(), Hours: 1},
	}
	path := filepath.Join(t.TempDir(), "unknown.json")

	ToJSON(entries, map[int64]*store.Project{}, path)

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)
	if result.Entries[0].Project != "Unknown" {
		t.Fatalf("expected 'Unknown', got %q", result.Entries[0].Project)
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, nil, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, nil, path)

	data, _ := os.ReadFile(path)
	// Pretty-printed JSON should contain newlines and indentation
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONValidTimestamp(t *testing.T) {
	entries, projects := sampleData()
	path := filepath.Join(t.TempDir(), "ts.json")
	ToJSON(entries, projects, path)

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	// exported_at should be valid RFC3339
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	// entry dates should be valid calendar dates
	for _, e := range result.Entries {
		if _, err := time.Parse(time.DateOnly, e.Date); err != nil {
			t.Fatalf("date is not valid: %q", e.Date)
		}
	}
}

// ============================================================
// ICS
// ============================================================

func TestToICS(t *testing.T) {
	entries, projects := sampleData()
	path := filepath.Join(t.TempDir(), "test.ics")

	err := ToICS(entries, projects, path)
	if err != nil {
		t.Fatalf("ToICS: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	if !strings.Contains(out, "BEGIN:VCALENDAR") {
		t.Fatal("missing VCALENDAR wrapper")
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 3 {
		t.Fatalf("expected 3 VEVENTs, got %d", got)
	}
	if !strings.Contains(out, "DTSTART;VALUE=DATE:20240603") {
		t.Fatal("missing all-day DTSTART for first entry")
	}
	// All-day DTEND is exclusive, so it points at the following day
	if !strings.Contains(out, "DTEND;VALUE=DATE:20240604") {
		t.Fatal("missing exclusive all-day DTEND for first entry")
	}
	if !strings.Contains(out, "Project Alpha: Bug fix") {
		t.Fatal("missing event summary")
	}
	if !strings.Contains(out, "worked on feature") {
		t.Fatal("missing event description")
	}
}

func TestToICSEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.ics")

	err := ToICS(nil, nil, path)
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	out := string(data)
	if !strings.Contains(out, "BEGIN:VCALENDAR") || strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatal("empty export should be a calendar with no events")
	}
}

func TestToICSBadPath(t *testing.T) {
	err := ToICS(nil, nil, "/nonexistent/dir/file.ics")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// formatHours (internal helper)
// ============================================================

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0.00"},
		{0.5, "0.50"},
		{1, "1.00"},
		{2.25, "2.25"},
		{10.333, "10.33"},
	}

	for _, tt := range tests {
		got := formatHours(tt.hours)
		if got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}
