package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"plazo/internal/model"
)

// runPlazo executes the root command against a scratch config+db and
// returns stdout.
func runPlazo(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	full := append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--db", filepath.Join(dir, "plazo.sqlite"),
	}, args...)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(full)
	err := cmd.Execute()
	return out.String(), err
}

func TestTasksCreateListToggle(t *testing.T) {
	dir := t.TempDir()

	out, err := runPlazo(t, dir, "tasks", "create",
		"--title", "Conciliar banco",
		"--due", "2030-03-18",
		"--priority", "Urgente",
		"--tag", "bancos")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var created model.Task
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("decode create output %q: %v", out, err)
	}
	if created.ID == "" || created.Priority != model.PriorityUrgente {
		t.Fatalf("unexpected created task: %+v", created)
	}
	if len(created.Tags) != 1 || created.Tags[0].Name != "bancos" {
		t.Fatalf("tag missing: %+v", created.Tags)
	}

	out, err = runPlazo(t, dir, "tasks", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var listResp struct {
		Tasks []model.Task `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(out), &listResp); err != nil {
		t.Fatalf("decode list output %q: %v", out, err)
	}
	if len(listResp.Tasks) != 1 || listResp.Tasks[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", listResp.Tasks)
	}

	out, err = runPlazo(t, dir, "tasks", "toggle", created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	var toggled model.Task
	if err := json.Unmarshal([]byte(out), &toggled); err != nil {
		t.Fatalf("decode toggle output %q: %v", out, err)
	}
	if toggled.Status != model.StatusCompleted {
		t.Fatalf("expected Completed, got %q", toggled.Status)
	}
}

func TestTasksCreateRequiresFlags(t *testing.T) {
	dir := t.TempDir()
	if _, err := runPlazo(t, dir, "tasks", "create", "--title", "sin fecha"); err == nil {
		t.Fatalf("create without --due should fail")
	}
	if _, err := runPlazo(t, dir, "tasks", "create",
		"--title", "x", "--due", "18/03/2030"); err == nil {
		t.Fatalf("malformed due date should fail")
	}
}

func TestTasksShowIncludesChildren(t *testing.T) {
	dir := t.TempDir()

	out, err := runPlazo(t, dir, "tasks", "create", "--title", "Balance", "--due", "2030-03-20")
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	var parent model.Task
	if err := json.Unmarshal([]byte(out), &parent); err != nil {
		t.Fatalf("decode: %v", err)
	}

	out, err = runPlazo(t, dir, "tasks", "create",
		"--title", "Comprobantes", "--due", "2030-03-18", "--parent", parent.ID)
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	var child model.Task
	if err := json.Unmarshal([]byte(out), &child); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if child.Enabled {
		t.Fatalf("child created under an open parent should start disabled")
	}

	out, err = runPlazo(t, dir, "tasks", "show", parent.ID)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var showResp struct {
		Task     model.Task   `json:"task"`
		Children []model.Task `json:"children"`
	}
	if err := json.Unmarshal([]byte(out), &showResp); err != nil {
		t.Fatalf("decode show output %q: %v", out, err)
	}
	if showResp.Task.ID != parent.ID || len(showResp.Children) != 1 || showResp.Children[0].ID != child.ID {
		t.Fatalf("unexpected show payload: %+v", showResp)
	}
}

func TestExpirationsLifecycle(t *testing.T) {
	dir := t.TempDir()

	out, err := runPlazo(t, dir, "expirations", "create",
		"--title", "Vencimiento IVA", "--due", "2030-03-18")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var created model.Expiration
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	out, err = runPlazo(t, dir, "expirations", "complete", created.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	var done model.Expiration
	if err := json.Unmarshal([]byte(out), &done); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !done.Completed {
		t.Fatalf("expected completed expiration: %+v", done)
	}

	out, err = runPlazo(t, dir, "expirations", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte(`"expirations":null`)) &&
		!bytes.Contains([]byte(out), []byte(`"expirations":[]`)) {
		t.Fatalf("completed expirations should be hidden by default: %s", out)
	}
}

func TestRecurringRunGeneratesTask(t *testing.T) {
	dir := t.TempDir()

	if _, err := runPlazo(t, dir, "recurring", "create",
		"--title", "Arqueo de caja",
		"--type", "custom",
		"--date", "2030-01-01",
		"--start", "2020-01-01"); err != nil {
		t.Fatalf("create recurring: %v", err)
	}

	// Today is not 2030-01-01, so a run generates nothing.
	out, err := runPlazo(t, dir, "recurring", "run")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var runResp struct {
		Generated int `json:"generated"`
	}
	if err := json.Unmarshal([]byte(out), &runResp); err != nil {
		t.Fatalf("decode run output %q: %v", out, err)
	}
	if runResp.Generated != 0 {
		t.Fatalf("expected no generation off-schedule, got %d", runResp.Generated)
	}
}

func TestDocsCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := runPlazo(t, dir, "docs")
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	var listResp struct {
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal([]byte(out), &listResp); err != nil {
		t.Fatalf("decode topics %q: %v", out, err)
	}
	if len(listResp.Topics) == 0 {
		t.Fatal("expected embedded topics")
	}

	out, err = runPlazo(t, dir, "docs", "tareas", "--raw")
	if err != nil {
		t.Fatalf("docs tareas: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("# Tareas")) {
		t.Fatalf("raw topic body missing: %q", out)
	}

	if _, err := runPlazo(t, dir, "docs", "inexistente"); err == nil {
		t.Fatal("unknown topic should fail")
	}
}

func TestCalendarCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := runPlazo(t, dir, "calendar", "--year", "2024", "--month", "2")
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	var vm struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Cells []struct {
			DayOfMonth     int  `json:"dayOfMonth"`
			InCurrentMonth bool `json:"inCurrentMonth"`
		} `json:"cells"`
		Legend []string `json:"legend"`
	}
	if err := json.Unmarshal([]byte(out), &vm); err != nil {
		t.Fatalf("decode calendar output %q: %v", out, err)
	}
	if vm.Year != 2024 || vm.Month != 2 || len(vm.Cells) != 35 {
		t.Fatalf("unexpected grid: year=%d month=%d cells=%d", vm.Year, vm.Month, len(vm.Cells))
	}
	// March 2024 starts on a Friday: four trailing February cells lead.
	if vm.Cells[0].InCurrentMonth || vm.Cells[0].DayOfMonth != 26 {
		t.Fatalf("expected filler Feb 26 first, got %+v", vm.Cells[0])
	}
	if !vm.Cells[4].InCurrentMonth || vm.Cells[4].DayOfMonth != 1 {
		t.Fatalf("expected March 1 at index 4, got %+v", vm.Cells[4])
	}
	if len(vm.Legend) != 2 {
		t.Fatalf("expected today+has-event legend, got %v", vm.Legend)
	}

	if _, err := runPlazo(t, dir, "calendar", "--month", "12"); err == nil {
		t.Fatalf("month 12 should be rejected")
	}
}
