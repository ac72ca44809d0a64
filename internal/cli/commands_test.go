package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nvieira/todo-cli/internal/config"
	"github.com/nvieira/todo-cli/internal/store"
	"github.com/nvieira/todo-cli/internal/task"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		File:  filepath.Join(t.TempDir(), "tasks.json"),
		Color: config.ColorNever,
	}
}

func loadTasks(t *testing.T, cfg *config.Config) []task.Task {
	t.Helper()
	tasks, err := store.New(cfg.File).Load()
	if err != nil {
		t.Fatalf("loading store: %v", err)
	}
	return tasks
}

func TestAddAndList(t *testing.T) {
	cfg := testConfig(t)

	if err := addCommand(cfg, []string{"Buy milk"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	tasks := loadTasks(t, cfg)
	if len(tasks) != 1 {
		t.Fatalf("task count: got %d, want 1", len(tasks))
	}
	if tasks[0].Text != "Buy milk" {
		t.Errorf("Text: got %q, want %q", tasks[0].Text, "Buy milk")
	}
	if tasks[0].Priority != task.PriorityMedium {
		t.Errorf("Priority: got %q, want medium", tasks[0].Priority)
	}
	if tasks[0].Completed {
		t.Error("Completed: new tasks must start pending")
	}

	if err := listCommand(cfg, nil); err != nil {
		t.Errorf("list failed: %v", err)
	}
}

func TestAddJoinsTextArguments(t *testing.T) {
	cfg := testConfig(t)

	if err := addCommand(cfg, []string{"Buy", "milk", "and", "eggs"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	tasks := loadTasks(t, cfg)
	if tasks[0].Text != "Buy milk and eggs" {
		t.Errorf("Text: got %q, want joined words", tasks[0].Text)
	}
}

func TestAddWithOptions(t *testing.T) {
	cfg := testConfig(t)

	args := []string{"-priority", "high", "-tag", "work", "-tag", "q3", "-due", "2030-01-02", "Write report"}
	if err := addCommand(cfg, args); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	tasks := loadTasks(t, cfg)
	got := tasks[0]
	if got.Priority != task.PriorityHigh {
		t.Errorf("Priority: got %q, want high", got.Priority)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "work" || got.Tags[1] != "q3" {
		t.Errorf("Tags: got %v, want [work q3]", got.Tags)
	}
	if got.DueDate == nil || got.DueDate.String() != "2030-01-02" {
		t.Errorf("DueDate: got %v, want 2030-01-02", got.DueDate)
	}
}

func TestAddValidationFailuresTouchNothing(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"empty text", nil},
		{"whitespace text", []string{"   "}},
		{"bad priority", []string{"-priority", "urgent", "task"}},
		{"bad date", []string{"-due", "tomorrow", "task"}},
		{"empty tag", []string{"-tag", "", "task"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			if err := addCommand(cfg, tt.args); err == nil {
				t.Fatal("add: expected error")
			}
			if _, err := os.Stat(cfg.File); !os.IsNotExist(err) {
				t.Error("store file was created despite validation failure")
			}
		})
	}
}

func TestDonePrecondition(t *testing.T) {
	cfg := testConfig(t)
	if err := addCommand(cfg, []string{"task one"}); err != nil {
		t.Fatal(err)
	}

	if err := doneCommand(cfg, []string{"1"}); err != nil {
		t.Fatalf("first done failed: %v", err)
	}
	if !loadTasks(t, cfg)[0].Completed {
		t.Fatal("task not marked completed")
	}

	err := doneCommand(cfg, []string{"1"})
	var already *AlreadyInStatusError
	if !errors.As(err, &already) {
		t.Fatalf("second done: got %v, want *AlreadyInStatusError", err)
	}
	if already.ID != 1 || already.Status != "completed" {
		t.Errorf("error fields: got %+v, want ID 1, Status completed", already)
	}
}

func TestUndonePrecondition(t *testing.T) {
	cfg := testConfig(t)
	if err := addCommand(cfg, []string{"task one"}); err != nil {
		t.Fatal(err)
	}

	err := undoneCommand(cfg, []string{"1"})
	var already *AlreadyInStatusError
	if !errors.As(err, &already) {
		t.Fatalf("undone on pending task: got %v, want *AlreadyInStatusError", err)
	}
	if already.Status != "pending" {
		t.Errorf("Status: got %q, want pending", already.Status)
	}

	if err := doneCommand(cfg, []string{"1"}); err != nil {
		t.Fatal(err)
	}
	if err := undoneCommand(cfg, []string{"1"}); err != nil {
		t.Fatalf("undone failed: %v", err)
	}
	if loadTasks(t, cfg)[0].Completed {
		t.Error("task still completed after undone")
	}
}

func TestDoneBounds(t *testing.T) {
	cfg := testConfig(t)
	if err := addCommand(cfg, []string{"only task"}); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"0", "2", "99"} {
		err := doneCommand(cfg, []string{id})
		var invalid *InvalidTaskIDError
		if !errors.As(err, &invalid) {
			t.Errorf("done(%s): got %v, want *InvalidTaskIDError", id, err)
		} else if invalid.Max != 1 {
			t.Errorf("done(%s): Max got %d, want 1", id, invalid.Max)
		}
	}

	if err := doneCommand(cfg, []string{"1"}); err != nil {
		t.Errorf("done(1) on non-empty collection: got %v, want nil", err)
	}
}

func TestDoneOnEmptyStore(t *testing.T) {
	cfg := testConfig(t)

	err := doneCommand(cfg, []string{"1"})
	var invalid *InvalidTaskIDError
	if !errors.As(err, &invalid) {
		t.Fatalf("done on empty store: got %v, want *InvalidTaskIDError", err)
	}
	if invalid.Max != 0 {
		t.Errorf("Max: got %d, want 0", invalid.Max)
	}
}

func TestDoneRejectsNonNumericID(t *testing.T) {
	cfg := testConfig(t)
	if err := doneCommand(cfg, []string{"first"}); err == nil {
		t.Error("done(first): expected parse error")
	}
	if err := doneCommand(cfg, nil); err == nil {
		t.Error("done with no id: expected usage error")
	}
	if err := doneCommand(cfg, []string{"1", "2"}); err == nil {
		t.Error("done with two ids: expected usage error")
	}
}

// Bounds failures happen after load but before save and must leave the
// on-disk file byte-identical.
func TestFailedMutationLeavesStoreUntouched(t *testing.T) {
	cfg := testConfig(t)
	if err := addCommand(cfg, []string{"task one"}); err != nil {
		t.Fatal(err)
	}

	before, err := os.ReadFile(cfg.File)
	if err != nil {
		t.Fatal(err)
	}

	if err := doneCommand(cfg, []string{"9"}); err == nil {
		t.Fatal("done(9): expected error")
	}

	after, err := os.ReadFile(cfg.File)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("store file changed after failed mutation")
	}
}

func TestRemoveShiftsPositions(t *testing.T) {
	cfg := testConfig(t)
	for _, text := range []string{"A", "B", "C"} {
		if err := addCommand(cfg, []string{text}); err != nil {
			t.Fatal(err)
		}
	}

	if err := removeCommand(cfg, []string{"1"}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	tasks := loadTasks(t, cfg)
	if len(tasks) != 2 {
		t.Fatalf("task count: got %d, want 2", len(tasks))
	}
	if tasks[0].Text != "B" || tasks[1].Text != "C" {
		t.Errorf("remaining tasks: got %q, %q, want B, C", tasks[0].Text, tasks[1].Text)
	}

	// Position 1 now addresses the former second task.
	if err := doneCommand(cfg, []string{"1"}); err != nil {
		t.Fatal(err)
	}
	tasks = loadTasks(t, cfg)
	if !tasks[0].Completed {
		t.Error("task B not completed: positions did not shift")
	}
	if tasks[1].Completed {
		t.Error("task C unexpectedly completed")
	}
}

// Filtered views keep original positions, so a done issued after a
// filtered list still targets the right record.
func TestFilterThenMutateUnderOriginalNumbering(t *testing.T) {
	cfg := testConfig(t)
	if err := addCommand(cfg, []string{"-tag", "x", "A"}); err != nil {
		t.Fatal(err)
	}
	if err := addCommand(cfg, []string{"-tag", "y", "B"}); err != nil {
		t.Fatal(err)
	}
	if err := addCommand(cfg, []string{"-tag", "x", "C"}); err != nil {
		t.Fatal(err)
	}

	views := task.Filter(loadTasks(t, cfg), task.Query{Status: task.StatusAll, Tag: "x"}, task.Today())
	if len(views) != 2 || views[0].Position != 1 || views[1].Position != 3 {
		t.Fatalf("filtered positions: got %v, want [1 3]", views)
	}

	if err := doneCommand(cfg, []string{"1"}); err != nil {
		t.Fatal(err)
	}

	tasks := loadTasks(t, cfg)
	if !tasks[0].Completed {
		t.Error("A not completed")
	}
	if tasks[1].Completed || tasks[2].Completed {
		t.Error("B or C unexpectedly completed")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	cfg := testConfig(t)

	// Clearing an absent store succeeds.
	if err := clearCommand(cfg, nil); err != nil {
		t.Fatalf("clear on absent store: got %v, want nil", err)
	}

	if err := addCommand(cfg, []string{"doomed"}); err != nil {
		t.Fatal(err)
	}
	if err := clearCommand(cfg, nil); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := os.Stat(cfg.File); !os.IsNotExist(err) {
		t.Error("store file still exists after clear")
	}

	// And clearing again still succeeds.
	if err := clearCommand(cfg, nil); err != nil {
		t.Errorf("second clear: got %v, want nil", err)
	}
}

func TestListEmptyStoreIsFriendly(t *testing.T) {
	cfg := testConfig(t)
	if err := listCommand(cfg, nil); err != nil {
		t.Errorf("list on empty store: got %v, want nil", err)
	}
}

func TestListNoMatchIsAnError(t *testing.T) {
	cfg := testConfig(t)
	if err := addCommand(cfg, []string{"task"}); err != nil {
		t.Fatal(err)
	}

	if err := listCommand(cfg, []string{"-tag", "nope"}); err == nil {
		t.Error("list with eliminating filter: expected error")
	}
}

func TestListRejectsBadFilterValues(t *testing.T) {
	cfg := testConfig(t)
	for _, args := range [][]string{
		{"-status", "open"},
		{"-priority", "urgent"},
		{"-due", "yesterday"},
		{"-sort", "text"},
	} {
		if err := listCommand(cfg, args); err == nil {
			t.Errorf("list %v: expected error", args)
		}
	}
}

func TestSearch(t *testing.T) {
	cfg := testConfig(t)
	if err := addCommand(cfg, []string{"-tag", "home", "Buy milk"}); err != nil {
		t.Fatal(err)
	}

	if err := searchCommand(cfg, []string{"MILK"}); err != nil {
		t.Errorf("search: got %v, want nil", err)
	}
	if err := searchCommand(cfg, []string{"-tag", "work", "milk"}); err == nil {
		t.Error("search narrowed to missing tag: expected error")
	}
	if err := searchCommand(cfg, []string{"coffee"}); err == nil {
		t.Error("search with no matches: expected error")
	}
	if err := searchCommand(cfg, nil); err == nil {
		t.Error("search with no term: expected usage error")
	}
}

func TestTags(t *testing.T) {
	cfg := testConfig(t)

	if err := tagsCommand(cfg, nil); err == nil {
		t.Error("tags on empty store: expected error")
	}

	if err := addCommand(cfg, []string{"untagged"}); err != nil {
		t.Fatal(err)
	}
	if err := tagsCommand(cfg, nil); err == nil {
		t.Error("tags with no tagged tasks: expected error")
	}

	if err := addCommand(cfg, []string{"-tag", "work", "tagged"}); err != nil {
		t.Fatal(err)
	}
	if err := tagsCommand(cfg, nil); err != nil {
		t.Errorf("tags: got %v, want nil", err)
	}
}

func TestCorruptStoreSurfacesAsError(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.File, []byte(`"{not json`), 0o644); err != nil {
		t.Fatal(err)
	}

	err := listCommand(cfg, nil)
	var corrupt *store.CorruptError
	if !errors.As(err, &corrupt) {
		t.Fatalf("list on corrupt store: got %v, want wrapped *CorruptError", err)
	}
}
