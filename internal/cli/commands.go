package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nvieira/todo-cli/internal/config"
	"github.com/nvieira/todo-cli/internal/task"
)

// tagListFlag collects repeated -tag flags.
type tagListFlag []string

func (t *tagListFlag) String() string {
	return strings.Join(*t, ",")
}

func (t *tagListFlag) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("tag must not be empty")
	}
	*t = append(*t, value)
	return nil
}

// addCommand appends a new pending task.
func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo add", flag.ContinueOnError)
	priorityFlag := fs.String("priority", "", "Task priority (high|medium|low)")
	dueFlag := fs.String("due", "", "Due date (YYYY-MM-DD)")
	var tags tagListFlag
	fs.Var(&tags, "tag", "Tag for the task (repeatable)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		return fmt.Errorf("usage: todo add [options] <text>")
	}

	priority := task.PriorityMedium
	if *priorityFlag != "" {
		parsed, err := task.ParsePriority(*priorityFlag)
		if err != nil {
			return err
		}
		priority = parsed
	}

	var due *task.Date
	if *dueFlag != "" {
		parsed, err := task.ParseDate(*dueFlag)
		if err != nil {
			return err
		}
		due = &parsed
	}

	st := openStore(cfg)
	tasks, err := st.Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	tasks = append(tasks, task.New(text, priority, tags, due))

	if err := st.Save(tasks); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}

	fmt.Printf("Added task %d\n", len(tasks))
	return nil
}

// listCommand prints tasks matching the given filters.
func listCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo list", flag.ContinueOnError)
	statusFlag := fs.String("status", "", "Filter by status (all|pending|done)")
	priorityFlag := fs.String("priority", "", "Filter by priority (high|medium|low)")
	tagFlag := fs.String("tag", "", "Filter by exact tag")
	dueFlag := fs.String("due", "", "Filter by due window (overdue|soon|with-due|no-due)")
	sortFlag := fs.String("sort", "", "Sort order (priority|due|created)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	query, err := buildQuery(*statusFlag, *priorityFlag, *tagFlag, *dueFlag, *sortFlag)
	if err != nil {
		return err
	}

	st := openStore(cfg)
	tasks, err := st.Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks yet.")
		return nil
	}

	views := task.Filter(tasks, query, task.Today())
	if len(views) == 0 {
		return fmt.Errorf("no tasks match the given filters")
	}

	newRenderer(cfg, os.Stdout).TaskList(views, task.Today())
	return nil
}

func buildQuery(status, priority, tag, due, sortKey string) (task.Query, error) {
	var query task.Query
	var err error

	query.Status, err = task.ParseStatusFilter(status)
	if err != nil {
		return task.Query{}, err
	}
	if priority != "" {
		query.Priority, err = task.ParsePriority(priority)
		if err != nil {
			return task.Query{}, err
		}
	}
	query.Tag = tag
	query.Due, err = task.ParseDueFilter(due)
	if err != nil {
		return task.Query{}, err
	}
	query.Sort, err = task.ParseSortKey(sortKey)
	if err != nil {
		return task.Query{}, err
	}

	return query, nil
}

// searchCommand prints tasks whose text matches a term.
func searchCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo search", flag.ContinueOnError)
	tagFlag := fs.String("tag", "", "Narrow matches to an exact tag")

	if err := fs.Parse(args); err != nil {
		return err
	}

	term := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if term == "" {
		return fmt.Errorf("usage: todo search [options] <term>")
	}

	st := openStore(cfg)
	tasks, err := st.Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	views := task.Search(tasks, term, *tagFlag)
	if len(views) == 0 {
		return fmt.Errorf("no tasks matching %q", term)
	}

	newRenderer(cfg, os.Stdout).TaskList(views, task.Today())
	return nil
}

// doneCommand marks a pending task as completed.
func doneCommand(cfg *config.Config, args []string) error {
	return toggleCommand(cfg, args, "done", true)
}

// undoneCommand marks a completed task as pending again.
func undoneCommand(cfg *config.Config, args []string) error {
	return toggleCommand(cfg, args, "undone", false)
}

// toggleCommand flips the completed flag of one task. The transition must
// actually change state; re-applying the current state is a precondition
// violation, not a no-op.
func toggleCommand(cfg *config.Config, args []string, name string, completed bool) error {
	id, err := parseIDArg(name, args)
	if err != nil {
		return err
	}

	st := openStore(cfg)
	tasks, err := st.Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	if id < 1 || id > len(tasks) {
		return &InvalidTaskIDError{ID: id, Max: len(tasks)}
	}

	t := &tasks[id-1]
	if t.Completed == completed {
		status := "pending"
		if completed {
			status = "completed"
		}
		return &AlreadyInStatusError{ID: id, Status: status}
	}
	t.Completed = completed

	if err := st.Save(tasks); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}

	if completed {
		fmt.Printf("Marked task %d as done\n", id)
	} else {
		fmt.Printf("Marked task %d as pending\n", id)
	}
	return nil
}

// removeCommand deletes one task permanently. Every later task shifts down
// one position; ids are positional, not stable.
func removeCommand(cfg *config.Config, args []string) error {
	id, err := parseIDArg("remove", args)
	if err != nil {
		return err
	}

	st := openStore(cfg)
	tasks, err := st.Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	if id < 1 || id > len(tasks) {
		return &InvalidTaskIDError{ID: id, Max: len(tasks)}
	}

	tasks = append(tasks[:id-1], tasks[id:]...)

	if err := st.Save(tasks); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}

	fmt.Printf("Removed task %d\n", id)
	return nil
}

// parseIDArg validates arity and parses the single 1-based id argument.
func parseIDArg(name string, args []string) (int, error) {
	fs := flag.NewFlagSet("todo "+name, flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return 0, fmt.Errorf("usage: todo %s <id>", name)
	}
	id, err := strconv.Atoi(rest[0])
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: not a number", rest[0])
	}
	return id, nil
}

// clearCommand deletes the whole store. Clearing an absent store succeeds
// with a distinct message so the command stays idempotent.
func clearCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo clear", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	st := openStore(cfg)
	if !st.Exists() {
		fmt.Println("Nothing to clear.")
		return nil
	}

	if err := st.Remove(); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}

	fmt.Println("Removed all tasks.")
	return nil
}

// tagsCommand lists distinct tags with per-tag task counts.
func tagsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo tags", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	st := openStore(cfg)
	tasks, err := st.Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	counts := task.TagCounts(tasks)
	if len(counts) == 0 {
		return fmt.Errorf("no tags found")
	}

	newRenderer(cfg, os.Stdout).TagList(counts)
	return nil
}
