// Package cli implements the command structure for todo.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nvieira/todo-cli/internal/config"
	"github.com/nvieira/todo-cli/internal/logging"
	"github.com/nvieira/todo-cli/internal/render"
	"github.com/nvieira/todo-cli/internal/store"
	"github.com/nvieira/todo-cli/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todo CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		printUsage(fs, os.Stderr)
		return fmt.Errorf("missing command")
	}
	subcommand := remainingArgs[0]
	remainingArgs = remainingArgs[1:]

	var logger *logging.Logger
	if cfg.Log {
		logger, err = logging.New(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		defer logger.Close()
		logger.Printf("command %s %s", subcommand, strings.Join(remainingArgs, " "))
	}

	err = dispatch(ctx, cfg, subcommand, remainingArgs, fs)
	if err != nil {
		logger.Printf("error: %v", err)
	}
	return err
}

func dispatch(ctx context.Context, cfg *config.Config, subcommand string, args []string, fs *flag.FlagSet) error {
	switch subcommand {
	case "add":
		return addCommand(cfg, args)
	case "list", "ls":
		return listCommand(cfg, args)
	case "search":
		return searchCommand(cfg, args)
	case "done":
		return doneCommand(cfg, args)
	case "undone":
		return undoneCommand(cfg, args)
	case "remove", "rm":
		return removeCommand(cfg, args)
	case "clear":
		return clearCommand(cfg, args)
	case "tags":
		return tagsCommand(cfg, args)
	case "ui":
		return uiCommand(ctx, cfg, args)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("todo version %s\n", Version)
	return nil
}

// newRenderer builds a renderer honoring the configured color mode.
func newRenderer(cfg *config.Config, out io.Writer) *render.Renderer {
	return render.New(out, colorEnabled(cfg, out))
}

func colorEnabled(cfg *config.Config, out io.Writer) bool {
	switch cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return render.IsTTY(out) && os.Getenv("NO_COLOR") == ""
	}
}

func openStore(cfg *config.Config) *store.Store {
	return store.New(cfg.File)
}

func uiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo ui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return ui.Run(ctx, openStore(cfg), colorEnabled(cfg, os.Stdout))
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Todo - A local command-line task manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [global options] <command> [options] [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <text>     Add a new task")
	fmt.Fprintln(w, "  list           List tasks, optionally filtered and sorted")
	fmt.Fprintln(w, "  search <term>  Search task text")
	fmt.Fprintln(w, "  done <id>      Mark a task as done")
	fmt.Fprintln(w, "  undone <id>    Mark a task as pending again")
	fmt.Fprintln(w, "  remove <id>    Delete a task permanently")
	fmt.Fprintln(w, "  clear          Delete all tasks")
	fmt.Fprintln(w, "  tags           List distinct tags with task counts")
	fmt.Fprintln(w, "  ui             Browse tasks interactively")
	fmt.Fprintln(w, "  version        Show version information")
	fmt.Fprintln(w, "  help           Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options (use with 'add', before the text):")
	fmt.Fprintln(w, "  -priority string")
	fmt.Fprintln(w, "        Task priority (high|medium|low, default medium)")
	fmt.Fprintln(w, "  -tag value")
	fmt.Fprintln(w, "        Tag for the task (repeatable)")
	fmt.Fprintln(w, "  -due string")
	fmt.Fprintln(w, "        Due date (YYYY-MM-DD)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options (use with 'list'):")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Filter by status (all|pending|done)")
	fmt.Fprintln(w, "  -priority string")
	fmt.Fprintln(w, "        Filter by priority (high|medium|low)")
	fmt.Fprintln(w, "  -tag string")
	fmt.Fprintln(w, "        Filter by exact tag")
	fmt.Fprintln(w, "  -due string")
	fmt.Fprintln(w, "        Filter by due window (overdue|soon|with-due|no-due)")
	fmt.Fprintln(w, "  -sort string")
	fmt.Fprintln(w, "        Sort order (priority|due|created)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Search Options (use with 'search', before the term):")
	fmt.Fprintln(w, "  -tag string")
	fmt.Fprintln(w, "        Narrow matches to an exact tag")
}
