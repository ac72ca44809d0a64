// Package store persists the task collection as a single JSON file.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nvieira/todo-cli/internal/task"
)

// Store reads and writes the task collection at a fixed path.
type Store struct {
	path string
}

// New creates a store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the backing file is present on disk.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Load reads the task collection. An absent file means "no tasks yet" and
// returns an empty collection, not an error. A file that exists but fails
// JSON parsing or schema validation returns a *CorruptError; OS failures
// return an *IOError.
func (s *Store) Load() ([]task.Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []task.Task{}, nil
		}
		return nil, &IOError{Path: s.path, Op: "read", Err: err}
	}

	if err := validateDocument(data, s.path); err != nil {
		return nil, err
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &CorruptError{Path: s.path, Detail: err.Error(), Err: err}
	}

	// The schema allows tags: [] but json decodes a missing slice as nil.
	for i := range tasks {
		if tasks[i].Tags == nil {
			tasks[i].Tags = []string{}
		}
	}

	return tasks, nil
}

// Save serializes the full collection pretty-printed and atomically
// replaces the backing file. The document is written to a temp file in the
// same directory and renamed into place so a partial write is never
// visible.
func (s *Store) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task store: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Path: s.path, Op: "write", Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".tasks-*.tmp")
	if err != nil {
		return &IOError{Path: s.path, Op: "write", Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IOError{Path: s.path, Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IOError{Path: s.path, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &IOError{Path: s.path, Op: "write", Err: err}
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return &IOError{Path: s.path, Op: "write", Err: err}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return &IOError{Path: s.path, Op: "write", Err: err}
	}

	return nil
}

// Remove deletes the backing file. Removing an absent file is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return &IOError{Path: s.path, Op: "remove", Err: err}
	}
	return nil
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("tasks.schema.json", strings.NewReader(taskSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("tasks.schema.json")
	})
	return schema, schemaErr
}

// validateDocument checks raw store bytes against the task schema and
// reports the first violation with its location.
func validateDocument(data []byte, path string) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return &CorruptError{Path: path, Detail: syntaxDetail(data, err), Err: err}
	}

	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile task schema: %w", err)
	}

	if err := sch.Validate(doc); err != nil {
		detail := "schema validation failed"
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			detail = schemaDetail(ve)
		}
		return &CorruptError{Path: path, Detail: detail, Err: err}
	}

	return nil
}

// syntaxDetail turns a JSON decode error into a line/column diagnostic.
func syntaxDetail(data []byte, err error) string {
	var offset int64 = -1
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset
	case *json.UnmarshalTypeError:
		offset = e.Offset
	}
	if offset < 0 || offset > int64(len(data)) {
		return err.Error()
	}
	line := 1 + bytes.Count(data[:offset], []byte("\n"))
	lastNewline := bytes.LastIndexByte(data[:offset], '\n')
	column := offset - int64(lastNewline)
	return fmt.Sprintf("invalid JSON at line %d, column %d: %v", line, column, err)
}

// schemaDetail walks to a leaf violation and reports its dotted path.
func schemaDetail(err *jsonschema.ValidationError) string {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	path := jsonPointerToPath(err.InstanceLocation)
	if path == "" {
		return err.Message
	}
	return fmt.Sprintf("%s: %s", path, err.Message)
}

// jsonPointerToPath converts a JSON pointer like "/2/priority" into a
// readable path like "[2].priority".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}

	return path
}
