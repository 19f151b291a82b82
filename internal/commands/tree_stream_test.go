package commands_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/treedump/internal/commands"
	"github.com/temirov/treedump/internal/types"
)

const (
	firstFileName     = "a.txt"
	lastFileName      = "z.txt"
	excludedFileName  = "skip.txt"
	subdirectoryName  = "b"
	nestedFileName    = "c.txt"
	directoryLinkName = "link"
)

func writeTestFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func collectEvents(t *testing.T, options commands.TreeStreamOptions) []types.Event {
	t.Helper()
	var events []types.Event
	err := commands.StreamTree(options, func(event types.Event) error {
		events = append(events, event)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamTree error: %v", err)
	}
	return events
}

// TestStreamTreeOrdersFilesBeforeSubdirectories verifies the top-down order, depths and exclusions.
func TestStreamTreeOrdersFilesBeforeSubdirectories(t *testing.T) {
	rootDirectory := filepath.Join(t.TempDir(), "root")
	subdirectoryPath := filepath.Join(rootDirectory, subdirectoryName)
	excludedPath := filepath.Join(rootDirectory, excludedFileName)
	writeTestFile(t, filepath.Join(rootDirectory, firstFileName), "hi")
	writeTestFile(t, filepath.Join(rootDirectory, lastFileName), "last")
	writeTestFile(t, excludedPath, "secret")
	writeTestFile(t, filepath.Join(subdirectoryPath, nestedFileName), "bye")
	if err := os.Symlink(subdirectoryPath, filepath.Join(rootDirectory, directoryLinkName)); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	var warnings []string
	events := collectEvents(t, commands.TreeStreamOptions{
		Root:          rootDirectory,
		ExcludedPaths: map[string]struct{}{excludedPath: {}},
		Warn:          func(message string) { warnings = append(warnings, message) },
	})

	expected := []types.Event{
		{Kind: types.EventKindDirectory, Path: rootDirectory, Name: "root", Depth: 0},
		{Kind: types.EventKindFile, Path: filepath.Join(rootDirectory, firstFileName), Name: firstFileName, Depth: 1},
		{Kind: types.EventKindFile, Path: filepath.Join(rootDirectory, lastFileName), Name: lastFileName, Depth: 1},
		{Kind: types.EventKindDirectory, Path: subdirectoryPath, Name: subdirectoryName, Depth: 1},
		{Kind: types.EventKindFile, Path: filepath.Join(subdirectoryPath, nestedFileName), Name: nestedFileName, Depth: 2},
	}
	if !reflect.DeepEqual(events, expected) {
		t.Fatalf("unexpected events:\nexpected %+v\ngot      %+v", expected, events)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestStreamTreeReportsDanglingLinkAsFile(t *testing.T) {
	rootDirectory := t.TempDir()
	danglingPath := filepath.Join(rootDirectory, "dangling")
	if err := os.Symlink(filepath.Join(rootDirectory, "missing"), danglingPath); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	events := collectEvents(t, commands.TreeStreamOptions{Root: rootDirectory})
	if len(events) != 2 {
		t.Fatalf("expected directory and file events, got %+v", events)
	}
	if events[1].Kind != types.EventKindFile || events[1].Path != danglingPath {
		t.Fatalf("expected dangling link reported as file, got %+v", events[1])
	}
}

func TestStreamTreeSkipsUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	rootDirectory := t.TempDir()
	lockedDirectory := filepath.Join(rootDirectory, "locked")
	writeTestFile(t, filepath.Join(lockedDirectory, "hidden.txt"), "x")
	writeTestFile(t, filepath.Join(rootDirectory, "zz", "seen.txt"), "y")
	if err := os.Chmod(lockedDirectory, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(lockedDirectory, 0o755) })

	var warnings []string
	events := collectEvents(t, commands.TreeStreamOptions{
		Root: rootDirectory,
		Warn: func(message string) { warnings = append(warnings, message) },
	})

	var names []string
	for _, event := range events {
		names = append(names, event.Name)
	}
	expectedNames := []string{filepath.Base(rootDirectory), "zz", "seen.txt"}
	if !reflect.DeepEqual(names, expectedNames) {
		t.Fatalf("expected %v, got %v", expectedNames, names)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], lockedDirectory) {
		t.Fatalf("expected one warning naming %s, got %v", lockedDirectory, warnings)
	}
}

func TestStreamTreeStopsOnHandlerError(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, firstFileName), "hi")
	writeTestFile(t, filepath.Join(rootDirectory, subdirectoryName, nestedFileName), "bye")

	handlerError := errors.New("sink closed")
	calls := 0
	err := commands.StreamTree(commands.TreeStreamOptions{Root: rootDirectory}, func(types.Event) error {
		calls++
		return handlerError
	})
	if !errors.Is(err, handlerError) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected walk to stop after first event, got %d calls", calls)
	}
}

func TestStreamTreeRejectsInvalidArguments(t *testing.T) {
	if err := commands.StreamTree(commands.TreeStreamOptions{Root: t.TempDir()}, nil); err == nil {
		t.Fatalf("expected error for nil handler")
	}
	if err := commands.StreamTree(commands.TreeStreamOptions{}, func(types.Event) error { return nil }); err == nil {
		t.Fatalf("expected error for empty root")
	}
}
