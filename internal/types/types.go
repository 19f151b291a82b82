// Package types defines every cross‑package data structure used by the treedump CLI.
package types

// EventKind identifies the stage of a dump that an Event describes.
type EventKind string

const (
	EventKindStart     EventKind = "start"
	EventKindDirectory EventKind = "directory"
	EventKindFile      EventKind = "file"
	EventKindDone      EventKind = "done"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// Event is a single step of a traversal. Depth is the indentation level the
// event is rendered at: the scan root directory has depth zero and the files
// directly inside a directory sit one level deeper than the directory itself.
type Event struct {
	Kind  EventKind
	Path  string
	Name  string
	Depth int
}

// DumpSummary captures aggregate information about a finished dump.
type DumpSummary struct {
	Directories    int
	Files          int
	UnreadableFiles int
}
