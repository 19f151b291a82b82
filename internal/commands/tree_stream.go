package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/treedump/internal/types"
	"github.com/temirov/treedump/internal/utils"
)

const (
	errorNilHandler            = "tree stream handler is nil"
	errorEmptyRoot             = "tree stream root path is empty"
	warningReadDirectoryFormat = "Warning: skipping directory %s: %v"
	warningIrregularFileFormat = "Warning: skipping %s: not a regular file (%s)"
)

// TreeStreamOptions configures a top-down traversal.
type TreeStreamOptions struct {
	// Root is the absolute path of the directory to traverse.
	Root string
	// ExcludedPaths holds cleaned absolute file paths that produce no events.
	ExcludedPaths map[string]struct{}
	Warn          func(message string)
}

type treeStreamContext struct {
	options TreeStreamOptions
	handler func(types.Event) error
}

// StreamTree walks options.Root top-down. For every directory it emits one
// directory event, then one file event per regular file directly inside it,
// and only then descends into its subdirectories. Directories that cannot be
// listed are reported through Warn and skipped. Handler errors stop the walk
// and are returned unchanged.
func StreamTree(options TreeStreamOptions, handler func(types.Event) error) error {
	if handler == nil {
		return fmt.Errorf(errorNilHandler)
	}
	if options.Root == utils.EmptyString {
		return fmt.Errorf(errorEmptyRoot)
	}

	ctx := treeStreamContext{options: options, handler: handler}
	if ctx.options.Warn == nil {
		ctx.options.Warn = func(string) {}
	}
	return ctx.walkDirectory(filepath.Clean(options.Root))
}

func (ctx *treeStreamContext) walkDirectory(path string) error {
	entries, readErr := os.ReadDir(path)
	if readErr != nil {
		ctx.options.Warn(fmt.Sprintf(warningReadDirectoryFormat, path, readErr))
		return nil
	}

	depth := utils.DirectoryDepth(ctx.options.Root, path)
	if err := ctx.handler(types.Event{
		Kind:  types.EventKindDirectory,
		Path:  path,
		Name:  filepath.Base(path),
		Depth: depth,
	}); err != nil {
		return err
	}

	var subdirectories []string
	for _, entry := range entries {
		childPath := filepath.Join(path, entry.Name())
		isDirectory, isRegular := ctx.classify(childPath, entry)
		if isDirectory {
			if entry.Type()&fs.ModeSymlink == 0 {
				subdirectories = append(subdirectories, childPath)
			}
			continue
		}
		if !isRegular {
			continue
		}
		if _, excluded := ctx.options.ExcludedPaths[childPath]; excluded {
			continue
		}
		if err := ctx.handler(types.Event{
			Kind:  types.EventKindFile,
			Path:  childPath,
			Name:  entry.Name(),
			Depth: depth + 1,
		}); err != nil {
			return err
		}
	}

	for _, subdirectory := range subdirectories {
		if err := ctx.walkDirectory(subdirectory); err != nil {
			return err
		}
	}
	return nil
}

// classify reports whether entry is a directory and whether it should be read
// as a regular file. Symbolic links are resolved: links to directories count as
// directories (and are never descended into), dangling links count as files so
// that the read failure is reported in place of their content.
func (ctx *treeStreamContext) classify(childPath string, entry fs.DirEntry) (bool, bool) {
	entryType := entry.Type()
	if entryType&fs.ModeSymlink != 0 {
		targetInfo, statErr := os.Stat(childPath)
		if statErr != nil {
			return false, true
		}
		entryType = targetInfo.Mode().Type()
	}
	if entryType.IsDir() {
		return true, false
	}
	if entryType.IsRegular() {
		return false, true
	}
	ctx.options.Warn(fmt.Sprintf(warningIrregularFileFormat, childPath, entryType.String()))
	return false, false
}
