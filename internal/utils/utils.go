// Package utils contains general helper functions used across treedump.
package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	currentDirectoryMarker = "."
	errorResolvePathFormat = "resolve path %s: %w"
)

// DeduplicatePaths removes duplicate paths from a slice while preserving order.
// Paths are compared after filepath.Clean, and the first occurrence is kept.
func DeduplicatePaths(paths []string) []string {
	encounteredPaths := make(map[string]struct{}, len(paths))
	result := make([]string, 0, len(paths))
	for _, pathValue := range paths {
		if pathValue == EmptyString {
			continue
		}
		cleanPath := filepath.Clean(pathValue)
		if _, exists := encounteredPaths[cleanPath]; exists {
			continue
		}
		encounteredPaths[cleanPath] = struct{}{}
		result = append(result, cleanPath)
	}
	return result
}

// ResolvePath returns the cleaned absolute form of pathValue. Relative paths are
// resolved against baseDirectory, or the process working directory when
// baseDirectory is empty.
func ResolvePath(pathValue, baseDirectory string) (string, error) {
	if filepath.IsAbs(pathValue) {
		return filepath.Clean(pathValue), nil
	}
	if baseDirectory != EmptyString {
		return filepath.Clean(filepath.Join(baseDirectory, pathValue)), nil
	}
	absolutePath, absoluteError := filepath.Abs(pathValue)
	if absoluteError != nil {
		return EmptyString, fmt.Errorf(errorResolvePathFormat, pathValue, absoluteError)
	}
	return absolutePath, nil
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)
	if cleanPath == cleanRoot {
		return currentDirectoryMarker
	}
	relativePath, relativeError := filepath.Rel(cleanRoot, cleanPath)
	if relativeError != nil {
		return cleanPath
	}
	return relativePath
}

// DirectoryDepth counts the path separators in directoryPath made relative to
// the parent of scanRoot. The scan root itself therefore has depth zero, its
// subdirectories depth one, and so on.
func DirectoryDepth(scanRoot, directoryPath string) int {
	relativePath := RelativePathOrSelf(directoryPath, filepath.Dir(filepath.Clean(scanRoot)))
	if relativePath == currentDirectoryMarker {
		return 0
	}
	return strings.Count(relativePath, string(filepath.Separator))
}
