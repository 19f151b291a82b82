// Package dump writes a directory tree and the content of its files into a
// single indented text report.
package dump

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/treedump/internal/commands"
	"github.com/temirov/treedump/internal/output"
	"github.com/temirov/treedump/internal/types"
	"github.com/temirov/treedump/internal/utils"
)

const (
	errorEmptyRoot         = "scan root path is empty"
	errorEmptyOutput       = "output path is empty"
	errorPathMissingFormat = "directory '%s' does not exist"
	errorNotDirectory      = "path '%s' is not a directory"
	errorStatFormat        = "stat failed for '%s': %w"
)

// Options describes a single dump.
type Options struct {
	// Root is the directory to scan. It should already have passed ValidateScanRoot.
	Root string
	// Output is the report file, created or truncated.
	Output string
	// Exclude lists file paths that are never reported. The output path is
	// always excluded in addition.
	Exclude []string
	Logger  *zap.Logger
}

// ValidateScanRoot resolves path to an absolute directory and fails when it is
// missing or not a directory.
func ValidateScanRoot(path string) (types.ValidatedPath, error) {
	if path == utils.EmptyString {
		return types.ValidatedPath{}, errors.New(errorEmptyRoot)
	}
	absolutePath, resolveError := utils.ResolvePath(path, utils.EmptyString)
	if resolveError != nil {
		return types.ValidatedPath{}, resolveError
	}
	info, statError := os.Stat(absolutePath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return types.ValidatedPath{}, fmt.Errorf(errorPathMissingFormat, path)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatFormat, path, statError)
	}
	if !info.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf(errorNotDirectory, path)
	}
	return types.ValidatedPath{AbsolutePath: absolutePath, IsDir: true}, nil
}

// Run writes the report for options.Root into options.Output. Files that cannot
// be read are reported inline and do not fail the run; any failure to lock,
// write, flush or close the output does, and the output is released on every
// return path.
func Run(options Options) (summary types.DumpSummary, err error) {
	if options.Root == utils.EmptyString {
		return summary, errors.New(errorEmptyRoot)
	}
	if options.Output == utils.EmptyString {
		return summary, errors.New(errorEmptyOutput)
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rootPath, rootError := utils.ResolvePath(options.Root, utils.EmptyString)
	if rootError != nil {
		return summary, rootError
	}
	outputPath, outputError := utils.ResolvePath(options.Output, utils.EmptyString)
	if outputError != nil {
		return summary, outputError
	}
	excludedPaths, excludeError := buildExcludedPaths(options.Exclude, outputPath)
	if excludeError != nil {
		return summary, excludeError
	}

	sink, sinkError := openOutputSink(outputPath)
	if sinkError != nil {
		return summary, sinkError
	}
	defer func() {
		if closeError := sink.Close(); closeError != nil && err == nil {
			err = closeError
		}
	}()

	renderer := output.NewReportRenderer(sink)
	defer func() {
		summary = renderer.Summary()
	}()

	if startError := renderer.Handle(types.Event{Kind: types.EventKindStart, Path: rootPath}); startError != nil {
		return summary, startError
	}

	streamOptions := commands.TreeStreamOptions{
		Root:          rootPath,
		ExcludedPaths: excludedPaths,
		Warn: func(message string) {
			logger.Warn(message)
		},
	}
	if streamError := commands.StreamTree(streamOptions, renderer.Handle); streamError != nil {
		return summary, streamError
	}

	if doneError := renderer.Handle(types.Event{Kind: types.EventKindDone, Path: rootPath}); doneError != nil {
		return summary, doneError
	}
	return summary, renderer.Flush()
}

func buildExcludedPaths(exclude []string, outputPath string) (map[string]struct{}, error) {
	excludedPaths := map[string]struct{}{outputPath: {}}
	for _, excludedPath := range utils.DeduplicatePaths(exclude) {
		absolutePath, resolveError := utils.ResolvePath(excludedPath, utils.EmptyString)
		if resolveError != nil {
			return nil, resolveError
		}
		excludedPaths[absolutePath] = struct{}{}
	}
	return excludedPaths, nil
}
