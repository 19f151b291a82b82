// Package output renders traversal events as the indented plain text report.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/treedump/internal/types"
	"github.com/temirov/treedump/internal/utils"
)

const (
	indentUnit         = "    "
	separatorWidth     = 40
	separatorCharacter = "="
	preambleFormat     = "Scanning directory: %s\n"
	directoryFormat    = "%sDirectory: %s/\n"
	fileHeaderFormat   = "%sFile: %s\n"
	contentStartFormat = "%s--- START OF CONTENT ---\n"
	contentEndFormat   = "%s--- END OF CONTENT ---\n\n"
	contentLineFormat  = "%s%s\n"
	readErrorFormat    = "%sError reading file %s: %v\n"
	completionLine     = "Scan complete.\n"
	errorWriteReport   = "write report: %w"
	errorFlushReport   = "flush report: %w"
	errorUnknownEvent  = "unknown event kind %q"
)

var separatorLine = strings.Repeat(separatorCharacter, separatorWidth)

// FileReader streams the lines of the file at path to visit.
type FileReader func(path string, visit utils.LineVisitor) error

// ReportRenderer writes the report layout for a stream of events. Write errors
// on the destination are sticky: once one occurs every later call returns it.
// Failures to read an individual file are rendered inline instead.
type ReportRenderer struct {
	writer     *bufio.Writer
	readFile   FileReader
	summary    types.DumpSummary
	writeError error
}

// NewReportRenderer returns a renderer writing to destination and reading file
// content from the filesystem.
func NewReportRenderer(destination io.Writer) *ReportRenderer {
	return NewReportRendererWithReader(destination, utils.StreamTextFile)
}

// NewReportRendererWithReader returns a renderer that obtains file content from readFile.
func NewReportRendererWithReader(destination io.Writer, readFile FileReader) *ReportRenderer {
	return &ReportRenderer{writer: bufio.NewWriter(destination), readFile: readFile}
}

// Summary reports the directories, files and unreadable files rendered so far.
func (renderer *ReportRenderer) Summary() types.DumpSummary {
	return renderer.summary
}

func (renderer *ReportRenderer) Handle(event types.Event) error {
	if renderer.writeError != nil {
		return renderer.writeError
	}
	switch event.Kind {
	case types.EventKindStart:
		renderer.printf(preambleFormat, event.Path)
		renderer.printf("%s\n\n", separatorLine)
	case types.EventKindDirectory:
		renderer.summary.Directories++
		renderer.printf(directoryFormat, indentation(event.Depth), event.Name)
	case types.EventKindFile:
		renderer.summary.Files++
		renderer.renderFile(event)
	case types.EventKindDone:
		renderer.printf("%s\n", separatorLine)
		renderer.printf(completionLine)
	default:
		return fmt.Errorf(errorUnknownEvent, event.Kind)
	}
	return renderer.writeError
}

// Flush writes any buffered report data to the destination.
func (renderer *ReportRenderer) Flush() error {
	if renderer.writeError != nil {
		return renderer.writeError
	}
	if flushError := renderer.writer.Flush(); flushError != nil {
		renderer.writeError = fmt.Errorf(errorFlushReport, flushError)
	}
	return renderer.writeError
}

func (renderer *ReportRenderer) renderFile(event types.Event) {
	subindent := indentation(event.Depth)
	renderer.printf(fileHeaderFormat, subindent, event.Name)
	renderer.printf(contentStartFormat, subindent)

	readError := renderer.readFile(event.Path, func(line string) error {
		renderer.printf(contentLineFormat, subindent, line)
		return renderer.writeError
	})
	if renderer.writeError != nil {
		return
	}
	if readError != nil {
		renderer.summary.UnreadableFiles++
		renderer.printf(readErrorFormat, subindent, event.Path, readError)
	}

	renderer.printf(contentEndFormat, subindent)
}

func (renderer *ReportRenderer) printf(format string, arguments ...any) {
	if renderer.writeError != nil {
		return
	}
	if _, writeError := fmt.Fprintf(renderer.writer, format, arguments...); writeError != nil {
		renderer.writeError = fmt.Errorf(errorWriteReport, writeError)
	}
}

func indentation(depth int) string {
	if depth <= 0 {
		return utils.EmptyString
	}
	return strings.Repeat(indentUnit, depth)
}
