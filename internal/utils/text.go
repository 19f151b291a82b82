package utils

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	lineFeed       = "\n"
	carriageReturn = "\r"
	lineFeedByte   = '\n'
)

// LineVisitor receives one decoded line without its terminator.
type LineVisitor func(line string) error

// StreamTextFile opens the file at path and passes every line of its content to
// visit. See StreamTextLines for the decoding rules.
func StreamTextFile(path string, visit LineVisitor) error {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return openError
	}
	defer fileHandle.Close()
	return StreamTextLines(fileHandle, visit)
}

// StreamTextLines decodes reader as UTF-8, replacing invalid byte sequences
// with U+FFFD, and invokes visit once per line. "\n", "\r\n" and a lone "\r"
// all terminate a line; a trailing terminator does not produce an empty final
// line. Errors returned by visit stop the stream and are returned unchanged.
func StreamTextLines(reader io.Reader, visit LineVisitor) error {
	decodedReader := bufio.NewReader(transform.NewReader(reader, unicode.UTF8.NewDecoder()))
	for {
		segment, readError := decodedReader.ReadString(lineFeedByte)
		if readError != nil && !errors.Is(readError, io.EOF) {
			return readError
		}
		if segment != EmptyString {
			if visitError := visitSegment(segment, visit); visitError != nil {
				return visitError
			}
		}
		if readError != nil {
			return nil
		}
	}
}

// visitSegment splits a segment ending in at most one "\n" on carriage returns.
func visitSegment(segment string, visit LineVisitor) error {
	body := strings.TrimSuffix(segment, lineFeed)
	body = strings.TrimSuffix(body, carriageReturn)
	for _, line := range strings.Split(body, carriageReturn) {
		if visitError := visit(line); visitError != nil {
			return visitError
		}
	}
	return nil
}
