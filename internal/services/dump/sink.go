package dump

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gofrs/flock"
)

const (
	outputFilePermissions   = fs.FileMode(0o644)
	errorLockOutputFormat   = "lock output %s: %w"
	errorOutputBusyFormat   = "output %s is being written by another process"
	errorOpenOutputFormat   = "open output %s: %w"
	errorCloseOutputFormat  = "close output %s: %w"
	errorUnlockOutputFormat = "unlock output %s: %w"
)

// outputSink is the report file together with the advisory lock guarding it.
type outputSink struct {
	path string
	lock *flock.Flock
	file *os.File
}

// openOutputSink locks path without blocking and then truncates it for writing.
// The lock is taken before truncation so that a report another process is
// still producing is never clobbered.
func openOutputSink(path string) (*outputSink, error) {
	fileLock := flock.New(path, flock.SetPermissions(outputFilePermissions))
	locked, lockError := fileLock.TryLock()
	if lockError != nil {
		return nil, fmt.Errorf(errorLockOutputFormat, path, lockError)
	}
	if !locked {
		return nil, fmt.Errorf(errorOutputBusyFormat, path)
	}

	outputFile, openError := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputFilePermissions)
	if openError != nil {
		_ = fileLock.Unlock()
		return nil, fmt.Errorf(errorOpenOutputFormat, path, openError)
	}
	return &outputSink{path: path, lock: fileLock, file: outputFile}, nil
}

func (sink *outputSink) Write(data []byte) (int, error) {
	return sink.file.Write(data)
}

// Close closes the report file and releases the lock. Both are attempted even
// when the first fails.
func (sink *outputSink) Close() error {
	var closeError error
	if fileCloseError := sink.file.Close(); fileCloseError != nil {
		closeError = fmt.Errorf(errorCloseOutputFormat, sink.path, fileCloseError)
	}
	if unlockError := sink.lock.Unlock(); unlockError != nil {
		closeError = errors.Join(closeError, fmt.Errorf(errorUnlockOutputFormat, sink.path, unlockError))
	}
	return closeError
}
