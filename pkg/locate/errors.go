package locate

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrFileNotFound   = errors.Base("file not found")
	ErrFileUnreadable = errors.Base("file unreadable")
	ErrInvalidHex     = errors.Base("invalid hex literal")
)

type FileErrorKind int

const (
	FileNotFound FileErrorKind = iota
	FileUnreadable
)

func (k FileErrorKind) String() string {
	switch k {
	case FileNotFound:
		return "not-found"
	case FileUnreadable:
		return "unreadable"
	default:
		return fmt.Sprintf("FileErrorKind(%d)", int(k))
	}
}

// FileError means the target file could not be loaded.
type FileError struct {
	Path string
	Kind FileErrorKind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file %s %s: %v", e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

func (e *FileError) Is(target error) bool {
	switch e.Kind {
	case FileNotFound:
		return target == ErrFileNotFound
	case FileUnreadable:
		return target == ErrFileUnreadable
	}
	return false
}

// Describe renders the error the way it is shown to the user.
func (e *FileError) Describe() string {
	if e.Kind == FileNotFound {
		return fmt.Sprintf("Error: File '%s' not found.", e.Path)
	}
	return fmt.Sprintf("Error: File '%s' could not be read: %v", e.Path, rootCause(e.Err))
}

// rootCause drops the wrapping context and keeps the innermost error, so the
// user sees "permission denied" rather than the full chain.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

type PatternErrorKind int

const (
	InvalidHex PatternErrorKind = iota
)

func (k PatternErrorKind) String() string {
	switch k {
	case InvalidHex:
		return "invalid-hex"
	default:
		return fmt.Sprintf("PatternErrorKind(%d)", int(k))
	}
}

// PatternError means the user input could not be turned into a Pattern.
type PatternError struct {
	Input string
	Kind  PatternErrorKind
	Err   error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %q %s: %v", e.Input, e.Kind, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

func (e *PatternError) Is(target error) bool {
	return e.Kind == InvalidHex && target == ErrInvalidHex
}

func (e *PatternError) Describe() string {
	return fmt.Sprintf("Error: Invalid hex string '%s'.", e.Input)
}
