// Package locate finds the first offset of a byte pattern inside a file.
//
// A pattern is either literal text, searched as its UTF-8 bytes, or a
// hexadecimal literal, searched as the minimal little-endian encoding of its
// value. The file is read whole into memory and scanned once.
package locate

import (
	"context"
	"io/fs"
	"log/slog"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/binfind/pkg/ext/osx"
)

// Locate reads the file at path and searches it for the pattern described by
// q. The file is loaded before q is parsed, so a missing file is reported
// ahead of a malformed hex literal.
//
// Failures are a *FileError or a *PatternError; a pattern that does not
// occur is a NotFound result, not an error.
func Locate(ctx context.Context, path string, q Query) (Result, error) {
	data, err := osx.ReadFile(ctx, path)
	if err != nil {
		return Result{}, errors.WithStack(classifyFileError(path, err))
	}

	p, err := q.Pattern()
	if err != nil {
		return Result{}, err
	}

	slog.DebugContext(ctx, "searching file", "path", path, "pattern", p, "file_len", len(data))

	res := Search(data, p)

	slog.DebugContext(ctx, "search finished", "result", res)

	return res, nil
}

func classifyFileError(path string, err error) *FileError {
	if errors.Is(err, fs.ErrNotExist) {
		return &FileError{Path: path, Kind: FileNotFound, Err: err}
	}
	return &FileError{Path: path, Kind: FileUnreadable, Err: err}
}
