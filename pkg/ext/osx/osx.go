package osx

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/binfind/pkg/ext/iox"
)

var ErrIsDirectory = errors.Base("is a directory")

// ReadFile loads the whole file at path into memory. The handle is closed
// before ReadFile returns, on success and on every error path. Errors from
// the os package stay in the chain so callers can match fs.ErrNotExist and
// fs.ErrPermission.
func ReadFile(ctx context.Context, path string) ([]byte, error) {
	fle, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening file %s: %w", path, err)
	}
	defer fle.Close()

	info, err := fle.Stat()
	if err != nil {
		return nil, errors.Errorf("statting file %s: %w", path, err)
	}

	if info.IsDir() {
		return nil, errors.Errorf("opening file %s: %w", path, ErrIsDirectory)
	}

	var buf bytes.Buffer
	if size := info.Size(); size > 0 && int64(int(size)) == size {
		buf.Grow(int(size))
	}

	counter := iox.NewReadCounter(iox.NewContextReader(ctx, fle))

	if _, err := io.Copy(&buf, counter); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Errorf("operation cancelled: %w", ctx.Err())
		}
		return nil, errors.Errorf("reading file %s: %w", path, err)
	}

	slog.DebugContext(ctx, "loaded file",
		"path", path,
		"size", humanize.Bytes(uint64(counter.Count())),
		"reads", counter.Reads(),
	)

	return buf.Bytes(), nil
}
