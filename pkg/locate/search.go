package locate

import (
	"bytes"
	"fmt"
	"log/slog"
)

// Result is the outcome of a search. The zero value is NotFound.
type Result struct {
	found  bool
	offset int
}

var _ slog.LogValuer = Result{}

func Found(offset int) Result { return Result{found: true, offset: offset} }

func NotFound() Result { return Result{} }

func (r Result) Found() bool { return r.found }

// Offset is the index of the first byte of the match, or -1 when nothing
// matched.
func (r Result) Offset() int {
	if !r.found {
		return -1
	}
	return r.offset
}

func (r Result) String() string {
	if !r.found {
		return "NotFound"
	}
	return fmt.Sprintf("Found(0x%08x)", r.offset)
}

func (r Result) LogValue() slog.Value {
	if !r.found {
		return slog.GroupValue(slog.Bool("found", false))
	}
	return slog.GroupValue(slog.Bool("found", true), slog.Int("offset", r.offset))
}

// Describe renders the result line printed for p.
func (r Result) Describe(p Pattern) string {
	switch p.Mode() {
	case ModeHex:
		if r.found {
			return fmt.Sprintf("Found hex value '%s' at offset 0x%08x", p.Input(), r.offset)
		}
		return fmt.Sprintf("Hex value '%s' not found in the file.", p.Input())
	default:
		if r.found {
			return fmt.Sprintf("Found ASCII string '%s' at offset 0x%08x", p.Input(), r.offset)
		}
		return fmt.Sprintf("ASCII string '%s' not found in the file.", p.Input())
	}
}

// Search returns the first occurrence of p in data, scanning forward from
// offset 0. An empty pattern matches at offset 0.
func Search(data []byte, p Pattern) Result {
	idx := bytes.Index(data, p.bytes)
	if idx < 0 {
		return NotFound()
	}
	return Found(idx)
}
