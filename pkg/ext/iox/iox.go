// Package iox provides IO utilities.
package iox

import (
	"context"
	"io"
)

var (
	_ io.Reader = (*ContextReader)(nil)
	_ io.Reader = (*ReadCounter)(nil)
)

// ContextReader stops reading once its context is done. The check happens
// before every Read, so a long read loop notices cancellation between chunks.
type ContextReader struct {
	ctx context.Context
	r   io.Reader
}

func NewContextReader(ctx context.Context, r io.Reader) *ContextReader {
	return &ContextReader{ctx: ctx, r: r}
}

func (r *ContextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// ReadCounter tracks how many bytes have passed through it.
type ReadCounter struct {
	r     io.Reader
	count int64
	reads int
}

func NewReadCounter(r io.Reader) *ReadCounter { return &ReadCounter{r: r} }

// Count is the number of bytes read so far.
func (c *ReadCounter) Count() int64 { return c.count }

// Reads is the number of Read calls that returned data.
func (c *ReadCounter) Reads() int { return c.reads }

func (c *ReadCounter) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.count += int64(n)
		c.reads++
	}
	return n, err
}
