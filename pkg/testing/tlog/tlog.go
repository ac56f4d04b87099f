package tlog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	slogctx "github.com/veqryn/slog-context"

	"github.com/walteh/binfind/pkg/logging"
)

func SetupSlogForTestWithContext(t testing.TB, ctx context.Context) context.Context {
	var simpctx context.Context

	existing := slogctx.FromCtx(ctx)
	if existing != nil && existing != slog.Default() {
		simpctx = ctx
	} else {
		simpctx = logging.SetupSlogToWriter(ctx, os.Stdout, logging.Options{
			Level:     slog.LevelDebug,
			AddSource: true,
		})
	}

	tmp := filepath.Dir(t.TempDir())
	logging.RegisterRedactedLogValue(simpctx, os.TempDir()+"/", "[os-tmp-dir]")
	logging.RegisterRedactedLogValue(simpctx, tmp, "[test-tmp-dir]") // higher priority than os-tmp-dir
	t.Cleanup(func() {
		logging.UnregisterRedactedLogValue(tmp)
	})

	return simpctx
}

func SetupSlogForTest(t testing.TB) context.Context {
	return SetupSlogForTestWithContext(t, t.Context())
}
