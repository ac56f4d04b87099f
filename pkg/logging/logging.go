package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gitlab.com/tozd/go/errors"

	slogctx "github.com/veqryn/slog-context"
)

const TimeFormat = "2006-01-02 15:04 05.0000"

type Options struct {
	Level       slog.Leveler
	JSON        bool
	Color       bool
	AddSource   bool
	ProcessName string
}

// SetupSlogSimple logs debug and above to stderr, colored when stderr is a terminal.
func SetupSlogSimple(ctx context.Context) context.Context {
	return SetupSlogSimpleToWriter(ctx, os.Stderr, IsTerminal(os.Stderr))
}

func SetupSlogSimpleNoColor(ctx context.Context) context.Context {
	return SetupSlogSimpleToWriter(ctx, os.Stderr, false)
}

func SetupSlogSimpleToWriter(ctx context.Context, w io.Writer, color bool) context.Context {
	return SetupSlogToWriter(ctx, w, Options{
		Level:     slog.LevelDebug,
		Color:     color,
		AddSource: true,
	})
}

var (
	logWriter   io.Writer
	logWriterMu sync.Mutex
)

// SetupSlogToWriter installs a logger writing to w as the slog default and
// returns ctx carrying that logger.
func SetupSlogToWriter(ctx context.Context, w io.Writer, opts Options) context.Context {
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}

	replace := func(groups []string, a slog.Attr) slog.Attr {
		a = formatErrorStacks(groups, a)
		return Redact(groups, a)
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			AddSource:   opts.AddSource,
			ReplaceAttr: replace,
		})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:       level,
			TimeFormat:  TimeFormat,
			AddSource:   opts.AddSource,
			NoColor:     !opts.Color,
			ReplaceAttr: replace,
		})
	}

	ctxHandler := slogctx.NewHandler(handler, &slogctx.HandlerOptions{})

	mylogger := slog.New(ctxHandler)
	if opts.ProcessName != "" {
		mylogger = mylogger.With(slog.String("process", opts.ProcessName))
	}
	slog.SetDefault(mylogger)

	logWriterMu.Lock()
	logWriter = w
	logWriterMu.Unlock()

	return slogctx.NewCtx(ctx, mylogger)
}

func GetDefaultLogWriter() io.Writer {
	logWriterMu.Lock()
	defer logWriterMu.Unlock()
	if logWriter == nil {
		return os.Stderr
	}
	return logWriter
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type RedactedKey struct {
	Key   string
	Value string
}

// use array to preserve order
var (
	redactedLogValues      = make([]RedactedKey, 0)
	redactedLogValuesMutex = &sync.Mutex{}
)

// RegisterRedactedLogValue replaces every occurrence of key in logged values
// with value. Later registrations win over earlier ones.
func RegisterRedactedLogValue(ctx context.Context, key string, value string) {
	if key == "" {
		return
	}
	slog.DebugContext(ctx, "registering redacted log value", "value", value)

	redactedLogValuesMutex.Lock()
	defer redactedLogValuesMutex.Unlock()
	redactedLogValues = slices.DeleteFunc(redactedLogValues, func(v RedactedKey) bool {
		return v.Key == key
	})
	redactedLogValues = append(redactedLogValues, RedactedKey{Key: key, Value: value})
}

func UnregisterRedactedLogValue(key string) {
	redactedLogValuesMutex.Lock()
	defer redactedLogValuesMutex.Unlock()
	redactedLogValues = slices.DeleteFunc(redactedLogValues, func(v RedactedKey) bool {
		return v.Key == key
	})
}

func Redact(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	redactedLogValuesMutex.Lock()
	reversed := slices.Clone(redactedLogValues)
	redactedLogValuesMutex.Unlock()
	slices.Reverse(reversed)

	str := a.Value.String()
	for _, value := range reversed {
		if strings.Contains(str, value.Key) {
			str = strings.ReplaceAll(str, value.Key, value.Value)
		}
	}
	return slog.String(a.Key, str)
}

func packageName(frame runtime.Frame) string {
	lastSlash := strings.LastIndex(frame.Function, "/")
	if lastSlash == -1 {
		return ""
	}
	almost := frame.Function[:lastSlash]
	remaining := frame.Function[lastSlash+1:]
	firstDot := strings.Index(remaining, ".")
	if firstDot == -1 {
		return ""
	}
	return almost + "/" + remaining[:firstDot]
}

// formatErrorStacks expands errors carrying a stack trace into the frame
// that created them.
func formatErrorStacks(groups []string, a slog.Attr) slog.Attr {
	if a.Key != "error" {
		return a
	}
	err, ok := a.Value.Any().(error)
	if !ok {
		return a
	}
	var terr errors.E
	if !errors.As(err, &terr) || len(terr.StackTrace()) == 0 {
		return a
	}
	frames := runtime.CallersFrames(terr.StackTrace())
	first, _ := frames.Next()
	pkg := packageName(first)
	a.Value = slog.GroupValue(
		slog.String("msg", err.Error()),
		slog.String("func", strings.TrimPrefix(first.Function, pkg+".")),
		slog.String("package", pkg),
		// the quotes are to make sure the file name can be clicked by vscode/cursor
		slog.String("file", fmt.Sprintf("'%s/%s:%d'", filepath.Base(filepath.Dir(first.File)), filepath.Base(first.File), first.Line)),
	)
	return a
}
