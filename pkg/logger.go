package damsa

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

type Logger interface {
	Info(message string, module string)
	Warn(message string, module string)
	Error(string)
}

var logger Logger = nopLogger{}

func SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	logger = l
}

func GetLogger() Logger {
	return logger
}

type nopLogger struct{}

func (nopLogger) Info(string, string) {}
func (nopLogger) Warn(string, string) {}
func (nopLogger) Error(string)        {}

// SlogLogger sends informational messages to InfoLog and warnings and
// errors to ErrorLog.
type SlogLogger struct {
	InfoLog  *slog.Logger
	ErrorLog *slog.Logger
}

func (l SlogLogger) Info(message string, module string) {
	l.InfoLog.Info(message, "module", module)
}

func (l SlogLogger) Warn(message string, module string) {
	l.ErrorLog.Warn(message, "module", module)
}

func (l SlogLogger) Error(message string) {
	l.ErrorLog.Error(message)
}

// Handler prints records as "[time] [LEVEL] [attr values...] message",
// hiding attribute keys.
type Handler struct {
	level slog.Leveler
	attrs []slog.Attr
	mu    *sync.Mutex
	out   io.Writer
}

func NewHandler(o io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{out: o, level: slog.LevelInfo, mu: &sync.Mutex{}}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	all := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &Handler{level: h.level, attrs: all, out: h.out, mu: h.mu}
}

// Groups only qualify keys, which are not printed.
func (h *Handler) WithGroup(name string) slog.Handler {
	return h
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	strs := []string{
		r.Time.Format("[2006/01/02 15:04:05]"),
		fmt.Sprintf("[%s]", r.Level),
	}
	for _, a := range h.attrs {
		strs = append(strs, fmt.Sprintf("[%s]", a.Value))
	}
	r.Attrs(func(a slog.Attr) bool {
		strs = append(strs, fmt.Sprintf("[%s]", a.Value))
		return true
	})
	strs = append(strs, r.Message)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, strings.Join(strs, " ")+"\n")
	return err
}

// NewSlogLogger writes informational messages with the bracketed handler and
// warnings and errors as JSON.
func NewSlogLogger(info io.Writer, errs io.Writer, level slog.Level) SlogLogger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	return SlogLogger{
		InfoLog:  slog.New(NewHandler(info, opts)),
		ErrorLog: slog.New(slog.NewJSONHandler(errs, opts)),
	}
}
