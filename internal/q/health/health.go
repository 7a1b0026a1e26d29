// Package health provides small error and logging helpers used across docmender.
//
// Errors carry slog-style attributes so the place that creates an error can also decide what gets logged about it, in one line.
package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// Err is an error with a message, an optional wrapped cause, and slog attrs.
type Err struct {
	Message string
	wrapped error
	attrs   []any
}

// Error serializes the message, attrs, and wrapped cause.
func (e *Err) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.attrs) > 0 {
		b.WriteString("[")
		writeAttrs(&b, e.attrs)
		b.WriteString("]")
	}

	if e.wrapped != nil {
		b.WriteString(" via ")
		b.WriteString(e.wrapped.Error())
	}

	return b.String()
}

func (e *Err) Unwrap() error {
	return e.wrapped
}

// NewErr returns a new, unlogged error. args follows slog's Info convention: key/value pairs or slog.Attrs.
func NewErr(msg string, args ...any) error {
	return &Err{Message: msg, attrs: args}
}

// Wrap returns a new error wrapping `wrapped`.
func Wrap(msg string, wrapped error, args ...any) error {
	if wrapped == nil {
		wrapped = errors.New("nil wrapped error. WARNING: you should not call Wrap with a nil error")
	}
	return &Err{Message: msg, wrapped: wrapped, attrs: args}
}

// LogNewErr creates an error with msg and args, logs it, and returns it.
func LogNewErr(logger *slog.Logger, msg string, args ...any) error {
	return LogErr(logger, NewErr(msg, args...))
}

// LogWrappedErr creates an error wrapping `wrapped`, logs it, and returns it.
func LogWrappedErr(logger *slog.Logger, msg string, wrapped error, args ...any) error {
	return LogErr(logger, Wrap(msg, wrapped, args...))
}

// LogErr logs err to logger (if both are non-nil) and returns err, enabling log-and-return in one line. Errors created by NewErr/Wrap log their attrs; a wrapped
// cause is logged under a "via" key.
func LogErr(logger *slog.Logger, err error, args ...any) error {
	if logger == nil || err == nil {
		return err
	}

	h, ok := err.(*Err)
	if !ok {
		logger.Error(err.Error(), args...)
		return err
	}

	allArgs := make([]any, 0, len(h.attrs)+len(args)+1)
	allArgs = append(allArgs, h.attrs...)
	if h.wrapped != nil {
		allArgs = append(allArgs, slog.String("via", h.wrapped.Error()))
	}
	allArgs = append(allArgs, args...)

	logger.Error(h.Message, allArgs...)
	return err
}

// writeAttrs formats attrs in key=value form, as the slog text handler would. Ex: `num=3 str="hi"`.
func writeAttrs(b *strings.Builder, attrs []any) {
	if len(attrs) == 0 {
		return
	}

	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey {
				return slog.Attr{}
			}
			return a
		},
	}

	handler := slog.NewTextHandler(&noNewlineWriter{w: b}, opts)
	slog.New(handler).Log(context.Background(), slog.LevelDebug, "", attrs...)
}

// noNewlineWriter strips the single trailing newline the text handler emits per record.
type noNewlineWriter struct {
	w io.Writer
}

func (n *noNewlineWriter) Write(p []byte) (int, error) {
	if len(p) > 0 && p[len(p)-1] == '\n' {
		written, err := n.w.Write(p[:len(p)-1])
		if err == nil {
			return len(p), nil
		}
		return written, err
	}
	return n.w.Write(p)
}
