package log

import (
	"io"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Discard is a logger that drops every message.
var Discard = New(WithLevel(LevelSilent), WithWriter(io.Discard))

func New(ops ...Option) *Logger {
	defaults := []Option{
		WithWriter(os.Stderr),
		WithLevel(LevelInfo),
	}

	l := Logger{
		log: zerolog.New(nil).With().Timestamp().Logger(),
	}
	for _, op := range slices.Concat(defaults, ops) {
		op(&l)
	}
	return &l
}

// WithFields attaches f to every message of the logger.
func WithFields(f Fields) Option {
	return func(l *Logger) {
		l.log = l.log.With().Fields(map[string]any(f)).Logger()
	}
}

func WithLevel(level Level) Option {
	return func(l *Logger) {
		l.log = l.log.Level(makeZerologLevel(level))
	}
}

func WithWriter(w io.Writer) Option {
	return func(l *Logger) {
		out := w
		if IsTerminal(w) {
			out = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
				cw.TimeFormat = time.DateTime
				cw.Out = w
			})
		}
		l.log = l.log.Output(out)
	}
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return true
	}
	return false
}

type Option func(*Logger)

type Fields map[string]any

type Logger struct {
	log zerolog.Logger
}

// With returns a copy of the logger that attaches f to every message.
func (l *Logger) With(f Fields) *Logger {
	return &Logger{l.log.With().Fields(map[string]any(f)).Logger()}
}

func (l *Logger) Error(msg string, err error) {
	l.logEntry(zerolog.ErrorLevel, msg, nil, err)
}

func (l *Logger) Info(msg string, f Fields) {
	l.logEntry(zerolog.InfoLevel, msg, f, nil)
}

func (l *Logger) Verbose(msg string, f Fields) {
	l.logEntry(zerolog.DebugLevel, msg, f, nil)
}

func (l *Logger) logEntry(level zerolog.Level, msg string, f Fields, err error) {
	entry := l.log.WithLevel(level)
	if err != nil {
		entry = entry.Err(err)
	}

	entry.Fields(map[string]any(f)).
		Msg(msg)
}
