// =============================================================================
// t4bulk - Logger
// =============================================================================
//
// This package provides console logging for t4bulk.
//
// Every message goes through logrus. Status messages carry a coloured glyph
// so a long run can be scanned by eye: ✓ success, ⚠ warning, ✗ error.
//
// =============================================================================

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Glyphs prefixed to status messages.
const (
	GlyphSuccess = "✓"
	GlyphWarning = "⚠"
	GlyphError   = "✗"
)

// Logger wraps a logrus entry so that fields added with With are carried
// by every later message.
type Logger struct {
	entry *logrus.Entry
}

// New creates a logger writing to output (stderr when nil) at the given
// level. Unknown levels fall back to info.
func New(level string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(output)

	logLevel, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)

	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})

	return &Logger{entry: logrus.NewEntry(log)}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return New("panic", io.Discard)
}

// With returns a child logger that adds key=value to every message.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// Level returns the current level name.
func (l *Logger) Level() string {
	return l.entry.Logger.GetLevel().String()
}

// Debugf logs a debug message.
func (l *Logger) Debugf(format string, args ...any) {
	l.entry.Debug(debugStyle.Render(fmt.Sprintf(format, args...)))
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.entry.Infof(format, args...)
}

// Successf logs a completed step at info level with a ✓.
func (l *Logger) Successf(format string, args ...any) {
	l.entry.Info(successStyle.Render(GlyphSuccess) + " " + fmt.Sprintf(format, args...))
}

// Warnf logs a non-fatal problem with a ⚠.
func (l *Logger) Warnf(format string, args ...any) {
	l.entry.Warn(warningStyle.Render(GlyphWarning) + " " + fmt.Sprintf(format, args...))
}

// Errorf logs a failure with a ✗.
func (l *Logger) Errorf(format string, args ...any) {
	l.entry.Error(errorStyle.Render(GlyphError) + " " + fmt.Sprintf(format, args...))
}
