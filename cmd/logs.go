package cmd

import (
	"io"
	"os"
	"time"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/olimci/shiori/pkg/events"
	"github.com/urfave/cli/v3"
)

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func logLevel(cmd *cli.Command) log.Level {
	switch {
	case cmd.Bool("quiet"):
		return log.ErrorLevel
	case cmd.Bool("verbose"):
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}

// newLogger returns a logger writing to out. Timestamps are only shown on a terminal.
func newLogger(out io.Writer, level log.Level) *log.Logger {
	timestamps := false
	if f, ok := out.(*os.File); ok {
		timestamps = isTerminal(f)
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		TimeFormat:      time.TimeOnly,
	})

	palette := catppuccin.Mocha
	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = levelStyle("DEBU", palette.Overlay0())
	styles.Levels[log.InfoLevel] = levelStyle("INFO", palette.Blue())
	styles.Levels[log.WarnLevel] = levelStyle("WARN", palette.Yellow())
	styles.Levels[log.ErrorLevel] = levelStyle("ERRO", palette.Red())
	styles.Keys["step"] = lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Subtext0().Hex))
	styles.Values["step"] = lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Text().Hex))
	logger.SetStyles(styles)

	return logger
}

func levelStyle(label string, c catppuccin.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(label).
		Bold(true).
		MaxWidth(4).
		Foreground(lipgloss.Color(c.Hex))
}

// eventLogger forwards build events to a logger.
type eventLogger struct {
	logger *log.Logger
}

func newEventLogger(logger *log.Logger) events.Handler {
	return eventLogger{logger: logger}
}

func (l eventLogger) Handle(event events.Event) {
	keyvals := make([]any, 0, 4)
	if event.Step != "" {
		keyvals = append(keyvals, "step", event.Step)
	}
	if event.Error != nil {
		keyvals = append(keyvals, "err", event.Error)
	}

	switch event.Level {
	case events.Debug:
		l.logger.Debug(event.Message, keyvals...)
	case events.Info:
		l.logger.Info(event.Message, keyvals...)
	case events.Error:
		l.logger.Error(event.Message, keyvals...)
	default:
		l.logger.Print(event.Message, keyvals...)
	}
}
