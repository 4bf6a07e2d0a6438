package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log - общий логгер процесса. Компоненты пишут в него через WithFields.
var Log = logrus.New()

// Options - настройки логгера. Пустое поле оставляет текущее значение.
type Options struct {
	Level  string    // trace, debug, info, warn, error
	Format string    // text | json
	Output io.Writer // nil - без изменений
}

// Init - стартовая настройка из LOG_LEVEL и LOG_FORMAT, до загрузки конфига.
// Некорректные значения заменяются на info и text.
func Init() {
	opts := Options{
		Level:  envOr("LOG_LEVEL", "info"),
		Format: envOr("LOG_FORMAT", "text"),
		Output: os.Stdout,
	}
	if err := Configure(opts); err != nil {
		_ = Configure(Options{Level: "info", Format: "text", Output: os.Stdout})
		Log.WithError(err).Warn("Bad logger environment, using defaults")
	}
}

// Configure перенастраивает Log на месте. При ошибке логгер не меняется.
func Configure(opts Options) error {
	var level logrus.Level
	if opts.Level != "" {
		l, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		level = l
	}

	out := opts.Output
	if out == nil {
		out = Log.Out
	}

	var formatter logrus.Formatter
	switch strings.ToLower(opts.Format) {
	case "":
	case "text":
		formatter = &logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   out == os.Stdout || out == os.Stderr,
		}
	case "json":
		formatter = &logrus.JSONFormatter{}
	default:
		return fmt.Errorf("log format %q: want text or json", opts.Format)
	}

	if opts.Level != "" {
		Log.SetLevel(level)
	}
	if formatter != nil {
		Log.SetFormatter(formatter)
	}
	Log.SetOutput(out)
	return nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
