package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"
)

// Задаются при сборке: -ldflags "-X .../internal/version.Date=2026-03-11 -X .../internal/version.Commit=abc123"
var (
	Date   string // YYYY-MM-DD (UTC)
	Commit string
	Branch string
)

// Protocol - версия протокола pkg/api. Меняется при несовместимых правках команд и событий.
const Protocol = 1

// epoch - день первого коммита, номер сборки считается в днях от него
var epoch = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

// Build - метаданные сборки для /version и стартового лога
type Build struct {
	Number    int    `json:"number,omitempty"`
	Date      string `json:"date,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Branch    string `json:"branch,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	Protocol  int    `json:"protocol"`
	GoVersion string `json:"goVersion"`
	Release   bool   `json:"release"`
}

// Current собирает метаданные. Без ldflags коммит и дата берутся из VCS-меток go build.
func Current() Build {
	b := Build{
		Date:      Date,
		Commit:    Commit,
		Branch:    Branch,
		Protocol:  Protocol,
		GoVersion: runtime.Version(),
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		fromVCS(&b, info.Settings)
	}
	if n, err := Number(b.Date); err == nil {
		b.Number = n
		b.Release = true
	}
	return b
}

func fromVCS(b *Build, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = shorten(s.Value)
			}
		case "vcs.time":
			if b.Date == "" && len(s.Value) >= len("2006-01-02") {
				b.Date = s.Value[:len("2006-01-02")]
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
}

// Number - номер сборки: дни от epoch до date
func Number(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is empty")
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if t.Before(epoch) {
		return 0, fmt.Errorf("build date %s is before %s", date, epoch.Format("2006-01-02"))
	}
	return int(t.Sub(epoch).Hours() / 24), nil
}

func (b Build) String() string {
	if !b.Release {
		return fmt.Sprintf("dev build, protocol v%d, %s", b.Protocol, b.GoVersion)
	}
	commit := coalesce(b.Commit, "unknown")
	if b.Modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("build %d (%s) commit[%s] branch[%s], protocol v%d",
		b.Number, b.Date, commit, coalesce(b.Branch, "unknown"), b.Protocol)
}

// Fields - для logrus.WithFields
func (b Build) Fields() logrus.Fields {
	f := logrus.Fields{
		"protocol": b.Protocol,
		"go":       b.GoVersion,
	}
	if b.Release {
		f["build"] = b.Number
	}
	if b.Commit != "" {
		f["commit"] = b.Commit
	}
	return f
}

func shorten(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
