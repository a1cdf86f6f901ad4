// Package version хранит метаданные сборки, которые проставляются через
// -ldflags "-X github.com/amixtum/dd2/internal/version.BuildDate=...".
// Если коммит не передан, берется vcs.revision из debug.BuildInfo.
package version

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

const Name = "dd2"

var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// Номер сборки - число дней от первого коммита dd2.
var epoch = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

var (
	ErrNoBuildDate = errors.New("build date not set")
	ErrBeforeEpoch = errors.New("build date precedes epoch")
)

// Build - метаданные сборки для /version и стартового лога.
type Build struct {
	Name      string `json:"name"`
	Number    int    `json:"number"`
	Date      string `json:"date,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Branch    string `json:"branch,omitempty"`
	CI        string `json:"ci,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"goVersion"`
	Known     bool   `json:"known"`
	Error     string `json:"error,omitempty"`
}

// Number переводит дату сборки в номер.
func Number(date string) (int, error) {
	if date == "" {
		return 0, ErrNoBuildDate
	}
	t, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("parse build date %q: %w", date, err)
	}
	if t.Before(epoch) {
		return 0, fmt.Errorf("%w: %s", ErrBeforeEpoch, date)
	}
	return int(t.Sub(epoch).Hours() / 24), nil
}

func Info() Build {
	b := Build{
		Name:      Name,
		Date:      BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
		GoVersion: runtime.Version(),
	}
	fillFromVCS(&b)

	n, err := Number(BuildDate)
	if err != nil {
		b.Error = err.Error()
		return b
	}
	b.Number = n
	b.Known = true
	return b
}

// fillFromVCS дополняет коммит данными, которые go build вшивает сам.
func fillFromVCS(b *Build) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
}

func String() string {
	b := Info()
	if !b.Known {
		return fmt.Sprintf("%s build unknown (%s)", b.Name, b.Error)
	}

	commit := or(b.Commit, "unknown")
	if b.Modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("%s #%d %s commit=%s branch=%s ci=%s %s",
		b.Name, b.Number, b.Date, commit, or(b.Branch, "unknown"), or(b.CI, "local"), b.GoVersion)
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
