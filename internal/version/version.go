// Package version отдает метаданные сборки, вшитые линкером.
package version

import (
	"fmt"
	"time"
)

// Заполняются через -ldflags "-X voidreach-server/internal/version.Date=...".
// Пустые значения означают локальную сборку без пайплайна.
var (
	Date   string // YYYY-MM-DD, UTC
	Commit string
	Branch string
	CI     string
)

// epoch - день первого развертывания; номер сборки считается в днях от него.
var epoch = time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC)

// Build - метаданные сборки в структурном виде.
// Эндпоинт /version отдает ее как есть.
type Build struct {
	Number int    `json:"number"`
	Date   string `json:"date,omitempty"`
	Commit string `json:"commit,omitempty"`
	Branch string `json:"branch,omitempty"`
	CI     string `json:"ci,omitempty"`
	Known  bool   `json:"known"`
	Reason string `json:"reason,omitempty"`
}

// Number - порядковый номер сборки: полные дни от эпохи до даты сборки.
// Обе даты - полночь UTC, деление на сутки точное.
func Number() (int, error) {
	if Date == "" {
		return 0, fmt.Errorf("build date is not set")
	}
	t, err := time.ParseInLocation("2006-01-02", Date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("bad build date %q: %w", Date, err)
	}
	if t.Before(epoch) {
		return 0, fmt.Errorf("build date %s predates the project", Date)
	}
	return int(t.Sub(epoch) / (24 * time.Hour)), nil
}

// Info собирает метаданные сборки. Ошибки номера не фатальны,
// они возвращаются полем Reason.
func Info() Build {
	b := Build{Date: Date, Commit: Commit, Branch: Branch, CI: CI}
	n, err := Number()
	if err != nil {
		b.Reason = err.Error()
		return b
	}
	b.Number = n
	b.Known = true
	return b
}

// String - однострочное описание сборки для логов и флага -version.
func String() string {
	b := Info()
	if !b.Known {
		return fmt.Sprintf("dev build (%s)", b.Reason)
	}
	s := fmt.Sprintf("build #%d from %s", b.Number, b.Date)
	if b.Commit != "" {
		s += ", commit " + b.Commit
	}
	if b.Branch != "" {
		s += " on " + b.Branch
	}
	if b.CI == "" {
		s += " (local)"
	}
	return s
}
