package tui

import "noten/internal/interaction"

type level int

const (
	levelInfo level = iota
	levelWarn
	levelError
)

// statusLine is the Notifier of the terminal UI. Every notice replaces the
// previous one and bumps seq, so a delayed clear only removes its own text.
type statusLine struct {
	text  string
	level level
	seq   int
}

var _ interaction.Notifier = (*statusLine)(nil)

func (s *statusLine) Info(msg string)  { s.set(levelInfo, msg) }
func (s *statusLine) Warn(msg string)  { s.set(levelWarn, msg) }
func (s *statusLine) Error(msg string) { s.set(levelError, msg) }

func (s *statusLine) set(l level, msg string) {
	s.text = msg
	s.level = l
	s.seq++
}

func (s *statusLine) clear(seq int) {
	if seq == s.seq {
		s.text = ""
	}
}

func (s *statusLine) View() string {
	switch s.level {
	case levelWarn:
		return warnStyle.Render(s.text)
	case levelError:
		return errorStyle.Render(s.text)
	default:
		return infoStyle.Render(s.text)
	}
}
