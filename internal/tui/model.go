// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/linetype/internal/stats"
	"github.com/verte-zerg/linetype/internal/text"
)

// ErrInterrupted is returned by Err when the user aborted the session.
var ErrInterrupted = errors.New("interrupted")

// ChunkSource yields raw chunks in order. *wrap.Wrapper implements it.
type ChunkSource interface {
	Next() bool
	Chunk() string
	Err() error
}

// Options configures a Model.
type Options struct {
	// Bell receives an alert character on every mismatched key. Nil disables it.
	Bell io.Writer
	// Now defaults to time.Now.
	Now func() time.Time
}

type phase int

const (
	phasePresenting phase = iota
	phaseTyping
	phaseScoring
	phaseAdvancing
	phaseDone
)

const marginWidth = stats.FeedbackWidth

// Model runs the practice loop: every chunk is retyped until an attempt
// passes both the speed and the accuracy threshold.
type Model struct {
	source ChunkSource
	bell   io.Writer
	now    func() time.Time
	keys   keyMap

	width int

	phase     phase
	target    []rune
	pos       int
	missed    bool
	correct   int
	errors    int
	startedAt time.Time
	last      *stats.Score

	chunkNo   int
	attempt   int
	completed int
	startup   []tea.Cmd
	err       error
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Underline(true)
	missStyle        = incorrectStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	passStyle        = footerStyle
	failStyle        = incorrectStyle
)

// NewModel constructs a practice model and presents the first chunk.
func NewModel(source ChunkSource, opts Options) *Model {
	m := &Model{
		source: source,
		bell:   opts.Bell,
		now:    opts.Now,
		keys:   defaultKeyMap(),
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.startup = m.advance()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := m.startup
	m.startup = nil
	return sequence(cmds)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.err = ErrInterrupted
			m.phase = phaseDone
			return m, tea.Quit
		}
		var cmds []tea.Cmd
		for _, r := range keyRunes(msg) {
			if m.phase != phaseTyping {
				break
			}
			if cmd := m.handleRune(r); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, sequence(cmds)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.phase == phaseDone {
		return ""
	}
	contentWidth := 0
	if m.width > 0 {
		contentWidth = m.width - marginWidth
		if contentWidth < 1 {
			contentWidth = 1
		}
	}
	lines := wrapStyledRunes(buildStyledRunes(m.target, m.pos, m.missed), contentWidth)
	indent := strings.Repeat(" ", marginWidth)

	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString(m.renderMargin())
		} else {
			b.WriteString("\n")
			b.WriteString(indent)
		}
		b.WriteString(line)
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// Err returns ErrInterrupted after an abort, or the error that ended reading
// the source. It is nil when the text was typed to the end.
func (m *Model) Err() error {
	return m.err
}

// Done reports whether the session has ended.
func (m *Model) Done() bool {
	return m.phase == phaseDone
}

// Completed returns the number of chunks cleared so far.
func (m *Model) Completed() int {
	return m.completed
}

func (m *Model) handleRune(r rune) tea.Cmd {
	if r != m.target[m.pos] {
		m.errors++
		m.missed = true
		return m.ringBell()
	}
	m.correct++
	m.pos++
	m.missed = false
	m.skipUntypable()
	if m.pos < len(m.target) {
		return nil
	}
	return m.score()
}

// skipUntypable moves the cursor past characters no key can produce.
func (m *Model) skipUntypable() {
	for m.pos < len(m.target) && !text.Typable(m.target[m.pos]) {
		m.pos++
	}
}

// present starts a fresh attempt at the current chunk.
func (m *Model) present() {
	m.phase = phasePresenting
	m.attempt++
	m.pos = 0
	m.missed = false
	m.correct = 0
	m.errors = 0
	m.startedAt = m.now()
	m.skipUntypable()
	m.phase = phaseTyping
}

func (m *Model) score() tea.Cmd {
	m.phase = phaseScoring
	s := stats.Evaluate(m.correct, m.errors, m.now().Sub(m.startedAt))
	m.last = &s
	log.Printf("chunk %d attempt %d: %s passed=%t", m.chunkNo, m.attempt, stats.FormatFeedback(s), s.Passed())
	if !s.Passed() {
		m.present()
		return nil
	}
	m.phase = phaseAdvancing
	m.completed++
	cmds := []tea.Cmd{tea.Println(m.renderCompleted())}
	return sequence(append(cmds, m.advance()...))
}

// advance pulls chunks until one has something to type. Chunks with nothing
// to type pass immediately and are printed as they are.
func (m *Model) advance() []tea.Cmd {
	var cmds []tea.Cmd
	for m.source.Next() {
		m.chunkNo++
		m.target = []rune(text.Normalize(m.source.Chunk()))
		m.last = nil
		m.attempt = 0
		m.present()
		if m.pos < len(m.target) {
			return cmds
		}
		log.Printf("chunk %d: nothing to type", m.chunkNo)
		m.completed++
		cmds = append(cmds, tea.Println(m.renderCompleted()))
	}
	if err := m.source.Err(); err != nil {
		m.err = fmt.Errorf("failed to read text: %w", err)
	}
	m.phase = phaseDone
	m.target = nil
	return append(cmds, tea.Quit)
}

func (m *Model) ringBell() tea.Cmd {
	if m.bell == nil {
		return nil
	}
	w := m.bell
	return func() tea.Msg {
		// Best-effort alert.
		_, _ = io.WriteString(w, "\a")
		return nil
	}
}

func (m *Model) renderMargin() string {
	if m.last == nil || m.last.Skipped {
		return strings.Repeat(" ", marginWidth)
	}
	accStyle := passStyle
	if !m.last.AccuracyOK {
		accStyle = failStyle
	}
	wpmStyle := passStyle
	if !m.last.SpeedOK {
		wpmStyle = failStyle
	}
	return accStyle.Render(stats.FormatAccuracy(*m.last)) + " " + wpmStyle.Render(stats.FormatWPM(*m.last))
}

func (m *Model) renderCompleted() string {
	return m.renderMargin() + correctStyle.Render(string(m.target))
}

func (m *Model) renderFooter() string {
	help := m.keys.Quit.Help()
	footer := fmt.Sprintf("Chunk %d · Attempt %d · %s %s", m.chunkNo, m.attempt, help.Key, help.Desc)
	return footerStyle.Render(footer)
}

func sequence(cmds []tea.Cmd) tea.Cmd {
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Sequence(cmds...)
	}
}
