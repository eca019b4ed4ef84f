package render

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tdepke2/BackupTools/internal/progress"
)

// spinnerFrames is the classic braille spinner sequence.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickInterval bounds UI repaints to at most one every 200ms (§5), so a
// fast local disk doesn't spend more wall-clock time drawing than
// copying.
const tickInterval = 200 * time.Millisecond

type tickMsg time.Time

type opMsg progress.Event

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// SpinnerModel is the bubbletea model driving the progress display for a
// backup/check run. It subscribes to a progress.Publisher and repaints
// at most every tickInterval.
type SpinnerModel struct {
	publisher *progress.Publisher
	frame     int
	completed int
	label     string
	done      bool
	events    chan progress.Event
}

// NewSpinnerModel wires a SpinnerModel to publisher; label is shown
// alongside the spinner (e.g. "scanning", "applying").
func NewSpinnerModel(publisher *progress.Publisher, label string) *SpinnerModel {
	m := &SpinnerModel{publisher: publisher, label: label, events: make(chan progress.Event, 256)}
	publisher.Subscribe(progress.TopicOperation, func(ev progress.Event) {
		select {
		case m.events <- ev:
		default:
		}
	})
	publisher.Subscribe(progress.TopicDone, func(progress.Event) {
		select {
		case m.events <- progress.Event{Kind: "done"}:
		default:
		}
	})
	return m
}

func (m *SpinnerModel) Init() tea.Cmd {
	return tick()
}

func (m *SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if m.done {
			return m, tea.Quit
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
	drain:
		for {
			select {
			case ev := <-m.events:
				if ev.Kind == "done" {
					m.done = true
				} else {
					m.completed++
				}
			default:
				break drain
			}
		}
		return m, tick()
	case tea.KeyMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *SpinnerModel) View() string {
	if m.done {
		return fmt.Sprintf("done: %d operation(s)\n", m.completed)
	}
	return fmt.Sprintf("%s %s: %d\n", spinnerFrames[m.frame], m.label, m.completed)
}
