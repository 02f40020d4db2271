package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/drive-etl/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/drive-etl/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/drive-etl/internal/core/domain"
)

// recentFiles is how many file names the view keeps on screen.
const recentFiles = 5

// Run is the part of a pipeline stage the view consumes.
type Run interface {
	Results() <-chan domain.ResultRecord
	Err() error
}

// resultMsg carries one emitted record.
type resultMsg domain.ResultRecord

// doneMsg reports that the stage terminated.
type doneMsg struct{ err error }

// Progress is a bubbletea model following one extract run.
type Progress struct {
	run     Run
	cancel  context.CancelFunc
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	spinner spinner.Model

	folderID  string
	outputDir string

	count     int
	converted int
	recent    []string
	cancelled bool
	done      bool
	err       error
}

// NewProgress creates a progress view over run. cancel is invoked when the
// user asks to stop; it may be nil.
func NewProgress(run Run, cancel context.CancelFunc, folderID, outputDir string) *Progress {
	s := styles.DefaultStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Spinner

	return &Progress{
		run:       run,
		cancel:    cancel,
		styles:    s,
		keymap:    keymap.DefaultKeyMap(),
		spinner:   sp,
		folderID:  folderID,
		outputDir: outputDir,
	}
}

// Init starts the spinner and waits for the first result.
func (p *Progress) Init() tea.Cmd {
	return tea.Batch(p.spinner.Tick, p.next())
}

// Update handles run events, spinner ticks and key presses.
func (p *Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		p.count++
		if msg.Converted {
			p.converted++
		}
		rec := domain.ResultRecord(msg)
		line := p.styles.Normal.Render(describe(rec))
		if rec.Converted {
			line = p.styles.Converted.Render(describe(rec))
		}
		p.recent = append(p.recent, line)
		if len(p.recent) > recentFiles {
			p.recent = p.recent[len(p.recent)-recentFiles:]
		}
		return p, p.next()

	case doneMsg:
		p.done = true
		p.err = msg.err
		return p, tea.Quit

	case tea.KeyMsg:
		if key.Matches(msg, p.keymap.Cancel) && !p.cancelled {
			p.cancelled = true
			if p.cancel != nil {
				p.cancel()
			}
		}
		return p, nil

	case spinner.TickMsg:
		if p.done {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}

	return p, nil
}

// View renders the progress view.
func (p *Progress) View() string {
	var b strings.Builder

	b.WriteString(p.styles.Title.Render("drive-etl"))
	b.WriteString(p.styles.Muted.Render(fmt.Sprintf("  folder %s → %s", p.folderID, p.outputDir)))
	b.WriteString("\n\n")

	for _, name := range p.recent {
		b.WriteString("  ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	if len(p.recent) > 0 {
		b.WriteString("\n")
	}

	counts := fmt.Sprintf("%d file(s), %d converted", p.count, p.converted)
	switch {
	case p.done && p.err != nil:
		b.WriteString(p.styles.Error.Render("Failed after " + counts))
		b.WriteString("\n")
		b.WriteString(p.styles.Error.Render(p.err.Error()))
	case p.done:
		b.WriteString(p.styles.Success.Render("Done: " + counts))
	case p.cancelled:
		b.WriteString(p.spinner.View())
		b.WriteString(p.styles.Muted.Render(" cancelling... " + counts))
	default:
		b.WriteString(p.spinner.View())
		b.WriteString(" ")
		b.WriteString(p.styles.Normal.Render(counts))
		b.WriteString(p.styles.Muted.Render(helpLine(p.keymap)))
	}
	b.WriteString("\n")

	return b.String()
}

// Count returns the number of results seen.
func (p *Progress) Count() int { return p.count }

// Err returns the terminal error once the run has finished.
func (p *Progress) Err() error { return p.err }

// Done reports whether the run has terminated.
func (p *Progress) Done() bool { return p.done }

// next waits for the following result or the end of the run.
func (p *Progress) next() tea.Cmd {
	results := p.run.Results()
	return func() tea.Msg {
		rec, ok := <-results
		if !ok {
			return doneMsg{err: p.run.Err()}
		}
		return resultMsg(rec)
	}
}

func describe(rec domain.ResultRecord) string {
	if !rec.Converted {
		return rec.Output.FileName()
	}
	return fmt.Sprintf("%s → %s", rec.Input.Name+rec.Input.Ext, rec.Output.FileName())
}

func helpLine(km *keymap.KeyMap) string {
	parts := make([]string, 0, len(km.ShortHelp()))
	for _, b := range km.ShortHelp() {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return "  (" + strings.Join(parts, ", ") + ")"
}
