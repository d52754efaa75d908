package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oceanforge/oceanforge/internal/provisioning"
)

// sender is the subset of tea.Program the observer needs.
type sender interface {
	Send(msg tea.Msg)
}

// ProgramObserver forwards provisioning events to a running Bubble Tea program.
type ProgramObserver struct {
	program sender
}

// NewProgramObserver creates an observer bound to a program.
func NewProgramObserver(p sender) *ProgramObserver {
	return &ProgramObserver{program: p}
}

// Printf implements provisioning.Observer. Free-form lines are dropped in TUI
// mode; the phase checklist carries the state.
func (o *ProgramObserver) Printf(string, ...interface{}) {}

// Event implements provisioning.Observer.
func (o *ProgramObserver) Event(event provisioning.Event) {
	switch event.Type {
	case provisioning.EventPhaseStarted:
		o.program.Send(PhaseMsg{Phase: event.Phase})
	case provisioning.EventPhaseCompleted:
		o.program.Send(PhaseMsg{Phase: event.Phase, Done: true})
	case provisioning.EventPhaseFailed:
		o.program.Send(PhaseMsg{Phase: event.Phase, Err: fmt.Errorf("%s", event.Message)})
	case provisioning.EventResourceExists:
		o.program.Send(PhaseMsg{Phase: event.Phase, Detail: fmt.Sprintf("%s exists", event.Resource)})
	case provisioning.EventSecretPublished:
		o.program.Send(SecretMsg{Name: event.Resource})
	case provisioning.EventSecretSkipped:
		o.program.Send(SecretMsg{Name: event.Resource, Skipped: true})
	}
}

// RunUpTUI wraps the provisioning run with a Bubble Tea TUI. runFn receives an
// observer wired to the program and blocks until provisioning finishes.
func RunUpTUI(runFn func(obs provisioning.Observer) error, clusterName, region string, withCluster bool) error {
	m := NewUpModel(clusterName, region, withCluster)

	p := tea.NewProgram(m, tea.WithAltScreen())

	go func() {
		if err := runFn(NewProgramObserver(p)); err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	return nil
}

// RunDoctorTUI runs the doctor command with a Bubble Tea TUI, polling probeFn
// until the user quits.
func RunDoctorTUI(ctx context.Context, probeFn func(context.Context) (HealthMsg, error), clusterName string) error {
	m := NewDoctorModel(clusterName)

	p := tea.NewProgram(m, tea.WithAltScreen())

	go func() {
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()

		probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		msg, err := probeFn(probeCtx)
		cancel()
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(msg)

		for {
			select {
			case <-ctx.Done():
				p.Send(ErrMsg{Err: ctx.Err()})
				return
			case <-ticker.C:
				msg, err := probeFn(ctx)
				if err != nil {
					p.Send(ErrMsg{Err: err})
					return
				}
				p.Send(msg)
			}
		}
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	return nil
}

// RenderDoctorOnce renders doctor output once using lipgloss (non-watch mode).
func RenderDoctorOnce(health HealthMsg, clusterName string) string {
	m := NewDoctorModel(clusterName)
	m.updateHealth(health)
	return renderView(m)
}
