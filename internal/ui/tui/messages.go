// Package tui provides a Bubble Tea terminal UI for provisioning and doctor.
package tui

// PhaseMsg reports progress of a provisioning phase.
type PhaseMsg struct {
	Phase   string
	Done    bool
	Skipped bool
	Detail  string
	Err     error
}

// SecretMsg reports a repository secret being published or skipped.
type SecretMsg struct {
	Name    string
	Skipped bool
}

// HealthMsg carries the latest cluster health from the doctor probe.
type HealthMsg struct {
	NodesTotal    int
	NodesReady    int
	FluxInstalled bool
	FluxPodsReady int
	FluxPodsTotal int
	ToolErrors    []string
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
