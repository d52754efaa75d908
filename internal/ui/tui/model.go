package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Phase represents a provisioning phase for display.
type Phase struct {
	Name    string
	Key     string
	Done    bool
	Active  bool
	Skipped bool
	Detail  string
	Err     error
}

// Secret represents a published or skipped repository secret for display.
type Secret struct {
	Name    string
	Skipped bool
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	// Target info
	ClusterName string
	Region      string

	// Provisioning phases (up command)
	Phases     []Phase
	PhasesDone bool

	// Secrets published during the secrets phase
	Secrets []Secret

	// Doctor health state
	HasHealth     bool
	NodesTotal    int
	NodesReady    int
	FluxInstalled bool
	FluxPodsReady int
	FluxPodsTotal int
	ToolErrors    []string

	// Animation
	SpinnerFrame int
	StartTime    time.Time

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool

	// Mode
	Mode string // "up", "doctor"
}

// NewUpModel creates a model for the up command TUI. withCluster adds the
// cluster phase to the checklist.
func NewUpModel(clusterName, region string, withCluster bool) Model {
	phases := []Phase{
		{Name: "State Bucket", Key: "bucket"},
		{Name: "Mail Credentials", Key: "mail"},
		{Name: "Repository Secrets", Key: "secrets"},
		{Name: "Project & Labels", Key: "project"},
	}
	if withCluster {
		phases = append(phases, Phase{Name: "Kubernetes Cluster", Key: "cluster"})
	}
	return Model{
		ClusterName: clusterName,
		Region:      region,
		StartTime:   time.Now(),
		Mode:        "up",
		Phases:      phases,
	}
}

// NewDoctorModel creates a model for the doctor command TUI.
func NewDoctorModel(clusterName string) Model {
	return Model{
		ClusterName: clusterName,
		StartTime:   time.Now(),
		Mode:        "doctor",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case PhaseMsg:
		m.updatePhase(msg)
		if msg.Err != nil {
			m.Err = msg.Err
			return m, tea.Quit
		}
		if m.PhasesDone {
			m.Done = true
			return m, tea.Quit
		}

	case SecretMsg:
		m.Secrets = append(m.Secrets, Secret{Name: msg.Name, Skipped: msg.Skipped})

	case HealthMsg:
		m.updateHealth(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updatePhase(msg PhaseMsg) {
	idx := -1
	for i, phase := range m.Phases {
		if phase.Key == msg.Phase {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	// Mark previous phases as done
	for i := 0; i < idx; i++ {
		m.Phases[i].Done = true
		m.Phases[i].Active = false
	}

	if msg.Done {
		m.Phases[idx].Done = true
		m.Phases[idx].Active = false
		m.Phases[idx].Skipped = msg.Skipped
		if idx == len(m.Phases)-1 {
			m.PhasesDone = true
		}
	} else {
		m.Phases[idx].Active = true
	}
	if msg.Detail != "" {
		m.Phases[idx].Detail = msg.Detail
	}
	if msg.Err != nil {
		m.Phases[idx].Err = msg.Err
	}
}

func (m *Model) updateHealth(msg HealthMsg) {
	m.HasHealth = true
	m.NodesTotal = msg.NodesTotal
	m.NodesReady = msg.NodesReady
	m.FluxInstalled = msg.FluxInstalled
	m.FluxPodsReady = msg.FluxPodsReady
	m.FluxPodsTotal = msg.FluxPodsTotal
	m.ToolErrors = msg.ToolErrors
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
