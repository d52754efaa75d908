package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/oceanforge/oceanforge/internal/config"
	"github.com/oceanforge/oceanforge/internal/k8s"
	"github.com/oceanforge/oceanforge/internal/ui/tui"
	"github.com/oceanforge/oceanforge/internal/util/prerequisites"
)

// DoctorStatus represents the project diagnostic status.
type DoctorStatus struct {
	Project     string             `json:"project"`
	Environment string             `json:"environment"`
	ClusterName string             `json:"clusterName"`
	Region      string             `json:"region"`
	Tools       []ToolStatus       `json:"tools"`
	Credentials []CredentialStatus `json:"credentials"`
	Cluster     *ClusterHealth     `json:"cluster,omitempty"`
}

// ToolStatus reports one client tool on the PATH.
type ToolStatus struct {
	Name     string `json:"name"`
	Found    bool   `json:"found"`
	Version  string `json:"version,omitempty"`
	Required bool   `json:"required"`
}

// CredentialStatus reports whether a credential is present in the environment.
type CredentialStatus struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
}

// ClusterHealth reports node and Flux controller readiness.
type ClusterHealth struct {
	NodesTotal    int  `json:"nodesTotal"`
	NodesReady    int  `json:"nodesReady"`
	FluxInstalled bool `json:"fluxInstalled"`
	FluxPodsReady int  `json:"fluxPodsReady"`
	FluxPodsTotal int  `json:"fluxPodsTotal"`
}

// credentialNames are the environment credentials doctor reports on.
var credentialNames = []string{
	"DIGITALOCEAN_TOKEN",
	"SPACES_ACCESS_KEY",
	"SPACES_SECRET_KEY",
	"AWS_ACCESS_KEY_ID",
	"AWS_SECRET_ACCESS_KEY",
	"GITHUB_TOKEN",
}

// Factory function variables for doctor - can be replaced in tests.
var (
	// checkAllPrereqs checks every known client tool.
	checkAllPrereqs = prerequisites.CheckAll

	// newHealthProbe creates the cluster health probe from a kubeconfig.
	newHealthProbe = func(kubeconfigPath string) (healthProber, error) {
		return k8s.NewClient(kubeconfigPath)
	}

	// statFile checks for a file's existence.
	statFile = os.Stat

	// runDoctorTUI runs the live doctor dashboard.
	runDoctorTUI = tui.RunDoctorTUI
)

// healthProber is the probe surface doctor needs; satisfied by *k8s.Client.
type healthProber interface {
	Probe(ctx context.Context) (*k8s.Health, error)
}

// Doctor diagnoses the project configuration, client tools, credentials and,
// when a kubeconfig is available, cluster health.
func Doctor(ctx context.Context, configPath, envName, kubeconfigPath string, watch, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	env, err := selectEnvironment(cfg, envName)
	if err != nil {
		return err
	}

	status := &DoctorStatus{
		Project:     cfg.Project.Name,
		Environment: env.Name,
		ClusterName: cfg.ClusterName(env),
		Region:      env.Cluster.Region,
		Tools:       toolStatuses(),
		Credentials: credentialStatuses(readCredentials()),
	}

	var probe healthProber
	if _, err := statFile(kubeconfigPath); err == nil {
		probe, err = newHealthProbe(kubeconfigPath)
		if err != nil {
			return fmt.Errorf("failed to create cluster client: %w", err)
		}
	}

	if watch && probe != nil && isInteractiveTTY() {
		return runDoctorTUI(ctx, func(ctx context.Context) (tui.HealthMsg, error) {
			health, err := probe.Probe(ctx)
			if err != nil {
				return tui.HealthMsg{}, err
			}
			return healthMsg(health, status.Tools), nil
		}, status.ClusterName)
	}

	var health *k8s.Health
	if probe != nil {
		health, err = probe.Probe(ctx)
		if err != nil {
			return fmt.Errorf("cluster probe failed: %w", err)
		}
		status.Cluster = &ClusterHealth{
			NodesTotal:    health.NodesTotal,
			NodesReady:    health.NodesReady,
			FluxInstalled: health.FluxInstalled,
			FluxPodsReady: health.FluxPodsReady,
			FluxPodsTotal: health.FluxPodsTotal,
		}
	}

	if jsonOutput {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	// On a terminal the cluster section gets the styled snapshot the
	// watch mode renders, after the plain tool and credential report.
	if health != nil && isInteractiveTTY() {
		printToolsAndCredentials(status)
		fmt.Println(tui.RenderDoctorOnce(healthMsg(health, status.Tools), status.ClusterName))
		return nil
	}

	printDoctorStatus(status)
	return nil
}

// toolStatuses converts prerequisite check results for reporting.
func toolStatuses() []ToolStatus {
	results := checkAllPrereqs()
	statuses := make([]ToolStatus, 0, len(results.Results))
	for _, r := range results.Results {
		statuses = append(statuses, ToolStatus{
			Name:     r.Tool.Name,
			Found:    r.Found,
			Version:  r.Version,
			Required: r.Tool.Required,
		})
	}
	return statuses
}

// credentialStatuses reports per-credential presence without values.
func credentialStatuses(creds config.Credentials) []CredentialStatus {
	statuses := make([]CredentialStatus, 0, len(credentialNames))
	for _, name := range credentialNames {
		statuses = append(statuses, CredentialStatus{
			Name:    name,
			Present: creds.Require(name) == nil,
		})
	}
	return statuses
}

// healthMsg converts a probe result and missing tools into a TUI message.
func healthMsg(health *k8s.Health, tools []ToolStatus) tui.HealthMsg {
	msg := tui.HealthMsg{
		NodesTotal:    health.NodesTotal,
		NodesReady:    health.NodesReady,
		FluxInstalled: health.FluxInstalled,
		FluxPodsReady: health.FluxPodsReady,
		FluxPodsTotal: health.FluxPodsTotal,
	}
	for _, tool := range tools {
		if tool.Required && !tool.Found {
			msg.ToolErrors = append(msg.ToolErrors, fmt.Sprintf("%s: not found in PATH", tool.Name))
		}
	}
	return msg
}

func printToolsAndCredentials(status *DoctorStatus) {
	fmt.Printf("Project %s, environment %s (%s)\n", status.Project, status.Environment, status.Region)
	fmt.Println()

	fmt.Println("Tools")
	for _, tool := range status.Tools {
		printRow(tool.Name, tool.Found, tool.Version)
	}
	fmt.Println()

	fmt.Println("Credentials")
	for _, cred := range status.Credentials {
		extra := ""
		if !cred.Present {
			extra = "not set"
		}
		printRow(cred.Name, cred.Present, extra)
	}
	fmt.Println()
}

func printDoctorStatus(status *DoctorStatus) {
	printToolsAndCredentials(status)

	if status.Cluster == nil {
		fmt.Println("Cluster: no kubeconfig found, skipping probe")
		return
	}

	fmt.Printf("Cluster %s\n", status.ClusterName)
	c := status.Cluster
	printRow("nodes ready", c.NodesTotal > 0 && c.NodesReady == c.NodesTotal,
		fmt.Sprintf("%d/%d", c.NodesReady, c.NodesTotal))
	printRow("flux installed", c.FluxInstalled, "")
	if c.FluxInstalled {
		printRow("flux controllers", c.FluxPodsTotal > 0 && c.FluxPodsReady == c.FluxPodsTotal,
			fmt.Sprintf("%d/%d", c.FluxPodsReady, c.FluxPodsTotal))
	}
}

func printRow(name string, ok bool, extra string) {
	indicator := "[OK]"
	if !ok {
		indicator = "[!!]"
	}

	if extra != "" {
		fmt.Printf("  %s  %-22s %s\n", indicator, name, extra)
	} else {
		fmt.Printf("  %s  %s\n", indicator, name)
	}
}

// isInteractiveTTY reports whether stdout is a terminal; a var so tests can
// force either mode.
var isInteractiveTTY = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
