package config

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
)

// WizardResult holds the user's choices from the init wizard.
type WizardResult struct {
	ProjectName string
	Domain      string
	Email       string
	GithubOwner string
	GithubRepo  string

	EnvNames  []string
	Region    string
	NodeSize  string
	NodeCount string

	Applications []string
	Retention    string
}

// RunWizard runs the interactive configuration wizard.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		// Defaults
		EnvNames:     []string{"production"},
		Region:       DefaultRegion,
		NodeSize:     DefaultNodeSize,
		NodeCount:    strconv.Itoa(DefaultNodeCount),
		Applications: append([]string(nil), DefaultApplications...),
		Retention:    DefaultRetention,
	}

	form := huh.NewForm(
		// Project identity
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("A unique name for your project (DNS-safe, lowercase)").
				Placeholder("my-project").
				Value(&result.ProjectName).
				Validate(validateWizardName),
			huh.NewInput().
				Title("Domain").
				Description("Apex domain for application hostnames").
				Placeholder("example.com").
				Value(&result.Domain).
				Validate(ValidateDomain),
			huh.NewInput().
				Title("Email").
				Description("Let's Encrypt and admin contact address").
				Placeholder("ops@example.com").
				Value(&result.Email).
				Validate(validateEmail),
		),

		// GitHub repository
		huh.NewGroup(
			huh.NewInput().
				Title("GitHub owner").
				Description("User or organization owning the template repository").
				Value(&result.GithubOwner).
				Validate(requireValue("GitHub owner")),
			huh.NewInput().
				Title("GitHub repository").
				Description("Repository name that receives Actions secrets").
				Value(&result.GithubRepo).
				Validate(requireValue("GitHub repository")),
		),

		// Environments
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Environments").
				Description("Deployment targets to configure").
				Options(
					huh.NewOption("production", "production").Selected(true),
					huh.NewOption("staging", "staging"),
					huh.NewOption("development", "development"),
				).
				Value(&result.EnvNames).
				Validate(func(envs []string) error {
					if len(envs) == 0 {
						return fmt.Errorf("select at least one environment")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Region").
				Description("DigitalOcean datacenter region").
				Options(
					huh.NewOption("Frankfurt, Germany (fra1)", "fra1"),
					huh.NewOption("Amsterdam, Netherlands (ams3)", "ams3"),
					huh.NewOption("London, UK (lon1)", "lon1"),
					huh.NewOption("New York, USA (nyc3)", "nyc3"),
					huh.NewOption("San Francisco, USA (sfo3)", "sfo3"),
					huh.NewOption("Singapore (sgp1)", "sgp1"),
					huh.NewOption("Sydney, Australia (syd1)", "syd1"),
				).
				Value(&result.Region),
			huh.NewSelect[string]().
				Title("Node size").
				Description("Droplet size for cluster worker nodes").
				Options(
					huh.NewOption("Basic - 2 vCPU, 4GB RAM (s-2vcpu-4gb)", "s-2vcpu-4gb"),
					huh.NewOption("Basic - 4 vCPU, 8GB RAM (s-4vcpu-8gb)", "s-4vcpu-8gb"),
					huh.NewOption("General - 4 vCPU, 16GB RAM (g-4vcpu-16gb)", "g-4vcpu-16gb"),
					huh.NewOption("General - 8 vCPU, 32GB RAM (g-8vcpu-32gb)", "g-8vcpu-32gb"),
				).
				Value(&result.NodeSize),
			huh.NewInput().
				Title("Node count").
				Description("Worker nodes per cluster (1-20)").
				Value(&result.NodeCount).
				Validate(validateWizardNodeCount),
		),

		// Applications
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Applications").
				Description("Applications Flux will deploy").
				Options(applicationOptions()...).
				Value(&result.Applications),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// ToConfig converts wizard answers into a Config.
func (r *WizardResult) ToConfig() *Config {
	count, err := strconv.Atoi(r.NodeCount)
	if err != nil || count < 1 {
		count = DefaultNodeCount
	}

	envs := make([]Environment, 0, len(r.EnvNames))
	for _, name := range r.EnvNames {
		envs = append(envs, Environment{
			Name: name,
			Cluster: ClusterSpec{
				Region:    r.Region,
				NodeSize:  r.NodeSize,
				NodeCount: count,
			},
		})
	}

	return &Config{
		Project: Project{
			Name:   r.ProjectName,
			Domain: r.Domain,
			Email:  r.Email,
		},
		Environments: envs,
		Applications: r.Applications,
		Github: Github{
			Owner: r.GithubOwner,
			Repo:  r.GithubRepo,
		},
		Settings: Settings{
			Retention: r.Retention,
		},
	}
}

func applicationOptions() []huh.Option[string] {
	preselected := make(map[string]bool, len(DefaultApplications))
	for _, app := range DefaultApplications {
		preselected[app] = true
	}
	opts := make([]huh.Option[string], 0, len(KnownApplications))
	for _, app := range KnownApplications {
		opts = append(opts, huh.NewOption(app, app).Selected(preselected[app]))
	}
	return opts
}

func validateWizardName(name string) error {
	if name == "" {
		return fmt.Errorf("project name is required")
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("must be lowercase letters, digits and hyphens")
	}
	if len(name) > 32 {
		return fmt.Errorf("32 characters max")
	}
	return nil
}

func validateWizardNodeCount(value string) error {
	count, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if count < 1 || count > 20 {
		return fmt.Errorf("must be between 1 and 20")
	}
	return nil
}

func requireValue(field string) func(string) error {
	return func(value string) error {
		if value == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
