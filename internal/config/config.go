package config

// Config is the root project configuration.
//
// It is created once by the init wizard, persisted as JSON, and read by every
// subsequent command. Commands never mutate it; edits are made by the user.
type Config struct {
	Project      Project       `json:"project"`
	Environments []Environment `json:"environments"`
	Applications []string      `json:"applications"`
	Github       Github        `json:"github"`
	Settings     Settings      `json:"settings"`
}

// Project identifies the project being bootstrapped.
type Project struct {
	// Name is a DNS-safe project identifier. It becomes the cluster name
	// prefix, the Spaces bucket prefix, and the Flux cluster directory name.
	Name string `json:"name"`

	// Domain is the apex domain all application hostnames hang off.
	Domain string `json:"domain"`

	// Email receives Let's Encrypt expiry notices and is the Keycloak
	// admin contact.
	Email string `json:"email"`
}

// Environment describes one deployment target (e.g. staging, production).
type Environment struct {
	Name    string      `json:"name"`
	Cluster ClusterSpec `json:"cluster"`

	// Domain overrides the project domain for this environment.
	// Empty means "<name>.<project domain>".
	Domain string `json:"domain,omitempty"`
}

// ClusterSpec describes the managed Kubernetes cluster for an environment.
type ClusterSpec struct {
	Region    string `json:"region"`
	NodeSize  string `json:"nodeSize"`
	NodeCount int    `json:"nodeCount"`
}

// Github locates the repository that receives Actions secrets and the
// eject pull request.
type Github struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// Settings holds template values that have no home elsewhere.
type Settings struct {
	// Realm is the Keycloak realm name. Defaults to the project name.
	Realm string `json:"realm,omitempty"`

	// Retention is the Velero backup retention period, e.g. "720h".
	Retention string `json:"retention,omitempty"`
}

// KnownApplications lists every application the template can deploy.
// The wizard multi-select and validation both derive from this list.
var KnownApplications = []string{
	"keycloak",
	"mattermost",
	"nextcloud",
	"mailu",
	"kong",
	"velero",
	"cloudnative-pg",
	"external-secrets",
}

// DefaultApplications are preselected in the wizard.
var DefaultApplications = []string{
	"keycloak",
	"kong",
	"velero",
	"cloudnative-pg",
	"external-secrets",
}

const (
	// DefaultRetention is the Velero backup retention applied when the
	// user does not choose one (30 days).
	DefaultRetention = "720h"

	// DefaultNodeCount matches the template's Terraform default.
	DefaultNodeCount = 3

	// DefaultNodeSize matches the template's Terraform default.
	DefaultNodeSize = "s-4vcpu-8gb"

	// DefaultRegion matches the template's Terraform default.
	DefaultRegion = "fra1"
)

// ClusterName returns the Flux cluster directory name for an environment:
// "<project>-<environment>".
func (c *Config) ClusterName(env Environment) string {
	return c.Project.Name + "-" + env.Name
}

// StateBucket returns the Spaces bucket name holding Terraform state.
func (c *Config) StateBucket() string {
	return c.Project.Name + "-tfstate"
}

// MailUser returns the IAM user name backing the SMTP credentials.
func (c *Config) MailUser() string {
	return c.Project.Name + "-mailer"
}

// EnvironmentDomain returns the effective domain for an environment.
func (c *Config) EnvironmentDomain(env Environment) string {
	if env.Domain != "" {
		return env.Domain
	}
	return env.Name + "." + c.Project.Domain
}

// Realm returns the Keycloak realm, defaulting to the project name.
func (c *Config) Realm() string {
	if c.Settings.Realm != "" {
		return c.Settings.Realm
	}
	return c.Project.Name
}

// Retention returns the backup retention, defaulting to DefaultRetention.
func (c *Config) Retention() string {
	if c.Settings.Retention != "" {
		return c.Settings.Retention
	}
	return DefaultRetention
}
