package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ValidRegions contains all valid DigitalOcean datacenter region slugs.
// https://docs.digitalocean.com/platform/regional-availability/
var ValidRegions = map[string]bool{
	"nyc1": true, // New York City, USA
	"nyc3": true, // New York City, USA
	"ams3": true, // Amsterdam, Netherlands
	"sfo3": true, // San Francisco, USA
	"sgp1": true, // Singapore
	"lon1": true, // London, UK
	"fra1": true, // Frankfurt, Germany
	"tor1": true, // Toronto, Canada
	"blr1": true, // Bangalore, India
	"syd1": true, // Sydney, Australia
}

var (
	// namePattern is the DNS-label rule applied to project and
	// environment names.
	namePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

	// domainLabelPattern validates a single label of a domain name.
	domainLabelPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

	// nodeSizePattern matches DigitalOcean Droplet size slugs like
	// "s-4vcpu-8gb" or "g-8vcpu-32gb".
	nodeSizePattern = regexp.MustCompile(`^[a-z]+-[0-9]+vcpu-[0-9]+gb$`)
)

// Validate checks the configuration for common errors. It runs before any
// external call so an invalid config never reaches a cloud API.
func (c *Config) Validate() error {
	if err := c.validateProject(); err != nil {
		return fmt.Errorf("project validation failed: %w", err)
	}
	if err := c.validateEnvironments(); err != nil {
		return fmt.Errorf("environment validation failed: %w", err)
	}
	if err := c.validateApplications(); err != nil {
		return fmt.Errorf("application validation failed: %w", err)
	}
	if err := c.validateGithub(); err != nil {
		return fmt.Errorf("github validation failed: %w", err)
	}
	return nil
}

func (c *Config) validateProject() error {
	if c.Project.Name == "" {
		return fmt.Errorf("project.name is required")
	}
	if !namePattern.MatchString(c.Project.Name) {
		return fmt.Errorf("invalid project name %q: must be lowercase DNS-safe (letters, digits, hyphens)", c.Project.Name)
	}
	if len(c.Project.Name) > 32 {
		return fmt.Errorf("project name %q too long: 32 characters max", c.Project.Name)
	}
	if err := ValidateDomain(c.Project.Domain); err != nil {
		return err
	}
	if err := validateEmail(c.Project.Email); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEnvironments() error {
	if len(c.Environments) == 0 {
		return fmt.Errorf("at least one environment is required")
	}
	seen := make(map[string]bool, len(c.Environments))
	for _, env := range c.Environments {
		if !namePattern.MatchString(env.Name) {
			return fmt.Errorf("invalid environment name %q: must be lowercase DNS-safe", env.Name)
		}
		if seen[env.Name] {
			return fmt.Errorf("duplicate environment name %q", env.Name)
		}
		seen[env.Name] = true

		if !ValidRegions[env.Cluster.Region] {
			return fmt.Errorf("environment %q has invalid region %q: must be one of %s",
				env.Name, env.Cluster.Region, strings.Join(regionSlugs(), ", "))
		}
		if !nodeSizePattern.MatchString(env.Cluster.NodeSize) {
			return fmt.Errorf("environment %q has invalid node size %q (expected a slug like %s)",
				env.Name, env.Cluster.NodeSize, DefaultNodeSize)
		}
		if env.Cluster.NodeCount < 1 || env.Cluster.NodeCount > 20 {
			return fmt.Errorf("environment %q has invalid node count %d: must be 1-20",
				env.Name, env.Cluster.NodeCount)
		}
		if env.Domain != "" {
			if err := ValidateDomain(env.Domain); err != nil {
				return fmt.Errorf("environment %q: %w", env.Name, err)
			}
		}
	}
	return nil
}

func (c *Config) validateApplications() error {
	known := make(map[string]bool, len(KnownApplications))
	for _, app := range KnownApplications {
		known[app] = true
	}
	for _, app := range c.Applications {
		if !known[app] {
			return fmt.Errorf("unknown application %q: must be one of %s",
				app, strings.Join(KnownApplications, ", "))
		}
	}
	return nil
}

func (c *Config) validateGithub() error {
	if c.Github.Owner == "" {
		return fmt.Errorf("github.owner is required")
	}
	if c.Github.Repo == "" {
		return fmt.Errorf("github.repo is required")
	}
	return nil
}

// ValidateDomain checks that a domain looks like a resolvable DNS name:
// at least two dot-separated labels, lowercase letters, digits and hyphens
// only, no leading or trailing hyphen in any label.
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain is required")
	}
	if len(domain) > 253 {
		return fmt.Errorf("invalid domain %q: 253 characters max", domain)
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return fmt.Errorf("invalid domain %q: must contain at least one dot", domain)
	}
	for _, label := range labels {
		if label == "" {
			return fmt.Errorf("invalid domain %q: empty label", domain)
		}
		if len(label) > 63 {
			return fmt.Errorf("invalid domain %q: label %q exceeds 63 characters", domain, label)
		}
		if !domainLabelPattern.MatchString(label) {
			return fmt.Errorf("invalid domain %q: label %q contains disallowed characters", domain, label)
		}
	}
	return nil
}

// validateEmail applies a deliberately loose check: one "@", a non-empty
// local part, and a valid domain on the right.
func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return fmt.Errorf("invalid email %q", email)
	}
	if err := ValidateDomain(email[at+1:]); err != nil {
		return fmt.Errorf("invalid email %q: %w", email, err)
	}
	return nil
}

// regionSlugs returns the valid region slugs sorted for error messages.
func regionSlugs() []string {
	slugs := make([]string, 0, len(ValidRegions))
	for slug := range ValidRegions {
		slugs = append(slugs, slug)
	}
	// Deterministic order for stable error output.
	sort.Strings(slugs)
	return slugs
}
