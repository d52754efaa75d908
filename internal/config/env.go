package config

import (
	"fmt"
	"os"
	"strings"
)

// Credentials carries every token the provisioning workflow needs.
//
// Environment variables are read here and nowhere else; every provisioning
// function receives this struct explicitly instead of consulting the process
// environment at arbitrary points.
type Credentials struct {
	// DigitalOceanToken authenticates godo calls (DOKS, projects,
	// Spaces keys).
	DigitalOceanToken string

	// SpacesAccessKey and SpacesSecretKey authenticate the S3-compatible
	// Spaces API for bucket provisioning.
	SpacesAccessKey string
	SpacesSecretKey string

	// AWSAccessKeyID and AWSSecretAccessKey authenticate IAM calls for
	// SES credential provisioning. AWSRegion defaults to us-east-1.
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string

	// GithubToken authenticates secret publishing, label creation and
	// pull requests.
	GithubToken string
}

// FromEnv reads credentials from the environment.
func FromEnv() Credentials {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	return Credentials{
		DigitalOceanToken:  os.Getenv("DIGITALOCEAN_TOKEN"),
		SpacesAccessKey:    os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey:    os.Getenv("SPACES_SECRET_KEY"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          region,
		GithubToken:        os.Getenv("GITHUB_TOKEN"),
	}
}

// Require returns an error listing every named credential that is empty.
// Names use the environment-variable spelling the user must set.
func (c Credentials) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if c.lookup(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c Credentials) lookup(name string) string {
	switch name {
	case "DIGITALOCEAN_TOKEN":
		return c.DigitalOceanToken
	case "SPACES_ACCESS_KEY":
		return c.SpacesAccessKey
	case "SPACES_SECRET_KEY":
		return c.SpacesSecretKey
	case "AWS_ACCESS_KEY_ID":
		return c.AWSAccessKeyID
	case "AWS_SECRET_ACCESS_KEY":
		return c.AWSSecretAccessKey
	case "GITHUB_TOKEN":
		return c.GithubToken
	}
	return ""
}
