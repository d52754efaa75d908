package handlers

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/oceanforge/oceanforge/internal/config"
)

// testConfig returns a valid configuration for handler tests.
func testConfig() *config.Config {
	return &config.Config{
		Project: config.Project{
			Name:   "demo",
			Domain: "example.com",
			Email:  "admin@example.com",
		},
		Environments: []config.Environment{
			{
				Name: "staging",
				Cluster: config.ClusterSpec{
					Region:    "fra1",
					NodeSize:  "s-4vcpu-8gb",
					NodeCount: 3,
				},
			},
			{
				Name: "production",
				Cluster: config.ClusterSpec{
					Region:    "ams3",
					NodeSize:  "s-4vcpu-8gb",
					NodeCount: 3,
				},
			},
		},
		Applications: []string{"keycloak"},
		Github: config.Github{
			Owner: "acme",
			Repo:  "demo-gitops",
		},
	}
}

// useTestConfig routes config loading to an in-memory config for the test.
func useTestConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	origFind := findConfigFile
	origLoad := loadConfigFile
	findConfigFile = func(path string) (string, error) { return "oceanforge.json", nil }
	loadConfigFile = func(path string) (*config.Config, error) { return cfg, nil }
	t.Cleanup(func() {
		findConfigFile = origFind
		loadConfigFile = origLoad
	})
}

// useTestCredentials routes credential reading to a fixed set for the test.
func useTestCredentials(t *testing.T, creds config.Credentials) {
	t.Helper()
	orig := readCredentials
	readCredentials = func() config.Credentials { return creds }
	t.Cleanup(func() { readCredentials = orig })
}

// fullCredentials returns a credential set with every value present.
func fullCredentials() config.Credentials {
	return config.Credentials{
		DigitalOceanToken:  "do-token",
		SpacesAccessKey:    "spaces-key",
		SpacesSecretKey:    "spaces-secret",
		AWSAccessKeyID:     "aws-key",
		AWSSecretAccessKey: "aws-secret",
		AWSRegion:          "us-east-1",
		GithubToken:        "gh-token",
	}
}

func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}
