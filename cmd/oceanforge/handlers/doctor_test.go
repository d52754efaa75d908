package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanforge/oceanforge/internal/config"
	"github.com/oceanforge/oceanforge/internal/k8s"
	"github.com/oceanforge/oceanforge/internal/util/prerequisites"
)

type fakeProbe struct {
	health *k8s.Health
	err    error
}

func (f *fakeProbe) Probe(context.Context) (*k8s.Health, error) {
	return f.health, f.err
}

// saveAndRestoreDoctorFactories saves and restores doctor factory functions.
func saveAndRestoreDoctorFactories(t *testing.T) {
	t.Helper()
	origCheck := checkAllPrereqs
	origProbe := newHealthProbe
	origStat := statFile
	origTTY := isInteractiveTTY

	t.Cleanup(func() {
		checkAllPrereqs = origCheck
		newHealthProbe = origProbe
		statFile = origStat
		isInteractiveTTY = origTTY
	})
}

func stubPrereqs() *prerequisites.CheckResults {
	return &prerequisites.CheckResults{
		Results: []prerequisites.CheckResult{
			{Tool: prerequisites.Tool{Name: "git", Required: true}, Found: true, Version: "2.43.0"},
			{Tool: prerequisites.Tool{Name: "kubectl", Required: true}, Found: false},
		},
		Missing: []prerequisites.Tool{
			{Name: "kubectl", Required: true},
		},
	}
}

func TestDoctor_PreCluster(t *testing.T) {
	useTestConfig(t, testConfig())
	useTestCredentials(t, config.Credentials{DigitalOceanToken: "do-token"})
	saveAndRestoreDoctorFactories(t)

	checkAllPrereqs = stubPrereqs
	statFile = func(string) (os.FileInfo, error) { return nil, os.ErrNotExist }

	output := captureOutput(func() {
		err := Doctor(context.Background(), "", "staging", "kubeconfig", false, false)
		require.NoError(t, err)
	})

	assert.Contains(t, output, "demo")
	assert.Contains(t, output, "git")
	assert.Contains(t, output, "DIGITALOCEAN_TOKEN")
	assert.Contains(t, output, "no kubeconfig found")
}

func TestDoctor_ClusterMode(t *testing.T) {
	useTestConfig(t, testConfig())
	useTestCredentials(t, fullCredentials())
	saveAndRestoreDoctorFactories(t)

	checkAllPrereqs = stubPrereqs
	statFile = func(string) (os.FileInfo, error) { return nil, nil }
	newHealthProbe = func(string) (healthProber, error) {
		return &fakeProbe{health: &k8s.Health{
			NodesTotal:    3,
			NodesReady:    3,
			FluxInstalled: true,
			FluxPodsReady: 4,
			FluxPodsTotal: 4,
		}}, nil
	}

	output := captureOutput(func() {
		err := Doctor(context.Background(), "", "", "kubeconfig", false, false)
		require.NoError(t, err)
	})

	assert.Contains(t, output, "Cluster demo-staging")
	assert.Contains(t, output, "3/3")
	assert.Contains(t, output, "4/4")
}

func TestDoctor_TerminalClusterModeRendersStyledSnapshot(t *testing.T) {
	useTestConfig(t, testConfig())
	useTestCredentials(t, fullCredentials())
	saveAndRestoreDoctorFactories(t)

	checkAllPrereqs = stubPrereqs
	statFile = func(string) (os.FileInfo, error) { return nil, nil }
	isInteractiveTTY = func() bool { return true }
	newHealthProbe = func(string) (healthProber, error) {
		return &fakeProbe{health: &k8s.Health{
			NodesTotal:    3,
			NodesReady:    3,
			FluxInstalled: true,
			FluxPodsReady: 4,
			FluxPodsTotal: 4,
		}}, nil
	}

	output := captureOutput(func() {
		err := Doctor(context.Background(), "", "staging", "kubeconfig", false, false)
		require.NoError(t, err)
	})

	// Tool and credential report stays plain; the cluster section comes
	// from the one-shot dashboard render.
	assert.Contains(t, output, "Tools")
	assert.Contains(t, output, "Credentials")
	assert.Contains(t, output, "oceanforge: demo-staging")
	assert.Contains(t, output, "Installed")
}

func TestDoctor_JSONOutput(t *testing.T) {
	useTestConfig(t, testConfig())
	useTestCredentials(t, fullCredentials())
	saveAndRestoreDoctorFactories(t)

	checkAllPrereqs = stubPrereqs
	statFile = func(string) (os.FileInfo, error) { return nil, nil }
	newHealthProbe = func(string) (healthProber, error) {
		return &fakeProbe{health: &k8s.Health{NodesTotal: 3, NodesReady: 2}}, nil
	}

	output := captureOutput(func() {
		err := Doctor(context.Background(), "", "", "kubeconfig", false, true)
		require.NoError(t, err)
	})

	var status DoctorStatus
	require.NoError(t, json.Unmarshal([]byte(output), &status))
	assert.Equal(t, "demo", status.Project)
	assert.Equal(t, "demo-staging", status.ClusterName)
	require.NotNil(t, status.Cluster)
	assert.Equal(t, 3, status.Cluster.NodesTotal)
	assert.Equal(t, 2, status.Cluster.NodesReady)
}

func TestDoctor_ProbeError(t *testing.T) {
	useTestConfig(t, testConfig())
	useTestCredentials(t, fullCredentials())
	saveAndRestoreDoctorFactories(t)

	checkAllPrereqs = stubPrereqs
	statFile = func(string) (os.FileInfo, error) { return nil, nil }
	newHealthProbe = func(string) (healthProber, error) {
		return &fakeProbe{err: errors.New("connection refused")}, nil
	}

	var err error
	captureOutput(func() {
		err = Doctor(context.Background(), "", "", "kubeconfig", false, false)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster probe failed")
}

func TestCredentialStatuses(t *testing.T) {
	statuses := credentialStatuses(config.Credentials{
		DigitalOceanToken: "token",
		GithubToken:       "gh",
	})

	byName := map[string]bool{}
	for _, s := range statuses {
		byName[s.Name] = s.Present
	}

	assert.True(t, byName["DIGITALOCEAN_TOKEN"])
	assert.True(t, byName["GITHUB_TOKEN"])
	assert.False(t, byName["SPACES_ACCESS_KEY"])
	assert.False(t, byName["AWS_SECRET_ACCESS_KEY"])
}

func TestHealthMsg_ToolErrors(t *testing.T) {
	msg := healthMsg(&k8s.Health{NodesTotal: 1, NodesReady: 1}, []ToolStatus{
		{Name: "git", Required: true, Found: true},
		{Name: "kubectl", Required: true, Found: false},
		{Name: "doctl", Required: false, Found: false},
	})

	require.Len(t, msg.ToolErrors, 1)
	assert.Contains(t, msg.ToolErrors[0], "kubectl")
}
