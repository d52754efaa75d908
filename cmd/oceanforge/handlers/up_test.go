package handlers

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanforge/oceanforge/internal/config"
	"github.com/oceanforge/oceanforge/internal/platform/do"
	gh "github.com/oceanforge/oceanforge/internal/platform/github"
	"github.com/oceanforge/oceanforge/internal/platform/ses"
	"github.com/oceanforge/oceanforge/internal/provisioning"
	"github.com/oceanforge/oceanforge/internal/util/prerequisites"
)

type fakeSpacesService struct {
	exists    bool
	createErr error
	created   []string
	objects   map[string][]byte
}

func (f *fakeSpacesService) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.exists, nil
}

func (f *fakeSpacesService) CreateBucket(_ context.Context, name string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, name)
	return nil
}

func (f *fakeSpacesService) PutObject(_ context.Context, bucket, key string, data []byte) error {
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[bucket+"/"+key] = data
	return nil
}

func (f *fakeSpacesService) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	return f.objects[bucket+"/"+key], nil
}

type fakeMailService struct {
	hasKeys bool
}

func (f *fakeMailService) EnsureUser(context.Context, string) (bool, error) { return false, nil }

func (f *fakeMailService) AttachSendPolicy(context.Context, string) error { return nil }

func (f *fakeMailService) HasAccessKeys(context.Context, string) (bool, error) {
	return f.hasKeys, nil
}

func (f *fakeMailService) CreateSMTPCredentials(context.Context, string) (*ses.SMTPCredentials, error) {
	return &ses.SMTPCredentials{Username: "AKIAEXAMPLE", Password: "smtp-pass"}, nil
}

type fakeSecretStore struct {
	secrets map[string]string
}

func (f *fakeSecretStore) PutSecret(_ context.Context, name, value string) error {
	if f.secrets == nil {
		f.secrets = map[string]string{}
	}
	f.secrets[name] = value
	return nil
}

func (f *fakeSecretStore) EnsureLabels(_ context.Context, labels []gh.Label) ([]string, error) {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return names, nil
}

type fakeCloudService struct {
	clusterCalls int
}

func (f *fakeCloudService) EnsureSpacesKey(_ context.Context, name, _ string) (*do.SpacesKey, bool, error) {
	return &do.SpacesKey{Name: name, AccessKey: "DO00SCOPED", SecretKey: "scoped-secret"}, false, nil
}

func (f *fakeCloudService) EnsureProject(context.Context, string) (string, bool, error) {
	return "proj-1", false, nil
}

func (f *fakeCloudService) EnsureCluster(_ context.Context, req do.ClusterRequest) (*do.Cluster, bool, error) {
	f.clusterCalls++
	return &do.Cluster{ID: "c-1", Name: req.Name, Region: req.Region}, false, nil
}

func (f *fakeCloudService) Kubeconfig(context.Context, string) ([]byte, error) {
	return []byte("kubeconfig-data"), nil
}

// upFakes wires fake services into the up factory functions for one test.
type upFakes struct {
	spaces *fakeSpacesService
	mail   *fakeMailService
	store  *fakeSecretStore
	cloud  *fakeCloudService

	written map[string][]byte
}

func installUpFakes(t *testing.T) *upFakes {
	t.Helper()
	fakes := &upFakes{
		spaces:  &fakeSpacesService{},
		mail:    &fakeMailService{},
		store:   &fakeSecretStore{},
		cloud:   &fakeCloudService{},
		written: map[string][]byte{},
	}

	origSpaces := newSpacesClient
	origMail := newMailClient
	origStore := newSecretStore
	origCloud := newCloudClient
	origPrereqs := checkDefaultPrereqs
	origWrite := writeFile
	origConfirm := confirmProvision
	origTTY := isInteractiveTTY

	newSpacesClient = func(context.Context, string, string, string) (provisioning.SpacesService, error) {
		return fakes.spaces, nil
	}
	newMailClient = func(context.Context, string, string, string) (provisioning.MailService, error) {
		return fakes.mail, nil
	}
	newSecretStore = func(context.Context, string, string, string) provisioning.SecretStore {
		return fakes.store
	}
	newCloudClient = func(string) provisioning.CloudService {
		return fakes.cloud
	}
	checkDefaultPrereqs = func() *prerequisites.CheckResults {
		return &prerequisites.CheckResults{}
	}
	writeFile = func(name string, data []byte, perm os.FileMode) error {
		fakes.written[name] = data
		return nil
	}
	confirmProvision = func(string) (bool, error) { return true, nil }
	isInteractiveTTY = func() bool { return false }

	t.Cleanup(func() {
		newSpacesClient = origSpaces
		newMailClient = origMail
		newSecretStore = origStore
		newCloudClient = origCloud
		checkDefaultPrereqs = origPrereqs
		writeFile = origWrite
		confirmProvision = origConfirm
		isInteractiveTTY = origTTY
	})

	return fakes
}

func TestUp_FullRun(t *testing.T) {
	useTestConfig(t, testConfig())
	useTestCredentials(t, fullCredentials())
	fakes := installUpFakes(t)

	output := captureOutput(func() {
		err := Up(context.Background(), "", "staging", true, true, true)
		require.NoError(t, err)
	})

	assert.Equal(t, []string{"demo-tfstate"}, fakes.spaces.created)
	assert.Equal(t, "do-token", fakes.store.secrets["DIGITALOCEAN_TOKEN"])
	assert.Equal(t, "demo-tfstate", fakes.store.secrets["TF_STATE_BUCKET"])
	assert.Equal(t, "DO00SCOPED", fakes.store.secrets["SPACES_ACCESS_KEY"], "fresh scoped key replaces environment credentials")
	assert.Equal(t, "AKIAEXAMPLE", fakes.store.secrets["SMTP_USERNAME"])
	assert.Equal(t, 1, fakes.cloud.clusterCalls)
	assert.Equal(t, []byte("kubeconfig-data"), fakes.written[kubeconfigPath])
	assert.Contains(t, output, "Provisioning complete")
	assert.Contains(t, output, "demo-staging")
}

func TestUp_WithoutCluster(t *testing.T) {
	useTestConfig(t, testConfig())
	useTestCredentials(t, fullCredentials())
	fakes := installUpFakes(t)

	captureOutput(func() {
		err := Up(context.Background(), "", "", false, true, true)
		require.NoError(t, err)
	})

	assert.Zero(t, fakes.cloud.clusterCalls)
	assert.Empty(t, fakes.written)
}

func TestUp_DeclinedConfirmationRunsNoPhases(t *testing.T) {
	useTestConfig(t, testConfig())
	useTestCredentials(t, fullCredentials())
	fakes := installUpFakes(t)
	isInteractiveTTY = func() bool { return true }

	var prompted string
	confirmProvision = func(summary string) (bool, error) {
		prompted = summary
		return false, nil
	}

	output := captureOutput(func() {
		err := Up(context.Background(), "", "staging", true, false, false)
		require.NoError(t, err)
	})

	assert.Contains(t, prompted, "demo-tfstate")
	assert.Contains(t, prompted, "demo-mailer")
	assert.Contains(t, prompted, "acme/demo-gitops")
	assert.Contains(t, prompted, "demo-staging")
	assert.Contains(t, output, "Canceled")

	// Nothing was provisioned.
	assert.Empty(t, fakes.spaces.created)
	assert.Empty(t, fakes.store.secrets)
	assert.Zero(t, fakes.cloud.clusterCalls)
	assert.Empty(t, fakes.written)
}

func TestUp_NonInteractiveRequiresYes(t *testing.T) {
	useTestConfig(t, testConfig())
	useTestCredentials(t, fullCredentials())
	fakes := installUpFakes(t)

	err := Up(context.Background(), "", "", false, true, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
	assert.Empty(t, fakes.spaces.created)
}

func TestUp_MissingCredentials(t *testing.T) {
	useTestConfig(t, testConfig())
	useTestCredentials(t, config.Credentials{})
	installUpFakes(t)

	err := Up(context.Background(), "", "", false, true, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DIGITALOCEAN_TOKEN")
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
}

func TestUp_MissingPrerequisites(t *testing.T) {
	useTestConfig(t, testConfig())
	useTestCredentials(t, fullCredentials())
	installUpFakes(t)

	orig := checkDefaultPrereqs
	checkDefaultPrereqs = func() *prerequisites.CheckResults {
		return &prerequisites.CheckResults{
			Missing: []prerequisites.Tool{
				{Name: "git", Required: true, InstallURL: "https://git-scm.com"},
			},
		}
	}
	t.Cleanup(func() { checkDefaultPrereqs = orig })

	err := Up(context.Background(), "", "", false, true, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git")
}

func TestUp_PhaseFailureAborts(t *testing.T) {
	useTestConfig(t, testConfig())
	useTestCredentials(t, fullCredentials())
	fakes := installUpFakes(t)
	fakes.spaces.createErr = errors.New("spaces unavailable")

	err := Up(context.Background(), "", "", true, true, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket phase failed")

	// Later phases never ran
	assert.Empty(t, fakes.store.secrets)
	assert.Zero(t, fakes.cloud.clusterCalls)
	assert.Empty(t, fakes.written)
}

func TestUp_ExistingBucketSkipped(t *testing.T) {
	useTestConfig(t, testConfig())
	useTestCredentials(t, fullCredentials())
	fakes := installUpFakes(t)
	fakes.spaces.exists = true

	output := captureOutput(func() {
		err := Up(context.Background(), "", "", false, true, true)
		require.NoError(t, err)
	})

	assert.Empty(t, fakes.spaces.created)
	assert.Contains(t, output, "already existed")
}
