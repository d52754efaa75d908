package provisioning

import (
	"context"

	"github.com/oceanforge/oceanforge/internal/config"
	"github.com/oceanforge/oceanforge/internal/platform/do"
	"github.com/oceanforge/oceanforge/internal/platform/ses"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is read by the
// phases that follow.
type State struct {
	// Bucket results. ScopedKey carries an empty SecretKey when the key
	// already existed, since the API only returns the secret on creation.
	BucketName       string
	BucketExisted    bool
	ScopedKey        *do.SpacesKey
	ScopedKeyExisted bool

	// Mail results. SMTP is nil when the user already had an access key
	// and the phase skipped credential creation.
	MailUser        string
	MailUserExisted bool
	SMTP            *ses.SMTPCredentials

	// Secret publishing results
	PublishedSecrets []string
	SkippedSecrets   []string

	// Project and cluster results
	ProjectID      string
	ProjectExisted bool
	CreatedLabels  []string
	ClusterID      string
	ClusterExisted bool
	Kubeconfig     []byte
}

// Context wraps all dependencies and state needed by provisioning phases.
type Context struct {
	context.Context
	Config      *config.Config
	Environment config.Environment
	Creds       config.Credentials
	State       *State
	Observer    Observer

	Spaces SpacesService
	Mail   MailService
	Store  SecretStore
	Cloud  CloudService
}

// NewContext creates a provisioning context with an empty state and a
// console observer.
func NewContext(ctx context.Context, cfg *config.Config, env config.Environment, creds config.Credentials) *Context {
	return &Context{
		Context:     ctx,
		Config:      cfg,
		Environment: env,
		Creds:       creds,
		State:       &State{},
		Observer:    NewConsoleObserver(),
	}
}
