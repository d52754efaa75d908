package provisioning

import (
	"context"

	"github.com/oceanforge/oceanforge/internal/platform/do"
	"github.com/oceanforge/oceanforge/internal/platform/github"
	"github.com/oceanforge/oceanforge/internal/platform/ses"
)

// SpacesService is the object-storage surface the bucket phase uses.
type SpacesService interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	CreateBucket(ctx context.Context, bucketName string) error
	PutObject(ctx context.Context, bucketName, key string, data []byte) error
	GetObject(ctx context.Context, bucketName, key string) ([]byte, error)
}

// MailService is the IAM surface the SMTP credential phase uses.
type MailService interface {
	EnsureUser(ctx context.Context, userName string) (bool, error)
	AttachSendPolicy(ctx context.Context, userName string) error
	HasAccessKeys(ctx context.Context, userName string) (bool, error)
	CreateSMTPCredentials(ctx context.Context, userName string) (*ses.SMTPCredentials, error)
}

// SecretStore is the GitHub surface the secret and label phases use.
type SecretStore interface {
	PutSecret(ctx context.Context, name, value string) error
	EnsureLabels(ctx context.Context, labels []github.Label) ([]string, error)
}

// CloudService is the DigitalOcean surface the bucket, project and cluster
// phases use.
type CloudService interface {
	EnsureSpacesKey(ctx context.Context, name, bucket string) (*do.SpacesKey, bool, error)
	EnsureProject(ctx context.Context, name string) (string, bool, error)
	EnsureCluster(ctx context.Context, req do.ClusterRequest) (*do.Cluster, bool, error)
	Kubeconfig(ctx context.Context, clusterID string) ([]byte, error)
}
