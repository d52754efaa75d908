// Package do wraps the DigitalOcean API for cluster and project provisioning.
package do

import (
	"context"
	"fmt"

	"github.com/digitalocean/godo"
)

// Client wraps the godo client with the operations the provisioner needs.
type Client struct {
	godo *godo.Client
}

// NewClient creates a client authenticated with an API token.
func NewClient(token string) *Client {
	return &Client{godo: godo.NewFromToken(token)}
}

// newWithGodo wires an arbitrary godo client; used by tests.
func newWithGodo(g *godo.Client) *Client {
	return &Client{godo: g}
}

// ClusterRequest describes the managed Kubernetes cluster to ensure.
type ClusterRequest struct {
	Name      string
	Region    string
	NodeSize  string
	NodeCount int
	Tags      []string
}

// Cluster is the subset of cluster state later phases consume.
type Cluster struct {
	ID       string
	Name     string
	Region   string
	Endpoint string
	Status   string
}

// FindCluster returns the cluster with the given name, or nil.
func (c *Client) FindCluster(ctx context.Context, name string) (*Cluster, error) {
	clusters, _, err := c.godo.Kubernetes.List(ctx, &godo.ListOptions{PerPage: 200})
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	for _, kc := range clusters {
		if kc.Name == name {
			return fromGodoCluster(kc), nil
		}
	}
	return nil, nil
}

// EnsureCluster creates the cluster unless one with the same name exists.
// Returns the cluster and whether it already existed.
func (c *Client) EnsureCluster(ctx context.Context, req ClusterRequest) (*Cluster, bool, error) {
	existing, err := c.FindCluster(ctx, req.Name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, true, nil
	}

	version, err := c.latestVersion(ctx)
	if err != nil {
		return nil, false, err
	}

	created, _, err := c.godo.Kubernetes.Create(ctx, &godo.KubernetesClusterCreateRequest{
		Name:        req.Name,
		RegionSlug:  req.Region,
		VersionSlug: version,
		Tags:        req.Tags,
		NodePools: []*godo.KubernetesNodePoolCreateRequest{
			{
				Name:  req.Name + "-default",
				Size:  req.NodeSize,
				Count: req.NodeCount,
			},
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to create cluster %s: %w", req.Name, err)
	}
	return fromGodoCluster(created), false, nil
}

// Kubeconfig fetches the kubeconfig for a cluster by ID.
func (c *Client) Kubeconfig(ctx context.Context, clusterID string) ([]byte, error) {
	cfg, _, err := c.godo.Kubernetes.GetKubeConfig(ctx, clusterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch kubeconfig: %w", err)
	}
	return cfg.KubeconfigYAML, nil
}

// EnsureProject creates a DigitalOcean project to group the cluster's
// resources unless one with the same name exists. Returns the project ID and
// whether it already existed.
func (c *Client) EnsureProject(ctx context.Context, name string) (string, bool, error) {
	projects, _, err := c.godo.Projects.List(ctx, &godo.ListOptions{PerPage: 200})
	if err != nil {
		return "", false, fmt.Errorf("failed to list projects: %w", err)
	}
	for _, p := range projects {
		if p.Name == name {
			return p.ID, true, nil
		}
	}

	created, _, err := c.godo.Projects.Create(ctx, &godo.CreateProjectRequest{
		Name:        name,
		Purpose:     "Operational / Developer tooling",
		Environment: "Production",
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to create project %s: %w", name, err)
	}
	return created.ID, false, nil
}

// SpacesKey is an object-storage key pair scoped to a single bucket.
type SpacesKey struct {
	Name      string
	AccessKey string
	SecretKey string
}

// EnsureSpacesKey creates a read/write key scoped to the bucket unless one
// with the same name exists. The API only returns the secret on creation, so
// an existing key comes back with an empty SecretKey. Returns the key and
// whether it already existed.
func (c *Client) EnsureSpacesKey(ctx context.Context, name, bucket string) (*SpacesKey, bool, error) {
	keys, _, err := c.godo.SpacesKeys.List(ctx, &godo.ListOptions{PerPage: 200})
	if err != nil {
		return nil, false, fmt.Errorf("failed to list Spaces keys: %w", err)
	}
	for _, k := range keys {
		if k.Name == name {
			return &SpacesKey{Name: k.Name, AccessKey: k.AccessKey}, true, nil
		}
	}

	created, _, err := c.godo.SpacesKeys.Create(ctx, &godo.SpacesKeyCreateRequest{
		Name: name,
		Grants: []*godo.Grant{
			{Bucket: bucket, Permission: godo.SpacesKeyReadWrite},
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to create Spaces key %s: %w", name, err)
	}
	return &SpacesKey{
		Name:      created.Name,
		AccessKey: created.AccessKey,
		SecretKey: created.SecretKey,
	}, false, nil
}

// latestVersion resolves the newest supported DOKS version slug.
func (c *Client) latestVersion(ctx context.Context) (string, error) {
	opts, _, err := c.godo.Kubernetes.GetOptions(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch Kubernetes options: %w", err)
	}
	if len(opts.Versions) == 0 {
		return "", fmt.Errorf("no Kubernetes versions available")
	}
	return opts.Versions[0].Slug, nil
}

func fromGodoCluster(kc *godo.KubernetesCluster) *Cluster {
	cluster := &Cluster{
		ID:       kc.ID,
		Name:     kc.Name,
		Region:   kc.RegionSlug,
		Endpoint: kc.Endpoint,
	}
	if kc.Status != nil {
		cluster.Status = string(kc.Status.State)
	}
	return cluster
}
