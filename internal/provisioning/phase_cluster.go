package provisioning

import (
	"github.com/oceanforge/oceanforge/internal/platform/do"
)

// ClusterPhase creates the managed Kubernetes cluster for the environment
// and fetches its kubeconfig. Runs only with --with-cluster; the default
// workflow leaves cluster creation to the Terraform stack.
type ClusterPhase struct{}

// Name implements Phase.
func (ClusterPhase) Name() string { return "cluster" }

// Provision implements Phase.
func (ClusterPhase) Provision(ctx *Context) error {
	name := ctx.Config.ClusterName(ctx.Environment)
	spec := ctx.Environment.Cluster

	cluster, existed, err := ctx.Cloud.EnsureCluster(ctx, do.ClusterRequest{
		Name:      name,
		Region:    spec.Region,
		NodeSize:  spec.NodeSize,
		NodeCount: spec.NodeCount,
		Tags:      []string{"oceanforge", ctx.Config.Project.Name},
	})
	if err != nil {
		return err
	}
	ctx.State.ClusterID = cluster.ID
	ctx.State.ClusterExisted = existed
	if existed {
		ctx.Observer.Event(Event{
			Type:     EventResourceExists,
			Phase:    "cluster",
			Resource: name,
			Message:  "cluster already exists, skipping creation",
		})
	} else {
		ctx.Observer.Event(Event{Type: EventResourceCreated, Phase: "cluster", Resource: name})
	}

	kubeconfig, err := ctx.Cloud.Kubeconfig(ctx, cluster.ID)
	if err != nil {
		return err
	}
	ctx.State.Kubeconfig = kubeconfig
	return nil
}
