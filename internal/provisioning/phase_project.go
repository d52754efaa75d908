package provisioning

import (
	"github.com/oceanforge/oceanforge/internal/platform/github"
)

// ProjectPhase creates the DigitalOcean project grouping and the repository
// labels. Both are conveniences; the phase is optional.
type ProjectPhase struct{}

// Name implements Phase.
func (ProjectPhase) Name() string { return "project" }

// Provision implements Phase.
func (ProjectPhase) Provision(ctx *Context) error {
	name := ctx.Config.Project.Name

	id, existed, err := ctx.Cloud.EnsureProject(ctx, name)
	if err != nil {
		return err
	}
	ctx.State.ProjectID = id
	ctx.State.ProjectExisted = existed
	if existed {
		ctx.Observer.Event(Event{
			Type:     EventResourceExists,
			Phase:    "project",
			Resource: name,
			Message:  "project already exists, skipping creation",
		})
	} else {
		ctx.Observer.Event(Event{Type: EventResourceCreated, Phase: "project", Resource: name})
	}

	created, err := ctx.Store.EnsureLabels(ctx, github.DefaultLabels)
	if err != nil {
		return err
	}
	ctx.State.CreatedLabels = created
	for _, label := range created {
		ctx.Observer.Event(Event{Type: EventResourceCreated, Phase: "project", Resource: "label/" + label})
	}
	return nil
}
