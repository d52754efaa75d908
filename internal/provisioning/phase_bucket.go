package provisioning

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/oceanforge/oceanforge/internal/platform/spaces"
)

// accessCheckKey is the object written and read back to prove the configured
// credentials can actually use the bucket before any secret referencing it
// is published.
const accessCheckKey = ".oceanforge/access-check"

// BucketPhase ensures the Spaces bucket that holds Terraform state, verifies
// read/write access to it, and ensures an access key scoped to that bucket.
type BucketPhase struct{}

// Name implements Phase.
func (BucketPhase) Name() string { return "bucket" }

// Provision implements Phase. An existing bucket is a skip, not a failure.
func (BucketPhase) Provision(ctx *Context) error {
	bucket := ctx.Config.StateBucket()
	ctx.State.BucketName = bucket

	exists, err := ctx.Spaces.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}

	switch {
	case exists:
		ctx.State.BucketExisted = true
		ctx.Observer.Event(Event{
			Type:     EventResourceExists,
			Phase:    "bucket",
			Resource: bucket,
			Message:  "bucket already exists, skipping creation",
		})
	default:
		ctx.Observer.Event(Event{Type: EventResourceCreating, Phase: "bucket", Resource: bucket})

		err := ctx.Spaces.CreateBucket(ctx, bucket)
		// Lost the race against a concurrent creation; same skip path
		// as the exists check.
		if errors.Is(err, spaces.ErrBucketExists) {
			ctx.State.BucketExisted = true
			ctx.Observer.Event(Event{
				Type:     EventResourceExists,
				Phase:    "bucket",
				Resource: bucket,
				Message:  "bucket already exists, skipping creation",
			})
		} else if err != nil {
			return err
		} else {
			ctx.Observer.Event(Event{Type: EventResourceCreated, Phase: "bucket", Resource: bucket})
		}
	}

	if err := verifyBucketAccess(ctx, bucket); err != nil {
		return err
	}
	return ensureScopedKey(ctx, bucket)
}

// verifyBucketAccess writes a timestamped marker object and reads it back.
// A bucket that cannot complete the round trip would break every Terraform
// run the published secrets point at, so this fails the phase.
func verifyBucketAccess(ctx *Context, bucket string) error {
	marker := []byte(time.Now().UTC().Format(time.RFC3339) + "\n")
	if err := ctx.Spaces.PutObject(ctx, bucket, accessCheckKey, marker); err != nil {
		return fmt.Errorf("bucket %s failed write check: %w", bucket, err)
	}
	got, err := ctx.Spaces.GetObject(ctx, bucket, accessCheckKey)
	if err != nil {
		return fmt.Errorf("bucket %s failed read check: %w", bucket, err)
	}
	if !bytes.Equal(got, marker) {
		return fmt.Errorf("bucket %s returned stale data on read check", bucket)
	}
	return nil
}

// ensureScopedKey provisions the bucket-scoped access key. The key is named
// after the bucket so reruns find it again.
func ensureScopedKey(ctx *Context, bucket string) error {
	key, existed, err := ctx.Cloud.EnsureSpacesKey(ctx, bucket, bucket)
	if err != nil {
		return err
	}
	ctx.State.ScopedKey = key
	ctx.State.ScopedKeyExisted = existed
	if existed {
		ctx.Observer.Event(Event{
			Type:     EventResourceExists,
			Phase:    "bucket",
			Resource: key.Name,
			Message:  "access key already exists, keeping configured credentials",
		})
		return nil
	}
	ctx.Observer.Event(Event{Type: EventResourceCreated, Phase: "bucket", Resource: key.Name})
	return nil
}
