package provisioning

// SecretsPhase publishes the provisioning results as GitHub Actions secrets.
type SecretsPhase struct{}

// Name implements Phase.
func (SecretsPhase) Name() string { return "secrets" }

// Provision implements Phase. One store call per key; empty values are
// skipped with a warning instead of written. A failure aborts the sequence,
// leaving earlier keys set and later ones missing; the per-key events are
// the only record of which is which.
func (SecretsPhase) Provision(ctx *Context) error {
	bundle := SecretBundle(ctx)

	for _, name := range SecretOrder {
		value := bundle[name]
		if value == "" {
			ctx.State.SkippedSecrets = append(ctx.State.SkippedSecrets, name)
			ctx.Observer.Event(Event{
				Type:     EventSecretSkipped,
				Phase:    "secrets",
				Resource: name,
				Message:  "empty value, not written",
			})
			continue
		}
		if err := ctx.Store.PutSecret(ctx, name, value); err != nil {
			return err
		}
		ctx.State.PublishedSecrets = append(ctx.State.PublishedSecrets, name)
		ctx.Observer.Event(Event{Type: EventSecretPublished, Phase: "secrets", Resource: name})
	}
	return nil
}

// SecretOrder fixes the publishing order so logs and partial-failure state
// are reproducible.
var SecretOrder = []string{
	"DIGITALOCEAN_TOKEN",
	"TF_STATE_BUCKET",
	"SPACES_ACCESS_KEY",
	"SPACES_SECRET_KEY",
	"SMTP_USERNAME",
	"SMTP_PASSWORD",
}

// SecretBundle assembles the key-value mapping published to the secret
// store from credentials and earlier phase results. A freshly created
// bucket-scoped key replaces the broad credentials from the environment; an
// existing scoped key has no retrievable secret, so the environment pair is
// kept.
func SecretBundle(ctx *Context) map[string]string {
	access, secret := ctx.Creds.SpacesAccessKey, ctx.Creds.SpacesSecretKey
	if ctx.State.ScopedKey != nil && ctx.State.ScopedKey.SecretKey != "" {
		access, secret = ctx.State.ScopedKey.AccessKey, ctx.State.ScopedKey.SecretKey
	}
	bundle := map[string]string{
		"DIGITALOCEAN_TOKEN": ctx.Creds.DigitalOceanToken,
		"TF_STATE_BUCKET":    ctx.State.BucketName,
		"SPACES_ACCESS_KEY":  access,
		"SPACES_SECRET_KEY":  secret,
	}
	if ctx.State.SMTP != nil {
		bundle["SMTP_USERNAME"] = ctx.State.SMTP.Username
		bundle["SMTP_PASSWORD"] = ctx.State.SMTP.Password
	}
	return bundle
}
