package provisioning

// MailPhase provisions the IAM user, send-only policy and access key backing
// the template's SES SMTP credentials.
type MailPhase struct{}

// Name implements Phase.
func (MailPhase) Name() string { return "mail" }

// Provision implements Phase.
//
// When the user already has an access key the phase skips credential
// creation entirely: the secret key of an existing IAM key cannot be read
// back, so minting a second key would only leak unrotatable credentials.
// State.SMTP stays nil in that case and the secrets phase warns about the
// missing values.
func (MailPhase) Provision(ctx *Context) error {
	userName := ctx.Config.MailUser()
	ctx.State.MailUser = userName

	existed, err := ctx.Mail.EnsureUser(ctx, userName)
	if err != nil {
		return err
	}
	ctx.State.MailUserExisted = existed
	if existed {
		ctx.Observer.Event(Event{
			Type:     EventResourceExists,
			Phase:    "mail",
			Resource: userName,
			Message:  "IAM user already exists, skipping creation",
		})
	} else {
		ctx.Observer.Event(Event{Type: EventResourceCreated, Phase: "mail", Resource: userName})
	}

	if err := ctx.Mail.AttachSendPolicy(ctx, userName); err != nil {
		return err
	}

	hasKeys, err := ctx.Mail.HasAccessKeys(ctx, userName)
	if err != nil {
		return err
	}
	if hasKeys {
		ctx.Observer.Event(Event{
			Type:     EventResourceExists,
			Phase:    "mail",
			Resource: userName,
			Message:  "access key already exists, skipping SMTP credential creation",
		})
		return nil
	}

	smtp, err := ctx.Mail.CreateSMTPCredentials(ctx, userName)
	if err != nil {
		return err
	}
	ctx.State.SMTP = smtp
	ctx.Observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    "mail",
		Resource: smtp.Username,
		Message:  "SMTP credentials derived",
	})
	return nil
}
