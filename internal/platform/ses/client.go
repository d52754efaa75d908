// Package ses provisions the IAM user, policy and access key that back the
// template's outbound-mail (SES SMTP) credentials.
package ses

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/smithy-go"
)

// sendPolicyDocument is the inline policy attached to the mail user. It
// grants exactly the send actions the SMTP interface uses.
const sendPolicyDocument = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Action": ["ses:SendRawEmail", "ses:SendEmail"],
      "Resource": "*"
    }
  ]
}`

// SendPolicyName is the inline policy name on the mail user.
const SendPolicyName = "ses-send-only"

// iamAPI is the subset of the IAM client the provisioner uses.
type iamAPI interface {
	GetUser(ctx context.Context, params *iam.GetUserInput, optFns ...func(*iam.Options)) (*iam.GetUserOutput, error)
	CreateUser(ctx context.Context, params *iam.CreateUserInput, optFns ...func(*iam.Options)) (*iam.CreateUserOutput, error)
	PutUserPolicy(ctx context.Context, params *iam.PutUserPolicyInput, optFns ...func(*iam.Options)) (*iam.PutUserPolicyOutput, error)
	CreateAccessKey(ctx context.Context, params *iam.CreateAccessKeyInput, optFns ...func(*iam.Options)) (*iam.CreateAccessKeyOutput, error)
	ListAccessKeys(ctx context.Context, params *iam.ListAccessKeysInput, optFns ...func(*iam.Options)) (*iam.ListAccessKeysOutput, error)
}

// Client provisions SES SMTP credentials through IAM.
type Client struct {
	iam iamAPI
}

// NewClient creates an IAM-backed client from static credentials.
func NewClient(ctx context.Context, accessKeyID, secretAccessKey, region string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Client{iam: iam.NewFromConfig(cfg)}, nil
}

// SMTPCredentials is the pair handed to the mail server configuration.
type SMTPCredentials struct {
	// Username is the IAM access key ID.
	Username string

	// Password is derived from the secret access key via SMTPPassword.
	Password string
}

// EnsureUser creates the IAM user if it does not exist.
// Returns true when the user already existed.
func (c *Client) EnsureUser(ctx context.Context, userName string) (bool, error) {
	_, err := c.iam.GetUser(ctx, &iam.GetUserInput{UserName: aws.String(userName)})
	if err == nil {
		return true, nil
	}
	if !isNoSuchEntity(err) {
		return false, fmt.Errorf("failed to look up IAM user %s: %w", userName, err)
	}

	_, err = c.iam.CreateUser(ctx, &iam.CreateUserInput{UserName: aws.String(userName)})
	if err != nil {
		if isEntityExists(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to create IAM user %s: %w", userName, err)
	}
	return false, nil
}

// AttachSendPolicy puts the send-only inline policy on the user. PutUserPolicy
// overwrites an existing policy of the same name, so this is safe to re-run.
func (c *Client) AttachSendPolicy(ctx context.Context, userName string) error {
	_, err := c.iam.PutUserPolicy(ctx, &iam.PutUserPolicyInput{
		UserName:       aws.String(userName),
		PolicyName:     aws.String(SendPolicyName),
		PolicyDocument: aws.String(sendPolicyDocument),
	})
	if err != nil {
		return fmt.Errorf("failed to attach policy to IAM user %s: %w", userName, err)
	}
	return nil
}

// HasAccessKeys reports whether the user already has any access key. The
// provisioner skips key creation in that case rather than minting a second
// key it has no way to rotate.
func (c *Client) HasAccessKeys(ctx context.Context, userName string) (bool, error) {
	out, err := c.iam.ListAccessKeys(ctx, &iam.ListAccessKeysInput{UserName: aws.String(userName)})
	if err != nil {
		return false, fmt.Errorf("failed to list access keys for %s: %w", userName, err)
	}
	return len(out.AccessKeyMetadata) > 0, nil
}

// CreateSMTPCredentials creates an access key for the user and derives the
// SMTP password from its secret.
func (c *Client) CreateSMTPCredentials(ctx context.Context, userName string) (*SMTPCredentials, error) {
	out, err := c.iam.CreateAccessKey(ctx, &iam.CreateAccessKeyInput{UserName: aws.String(userName)})
	if err != nil {
		return nil, fmt.Errorf("failed to create access key for %s: %w", userName, err)
	}
	key := out.AccessKey
	if key == nil || key.AccessKeyId == nil || key.SecretAccessKey == nil {
		return nil, fmt.Errorf("IAM returned an incomplete access key for %s", userName)
	}
	return &SMTPCredentials{
		Username: *key.AccessKeyId,
		Password: SMTPPassword(*key.SecretAccessKey),
	}, nil
}

func isNoSuchEntity(err error) bool {
	var nse *iamtypes.NoSuchEntityException
	if errors.As(err, &nse) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchEntity"
}

func isEntityExists(err error) bool {
	var eae *iamtypes.EntityAlreadyExistsException
	if errors.As(err, &eae) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "EntityAlreadyExists"
}
