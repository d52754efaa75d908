package ses

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIAM implements iamAPI for tests.
type fakeIAM struct {
	users      map[string]bool
	keys       map[string][]string
	policies   map[string]string
	getUserErr error
}

func newFakeIAM() *fakeIAM {
	return &fakeIAM{
		users:    make(map[string]bool),
		keys:     make(map[string][]string),
		policies: make(map[string]string),
	}
}

func (f *fakeIAM) GetUser(_ context.Context, params *iam.GetUserInput, _ ...func(*iam.Options)) (*iam.GetUserOutput, error) {
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	name := aws.ToString(params.UserName)
	if !f.users[name] {
		return nil, &iamtypes.NoSuchEntityException{}
	}
	return &iam.GetUserOutput{User: &iamtypes.User{UserName: params.UserName}}, nil
}

func (f *fakeIAM) CreateUser(_ context.Context, params *iam.CreateUserInput, _ ...func(*iam.Options)) (*iam.CreateUserOutput, error) {
	name := aws.ToString(params.UserName)
	if f.users[name] {
		return nil, &iamtypes.EntityAlreadyExistsException{}
	}
	f.users[name] = true
	return &iam.CreateUserOutput{User: &iamtypes.User{UserName: params.UserName}}, nil
}

func (f *fakeIAM) PutUserPolicy(_ context.Context, params *iam.PutUserPolicyInput, _ ...func(*iam.Options)) (*iam.PutUserPolicyOutput, error) {
	f.policies[aws.ToString(params.UserName)] = aws.ToString(params.PolicyDocument)
	return &iam.PutUserPolicyOutput{}, nil
}

func (f *fakeIAM) CreateAccessKey(_ context.Context, params *iam.CreateAccessKeyInput, _ ...func(*iam.Options)) (*iam.CreateAccessKeyOutput, error) {
	name := aws.ToString(params.UserName)
	f.keys[name] = append(f.keys[name], "AKIAEXAMPLE")
	return &iam.CreateAccessKeyOutput{
		AccessKey: &iamtypes.AccessKey{
			AccessKeyId:     aws.String("AKIAEXAMPLE"),
			SecretAccessKey: aws.String("wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"),
		},
	}, nil
}

func (f *fakeIAM) ListAccessKeys(_ context.Context, params *iam.ListAccessKeysInput, _ ...func(*iam.Options)) (*iam.ListAccessKeysOutput, error) {
	name := aws.ToString(params.UserName)
	meta := make([]iamtypes.AccessKeyMetadata, 0, len(f.keys[name]))
	for _, id := range f.keys[name] {
		meta = append(meta, iamtypes.AccessKeyMetadata{AccessKeyId: aws.String(id)})
	}
	return &iam.ListAccessKeysOutput{AccessKeyMetadata: meta}, nil
}

func TestEnsureUser_CreatesWhenMissing(t *testing.T) {
	fake := newFakeIAM()
	client := &Client{iam: fake}

	existed, err := client.EnsureUser(context.Background(), "acme-mailer")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.True(t, fake.users["acme-mailer"])
}

func TestEnsureUser_ExistingIsSkip(t *testing.T) {
	fake := newFakeIAM()
	fake.users["acme-mailer"] = true
	client := &Client{iam: fake}

	existed, err := client.EnsureUser(context.Background(), "acme-mailer")
	require.NoError(t, err)
	assert.True(t, existed)
}

func TestEnsureUser_LookupErrorIsFatal(t *testing.T) {
	fake := newFakeIAM()
	fake.getUserErr = &iamtypes.ServiceFailureException{}
	client := &Client{iam: fake}

	_, err := client.EnsureUser(context.Background(), "acme-mailer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to look up IAM user")
}

func TestAttachSendPolicy(t *testing.T) {
	fake := newFakeIAM()
	client := &Client{iam: fake}

	require.NoError(t, client.AttachSendPolicy(context.Background(), "acme-mailer"))
	assert.Contains(t, fake.policies["acme-mailer"], "ses:SendRawEmail")

	// Re-running overwrites in place, no error.
	require.NoError(t, client.AttachSendPolicy(context.Background(), "acme-mailer"))
}

func TestCreateSMTPCredentials(t *testing.T) {
	fake := newFakeIAM()
	client := &Client{iam: fake}

	creds, err := client.CreateSMTPCredentials(context.Background(), "acme-mailer")
	require.NoError(t, err)
	assert.Equal(t, "AKIAEXAMPLE", creds.Username)
	assert.Equal(t, SMTPPassword("wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"), creds.Password)
}

func TestHasAccessKeys(t *testing.T) {
	fake := newFakeIAM()
	client := &Client{iam: fake}
	ctx := context.Background()

	has, err := client.HasAccessKeys(ctx, "acme-mailer")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = client.CreateSMTPCredentials(ctx, "acme-mailer")
	require.NoError(t, err)

	has, err = client.HasAccessKeys(ctx, "acme-mailer")
	require.NoError(t, err)
	assert.True(t, has)
}
