package secrets

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsManager struct {
	secretsmanageriface.SecretsManagerAPI
	out   *secretsmanager.GetSecretValueOutput
	err   error
	names []string
}

func (f *fakeSecretsManager) GetSecretValue(in *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error) {
	f.names = append(f.names, aws.StringValue(in.SecretId))
	return f.out, f.err
}

func TestGetSecretString(t *testing.T) {
	api := &fakeSecretsManager{out: &secretsmanager.GetSecretValueOutput{SecretString: aws.String(`{"WAREHOUSE_USER":"u"}`)}}
	v, err := NewClientWithAPI(api).GetSecretString("warehouse_secrets")
	require.NoError(t, err)
	assert.Equal(t, `{"WAREHOUSE_USER":"u"}`, v)
	assert.Equal(t, []string{"warehouse_secrets"}, api.names)
}

func TestGetSecretStringErrors(t *testing.T) {
	cases := []struct {
		name    string
		api     *fakeSecretsManager
		wantErr error
	}{
		{
			name:    "missing secret",
			api:     &fakeSecretsManager{err: awserr.New(secretsmanager.ErrCodeResourceNotFoundException, "can't find it", nil)},
			wantErr: ErrSecretNotFound,
		},
		{
			name:    "access denied",
			api:     &fakeSecretsManager{err: awserr.New("AccessDeniedException", "nope", nil)},
			wantErr: ErrSecretAccess,
		},
		{
			name:    "binary secret",
			api:     &fakeSecretsManager{out: &secretsmanager.GetSecretValueOutput{SecretBinary: []byte("x")}},
			wantErr: ErrSecretAccess,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewClientWithAPI(tc.api).GetSecretString("warehouse_secrets")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}
