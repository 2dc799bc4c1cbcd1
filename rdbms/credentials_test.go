package rdbms

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/relloyd/whload/aws/secrets"
	"github.com/relloyd/whload/logger"
	"github.com/relloyd/whload/rdbms/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	value string
	err   error
	names []string
}

func (f *fakeSecrets) GetSecretString(name string) (string, error) {
	f.names = append(f.names, name)
	return f.value, f.err
}

func TestResolveCredentials(t *testing.T) {
	sm := &fakeSecrets{value: `{
		"WAREHOUSE_USER": "loader",
		"WAREHOUSE_PASSWORD": "pw",
		"WAREHOUSE_HOST": "wh.example.com",
		"WAREHOUSE_PORT": 5432,
		"WAREHOUSE_DATABASE": "wh"
	}`}
	creds, err := ResolveCredentials(logger.NewDiscardLogger(), sm, "warehouse_secrets")
	require.NoError(t, err)
	assert.Equal(t, shared.WarehouseCredentials{
		User:     "loader",
		Password: "pw",
		Host:     "wh.example.com",
		Port:     "5432",
		Database: "wh",
	}, creds)
	assert.Equal(t, []string{"warehouse_secrets"}, sm.names)
}

func TestResolveCredentialsMissingKeysIsNotAnError(t *testing.T) {
	sm := &fakeSecrets{value: `{"WAREHOUSE_USER": "loader"}`}
	creds, err := ResolveCredentials(logger.NewDiscardLogger(), sm, "warehouse_secrets")
	require.NoError(t, err)
	assert.Equal(t, "loader", creds.User)
	assert.Empty(t, creds.Host)
}

func TestResolveCredentialsErrors(t *testing.T) {
	cases := []struct {
		name    string
		sm      *fakeSecrets
		wantErr error
	}{
		{"secret not found", &fakeSecrets{err: errors.Wrap(secrets.ErrSecretNotFound, "warehouse_secrets")}, secrets.ErrSecretNotFound},
		{"access denied", &fakeSecrets{err: errors.Wrap(secrets.ErrSecretAccess, "warehouse_secrets")}, secrets.ErrSecretAccess},
		{"not json", &fakeSecrets{value: "user=loader"}, ErrCredentialsMalformed},
		{"json array", &fakeSecrets{value: `["loader"]`}, ErrCredentialsMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveCredentials(logger.NewDiscardLogger(), tc.sm, "warehouse_secrets")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}
