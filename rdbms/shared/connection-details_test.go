package shared

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredentials() WarehouseCredentials {
	return WarehouseCredentials{
		User:     "loader",
		Password: "s3cr3t/with@chars",
		Host:     "warehouse.example.com",
		Port:     "5432",
		Database: "totesys_wh",
	}
}

func TestWarehouseCredentialsURL(t *testing.T) {
	u := testCredentials().URL()
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "warehouse.example.com:5432", u.Host)
	assert.Equal(t, "/totesys_wh", u.Path)
	p, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "s3cr3t/with@chars", p)
}

func TestWarehouseCredentialsURLWithoutPort(t *testing.T) {
	c := testCredentials()
	c.Port = ""
	assert.Equal(t, "warehouse.example.com", c.URL().Host)
}

func TestWarehouseCredentialsDSN(t *testing.T) {
	u, err := testCredentials().DSN()
	require.NoError(t, err)
	assert.Contains(t, u.DSN, "dbname=totesys_wh")
	assert.Contains(t, u.DSN, "host=warehouse.example.com")
	assert.NotContains(t, u.Redacted(), "s3cr3t")
}

func TestWarehouseCredentialsStringRedactsPassword(t *testing.T) {
	s := testCredentials().String()
	assert.False(t, strings.Contains(s, "s3cr3t"), "password leaked: %v", s)
	assert.Contains(t, s, "user = loader")
	assert.Contains(t, s, "database = totesys_wh")
}
