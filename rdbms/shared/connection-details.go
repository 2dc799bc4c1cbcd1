package shared

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/relloyd/whload/constants"
	"github.com/xo/dburl"
)

// WarehouseCredentials holds the connection secrets for the warehouse, keyed as they are in the secret store.
// No field is validated when the secret is read: a malformed secret surfaces as a connection failure.
type WarehouseCredentials struct {
	User     string `mapstructure:"WAREHOUSE_USER" errorTxt:"WAREHOUSE_USER" mandatory:"yes"`
	Password string `mapstructure:"WAREHOUSE_PASSWORD" errorTxt:"WAREHOUSE_PASSWORD" mandatory:"yes"`
	Host     string `mapstructure:"WAREHOUSE_HOST" errorTxt:"WAREHOUSE_HOST" mandatory:"yes"`
	Port     string `mapstructure:"WAREHOUSE_PORT" errorTxt:"WAREHOUSE_PORT" mandatory:"yes"`
	Database string `mapstructure:"WAREHOUSE_DATABASE" errorTxt:"WAREHOUSE_DATABASE" mandatory:"yes"`
}

// URL returns a postgres:// URL built from the credentials.
func (c WarehouseCredentials) URL() *url.URL {
	host := c.Host
	if c.Port != "" {
		host = net.JoinHostPort(c.Host, c.Port)
	}
	return &url.URL{
		Scheme: constants.ConnectionTypePostgres,
		User:   url.UserPassword(c.User, c.Password),
		Host:   host,
		Path:   "/" + c.Database,
	}
}

// DSN parses the credentials URL with dburl and returns the driver-level DSN.
func (c WarehouseCredentials) DSN() (*dburl.URL, error) {
	u, err := dburl.Parse(c.URL().String())
	if err != nil {
		return nil, fmt.Errorf("error building warehouse DSN for %v: %w", c, err)
	}
	return u, nil
}

// String redacts the password.
func (c WarehouseCredentials) String() string {
	x := []string{
		fmt.Sprintf("user = %v", c.User),
		"password = xxxxx",
		fmt.Sprintf("host = %v", c.Host),
		fmt.Sprintf("port = %v", c.Port),
		fmt.Sprintf("database = %v", c.Database),
	}
	return strings.Join(x, ", ")
}
