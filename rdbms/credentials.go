package rdbms

import (
	"encoding/json"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/relloyd/whload/aws/secrets"
	"github.com/relloyd/whload/helper"
	"github.com/relloyd/whload/logger"
	"github.com/relloyd/whload/rdbms/shared"
)

var ErrCredentialsMalformed = errors.New("warehouse secret is not a JSON object of credentials")

// ResolveCredentials reads secretName from the secret store and decodes it into WarehouseCredentials.
// Lookup failures are logged and returned unchanged so callers can test for secrets.ErrSecretNotFound
// and secrets.ErrSecretAccess. Missing keys only produce a warning: the connection attempt is what fails.
func ResolveCredentials(log logger.Logger, sm secrets.Getter, secretName string) (creds shared.WarehouseCredentials, err error) {
	s, err := sm.GetSecretString(secretName)
	if err != nil {
		if errors.Is(err, secrets.ErrSecretNotFound) {
			log.Error("The warehouse secret was not found: ", err)
		} else {
			log.Error("There has been an error reading the warehouse secret: ", err)
		}
		return creds, err
	}
	m := make(map[string]interface{})
	if err = json.Unmarshal([]byte(s), &m); err != nil {
		err = errors.Wrapf(ErrCredentialsMalformed, "secret %v: %v", secretName, err)
		log.Error(err)
		return creds, err
	}
	if err = mapstructure.WeakDecode(m, &creds); err != nil { // WAREHOUSE_PORT may be stored as a number...
		err = errors.Wrapf(ErrCredentialsMalformed, "secret %v: %v", secretName, err)
		log.Error(err)
		return creds, err
	}
	missing := make([]string, 0)
	helper.GetStructErrorTxt4UnsetFields(creds, &missing)
	if len(missing) > 0 {
		log.Warn("Warehouse secret ", secretName, " has no value for ", strings.Join(missing, ", "))
	}
	log.Debug("Resolved warehouse credentials: ", creds)
	return creds, nil
}
