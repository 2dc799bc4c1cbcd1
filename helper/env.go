package helper

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// GetEnvVar fetches OS environment variable.
// If the variable is not set it returns empty string.
// It also returns an error if there is a missing value AND mandatory == true.
func GetEnvVar(k string, mandatory bool) (string, error) {
	if value := os.Getenv(k); value != "" {
		return value, nil
	} else if mandatory {
		return "", fmt.Errorf("environment variable %v is not set", k)
	}
	return "", nil
}

// ReadValueFromEnv will read the env var called name and populate the supplied val.
// If the env var is not set then return an error and leave val untouched.
func ReadValueFromEnv(name string, val *string) error {
	v := os.Getenv(name)
	if v != "" { // if the environment variable was set...
		*val = v // update the callers value
		return nil
	}
	return fmt.Errorf("value for environment variable %v not found", name)
}

// ReadValueFromEnvWithDefault will read the value of name from the environment.
// If it's not set then it will return the supplied defaultValue.
func ReadValueFromEnvWithDefault(name string, defaultValue string) (v string) {
	_ = ReadValueFromEnv(name, &v)
	if v == "" { // if the environment variable is not set...
		v = defaultValue
	}
	return
}

// ReadIntFromEnvWithDefault reads name from the environment as an integer.
// The defaultValue is returned if the variable is not set.
// An error is returned if the variable is set but does not parse.
func ReadIntFromEnvWithDefault(name string, defaultValue int) (int, error) {
	var s string
	if err := ReadValueFromEnv(name, &s); err != nil { // if the variable is not set...
		return defaultValue, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultValue, fmt.Errorf("environment variable %v must be an integer: %w", name, err)
	}
	return i, nil
}

// ReadBoolFromEnv returns true if name is set to a value that strconv considers true.
// Unset or unparsable values are false.
func ReadBoolFromEnv(name string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(name)))
	if err != nil {
		return false
	}
	return b
}
