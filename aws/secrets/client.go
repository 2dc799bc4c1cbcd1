// Package secrets reads named secrets from AWS Secrets Manager.
package secrets

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/pkg/errors"
)

var (
	ErrSecretNotFound = errors.New("secret not found")
	ErrSecretAccess   = errors.New("secret store access or service error")
)

// Getter fetches the string value of a named secret.
type Getter interface {
	// GetSecretString returns an error wrapping ErrSecretNotFound if the secret does not exist,
	// or ErrSecretAccess for any other failure.
	GetSecretString(name string) (string, error)
}

func NewClient(region string) Getter {
	awsConfig := aws.NewConfig()
	awsConfig.Region = aws.String(region)
	sess := session.Must(session.NewSession(awsConfig))
	return NewClientWithAPI(secretsmanager.New(sess))
}

func NewClientWithAPI(api secretsmanageriface.SecretsManagerAPI) Getter {
	return &client{api: api}
}

type client struct {
	api secretsmanageriface.SecretsManagerAPI
}

func (c *client) GetSecretString(name string) (string, error) {
	out, err := c.api.GetSecretValue(&secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		if awsErr, ok := err.(awserr.Error); ok && awsErr.Code() == secretsmanager.ErrCodeResourceNotFoundException {
			return "", errors.Wrapf(ErrSecretNotFound, "%v: %v", name, awsErr.Message())
		}
		return "", errors.Wrapf(ErrSecretAccess, "%v: %v", name, err)
	}
	if out.SecretString == nil { // if the secret was stored as binary...
		return "", errors.Wrapf(ErrSecretAccess, "%v: secret has no string value", name)
	}
	return aws.StringValue(out.SecretString), nil
}
