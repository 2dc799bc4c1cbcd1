package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSN(t *testing.T) {
	b, err := ParseDSN("s3://processed-bucket/some/prefix/", "eu-west-2")
	require.NoError(t, err)
	assert.Equal(t, AwsS3Bucket{Name: "processed-bucket", Prefix: "some/prefix", Region: "eu-west-2"}, b)
	assert.Equal(t, "s3://processed-bucket/some/prefix", b.String())

	b, err = ParseDSN("processed-bucket", "eu-west-2")
	require.NoError(t, err)
	assert.Equal(t, "processed-bucket", b.Name)
	assert.Empty(t, b.Prefix)
	assert.Equal(t, "s3://processed-bucket", b.String())

	_, err = ParseDSN("gs://processed-bucket", "eu-west-2")
	assert.Error(t, err)

	_, err = ParseDSN("s3://processed-bucket", "")
	assert.Error(t, err)

	_, err = ParseDSN("s3:///prefix-only", "eu-west-2")
	assert.Error(t, err)
}
