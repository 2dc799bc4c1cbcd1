package s3

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/relloyd/whload/constants"
)

// AwsS3Bucket identifies the processed area: a bucket, optional key prefix and the region.
type AwsS3Bucket struct {
	Name   string `errorTxt:"bucket name" mandatory:"yes"`
	Prefix string `errorTxt:"bucket prefix"`
	Region string `errorTxt:"bucket region" mandatory:"yes"`
}

func (d AwsS3Bucket) GetScheme() string {
	return constants.ConnectionTypeS3
}

func (d AwsS3Bucket) String() string {
	if d.Prefix == "" {
		return fmt.Sprintf("%v://%v", d.GetScheme(), d.Name)
	}
	return fmt.Sprintf("%v://%v/%v", d.GetScheme(), d.Name, d.Prefix)
}

// ParseDSN expects bucketPrefix to be of the form [s3://]<bucket>[/<prefix>]
// It returns an AwsS3Bucket populated with the components of bucketPrefix and the supplied region.
// If there is a parsing error it returns an error.
func ParseDSN(bucketPrefix string, region string) (retval AwsS3Bucket, err error) {
	expectedScheme := constants.ConnectionTypeS3
	if !strings.Contains(bucketPrefix, "://") { // if there's no scheme, url.Parse would treat the bucket as a path...
		bucketPrefix = expectedScheme + "://" + bucketPrefix
	}
	s3url, err := url.Parse(bucketPrefix)
	if err != nil {
		return retval, fmt.Errorf("error parsing S3 URL: %v", err)
	}
	if s3url.Scheme != expectedScheme {
		return retval, fmt.Errorf("expected S3 URL scheme %q but got %q", expectedScheme, s3url.Scheme)
	}
	if region == "" {
		return retval, fmt.Errorf("value expected for bucket region")
	}
	retval.Name = s3url.Host
	if retval.Name == "" {
		return retval, fmt.Errorf("DSN failed to parse bucket name")
	}
	retval.Prefix = strings.Trim(s3url.Path, "/")
	retval.Region = region
	return
}
