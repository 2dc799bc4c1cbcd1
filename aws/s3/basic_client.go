package s3

import (
	"io/ioutil"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
)

// errCodeNotFound is what the SDK reports for a HEAD on a missing key or bucket, since HEAD responses carry no body.
const errCodeNotFound = "NotFound"

func NewBasicClient(bucket, region, prefix string) BasicClient {
	awsConfig := aws.NewConfig()
	awsConfig.Region = aws.String(region)
	sess := session.Must(session.NewSession(awsConfig))
	return NewBasicClientWithAPI(bucket, prefix, s3.New(sess))
}

func NewBasicClientWithAPI(bucket, prefix string, api s3iface.S3API) BasicClient {
	return &basicClient{
		bucket: bucket,
		prefix: prefix,
		api:    api,
	}
}

type basicClient struct {
	bucket string
	prefix string
	api    s3iface.S3API
	// result of HeadBucket, looked up once after the first missing key.
	bucketMu      sync.Mutex
	bucketChecked bool
	bucketErr     error
}

// URL returns the s3:// path of key for use in log messages.
func (s *basicClient) URL(key string) string {
	return "s3://" + s.bucket + "/" + s.getKeyWithPrefix(key)
}

func (s *basicClient) Head(key string) (ObjectStatus, error) {
	_, err := s.api.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getKeyWithPrefix(key)),
	})
	if err == nil {
		return ObjectExists, nil
	}
	status, err := classifyHeadError(s.bucket, key, err)
	if status == ObjectNotFound { // if S3 sent a bare 404 it may be the bucket that is missing...
		return s.confirmBucket()
	}
	return status, err
}

// confirmBucket returns ObjectNotFound if the bucket exists, else ObjectBucketNotFound.
// A bucket that exists or is missing is remembered; other failures are retried on the next call.
func (s *basicClient) confirmBucket() (ObjectStatus, error) {
	s.bucketMu.Lock()
	defer s.bucketMu.Unlock()
	if !s.bucketChecked {
		_, err := s.api.HeadBucket(&s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
		if err != nil {
			status, _ := classifyHeadError(s.bucket, "", err)
			if status != ObjectNotFound && status != ObjectBucketNotFound {
				return ObjectStatusError, errors.Wrapf(ErrUnexpectedBackend, "head bucket %v: %v", s.bucket, err)
			}
			s.bucketErr = errors.Wrapf(ErrBucketNotFound, "bucket %v", s.bucket)
		}
		s.bucketChecked = true
	}
	if s.bucketErr != nil {
		return ObjectBucketNotFound, s.bucketErr
	}
	return ObjectNotFound, nil
}

// classifyHeadError separates a missing key (expected) from a missing bucket and
// every other failure (both fatal to the caller).
func classifyHeadError(bucket, key string, err error) (ObjectStatus, error) {
	awsErr, ok := err.(awserr.Error)
	if !ok { // if this is not an AWS error we can inspect...
		return ObjectStatusError, errors.Wrapf(ErrUnexpectedBackend, "head %v in bucket %v: %v", key, bucket, err)
	}
	switch awsErr.Code() {
	case s3.ErrCodeNoSuchBucket:
		return ObjectBucketNotFound, errors.Wrapf(ErrBucketNotFound, "bucket %v", bucket)
	case errCodeNotFound, s3.ErrCodeNoSuchKey:
		return ObjectNotFound, nil
	}
	if reqErr, ok := err.(awserr.RequestFailure); ok && reqErr.StatusCode() == http.StatusNotFound {
		return ObjectNotFound, nil
	}
	return ObjectStatusError, errors.Wrapf(ErrUnexpectedBackend, "head %v in bucket %v: %v", key, bucket, awsErr)
}

func (s *basicClient) Get(key string) ([]byte, error) {
	res, err := s.api.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getKeyWithPrefix(key)),
	})
	if err != nil {
		if awsErr, ok := err.(awserr.Error); ok && awsErr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	defer res.Body.Close()
	return ioutil.ReadAll(res.Body)
}

// List returns all keys under key, with the client prefix removed.
func (s *basicClient) List(key string) (keys []string, err error) {
	keys = make([]string, 0, 1000)
	lastKey := ""
	for {
		params := &s3.ListObjectsInput{
			Bucket:  aws.String(s.bucket),
			Marker:  aws.String(lastKey),
			MaxKeys: aws.Int64(1000),
			Prefix:  aws.String(s.getKeyWithPrefix(key)),
		}
		resp, err := s.api.ListObjects(params)
		if err != nil {
			if awsErr, ok := err.(awserr.Error); ok && awsErr.Code() == s3.ErrCodeNoSuchBucket {
				return nil, errors.Wrapf(ErrBucketNotFound, "bucket %v", s.bucket)
			}
			return nil, err
		}
		for _, v := range resp.Contents {
			lastKey = aws.StringValue(v.Key)
			keys = append(keys, s.trimPrefix(lastKey))
		}
		if !aws.BoolValue(resp.IsTruncated) || len(resp.Contents) == 0 {
			break
		}
	}
	return keys, nil
}

func (s *basicClient) getKeyWithPrefix(key string) string {
	if s.prefix != "" {
		return strings.TrimRight(s.prefix, "/") + "/" + key // ensure trailing slash after prefix.
	}
	return key
}

func (s *basicClient) trimPrefix(key string) string {
	if s.prefix != "" {
		return strings.TrimPrefix(key, strings.TrimRight(s.prefix, "/")+"/")
	}
	return key
}
