package s3

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 implements only the calls the client makes; anything else panics via the nil embedded interface.
type fakeS3 struct {
	s3iface.S3API
	headErr       error
	headInputs    []*s3.HeadObjectInput
	headBucketErr error
	headBuckets   int
	objects    map[string][]byte
	listPages  []*s3.ListObjectsOutput
	listInputs []*s3.ListObjectsInput
}

func (f *fakeS3) HeadObject(in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	f.headInputs = append(f.headInputs, in)
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(in *s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
	f.headBuckets++
	if f.headBucketErr != nil {
		return nil, f.headBucketErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) GetObject(in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}
	return &s3.GetObjectOutput{Body: ioutil.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) ListObjects(in *s3.ListObjectsInput) (*s3.ListObjectsOutput, error) {
	f.listInputs = append(f.listInputs, in)
	page := f.listPages[0]
	f.listPages = f.listPages[1:]
	return page, nil
}

func TestHeadClassification(t *testing.T) {
	notFound := awserr.NewRequestFailure(awserr.New("NotFound", "Not Found", nil), http.StatusNotFound, "req-0")
	cases := []struct {
		name            string
		headErr         error
		headBucketErr   error
		wantStatus      ObjectStatus
		wantErr         error
		wantHeadBuckets int
	}{
		{
			name:       "object exists",
			wantStatus: ObjectExists,
		},
		{
			name:            "404 on head is a missing key",
			headErr:         notFound,
			wantStatus:      ObjectNotFound,
			wantHeadBuckets: 1,
		},
		{
			name:            "NoSuchKey is a missing key",
			headErr:         awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil),
			wantStatus:      ObjectNotFound,
			wantHeadBuckets: 1,
		},
		{
			name:            "unknown code with status 404 is a missing key",
			headErr:         awserr.NewRequestFailure(awserr.New("Weird", "odd", nil), http.StatusNotFound, "req-2"),
			wantStatus:      ObjectNotFound,
			wantHeadBuckets: 1,
		},
		{
			name:            "404 on head with a 404 on the bucket is a missing bucket",
			headErr:         notFound,
			headBucketErr:   notFound,
			wantStatus:      ObjectBucketNotFound,
			wantErr:         ErrBucketNotFound,
			wantHeadBuckets: 1,
		},
		{
			name:            "404 on head with a bucket lookup failure is unexpected",
			headErr:         notFound,
			headBucketErr:   awserr.NewRequestFailure(awserr.New("Forbidden", "Forbidden", nil), http.StatusForbidden, "req-5"),
			wantStatus:      ObjectStatusError,
			wantErr:         ErrUnexpectedBackend,
			wantHeadBuckets: 1,
		},
		{
			name:       "missing bucket is fatal",
			headErr:    awserr.NewRequestFailure(awserr.New(s3.ErrCodeNoSuchBucket, "no bucket", nil), http.StatusNotFound, "req-3"),
			wantStatus: ObjectBucketNotFound,
			wantErr:    ErrBucketNotFound,
		},
		{
			name:       "access denied is unexpected",
			headErr:    awserr.NewRequestFailure(awserr.New("Forbidden", "Forbidden", nil), http.StatusForbidden, "req-4"),
			wantStatus: ObjectStatusError,
			wantErr:    ErrUnexpectedBackend,
		},
		{
			name:       "non-AWS error is unexpected",
			headErr:    errors.New("connection reset"),
			wantStatus: ObjectStatusError,
			wantErr:    ErrUnexpectedBackend,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeS3{headErr: tc.headErr, headBucketErr: tc.headBucketErr}
			c := NewBasicClientWithAPI("processed", "", api)
			status, err := c.Head("dim_date/1995-01-01 00:00:00.000000.parquet")
			assert.Equal(t, tc.wantStatus, status)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
			}
			assert.Equal(t, tc.wantHeadBuckets, api.headBuckets)
			require.Len(t, api.headInputs, 1)
			assert.Equal(t, "processed", aws.StringValue(api.headInputs[0].Bucket))
			assert.Equal(t, "dim_date/1995-01-01 00:00:00.000000.parquet", aws.StringValue(api.headInputs[0].Key))
		})
	}
}

func TestHeadLooksUpBucketOnce(t *testing.T) {
	notFound := awserr.NewRequestFailure(awserr.New("NotFound", "Not Found", nil), http.StatusNotFound, "req-1")
	api := &fakeS3{headErr: notFound}
	c := NewBasicClientWithAPI("processed", "", api)
	for _, key := range []string{"dim_date/t.parquet", "dim_currency/t.parquet", "fact_payment/t.parquet"} {
		status, err := c.Head(key)
		require.NoError(t, err)
		assert.Equal(t, ObjectNotFound, status)
	}
	assert.Equal(t, 1, api.headBuckets)

	api = &fakeS3{headErr: notFound, headBucketErr: notFound}
	c = NewBasicClientWithAPI("processed", "", api)
	for i := 0; i < 2; i++ {
		status, err := c.Head("dim_date/t.parquet")
		assert.Equal(t, ObjectBucketNotFound, status)
		assert.True(t, errors.Is(err, ErrBucketNotFound), "got %v", err)
	}
	assert.Equal(t, 1, api.headBuckets)
}

// newHTTPTestClient returns a client backed by the real SDK talking to handler.
func newHTTPTestClient(t *testing.T, bucket string, handler http.HandlerFunc) BasicClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String("eu-west-2"),
		Endpoint:         aws.String(srv.URL),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(true),
		MaxRetries:       aws.Int(0),
		Credentials:      credentials.NewStaticCredentials("AKID", "SECRET", ""),
	})
	require.NoError(t, err)
	return NewBasicClientWithAPI(bucket, "", s3.New(sess))
}

func TestHeadMissingBucketOverHTTP(t *testing.T) {
	c := newHTTPTestClient(t, "no-such-bucket", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	status, err := c.Head("fact_sales_order/1995-01-01 00:00:00.000000.parquet")
	assert.Equal(t, ObjectBucketNotFound, status)
	assert.True(t, errors.Is(err, ErrBucketNotFound), "got %v", err)
}

func TestHeadMissingKeyOverHTTP(t *testing.T) {
	var bucketHeads int32
	c := newHTTPTestClient(t, "processed", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead && r.URL.Path == "/processed" {
			atomic.AddInt32(&bucketHeads, 1)
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	for i := 0; i < 2; i++ {
		status, err := c.Head("fact_sales_order/1995-01-01 00:00:00.000000.parquet")
		require.NoError(t, err)
		assert.Equal(t, ObjectNotFound, status)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&bucketHeads))
}

func TestHeadUsesPrefix(t *testing.T) {
	api := &fakeS3{}
	c := NewBasicClientWithAPI("processed", "landing/", api)
	_, err := c.Head("dim_date/t.parquet")
	require.NoError(t, err)
	assert.Equal(t, "landing/dim_date/t.parquet", aws.StringValue(api.headInputs[0].Key))
	assert.Equal(t, "s3://processed/landing/dim_date/t.parquet", c.URL("dim_date/t.parquet"))
}

func TestGet(t *testing.T) {
	api := &fakeS3{objects: map[string][]byte{"a/b.parquet": []byte("PAR1")}}
	c := NewBasicClientWithAPI("processed", "", api)
	b, err := c.Get("a/b.parquet")
	require.NoError(t, err)
	assert.Equal(t, []byte("PAR1"), b)

	_, err = c.Get("a/missing.parquet")
	assert.Equal(t, ErrKeyNotFound, err)
}

func TestListPagesAndTrimsPrefix(t *testing.T) {
	api := &fakeS3{listPages: []*s3.ListObjectsOutput{
		{
			IsTruncated: aws.Bool(true),
			Contents:    []*s3.Object{{Key: aws.String("p/dim_date/t1.parquet")}, {Key: aws.String("p/dim_date/t2.parquet")}},
		},
		{
			IsTruncated: aws.Bool(false),
			Contents:    []*s3.Object{{Key: aws.String("p/dim_date/t3.parquet")}},
		},
	}}
	c := NewBasicClientWithAPI("processed", "p", api)
	keys, err := c.List("dim_date/")
	require.NoError(t, err)
	assert.Equal(t, []string{"dim_date/t1.parquet", "dim_date/t2.parquet", "dim_date/t3.parquet"}, keys)
	require.Len(t, api.listInputs, 2)
	assert.Equal(t, "p/dim_date/", aws.StringValue(api.listInputs[0].Prefix))
	assert.Equal(t, "p/dim_date/t2.parquet", aws.StringValue(api.listInputs[1].Marker))
}

func TestObjectStatusString(t *testing.T) {
	assert.Equal(t, "exists", ObjectExists.String())
	assert.Equal(t, "not-found", ObjectNotFound.String())
	assert.Equal(t, "bucket-missing", ObjectBucketNotFound.String())
	assert.Equal(t, "error", ObjectStatusError.String())
}
