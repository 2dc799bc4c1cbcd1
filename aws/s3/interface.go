package s3

import (
	"errors"
)

var (
	ErrKeyNotFound       = errors.New("key not found")
	ErrBucketNotFound    = errors.New("bucket not found")
	ErrUnexpectedBackend = errors.New("unexpected object storage error")
)

// ObjectStatus is the outcome of a metadata lookup for a single key.
type ObjectStatus int

const (
	ObjectStatusError ObjectStatus = iota // the backend failed in a way we don't classify
	ObjectExists
	ObjectNotFound
	ObjectBucketNotFound
)

func (s ObjectStatus) String() string {
	switch s {
	case ObjectExists:
		return "exists"
	case ObjectNotFound:
		return "not-found"
	case ObjectBucketNotFound:
		return "bucket-missing"
	default:
		return "error"
	}
}

type BasicClient interface {
	Header
	Getter
	Lister
	// URL returns the s3:// path of key.
	URL(key string) string
}

// Header looks up object metadata without reading the object.
type Header interface {
	// Head returns ObjectExists or ObjectNotFound with a nil error.
	// ObjectBucketNotFound comes with an error wrapping ErrBucketNotFound and
	// ObjectStatusError comes with an error wrapping ErrUnexpectedBackend.
	Head(key string) (ObjectStatus, error)
}

type Getter interface {
	// Get returns ErrKeyNotFound if the given key doesn't exist.
	Get(key string) (data []byte, err error)
}

type Lister interface {
	List(key string) (keys []string, err error)
}
