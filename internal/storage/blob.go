package storage

import "io"

// BlobStore holds question and option images. Contents are opaque to the
// rest of the service: it stores bytes and hands back keys/URLs.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
	SignedURL(key string) (string, error) // fs returns "file://..." for dev
}
