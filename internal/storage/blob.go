package storage

import "io"

// BlobStore persists generated conversion artifacts (quiz.xml / quiz.zip).
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
