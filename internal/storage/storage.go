// Package storage keeps uploaded blobs addressed by namespace and key.
package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/blake2b"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidKey = errors.New("invalid blob key")
)

// Storage is a blob namespace store. Delete of a missing key is not an error.
type Storage interface {
	Put(ctx context.Context, namespace, key string, data []byte) error
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Delete(ctx context.Context, namespace, key string) error
	// List returns every key in namespace, in no particular order.
	List(ctx context.Context, namespace string) ([]string, error)
	Close() error
}

// HashName derives a key from the blob contents: the hex BLAKE2b-256 digest
// followed by ext (".png", ".jpg"). Equal bytes always produce the same key.
func HashName(data []byte, ext string) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]) + ext
}

// checkKey rejects empty names and anything that could escape a namespace.
func checkKey(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return ErrInvalidKey
	}
	return nil
}

func checkPath(namespace, key string) error {
	if err := checkKey(namespace); err != nil {
		return err
	}
	return checkKey(key)
}
