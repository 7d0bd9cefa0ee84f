// Package storage keeps a directory of recipe documents, one file per recipe.
package storage

import "time"

// Document describes one recipe document found in a directory.
type Document struct {
	Path      string    // relative to the directory root
	UID       string    // recipe uid from the document
	Hash      string    // content hash recorded in the document
	Checksum  string    // SHA-256 of the file bytes
	UpdatedAt time.Time // file modification time
}

// Provider is the interface for recipe directory operations.
type Provider interface {
	// List returns every parseable recipe document that carries a uid.
	List() ([]Document, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to the root).
	Delete(path string) error
}
