// Package storage defines the file-system abstraction for menu tree documents.
package storage

import "time"

// DocumentMeta describes a tree document on disk.
type DocumentMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for tree document operations.
type Provider interface {
	// List returns metadata for every .json/.yaml/.yml file under dir (relative to root).
	List(dir string) ([]DocumentMeta, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
}
