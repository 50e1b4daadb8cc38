// Package storage persists the note collection on the local file system.
package storage

// Provider is the byte-level file abstraction the codecs write through.
type Provider interface {
	// Read returns the raw bytes of the file at name (relative to the provider root).
	Read(name string) ([]byte, error)
	// Write atomically replaces the file at name with content.
	Write(name string, content []byte) error
}
