// Package storage defines the vault file-system abstraction. All paths
// are relative to the vault root.
package storage

// Provider is the interface for vault file operations.
type Provider interface {
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Copy duplicates src to dst, creating dst's parent directories.
	Copy(src, dst string) error
}
