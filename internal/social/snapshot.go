package social

import (
	"context"
	"io"
)

// Archive stores ledger snapshots by name. Names are slash-separated and
// relative to the archive root, e.g. "snapshots/20240115T103000Z.db.age".
type Archive interface {
	// Put stores size bytes read from r under name, replacing any previous object.
	Put(ctx context.Context, name string, r io.Reader, size int64) error

	// Get writes the object stored under name to w.
	Get(ctx context.Context, name string, w io.Writer) error

	// List returns the names under prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)

	// ValidateSetup verifies that the archive is reachable.
	ValidateSetup(ctx context.Context) error
}

// Encryptor seals snapshots before they leave the machine. Encrypting needs
// only the public key; decrypting needs the passphrase that protects the
// private key.
type Encryptor interface {
	// Setup generates a key pair and protects the private half with passphrase.
	Setup(passphrase string) error

	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock opens the private key for a single restore.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured reports whether Encrypt can run.
	IsConfigured() bool

	// Extension is appended to snapshot names, e.g. ".age". Empty for plaintext.
	Extension() string
}

// DecryptionContext holds an unlocked private key in memory only.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
