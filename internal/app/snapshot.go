package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotPrefix is the archive folder holding ledger snapshots.
const SnapshotPrefix = "snapshots/"

// snapshotTimeFormat sorts lexically in time order.
const snapshotTimeFormat = "20060102T150405Z"

// CreateSnapshot copies the ledger with VACUUM INTO, encrypts the copy and
// stores it in the archive. Returns the snapshot name.
func (a *SocialApp) CreateSnapshot(ctx context.Context) (string, error) {
	if !a.encryptor.IsConfigured() {
		return "", fmt.Errorf("encryption keys not found: run 'social keys init' first")
	}

	tmpDir, err := os.MkdirTemp("", "social-snapshot-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	rawPath := filepath.Join(tmpDir, "ledger.db")
	if err := a.ledger.BackupTo(rawPath); err != nil {
		return "", err
	}

	sealedPath := rawPath + a.encryptor.Extension()
	if sealedPath != rawPath {
		if err := a.encryptFile(rawPath, sealedPath); err != nil {
			return "", err
		}
	}

	f, err := os.Open(sealedPath)
	if err != nil {
		return "", fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat snapshot: %w", err)
	}

	name := SnapshotPrefix + a.clock.Now().UTC().Format(snapshotTimeFormat) + ".db" + a.encryptor.Extension()
	if err := a.archive.Put(ctx, name, f, info.Size()); err != nil {
		return "", fmt.Errorf("storing snapshot: %w", err)
	}

	a.logger.Info("snapshot created", "name", name, "size", info.Size())
	return name, nil
}

func (a *SocialApp) encryptFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening ledger copy: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("creating encrypted snapshot: %w", err)
	}
	if err := a.encryptor.Encrypt(in, out); err != nil {
		out.Close()
		return fmt.Errorf("encrypting snapshot: %w", err)
	}
	return out.Close()
}

// ListSnapshots returns the stored snapshot names, oldest first.
func (a *SocialApp) ListSnapshots(ctx context.Context) ([]string, error) {
	names, err := a.archive.List(ctx, SnapshotPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return names, nil
}

// RestoreSnapshot fetches a snapshot, decrypts it with passphrase and writes
// the ledger database to dest. dest must not exist. name may omit the
// snapshots/ prefix.
func (a *SocialApp) RestoreSnapshot(ctx context.Context, name, dest, passphrase string) error {
	if !strings.HasPrefix(name, SnapshotPrefix) {
		name = SnapshotPrefix + name
	}

	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("restore target already exists: %s", dest)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking restore target: %w", err)
	}

	dc, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return fmt.Errorf("unlocking private key: %w", err)
	}

	tmp, err := os.CreateTemp("", "social-restore-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := a.archive.Get(ctx, name, tmp); err != nil {
		return fmt.Errorf("fetching snapshot %s: %w", name, err)
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		return fmt.Errorf("rewinding snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0700); err != nil {
		return fmt.Errorf("creating restore directory: %w", err)
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("creating restore target: %w", err)
	}
	if err := dc.Decrypt(tmp, out); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("decrypting snapshot: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing restore target: %w", err)
	}

	a.logger.Info("snapshot restored", "name", name, "dest", dest)
	return nil
}
