package encryption

import (
	"bytes"
	"fmt"
	"io"

	"social-go/internal/social"
)

// PlainEncryptor stores snapshots unencrypted.
type PlainEncryptor struct{}

func (PlainEncryptor) Setup(string) error { return nil }
func (PlainEncryptor) IsConfigured() bool { return true }
func (PlainEncryptor) Extension() string  { return "" }

func (PlainEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	_, err := io.Copy(w, r)
	return err
}

func (PlainEncryptor) Unlock(string) (social.DecryptionContext, error) {
	return plainDecryptor{}, nil
}

type plainDecryptor struct{}

func (plainDecryptor) Decrypt(r io.Reader, w io.Writer) error {
	_, err := io.Copy(w, r)
	return err
}

// markerHeader is prepended by TestEncryptor so sealed output differs from
// the plaintext while staying deterministic.
var markerHeader = []byte("SOCENC\x00\x01")

// TestEncryptor is a deterministic, crypto-free encryptor for tests.
type TestEncryptor struct {
	setupCalled bool
}

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(string) error {
	e.setupCalled = true
	return nil
}

func (e *TestEncryptor) IsConfigured() bool { return true }
func (e *TestEncryptor) Extension() string  { return ".enc" }

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(markerHeader); err != nil {
		return fmt.Errorf("writing marker header: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(string) (social.DecryptionContext, error) {
	return markerDecryptor{}, nil
}

type markerDecryptor struct{}

func (markerDecryptor) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(markerHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading marker header: %w", err)
	}
	if !bytes.Equal(header, markerHeader) {
		return fmt.Errorf("invalid marker header")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

var (
	_ social.Encryptor = PlainEncryptor{}
	_ social.Encryptor = (*TestEncryptor)(nil)
)
