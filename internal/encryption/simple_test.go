package encryption

import (
	"bytes"
	"fmt"
	"testing"

	"social-go/internal/config"
	"social-go/internal/social"
)

func TestSimpleEncryptors_RoundTrip(t *testing.T) {
	t.Parallel()

	encryptors := map[string]social.Encryptor{
		"plain": PlainEncryptor{},
		"test":  NewTestEncryptor(),
	}
	inputs := [][]byte{
		[]byte("hello world"),
		{},
		{0x00, 0xff, 0x01, 0xfe},
	}

	for name, e := range encryptors {
		for i, input := range inputs {
			t.Run(fmt.Sprintf("%s/%d", name, i), func(t *testing.T) {
				var sealed bytes.Buffer
				if err := e.Encrypt(bytes.NewReader(input), &sealed); err != nil {
					t.Fatalf("Encrypt() error = %v", err)
				}

				dc, err := e.Unlock("")
				if err != nil {
					t.Fatalf("Unlock() error = %v", err)
				}
				var opened bytes.Buffer
				if err := dc.Decrypt(&sealed, &opened); err != nil {
					t.Fatalf("Decrypt() error = %v", err)
				}
				if !bytes.Equal(opened.Bytes(), input) {
					t.Errorf("round-trip = %v, want %v", opened.Bytes(), input)
				}
			})
		}
	}
}

func TestTestEncryptor(t *testing.T) {
	t.Parallel()

	e := NewTestEncryptor()
	if err := e.Setup("any"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if !e.setupCalled {
		t.Error("Setup() did not record that it was called")
	}

	var sealed bytes.Buffer
	if err := e.Encrypt(bytes.NewReader(nil), &sealed); err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if !bytes.Equal(sealed.Bytes(), markerHeader) {
		t.Errorf("Encrypt(empty) = %q, want marker header only", sealed.Bytes())
	}

	dc, _ := e.Unlock("")
	if err := dc.Decrypt(bytes.NewReader([]byte("not sealed")), &bytes.Buffer{}); err == nil {
		t.Error("Decrypt() of unsealed data should return error")
	}
}

func TestNewEncryptorFromConfig(t *testing.T) {
	tests := []struct {
		typ     string
		wantExt string
		wantErr bool
	}{
		{typ: "", wantExt: ""},
		{typ: "none", wantExt: ""},
		{typ: "age", wantExt: ".age"},
		{typ: "test", wantExt: ".enc"},
		{typ: "rot13", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got, err := NewEncryptorFromConfig(config.EncryptionConfig{Type: tt.typ})
			if tt.wantErr {
				if err == nil {
					t.Error("NewEncryptorFromConfig() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEncryptorFromConfig() error = %v", err)
			}
			if got.Extension() != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", got.Extension(), tt.wantExt)
			}
		})
	}
}
