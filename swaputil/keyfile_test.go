package swaputil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAuthTokenRoundtrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "swapmon-keyfile")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "authtoken.enc")

	if HaveAuthToken(path) {
		t.Fatal("token file should not exist yet")
	}

	token := []byte("s3kr1t-daemon-token")
	pass := []byte("hunter2")
	if err := StoreAuthToken(path, token, pass); err != nil {
		t.Fatal(err)
	}
	if !HaveAuthToken(path) {
		t.Fatal("token file should exist")
	}

	got, err := LoadAuthToken(path, pass)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(token) {
		t.Fatalf("decrypted %q", got)
	}

	if _, err := LoadAuthToken(path, []byte("wrong")); err == nil {
		t.Fatal("wrong passphrase must fail")
	}
}

func TestTruncatedTokenFile(t *testing.T) {
	dir, err := os.MkdirTemp("", "swapmon-keyfile")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "authtoken.enc")

	if err := os.WriteFile(path, []byte("short"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAuthToken(path, []byte("x")); err == nil {
		t.Fatal("truncated file must fail")
	}
}
