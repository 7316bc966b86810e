package swaputil

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/howeyc/gopass"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

// The daemon auth token sits encrypted on disk: 24 byte scrypt salt, 24
// byte secretbox nonce, then the sealed token.
const (
	saltLen  = 24
	nonceLen = 24

	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

func deriveKey(pass, salt []byte) (*[32]byte, error) {
	raw, err := scrypt.Key(pass, salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, err
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

// StoreAuthToken encrypts the token under the passphrase and writes it to
// path, mode 0600.
func StoreAuthToken(path string, token, pass []byte) error {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	var nonce [nonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return err
	}

	key, err := deriveKey(pass, salt)
	if err != nil {
		return err
	}

	out := make([]byte, 0, saltLen+nonceLen+len(token)+secretbox.Overhead)
	out = append(out, salt...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, token, &nonce, key)

	return os.WriteFile(path, out, 0600)
}

// LoadAuthToken reads and decrypts the token file.  A wrong passphrase
// fails the same way a corrupt file does.
func LoadAuthToken(path string, pass []byte) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) < saltLen+nonceLen+secretbox.Overhead {
		return nil, fmt.Errorf("auth token file %s is truncated", path)
	}

	salt := raw[:saltLen]
	var nonce [nonceLen]byte
	copy(nonce[:], raw[saltLen:saltLen+nonceLen])

	key, err := deriveKey(pass, salt)
	if err != nil {
		return nil, err
	}

	token, ok := secretbox.Open(nil, raw[saltLen+nonceLen:], &nonce, key)
	if !ok {
		return nil, fmt.Errorf("could not decrypt %s, wrong passphrase?", path)
	}
	return token, nil
}

// HaveAuthToken reports whether a token file exists at path.
func HaveAuthToken(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// PromptPassphrase reads a passphrase without echo, twice when confirming a
// new one.
func PromptPassphrase(confirm bool) ([]byte, error) {
	fmt.Printf("passphrase: ")
	pass, err := gopass.GetPasswd()
	if err != nil {
		return nil, err
	}
	if !confirm {
		return pass, nil
	}

	fmt.Printf("repeat passphrase: ")
	again, err := gopass.GetPasswd()
	if err != nil {
		return nil, err
	}
	if string(pass) != string(again) {
		return nil, fmt.Errorf("passphrases do not match")
	}
	return pass, nil
}
