package github

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// sealSecret encrypts a secret value for the repository's public key using a
// libsodium anonymous sealed box, which is what the GitHub secrets API
// expects. Returns the base64-encoded ciphertext.
func sealSecret(value, publicKeyB64 string) (string, error) {
	keyBytes, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return "", fmt.Errorf("failed to decode repository public key: %w", err)
	}
	if len(keyBytes) != 32 {
		return "", fmt.Errorf("repository public key has unexpected length %d", len(keyBytes))
	}

	var publicKey [32]byte
	copy(publicKey[:], keyBytes)

	sealed, err := box.SealAnonymous(nil, []byte(value), &publicKey, rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to seal secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}
