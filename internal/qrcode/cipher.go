package qrcode

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"campus-collective/agora/internal/domain"
)

// ErrDecrypt is the single error returned for every decryption failure.
// Padding, length and encoding problems are indistinguishable to callers so
// the verify endpoint cannot be used as a decryption oracle.
var ErrDecrypt = errors.New("decrypt failed")

// Cipher encrypts and decrypts event QR payloads with AES-256-CBC. The key
// is server-held; clients only ever see ciphertext and IV.
type Cipher struct {
	key []byte
}

// NewCipher parses a hex-encoded 256-bit key.
func NewCipher(hexKey string) (*Cipher, error) {
	if hexKey == "" {
		return nil, domain.Config("qr encryption key not set")
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, domain.Config("qr encryption key is not valid hex")
	}
	if len(key) != 32 {
		return nil, domain.Config(fmt.Sprintf("qr encryption key must be 32 bytes, got %d", len(key)))
	}
	return &Cipher{key: key}, nil
}

// Encrypt returns the base64 ciphertext and the base64 IV used to produce it.
// A fresh random IV is drawn per call.
func (c *Cipher) Encrypt(plaintext string) (string, string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", "", domain.Config("qr encryption key rejected by cipher")
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", "", fmt.Errorf("draw iv: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return base64.StdEncoding.EncodeToString(out), base64.StdEncoding.EncodeToString(iv), nil
}

// Decrypt reverses Encrypt. Every malformed input collapses to ErrDecrypt.
func (c *Cipher) Decrypt(ciphertextB64, ivB64 string) (string, error) {
	ct, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return "", ErrDecrypt
	}
	iv, err := base64.StdEncoding.DecodeString(ivB64)
	if err != nil {
		return "", ErrDecrypt
	}
	if len(iv) != aes.BlockSize || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", ErrDecrypt
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", domain.Config("qr encryption key rejected by cipher")
	}

	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ct)

	plain, ok := pkcs7Unpad(out, aes.BlockSize)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, bool) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize {
		return nil, false
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}
