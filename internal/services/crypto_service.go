package services

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"donation-service/internal/models"

	"golang.org/x/crypto/scrypt"
)

var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// EmailCipher encrypts donor emails at rest with AES-256-CBC. The key is
// derived once from the configured secret; every Encrypt call draws a fresh
// IV, so the same address never produces the same ciphertext twice.
type EmailCipher struct {
	key []byte
}

func NewEmailCipher(secret string) (*EmailCipher, error) {
	if secret == "" {
		return nil, errors.New("email encryption secret is empty")
	}
	key, err := scrypt.Key([]byte(secret), []byte("salt"), 16384, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}
	return &EmailCipher{key: key}, nil
}

// Encrypt returns hex(iv):hex(ciphertext).
func (c *EmailCipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to init cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Any malformed input, wrong key or corrupted
// padding comes back as ErrMalformedCiphertext rather than garbage.
func (c *EmailCipher) Decrypt(encoded string) (string, error) {
	parts := strings.SplitN(encoded, ":", 2)
	if len(parts) != 2 {
		return "", ErrMalformedCiphertext
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrMalformedCiphertext
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrMalformedCiphertext
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to init cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, errors.New("invalid padding byte")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errors.New("inconsistent padding")
		}
	}
	return data[:len(data)-padding], nil
}

// ComputeDailyHash digests one day of transactions as
// sha256("id|amount|timestamp|campaign_id" lines joined with newlines).
// Order matters: callers pass rows sorted by id. Empty input yields "".
func ComputeDailyHash(transactions []models.Transaction) string {
	if len(transactions) == 0 {
		return ""
	}

	lines := make([]string, 0, len(transactions))
	for _, t := range transactions {
		lines = append(lines, fmt.Sprintf("%d|%s|%s|%d", t.ID, t.Amount, t.Timestamp, t.CampaignID))
	}

	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}

// VerifyDailyHash recomputes the digest and compares it to the stored one.
func VerifyDailyHash(transactions []models.Transaction, expected string) bool {
	if expected == "" {
		return false
	}
	return ComputeDailyHash(transactions) == expected
}
