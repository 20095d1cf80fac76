package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func GetQueryParamAsInt(c *gin.Context, name string, fallback int) int {
	value := c.Query(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// GenerateRandomStringWithLength draws characters from charset using the
// crypto source.
func GenerateRandomStringWithLength(length int, charset string) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(charset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random string: %w", err)
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}

const (
	MaxImageSize   = 5 << 20
	MaxReceiptSize = 10 << 20
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var receiptExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".pdf":  true,
}

// ValidateImageFile checks campaign image uploads by extension and size.
func ValidateImageFile(header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		return fmt.Errorf("unsupported image type %s", ext)
	}
	if header.Size > MaxImageSize {
		return fmt.Errorf("image exceeds %d bytes", MaxImageSize)
	}
	return nil
}

// ValidateReceiptFile additionally allows PDF scans.
func ValidateReceiptFile(header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !receiptExtensions[ext] {
		return fmt.Errorf("unsupported receipt type %s", ext)
	}
	if header.Size > MaxReceiptSize {
		return fmt.Errorf("receipt exceeds %d bytes", MaxReceiptSize)
	}
	return nil
}

// GenerateSafeFilename keeps the extension and replaces the rest with a
// uuid, so user-supplied names never reach object storage.
func GenerateSafeFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.NewString() + ext
}

func ContentTypeForExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
