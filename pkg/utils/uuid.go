package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	slugInvalid = regexp.MustCompile("[^a-z0-9-]")
	slugDashes  = regexp.MustCompile("-+")
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateTransactionID returns a sale reference like TRX-1718000000000-4F2A
func GenerateTransactionID() string {
	return fmt.Sprintf("TRX-%d-%s", time.Now().UnixMilli(), randomHex(2))
}

// PONumberPrefix is the yearly prefix of purchase order numbers
func PONumberPrefix(year int) string {
	return fmt.Sprintf("PO-%d-", year)
}

// FormatPONumber returns the seq-th purchase order number of a year, e.g. PO-2024-0007
func FormatPONumber(year int, seq int64) string {
	return fmt.Sprintf("%s%04d", PONumberPrefix(year), seq)
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return strings.ToUpper(uuid.New().String()[:n*2])
	}
	return strings.ToUpper(hex.EncodeToString(b))
}
