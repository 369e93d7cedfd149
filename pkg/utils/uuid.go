package utils

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// FormatUSIN renders a sequence number as the invoice's USIN.
func FormatUSIN(n int64) string {
	return strconv.FormatInt(n, 10)
}
