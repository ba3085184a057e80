package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber generates a unique, date-prefixed order number
func GenerateOrderNumber(prefix string, now time.Time) string {
	return prefix + "-" + now.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:8])
}
