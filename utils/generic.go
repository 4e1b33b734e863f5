package utils

import (
	"strings"
	"time"
)

// TimeNow returns epoch UTC.
func TimeNow() int64 {
	return time.Now().UTC().Unix()
}

// NormalizeBulbName brings configured bulb name to the form used in selectors.
func NormalizeBulbName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
