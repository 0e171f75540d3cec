package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound indicates the requested intent, entity or model artifact does
// not exist.
var ErrNotFound = errors.New("not found")

// ModelName builds the persisted artifact name for a model trained at ts
// with the given fingerprint.
func ModelName(ts time.Time, fingerprint string) string {
	return fmt.Sprintf("%d__%s.bin", ts.UnixMilli(), fingerprint)
}

// matchesFingerprint reports whether an artifact name belongs to the given
// fingerprint.
func matchesFingerprint(name, fingerprint string) bool {
	return strings.HasSuffix(name, "__"+fingerprint+".bin")
}

// newer reports whether artifact name a was created after b, comparing the
// millisecond prefixes. Malformed names sort oldest.
func newer(a, b string) bool {
	return modelTimestamp(a) > modelTimestamp(b)
}

func modelTimestamp(name string) int64 {
	idx := strings.Index(name, "__")
	if idx <= 0 {
		return -1
	}
	var ts int64
	if _, err := fmt.Sscanf(name[:idx], "%d", &ts); err != nil {
		return -1
	}
	return ts
}
