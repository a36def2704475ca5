package experiment

import (
	"crypto/sha256"
	"encoding/binary"

	"summarylab/internal/apperr"
	"summarylab/internal/domain"
)

const groupCount = 2

// Assign buckets a user into an experiment group.
//
// The group is the SHA-256 digest of the UTF-8 user ID, truncated to its first
// 8 hex characters (the leading 4 bytes, big-endian), modulo 2. Changing any part
// of this silently reshuffles existing users between variants.
func Assign(userID string) (domain.Group, error) {
	if userID == "" {
		return 0, apperr.Validation("missing user_id")
	}

	sum := sha256.Sum256([]byte(userID))
	prefix := binary.BigEndian.Uint32(sum[:4])

	return domain.Group(prefix % groupCount), nil
}
