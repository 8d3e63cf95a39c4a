package redis

import (
	"fmt"

	"github.com/irisgate/irisgate/internal/model"
)

// Key prefix for all verification data
const keyPrefix = "irisgate"

// profileKey returns the Redis key for a UserProfile
func profileKey(id model.ProfileID) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, id)
}

// profileIndexKey returns the Redis key for the SET of profile keys
func profileIndexKey() string {
	return fmt.Sprintf("%s:idx:profiles", keyPrefix)
}

// sessionKey returns the Redis key for a VerificationSession
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// attendanceKey returns the Redis key for the attendance event list
func attendanceKey() string {
	return fmt.Sprintf("%s:attendance", keyPrefix)
}
