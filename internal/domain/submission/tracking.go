package submission

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"
)

// TrackingCodePrefix is the fixed prefix of every generated tracking code.
const TrackingCodePrefix = "LYN"

// trackingCodePattern matches LYN-YYYYMMDD-XXXXX.
var trackingCodePattern = regexp.MustCompile(`^` + TrackingCodePrefix + `-\d{8}-\d{5}$`)

// GenerateTrackingCode produces a human-shareable code of the form
// LYN-YYYYMMDD-XXXXX. The 5-digit suffix is random, which makes same-day
// collisions improbable but not impossible; callers must treat a uniqueness
// violation from the store as a retryable condition.
func GenerateTrackingCode(now time.Time) string {
	return fmt.Sprintf("%s-%s-%05d", TrackingCodePrefix, now.Format("20060102"), rand.Intn(100000))
}

// IsTrackingCode reports whether code has the generated format.
func IsTrackingCode(code string) bool {
	return trackingCodePattern.MatchString(code)
}
