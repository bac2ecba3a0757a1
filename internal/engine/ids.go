package engine

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PrefixUser         = "user"
	PrefixNotification = "notification"
	PrefixSharedTask   = "shared-task"
)

// randomBase36 returns n lowercase base36 characters drawn from a random UUID.
func randomBase36(n int) string {
	var b strings.Builder
	for b.Len() < n {
		u := uuid.New()
		b.WriteString(strconv.FormatUint(binary.BigEndian.Uint64(u[:8]), 36))
	}
	return b.String()[:n]
}

// NewID returns an id of the form <prefix>-<epoch-millis>-<7 random base36 chars>.
func NewID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), randomBase36(7))
}

// BreakID is the epoch-millisecond string of the break start.
func BreakID(start time.Time) string {
	return strconv.FormatInt(start.UnixMilli(), 10)
}

// RedemptionCode returns a code to show when a reward is claimed.
func RedemptionCode() string {
	return "CLEAN-" + strings.ToUpper(randomBase36(8))
}
