package registry

import (
	"math/rand"
	"regexp"
	"strconv"
	"time"
)

const (
	idPrefix       = "REG-"
	idSuffixLength = 5
	base36Upper    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var idPattern = regexp.MustCompile(`^REG-\d+-[0-9A-Z]{5}$`)

// NewID returns "REG-<unix millis>-<5 uppercase base36 chars>". Collisions
// are not retried.
func NewID(now time.Time) string {
	suffix := make([]byte, idSuffixLength)
	for i := range suffix {
		suffix[i] = base36Upper[rand.Intn(len(base36Upper))]
	}
	return idPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "-" + string(suffix)
}

func ValidID(id string) bool {
	return idPattern.MatchString(id)
}
