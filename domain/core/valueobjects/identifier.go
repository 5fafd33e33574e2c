package valueobjects

import (
	"strconv"
	"sync/atomic"
	"time"
)

// idCounter disambiguates identifiers minted within the same millisecond.
// Wall-clock granularity alone is not enough under UI event bursts.
var idCounter atomic.Uint64

// NewID mints a unique identifier of the given kind, e.g. "node-lx2k9q-1a".
// Identifiers are monotonically distinguishable across rapid successive calls.
func NewID(prefix string) string {
	millis := time.Now().UnixMilli()
	seq := idCounter.Add(1)
	return prefix + "-" + strconv.FormatInt(millis, 36) + "-" + strconv.FormatUint(seq, 36)
}
