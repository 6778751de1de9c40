// Package timegetter provides the clock behind generated ObjectIDs. The first
// four bytes of an ObjectID hold UTC seconds since the Unix epoch, and the
// driver reads them back as UTC. The clock reports UTC too, so the time used
// to build an ID equals the timestamp later read from it.
package timegetter

import (
	"time"

	"github.com/vinicius-lino-figueiredo/restmongo/domain"
)

// TimeGetter implements [domain.TimeGetter].
type TimeGetter struct{}

// NewTimeGetter returns a new implementation of domain.TimeGetter.
func NewTimeGetter() domain.TimeGetter {
	return &TimeGetter{}
}

// GetTime implements [domain.TimeGetter].
func (t *TimeGetter) GetTime() time.Time {
	return time.Now().UTC()
}
