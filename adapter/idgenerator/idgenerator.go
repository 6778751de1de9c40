// Package idgenerator contains the default [domain.IDGenerator]
// implementation, which builds MongoDB ObjectIDs from a clock and a source of
// random bytes.
package idgenerator

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"

	"github.com/vinicius-lino-figueiredo/restmongo/adapter/timegetter"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDGenerator implements [domain.IDGenerator].
//
// Generated ids hold a 4 byte timestamp, 5 random bytes read once per
// generator and a 3 byte counter starting at a random value.
type IDGenerator struct {
	reader     io.Reader
	timeGetter domain.TimeGetter

	mu      sync.Mutex
	seeded  bool
	unique  [5]byte
	counter uint32
}

// NewIDGenerator implements [domain.IDGenerator].
func NewIDGenerator(opts ...Option) domain.IDGenerator {
	i := IDGenerator{
		reader:     rand.Reader,
		timeGetter: timegetter.NewTimeGetter(),
	}
	for _, opt := range opts {
		opt(&i)
	}
	return &i
}

// GenerateID implements [domain.IDGenerator].
func (i *IDGenerator) GenerateID() (primitive.ObjectID, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.seeded {
		var buf [8]byte
		if _, err := io.ReadFull(i.reader, buf[:]); err != nil {
			return primitive.NilObjectID, err
		}
		copy(i.unique[:], buf[:5])
		i.counter = uint32(buf[5])<<16 | uint32(buf[6])<<8 | uint32(buf[7])
		i.seeded = true
	}
	i.counter = (i.counter + 1) & 0xffffff

	var id primitive.ObjectID
	binary.BigEndian.PutUint32(id[0:4], uint32(i.timeGetter.GetTime().Unix()))
	copy(id[4:9], i.unique[:])
	id[9] = byte(i.counter >> 16)
	id[10] = byte(i.counter >> 8)
	id[11] = byte(i.counter)
	return id, nil
}
