// Package store contains the [domain.Store] implementations. Documents are
// kept as BSON bytes, keyed by collection and primary key.
package store

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Key returns the text form of a primary key used to index documents.
func Key(pk any) (string, error) {
	switch v := pk.(type) {
	case primitive.ObjectID:
		return v.Hex(), nil
	case uuid.UUID:
		return v.String(), nil
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint, uint32, uint64, int8, int16, uint8, uint16:
		return fmt.Sprint(v), nil
	case nil:
		return "", domain.ErrNoPrimaryKey
	}
	return "", fmt.Errorf("%w: %T primary key", domain.ErrUnsupportedValue, pk)
}

func encode(doc bson.M) ([]byte, error) {
	return bson.Marshal(doc)
}

func decode(b []byte) (bson.M, error) {
	var doc bson.M
	if err := bson.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
