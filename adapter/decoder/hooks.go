package decoder

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	objectIDType = reflect.TypeFor[primitive.ObjectID]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
	timeType     = reflect.TypeFor[time.Time]()
)

func objectIDHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != objectIDType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return primitive.ObjectIDFromHex(v)
	case *primitive.ObjectID:
		if v != nil {
			return *v, nil
		}
	}
	return data, nil
}

func uuidHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != uuidType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return uuid.Parse(v)
	case []byte:
		return uuid.FromBytes(v)
	case primitive.Binary:
		return uuid.FromBytes(v.Data)
	}
	return data, nil
}

func timeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return time.Parse(time.RFC3339Nano, v)
	case primitive.DateTime:
		return v.Time().UTC(), nil
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0).UTC(), nil
	}
	return data, nil
}
