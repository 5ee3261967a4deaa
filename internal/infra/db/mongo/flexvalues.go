package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fleetbook/internal/domain/calendar"
)

// flexDay decodes the date representations found in migrated documents: a
// BSON datetime, a YYYY-MM-DD (or longer ISO) string, or a numeric epoch.
// Unusable values decode to the not-ok state instead of failing the whole
// document; callers decide whether a missing date is an error.
type flexDay struct {
	day calendar.Day
	ok  bool
}

func (f *flexDay) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.DateTime:
		// The previous system stored ranges as local-midnight timestamps.
		// Taking the local calendar fields recovers the day the writer
		// meant; reading UTC fields would land one day early east of UTC.
		f.day = calendar.FromTime(rv.Time())
		f.ok = true
	case bsontype.String:
		s := rv.StringValue()
		if len(s) > 10 {
			s = s[:10]
		}
		if d, err := calendar.Parse(s); err == nil {
			f.day = d
			f.ok = true
		}
	case bsontype.Int64:
		f.day, f.ok = dayFromEpoch(rv.Int64())
	case bsontype.Int32:
		f.day, f.ok = dayFromEpoch(int64(rv.Int32()))
	case bsontype.Double:
		f.day, f.ok = dayFromEpoch(int64(rv.Double()))
	}
	return nil
}

func dayFromEpoch(n int64) (calendar.Day, bool) {
	if n <= 0 {
		return calendar.Day{}, false
	}
	d, err := calendar.Parse(n)
	if err != nil {
		return calendar.Day{}, false
	}
	return d, true
}

// flexTime decodes creation instants that may be stored as a datetime, an
// ISO string, or an epoch number.
type flexTime struct {
	t  time.Time
	ok bool
}

func (f *flexTime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.DateTime:
		f.t = rv.Time().UTC()
		f.ok = true
	case bsontype.String:
		if parsed, err := time.Parse(time.RFC3339, rv.StringValue()); err == nil {
			f.t = parsed.UTC()
			f.ok = true
		}
	case bsontype.Int64:
		f.t = epochToTime(rv.Int64())
		f.ok = !f.t.IsZero()
	case bsontype.Double:
		f.t = epochToTime(int64(rv.Double()))
		f.ok = !f.t.IsZero()
	}
	return nil
}

func epochToTime(n int64) time.Time {
	if n <= 0 {
		return time.Time{}
	}
	if n > 1_000_000_000_000 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

// idString folds the _id representations of migrated documents to a string
// key: native strings stay as is, ObjectIDs render as hex.
func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	default:
		return ""
	}
}

// idFilter is the inverse of idString: a point lookup matches the string id
// directly and, when the id is valid hex, the ObjectID it was rendered
// from. Without this, legacy ObjectID-keyed documents would list but never
// resolve by id.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
	}
	return bson.M{"_id": id}
}
