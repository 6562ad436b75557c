package custom

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Flag is an on/off switch read from documents that are not always written by this application.
// Booleans, numbers and the strings true/enabled/on/yes/1 are understood; anything else is off.
type Flag bool

// Enabled reports whether the flag is on.
func (f Flag) Enabled() bool {
	return bool(f)
}

// MarshalBSONValue implements the bson.ValueMarshaler interface.
func (f Flag) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(bool(f))
}

// UnmarshalBSONValue implements the bson.ValueUnmarshaler interface.
func (f *Flag) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bson.TypeBoolean:
		b, _ := raw.BooleanOK()
		*f = Flag(b)
	case bson.TypeInt32:
		i, _ := raw.Int32OK()
		*f = i != 0
	case bson.TypeInt64:
		i, _ := raw.Int64OK()
		*f = i != 0
	case bson.TypeDouble:
		v, _ := raw.DoubleOK()
		*f = v != 0
	case bson.TypeString:
		s, _ := raw.StringValueOK()
		*f = ParseFlag(s)
	default:
		*f = false
	}
	return nil
}

// ParseFlag reports whether s is one of the accepted "on" spellings.
func ParseFlag(s string) Flag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "enabled", "on", "yes", "1":
		return true
	default:
		return false
	}
}
