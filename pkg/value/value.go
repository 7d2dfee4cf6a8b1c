// Package value defines the closed set of values the store can hold and the
// coercion rules between stored and native representations. Boolean is a
// logical view over the store's INTEGER 0/1 encoding; the store itself never
// persists a Boolean.
package value

import (
	"fmt"
	"time"

	ormerrors "github.com/ayonsaha2011/libsql-orm/pkg/errors"
)

// Type is the declared semantic type of a column. Coercion decisions are
// driven by the declared type, never by the runtime shape of a value.
type Type int

const (
	TypeInteger Type = iota
	TypeReal
	TypeText
	TypeBlob
	TypeBoolean
	TypeTimestamp
)

// String returns the type name used in error messages and DDL generation.
func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	case TypeText:
		return "TEXT"
	case TypeBlob:
		return "BLOB"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeTimestamp:
		return "TIMESTAMP"
	default:
		return fmt.Sprintf("TYPE(%d)", int(t))
	}
}

// Value is the sealed union of storable values. Only Null, Integer, Real,
// Text, Blob and Boolean implement it.
type Value interface {
	isValue()
	// Kind returns a short tag for error messages.
	Kind() string
}

// Null represents SQL NULL.
type Null struct{}

// Integer is a 64-bit integer value.
type Integer int64

// Real is a 64-bit floating point value.
type Real float64

// Text is a string value.
type Text string

// Blob is a raw byte value.
type Blob []byte

// Boolean exists only at the mapping boundary; ToStorage lowers it to
// Integer(0|1) before anything reaches the store.
type Boolean bool

func (Null) isValue()    {}
func (Integer) isValue() {}
func (Real) isValue()    {}
func (Text) isValue()    {}
func (Blob) isValue()    {}
func (Boolean) isValue() {}

func (Null) Kind() string    { return "NULL" }
func (Integer) Kind() string { return "INTEGER" }
func (Real) Kind() string    { return "REAL" }
func (Text) Kind() string    { return "TEXT" }
func (Blob) Kind() string    { return "BLOB" }
func (Boolean) Kind() string { return "BOOLEAN" }

// TimeFormat is the text encoding used for timestamp columns.
const TimeFormat = time.RFC3339

// ToStorage lowers a value to its stored representation. Boolean becomes
// Integer(0|1); everything else is already in storage form.
func ToStorage(v Value) Value {
	if b, ok := v.(Boolean); ok {
		if bool(b) {
			return Integer(1)
		}
		return Integer(0)
	}
	return v
}

// FromStorage converts a stored value to the representation implied by the
// declared column type. Null passes through for every declared type;
// nullability is the schema layer's concern.
func FromStorage(v Value, declared Type) (Value, error) {
	if _, ok := v.(Null); ok {
		return Null{}, nil
	}

	switch declared {
	case TypeBoolean:
		switch t := v.(type) {
		case Integer:
			return Boolean(t != 0), nil
		case Boolean:
			return t, nil
		}
	case TypeInteger:
		if t, ok := v.(Integer); ok {
			return t, nil
		}
	case TypeReal:
		switch t := v.(type) {
		case Real:
			return t, nil
		case Integer:
			// SQLite hands back INTEGER for REAL columns holding whole numbers.
			return Real(float64(t)), nil
		}
	case TypeText, TypeTimestamp:
		switch t := v.(type) {
		case Text:
			return t, nil
		case Blob:
			// Drivers commonly surface TEXT columns as raw bytes.
			return Text(string(t)), nil
		}
	case TypeBlob:
		switch t := v.(type) {
		case Blob:
			return t, nil
		case Text:
			return Blob([]byte(t)), nil
		}
	}

	return nil, ormerrors.NewCoercionError(declared.String(), v.Kind())
}

// FromNative converts a native Go value to a Value. time.Time is carried as
// Text in TimeFormat.
func FromNative(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Boolean(t), nil
	case int:
		return Integer(int64(t)), nil
	case int32:
		return Integer(int64(t)), nil
	case int64:
		return Integer(t), nil
	case float32:
		return Real(float64(t)), nil
	case float64:
		return Real(t), nil
	case string:
		return Text(t), nil
	case []byte:
		return Blob(t), nil
	case time.Time:
		return Text(t.UTC().Format(TimeFormat)), nil
	case *time.Time:
		if t == nil {
			return Null{}, nil
		}
		return Text(t.UTC().Format(TimeFormat)), nil
	default:
		return nil, fmt.Errorf("unsupported native type %T", v)
	}
}

// AsInt64 extracts an integer value.
func AsInt64(v Value) (int64, bool) {
	i, ok := v.(Integer)
	return int64(i), ok
}

// AsFloat64 extracts a real value, widening Integer.
func AsFloat64(v Value) (float64, bool) {
	switch t := v.(type) {
	case Real:
		return float64(t), true
	case Integer:
		return float64(t), true
	}
	return 0, false
}

// AsString extracts a text value.
func AsString(v Value) (string, bool) {
	t, ok := v.(Text)
	return string(t), ok
}

// AsBytes extracts a blob value.
func AsBytes(v Value) ([]byte, bool) {
	b, ok := v.(Blob)
	return []byte(b), ok
}

// AsBool extracts a boolean value. It does not interpret integers; pass the
// value through FromStorage with a declared boolean type first.
func AsBool(v Value) (bool, bool) {
	b, ok := v.(Boolean)
	return bool(b), ok
}

// AsTime parses a timestamp carried as Text.
func AsTime(v Value) (time.Time, bool) {
	s, ok := v.(Text)
	if !ok {
		return time.Time{}, false
	}
	ts, err := time.Parse(TimeFormat, string(s))
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// IsNull reports whether v is the Null value.
func IsNull(v Value) bool {
	_, ok := v.(Null)
	return ok
}

// ToDriverArg converts a value to the form database/sql binds. Boolean is
// lowered through ToStorage first so the store only ever sees integers.
func ToDriverArg(v Value) any {
	switch t := ToStorage(v).(type) {
	case Null:
		return nil
	case Integer:
		return int64(t)
	case Real:
		return float64(t)
	case Text:
		return string(t)
	case Blob:
		return []byte(t)
	default:
		return nil
	}
}

// FromDriverValue converts a value scanned from database/sql into a Value.
func FromDriverValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case int64:
		return Integer(t)
	case float64:
		return Real(t)
	case string:
		return Text(t)
	case []byte:
		return Blob(t)
	case bool:
		return Boolean(t)
	case time.Time:
		return Text(t.UTC().Format(TimeFormat))
	default:
		return Text(fmt.Sprintf("%v", t))
	}
}
