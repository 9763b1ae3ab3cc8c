package pgraph

import (
	"fmt"
	"strconv"
)

// Value is a property value.  Only the primitive kinds with a type tag below
// are supported: string, bool, int32, int64, float32 and float64.
type Value = interface{}

// Type tags used when a property value is written in text form.
const (
	TagString  = "String"
	TagInteger = "Integer"
	TagLong    = "Long"
	TagBoolean = "Boolean"
	TagDouble  = "Double"
	TagFloat   = "Float"
)

// NormalizeValue returns the canonical form of a property value.  Go integer
// kinds without a tag are widened: int and uint32 become int64 (Long), the
// smaller integer kinds become int32 (Integer).  Any other type fails with
// ErrUnsupportedPropertyType.
func NormalizeValue(v Value) (Value, error) {
	switch x := v.(type) {
	case string, bool, int32, int64, float32, float64:
		return v, nil
	case int:
		return int64(x), nil
	case int8:
		return int32(x), nil
	case int16:
		return int32(x), nil
	case uint8:
		return int32(x), nil
	case uint16:
		return int32(x), nil
	case uint32:
		return int64(x), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedPropertyType, v)
	}
}

// TypeTag returns the text tag of a canonical property value.
func TypeTag(v Value) (string, error) {
	switch v.(type) {
	case string:
		return TagString, nil
	case bool:
		return TagBoolean, nil
	case int32:
		return TagInteger, nil
	case int64:
		return TagLong, nil
	case float32:
		return TagFloat, nil
	case float64:
		return TagDouble, nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedPropertyType, v)
	}
}

// FormatValue returns the type tag and unescaped string form of a value.
// ParseValue(FormatValue(v)) reproduces v exactly.
func FormatValue(v Value) (tag, text string, err error) {
	if tag, err = TypeTag(v); err != nil {
		return
	}
	switch x := v.(type) {
	case string:
		text = x
	case bool:
		text = strconv.FormatBool(x)
	case int32:
		text = strconv.FormatInt(int64(x), 10)
	case int64:
		text = strconv.FormatInt(x, 10)
	case float32:
		text = strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		text = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return
}

// ParseValue converts the string form of a value back using its type tag.
func ParseValue(tag, text string) (Value, error) {
	switch tag {
	case TagString:
		return text, nil
	case TagBoolean:
		return strconv.ParseBool(text)
	case TagInteger:
		i, err := strconv.ParseInt(text, 10, 32)
		return int32(i), err
	case TagLong:
		return strconv.ParseInt(text, 10, 64)
	case TagFloat:
		f, err := strconv.ParseFloat(text, 32)
		return float32(f), err
	case TagDouble:
		return strconv.ParseFloat(text, 64)
	default:
		return nil, fmt.Errorf("%w: type tag %q", ErrUnsupportedPropertyType, tag)
	}
}
