package pgraph

import (
	"errors"
	"testing"
)

func TestValueRoundTrip(t *testing.T) {
	values := []Value{
		"marko", "", "tab\there", true, false,
		int32(-29), int64(1) << 40, float32(0.4), float64(1.0) / 3.0,
	}
	for _, v := range values {
		tag, text, err := FormatValue(v)
		if err != nil {
			t.Fatalf("FormatValue(%v): %v\n", v, err)
		}
		got, err := ParseValue(tag, text)
		if err != nil {
			t.Fatalf("ParseValue(%s, %q): %v\n", tag, text, err)
		}
		if got != v {
			t.Errorf("Round trip of %v (%T) gave %v (%T)\n", v, v, got, got)
		}
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		in   Value
		want Value
	}{
		{29, int64(29)},
		{int8(3), int32(3)},
		{uint16(7), int32(7)},
		{uint32(9), int64(9)},
		{"x", "x"},
		{float32(1.5), float32(1.5)},
	}
	for _, tc := range tests {
		got, err := NormalizeValue(tc.in)
		if err != nil {
			t.Fatalf("NormalizeValue(%v): %v\n", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("NormalizeValue(%v) = %v (%T), want %v (%T)\n", tc.in, got, got, tc.want, tc.want)
		}
	}

	for _, bad := range []Value{[]byte("x"), uint64(1), struct{}{}, nil} {
		if _, err := NormalizeValue(bad); !errors.Is(err, ErrUnsupportedPropertyType) {
			t.Errorf("Expected ErrUnsupportedPropertyType for %T, got %v\n", bad, err)
		}
		if _, _, err := FormatValue(bad); !errors.Is(err, ErrUnsupportedPropertyType) {
			t.Errorf("Expected FormatValue to reject %T, got %v\n", bad, err)
		}
	}
}

func TestParseValueBadTag(t *testing.T) {
	if _, err := ParseValue("Date", "2014-01-01"); !errors.Is(err, ErrUnsupportedPropertyType) {
		t.Errorf("Expected ErrUnsupportedPropertyType, got %v\n", err)
	}
	if _, err := ParseValue(TagInteger, "abc"); err == nil {
		t.Errorf("Expected parse failure on bad integer")
	}
}
