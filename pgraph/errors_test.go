package pgraph

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	err := fmt.Errorf("loading: %w", &Error{
		Op:      "AddEdge",
		Kind:    ErrInvalidReference,
		Element: "vertex",
		ID:      "7",
		Err:     io.EOF,
	})
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("Expected error to match ErrInvalidReference: %v\n", err)
	}
	if !errors.Is(err, io.EOF) {
		t.Errorf("Expected error to match its cause: %v\n", err)
	}
	if errors.Is(err, ErrDuplicateID) {
		t.Errorf("Error should not match ErrDuplicateID")
	}
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("Expected *Error in chain")
	}
	if gerr.ID != "7" || gerr.Element != "vertex" {
		t.Errorf("Bad error fields: %+v\n", gerr)
	}
	want := `loading: AddEdge: invalid reference (vertex "7"): EOF`
	if err.Error() != want {
		t.Errorf("Expected message %q, got %q\n", want, err.Error())
	}
}

func TestConfigGetters(t *testing.T) {
	c := NewConfig()
	c.SetAll(map[string]interface{}{
		"Path":     "/tmp/graph",
		"checksum": "true",
		"count":    int64(12),
	})
	if s, found, err := c.GetString("path"); !found || err != nil || s != "/tmp/graph" {
		t.Errorf("Bad GetString: %q %t %v\n", s, found, err)
	}
	if b, found, err := c.GetBool("checksum"); !found || err != nil || !b {
		t.Errorf("Bad GetBool: %t %t %v\n", b, found, err)
	}
	if i, found, err := c.GetInt("count"); !found || err != nil || i != 12 {
		t.Errorf("Bad GetInt: %d %t %v\n", i, found, err)
	}
	if _, found, _ := c.GetString("missing"); found {
		t.Errorf("Expected missing key to be not found")
	}
	if _, _, err := c.GetInt("path"); err == nil {
		t.Errorf("Expected type error for non-integer setting")
	}
}
