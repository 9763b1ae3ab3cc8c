package command

import (
	"strings"
	"testing"
)

func TestCommand(t *testing.T) {
	cmd := Command(strings.Fields("convert src config=a.toml To=badger path=/tmp/x extra more"))
	if cmd.Name() != "convert" {
		t.Errorf("Bad name %q\n", cmd.Name())
	}
	if v, found := cmd.Setting("to"); !found || v != "badger" {
		t.Errorf("Expected to=badger, got %q %t\n", v, found)
	}
	if _, found := cmd.Setting("engine"); found {
		t.Errorf("Found a setting that was never given\n")
	}
	if cmd.Argument(1) != "src" || cmd.Argument(2) != "extra" || cmd.Argument(4) != "" {
		t.Errorf("Bad arguments %q %q %q\n", cmd.Argument(1), cmd.Argument(2), cmd.Argument(4))
	}

	settings := cmd.Settings()
	if path, _, _ := settings.GetString(KeyPath); path != "/tmp/x" {
		t.Errorf("Expected path setting /tmp/x, got %q\n", path)
	}
	if len(settings.Keys()) != 3 {
		t.Errorf("Expected 3 settings, got %v\n", settings.Keys())
	}

	var src, next string
	overflow := cmd.CommandArgs(&src, &next)
	if src != "src" || next != "extra" {
		t.Errorf("Bad targets %q %q\n", src, next)
	}
	if len(overflow) != 1 || overflow[0] != "more" {
		t.Errorf("Bad overflow %v\n", overflow)
	}
}

func TestEmptyCommand(t *testing.T) {
	var cmd Command
	if cmd.Name() != "" || cmd.Argument(1) != "" {
		t.Errorf("Empty command has arguments\n")
	}
	var target string
	if overflow := cmd.CommandArgs(&target); len(overflow) != 0 || target != "" {
		t.Errorf("Empty command filled targets\n")
	}
}
