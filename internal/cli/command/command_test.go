package command_test

import (
	"testing"

	"execdesk/internal/cli/command"
	"execdesk/internal/testutil"
)

func TestParseParamsAndAliases(t *testing.T) {
	params, err := command.ParseParams([]string{"User=alice", "lang=3", "source=print(1)", "stdin="})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	params.Canonicalize(command.SubmitFields)

	testutil.AssertEqual(t, params.Get("username"), "alice")
	testutil.AssertEqual(t, params.Get("language"), "3")
	testutil.AssertEqual(t, params.Get("source_code"), "print(1)")
	testutil.AssertTrue(t, params.Has("stdin"), "empty value still present")
	testutil.AssertFalse(t, params.Has("user"), "alias removed")
}

func TestParseParamsRejectsBareToken(t *testing.T) {
	if _, err := command.ParseParams([]string{"alice"}); err == nil {
		t.Fatalf("expected invalid param error")
	}
	if _, err := command.ParseParams([]string{"=x"}); err == nil {
		t.Fatalf("expected empty key error")
	}
}

func TestRegistryLookup(t *testing.T) {
	commands := command.Registry()
	cmd, ok := command.Lookup(commands, "PAGE")
	testutil.AssertTrue(t, ok, "lookup is case-insensitive")
	testutil.AssertEqual(t, cmd.Screen, command.ScreenSubmissions)

	quit, ok := command.Lookup(commands, "quit")
	testutil.AssertTrue(t, ok, "quit is an alias of exit")
	testutil.AssertEqual(t, quit.Name, "exit")

	names := command.Names(commands)
	testutil.AssertEqual(t, names[0], "clear")
}
