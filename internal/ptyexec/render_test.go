package ptyexec

import (
	"testing"
	"time"
)

func TestOutputString_ExitedNoTruncation(t *testing.T) {
	out := Output{
		WallTime: 1234 * time.Millisecond,
		Exit:     ExitStatus{Exited: true, Code: 0},
		Text:     "hello",
	}
	want := "Wall time: 1.234 seconds\nProcess exited with code 0\nOutput:\nhello"
	if got := out.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestOutputString_OngoingWithTruncation(t *testing.T) {
	out := Output{
		WallTime:           500 * time.Millisecond,
		Exit:               ExitStatus{Exited: false, SessionID: 42},
		Truncated:          true,
		OriginalTokenCount: 1000,
		Text:               "abc",
	}
	want := "Wall time: 0.500 seconds\nProcess running with session ID 42\n" +
		"Warning: truncated output (original token count: 1000)\nOutput:\nabc"
	if got := out.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
