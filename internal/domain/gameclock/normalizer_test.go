package gameclock

import (
	"testing"
	"time"
)

func TestNormalizer_Elapsed(t *testing.T) {
	n := NewNormalizer(time.UTC)
	start := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{name: "full timestamp", raw: "2026-01-10T19:02:15Z", want: 2*time.Minute + 15*time.Second},
		{name: "full timestamp with space", raw: "2026-01-10 19:05:00", want: 5 * time.Minute},
		{name: "time of day", raw: "19:10:30", want: 10*time.Minute + 30*time.Second},
		{name: "time of day with millis and zulu", raw: "19:00:45.900Z", want: 45 * time.Second},
		{name: "fallback hour minute", raw: "7:20 PM", want: 20 * time.Minute},
		{name: "before start clamps to zero", raw: "18:59:00", want: 0},
		{name: "garbage falls back to start", raw: "not-a-time", want: 0},
		{name: "empty", raw: "", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Elapsed(tc.raw, start); got != tc.want {
				t.Fatalf("unexpected elapsed for %q: got=%s want=%s", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizer_ElapsedFloorsSeconds(t *testing.T) {
	n := NewNormalizer(time.UTC)
	start := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)

	if got := n.ElapsedLabel("19:02:15.999Z", start); got != "2:15" {
		t.Fatalf("expected floor to 2:15, got %s", got)
	}
}

func TestNormalizer_UsesGameLocalDate(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	n := NewNormalizer(loc)
	start := time.Date(2026, 1, 10, 19, 0, 0, 0, loc)

	if got := n.ElapsedLabel("19:01:05", start); got != "1:05" {
		t.Fatalf("unexpected elapsed label in local zone: %s", got)
	}
}

func TestNormalizer_ZeroStartNeverFails(t *testing.T) {
	n := NewNormalizer(nil)
	if got := n.Elapsed("19:00:00", time.Time{}); got != 0 {
		t.Fatalf("expected zero elapsed without game start, got %s", got)
	}
}

func TestNormalizer_GameStart(t *testing.T) {
	n := NewNormalizer(time.UTC)

	got, ok := n.GameStart("2026-01-10T19:00:00Z")
	if !ok {
		t.Fatalf("expected game start to parse")
	}
	if !got.Equal(time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected game start: %s", got)
	}

	if _, ok := n.GameStart("19:00:00"); ok {
		t.Fatalf("time of day is not a game start")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "0:00"},
		{in: 9 * time.Second, want: "0:09"},
		{in: 2*time.Minute + 15*time.Second, want: "2:15"},
		{in: 65*time.Minute + time.Second, want: "65:01"},
		{in: -3 * time.Second, want: "0:00"},
		{in: 1500 * time.Millisecond, want: "0:01"},
	}
	for _, tc := range tests {
		if got := FormatElapsed(tc.in); got != tc.want {
			t.Fatalf("FormatElapsed(%s)=%s want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
		ok   bool
	}{
		{raw: "00:02:00", want: 2 * time.Minute, ok: true},
		{raw: "05:00", want: 5 * time.Minute, ok: true},
		{raw: "10", want: 10 * time.Minute, ok: true},
		{raw: "", ok: false},
		{raw: "a:b", ok: false},
		{raw: "1:2:3:4", ok: false},
	}
	for _, tc := range tests {
		got, ok := ParseDuration(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseDuration(%q)=(%s,%t) want (%s,%t)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}
