package httpapi

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestIsHandlerSpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.AdjustCounter", want: true},
		{name: "bare prefix", in: "httpapi.Handler.", want: false},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "helper span", in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHandlerSpan(tt.in); got != tt.want {
				t.Fatalf("isHandlerSpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStartSpan_UntracedRequestGetsNoop(t *testing.T) {
	ctx, span := startSpan(context.Background(), "httpapi.Handler.GetDashboard")
	if span != noopSpan {
		t.Fatalf("expected noop span without a parent")
	}
	if ctx != context.Background() {
		t.Fatalf("expected context unchanged")
	}
}

func TestTracedGameID(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/games/42/dashboard", nil)
	r.SetPathValue("gameID", "42")
	got, err := tracedGameID(noopSpan, r)
	if err != nil || got != 42 {
		t.Fatalf("tracedGameID = %d, %v", got, err)
	}

	r.SetPathValue("gameID", "zero")
	if _, err := tracedGameID(noopSpan, r); err == nil {
		t.Fatalf("expected error for non-numeric game id")
	}
}
