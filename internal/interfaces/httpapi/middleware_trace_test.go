package httpapi

import "testing"

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: " /READYZ ", want: false},
		{path: "/livez", want: false},
		{path: "/v1/games/7/dashboard/stream", want: false},
		{path: "/v1/games/7/dashboard", want: true},
		{path: "/v1/games/7/counters/adjust", want: true},
		{path: "/v1/videos/parse", want: true},
		{path: "/", want: true},
	}
	for _, tc := range tests {
		if got := shouldTraceRequest(tc.path); got != tc.want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", tc.path, got, tc.want)
		}
	}
}
