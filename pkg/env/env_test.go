package env

import "testing"

func TestGetFallsBackWhenBlank(t *testing.T) {
	t.Setenv("STOREFRONT_ENV_TEST", "   ")
	if got := Get("STOREFRONT_ENV_TEST", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("STOREFRONT_ENV_TEST", "console")
	if got := Get("STOREFRONT_ENV_TEST", "json"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}

func TestBool(t *testing.T) {
	tests := []struct {
		raw      string
		fallback bool
		want     bool
	}{
		{raw: "", fallback: true, want: true},
		{raw: "false", fallback: true, want: false},
		{raw: "1", fallback: false, want: true},
		{raw: "nope", fallback: false, want: false},
	}
	for _, tt := range tests {
		t.Setenv("STOREFRONT_BOOL_TEST", tt.raw)
		if got := Bool("STOREFRONT_BOOL_TEST", tt.fallback); got != tt.want {
			t.Fatalf("Bool(%q, %v) = %v, want %v", tt.raw, tt.fallback, got, tt.want)
		}
	}
}
