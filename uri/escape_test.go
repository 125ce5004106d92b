package uri

import "testing"

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"test", "test"},
		{"test<>&;", "test%3c%3e%26%3b"},
		{"hello world", "hello+world"},
		{"a-b_c.d!e*f(g)", "a-b_c.d!e*f(g)"},
		{"a/b?c=d", "a%2fb%3fc%3dd"},
		{"ü", "%c3%bc"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Escape(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
