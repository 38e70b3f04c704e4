package routetree

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty becomes root", "", "/"},
		{"root unchanged", "/", "/"},
		{"plain path", "/product/42", "/product/42"},
		{"query stripped", "/product/42?ref=home&a=b", "/product/42"},
		{"trailing slash removed", "/blog/", "/blog"},
		{"root trailing slash kept", "/?x=1", "/"},
		{"double slash collapsed", "/blog//post", "/blog/post"},
		{"dot segment removed", "/blog/./post", "/blog/post"},
		{"dotdot resolved", "/blog/../other", "/other"},
		{"missing leading slash added", "about", "/about"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonicalizeRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"backslash", `/a\b`, ErrBackslashInPath},
		{"null byte", "/a\x00b", ErrNullByteInPath},
		{"encoded null", "/a%00b", ErrNullByteInPath},
		{"bad escape", "/a%GGb", ErrInvalidPercentEscape},
		{"truncated escape", "/a%2", ErrInvalidPercentEscape},
		{"escapes root", "/../secret", ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Canonicalize(tt.input)
			if err != tt.wantErr {
				t.Errorf("Canonicalize(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
