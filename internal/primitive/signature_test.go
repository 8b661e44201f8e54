package primitive

import "testing"

func TestReverse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"even length", "abcd", "dcba"},
		{"odd length", "abcde", "edcba"},
		{"single rune", "a", "a"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := []rune(tc.in)
			Reverse(buf)
			if got := string(buf); got != tc.want {
				t.Errorf("Reverse(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSplice(t *testing.T) {
	cases := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"removes prefix", "abcdef", 2, "cdef"},
		{"zero is no-op", "abcdef", 0, "abcdef"},
		{"negative is no-op", "abcdef", -3, "abcdef"},
		{"clamped to length", "abc", 10, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := string(Splice([]rune(tc.in), tc.n))
			if got != tc.want {
				t.Errorf("Splice(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
			}
		})
	}
}

func TestSwap(t *testing.T) {
	cases := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"swap with index 2", "abcd", 2, "cbad"},
		{"n equal to length is no-op", "abcd", 4, "abcd"},
		{"n greater than length wraps via modulus", "abcd", 6, "cbad"},
		{"negative n wraps to a valid index", "abcd", -2, "cbad"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := []rune(tc.in)
			Swap(buf, tc.n)
			if got := string(buf); got != tc.want {
				t.Errorf("Swap(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
			}
		})
	}
}
