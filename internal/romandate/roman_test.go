package romandate

import "testing"

func TestRomanToInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "simple additive", input: "III", want: 3},
		{name: "subtractive", input: "IV", want: 4},
		{name: "seven", input: "VII", want: 7},
		{name: "fourteen", input: "XIV", want: 14},
		{name: "forty", input: "XL", want: 40},
		{name: "ninety", input: "XC", want: 90},
		{name: "lowercase", input: "xiv", want: 14},
		{name: "empty", input: "", want: 0},
		{name: "no roman characters", input: "xyz", want: 10},
		{name: "garbage only", input: "abz", want: 0},
		{name: "mixed in noise", input: "POD VII", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RomanToInt(tt.input); got != tt.want {
				t.Errorf("RomanToInt(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
