package library

import "testing"

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"*.wav", "song.wav", true},
		{"*.wav", ".wav", true},
		{"*.wav", "song.WAV", false},
		{"*.wav", "song.wav.bak", false},
		{"*.wav", "dir/song.mp3", false},
		{"s?ng.wav", "song.wav", true},
		{"s?ng.wav", "sng.wav", false},
		{"s?ng.wav", "soong.wav", false},
		{"*", "", true},
		{"", "", true},
		{"", "a", false},
		{"?", "", false},
		{"a*b*c", "aXXbYYc", true},
		{"a*b*c", "aXXbYY", false},
		{"*ab", "aab", true},
		{"*a*a*", "banana", true},
		{"**", "x", true},
		{"[ab].wav", "a.wav", false},
		{"[ab].wav", "[ab].wav", true},
		{"*.wav", "😀.wav", true},
		{"?.wav", "é.wav", true},
	}

	for _, tt := range tests {
		if got := Match(tt.pattern, tt.name); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}
}
