package fsutil

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "test/file.mp3", want: "test_file.mp3"},
		{in: "normal-name.mp3", want: "normal-name.mp3"},
		{in: `a<b>c:d"e/f\g|h?i*j`, want: "a_b_c_d_e_f_g_h_i_j"},
		{in: "  padded  ", want: "padded"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSuggestedFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Some Song", want: "Some Song.mp3"},
		{in: "Trailing dots...", want: "Trailing dots.mp3"},
		{in: "A/B", want: "A_B.mp3"},
		{in: "", want: "audio.mp3"},
		{in: "...", want: "audio.mp3"},
	}
	for _, tt := range tests {
		if got := SuggestedFilename(tt.in); got != tt.want {
			t.Fatalf("SuggestedFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
