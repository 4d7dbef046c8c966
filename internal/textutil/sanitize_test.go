package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  Game: Special Edition  ", "Game- Special Edition"},
		{"What?", "What"},
		{"a/b\\c", "a-b-c"},
		{"Café", "Café"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/dumps/Ridge Racer.dump.json", "Ridge Racer"},
		{"/dumps/Ridge Racer.dump.json.gz", "Ridge Racer"},
		{"seed/Track.SEED.json", "Track"},
		{"game.dat", "game"},
		{"game", "game"},
		{"", "submission"},
		{"/", "submission"},
		{"odd:name.json", "odd-name"},
	}
	for _, tt := range tests {
		if got := BaseName(tt.in); got != tt.want {
			t.Errorf("BaseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrimRecordSuffix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/dumps/Game: v1.1.json", "Game: v1.1"},
		{"Game.dump.json.gz", "Game"},
		{".json", ".json"},
		{"Game.bin", "Game.bin"},
	}
	for _, tt := range tests {
		if got := TrimRecordSuffix(tt.in); got != tt.want {
			t.Errorf("TrimRecordSuffix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
