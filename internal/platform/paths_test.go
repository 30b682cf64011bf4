package platform

import (
	"testing"
)

func TestIsUNCPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{`\\nas\media\movie.mkv`, true},
		{`//nas/media/movie.mkv`, true},
		{`/mnt/media/movie.mkv`, false},
		{`C:\media\movie.mkv`, false},
		{``, false},
	}

	for _, tt := range tests {
		if got := IsUNCPath(tt.path); got != tt.want {
			t.Errorf("IsUNCPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseUNCPath(t *testing.T) {
	tests := []struct {
		path                 string
		host, share, relPath string
	}{
		{`\\nas\media\movies\avatar.mkv`, "nas", "media", "movies/avatar.mkv"},
		{`//nas/media/movies/avatar.mkv`, "nas", "media", "movies/avatar.mkv"},
		{`\\nas\media`, "nas", "media", ""},
		{`/local/path`, "", "", ""},
	}

	for _, tt := range tests {
		host, share, rel := ParseUNCPath(tt.path)
		if host != tt.host || share != tt.share || rel != tt.relPath {
			t.Errorf("ParseUNCPath(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tt.path, host, share, rel, tt.host, tt.share, tt.relPath)
		}
	}
}

func TestVolumeRoot(t *testing.T) {
	if got := VolumeRoot(`\\nas\media\movie.mkv`); got != `\\nas\media` {
		t.Errorf("UNC volume root = %q", got)
	}
	if got := VolumeRoot("/mnt/media/movie.mkv"); got != "/" {
		t.Errorf("unix volume root = %q", got)
	}
}

func TestValidatePath(t *testing.T) {
	if err := ValidatePath("/media/movie.mkv"); err != nil {
		t.Errorf("absolute path rejected: %v", err)
	}
	if err := ValidatePath(`\\nas\media\movie.mkv`); err != nil {
		t.Errorf("UNC path rejected: %v", err)
	}
	if err := ValidatePath(`C:\media\movie.mkv`); err != nil {
		t.Errorf("drive-letter path rejected: %v", err)
	}
	if err := ValidatePath(""); err == nil {
		t.Error("empty path accepted")
	}
	if err := ValidatePath("relative/movie.mkv"); err == nil {
		t.Error("relative path accepted")
	}
}
