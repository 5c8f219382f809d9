package download

import "testing"

func TestStatusText(t *testing.T) {
	tests := []struct {
		name     string
		download Download
		expected string
	}{
		{"pending", Download{Status: StatusPending}, "Processing magnet..."},
		{"awaiting selection", Download{Status: StatusAwaitingSelection}, "Select files to download"},
		{"processing", Download{Status: StatusProcessing, Progress: 12.345}, "Downloading remotely (12.3%)"},
		{"downloading", Download{Status: StatusDownloading, Progress: 55}, "Downloading to disk (55.0%)"},
		{"subtitles without status", Download{Status: StatusSubtitles}, "Downloading subtitles..."},
		{"subtitles with status", Download{Status: StatusSubtitles, SubtitleStatus: "2/3 languages"}, "2/3 languages"},
		{"complete", Download{Status: StatusComplete}, "Complete"},
		{"complete with subs", Download{Status: StatusComplete, SubtitleStatus: "en, de"}, "Complete · Subs: en, de"},
		{"error without message", Download{Status: StatusError}, "Error"},
		{"error with message", Download{Status: StatusError, ErrorMessage: "torrent dead"}, "torrent dead"},
		{"unknown status", Download{Status: "queued_remote"}, "queued_remote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusText(tt.download); got != tt.expected {
				t.Errorf("StatusText() = %q, want %q", got, tt.expected)
			}
		})
	}
}
