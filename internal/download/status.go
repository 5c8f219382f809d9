package download

import "fmt"

// StatusText derives the human-readable status line for a download.
func StatusText(d Download) string {
	switch d.Status {
	case StatusPending:
		return "Processing magnet..."
	case StatusAwaitingSelection:
		return "Select files to download"
	case StatusProcessing:
		return fmt.Sprintf("Downloading remotely (%s%%)", FormatProgress(d.Progress))
	case StatusDownloading:
		return fmt.Sprintf("Downloading to disk (%s%%)", FormatProgress(d.Progress))
	case StatusSubtitles:
		if d.SubtitleStatus != "" {
			return d.SubtitleStatus
		}
		return "Downloading subtitles..."
	case StatusComplete:
		text := "Complete"
		if d.SubtitleStatus != "" {
			text += " · Subs: " + d.SubtitleStatus
		}
		return text
	case StatusError:
		if d.ErrorMessage != "" {
			return d.ErrorMessage
		}
		return "Error"
	default:
		return string(d.Status)
	}
}
