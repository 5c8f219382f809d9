package download

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedPatch is returned when a pushed download payload cannot be
// turned into a patch.
var ErrMalformedPatch = errors.New("malformed download payload")

// ID identifies a download. The backend emits numeric ids, but the client
// treats them as opaque strings.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

type Status string

const (
	StatusPending           Status = "pending"
	StatusAwaitingSelection Status = "awaiting_selection"
	StatusProcessing        Status = "processing"
	StatusDownloading       Status = "downloading"
	StatusSubtitles         Status = "subtitles"
	StatusComplete          Status = "complete"
	StatusError             Status = "error"
)

// Transferring reports whether progress is meaningful for the status.
func (s Status) Transferring() bool {
	return s == StatusProcessing || s == StatusDownloading
}

type Download struct {
	ID             ID      `json:"id"`
	Status         Status  `json:"status"`
	Progress       float64 `json:"progress"`
	Name           string  `json:"name"`
	SubtitleStatus string  `json:"subtitle_status,omitempty"`
	ErrorMessage   string  `json:"error_message,omitempty"`
}

// DisplayName is the label shown for a row whose name may not have
// populated yet.
func (d Download) DisplayName() string {
	if strings.TrimSpace(d.Name) != "" {
		return d.Name
	}
	return "Download #" + string(d.ID)
}

// Patch is a partial download record as pushed by the server. Nil fields
// were absent from the payload.
type Patch struct {
	ID             ID       `json:"id"`
	Status         *Status  `json:"status"`
	Progress       *float64 `json:"progress"`
	Name           *string  `json:"name"`
	SubtitleStatus *string  `json:"subtitle_status"`
	ErrorMessage   *string  `json:"error_message"`
}

// DecodePatch parses a pushed download payload.
func DecodePatch(data []byte) (Patch, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Patch{}, fmt.Errorf("%w: not a JSON object", ErrMalformedPatch)
	}
	var p Patch
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return Patch{}, fmt.Errorf("%w: %v", ErrMalformedPatch, err)
	}
	if strings.TrimSpace(string(p.ID)) == "" {
		return Patch{}, fmt.Errorf("%w: missing id", ErrMalformedPatch)
	}
	if p.Progress != nil {
		v := ClampProgress(*p.Progress)
		p.Progress = &v
	}
	return p, nil
}

// Apply merges the present fields of p into d. A name is only taken when
// it is non-empty. The server omits empty error and subtitle text, so a
// status change drops cached text the new status cannot carry.
func (p Patch) Apply(d Download) Download {
	if p.Status != nil {
		d.Status = *p.Status
		if d.Status != StatusError {
			d.ErrorMessage = ""
		}
		if d.Status != StatusSubtitles && d.Status != StatusComplete {
			d.SubtitleStatus = ""
		}
	}
	if p.Progress != nil {
		d.Progress = ClampProgress(*p.Progress)
	}
	if p.Name != nil && *p.Name != "" {
		d.Name = *p.Name
	}
	if p.SubtitleStatus != nil {
		d.SubtitleStatus = *p.SubtitleStatus
	}
	if p.ErrorMessage != nil {
		d.ErrorMessage = *p.ErrorMessage
	}
	return d
}

func ClampProgress(p float64) float64 {
	switch {
	case p != p: // NaN
		return 0
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// MediaItem is a completed file in the collection, keyed by its path.
type MediaItem struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	FileType string `json:"file_type,omitempty"`
}

// Name returns the final path segment.
func (m MediaItem) Name() string {
	p := strings.TrimRight(m.Path, `/\`)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// File is one selectable file of a torrent awaiting selection.
type File struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Bytes    int64  `json:"bytes"`
	Selected bool   `json:"selected"`
}

func (f File) Label() string {
	if f.Path != "" {
		return f.Path
	}
	return "file " + f.ID
}

// FormatProgress renders a percentage with one decimal place.
func FormatProgress(p float64) string {
	return strconv.FormatFloat(ClampProgress(p), 'f', 1, 64)
}
