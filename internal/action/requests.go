package action

import "github.com/pders01/rdash/internal/download"

// Kind identifies an action for busy tracking and error fallbacks.
type Kind int

const (
	KindAddMagnet Kind = iota
	KindAddTorrent
	KindSelectFiles
	KindDeleteDownload
	KindDeleteMedia
)

func (k Kind) String() string {
	switch k {
	case KindAddMagnet:
		return "add magnet"
	case KindAddTorrent:
		return "add torrent"
	case KindSelectFiles:
		return "select files"
	case KindDeleteDownload:
		return "delete download"
	case KindDeleteMedia:
		return "delete media"
	default:
		return "unknown"
	}
}

// fallback is shown when the server gave no usable error text.
func (k Kind) fallback() string {
	switch k {
	case KindAddMagnet:
		return "Failed to add magnet"
	case KindAddTorrent:
		return "Failed to add torrent"
	case KindSelectFiles:
		return "Failed to select files"
	case KindDeleteDownload:
		return "Failed to delete download"
	case KindDeleteMedia:
		return "Failed to delete file"
	default:
		return "Request failed"
	}
}

// Request is a user intent ready for submission.
type Request interface {
	Kind() Kind
}

type AddMagnet struct {
	Magnet       string
	DownloadSubs bool
}

type AddTorrentFile struct {
	Path         string
	DownloadSubs bool
}

type SelectFiles struct {
	DownloadID download.ID
	FileIDs    []string
}

type DeleteDownload struct {
	ID        download.ID
	Confirmed bool
}

type DeleteMedia struct {
	Path      string
	Confirmed bool
}

func (AddMagnet) Kind() Kind      { return KindAddMagnet }
func (AddTorrentFile) Kind() Kind { return KindAddTorrent }
func (SelectFiles) Kind() Kind    { return KindSelectFiles }
func (DeleteDownload) Kind() Kind { return KindDeleteDownload }
func (DeleteMedia) Kind() Kind    { return KindDeleteMedia }
