// Package markup reads the renderable HTML fragments served by the backend
// and turns them into typed rows.
package markup

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pders01/rdash/internal/download"
)

const downloadIDPrefix = "download-"

// ErrFragment is returned when a fragment renders a server-side error state
// instead of a list.
var ErrFragment = errors.New("server rendered an error")

var widthPattern = regexp.MustCompile(`width\s*:\s*([0-9]+(?:\.[0-9]+)?)\s*%`)

func parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing markup: %w", err)
	}
	if msg := fragmentError(doc); msg != "" {
		return nil, fmt.Errorf("%w: %s", ErrFragment, msg)
	}
	return doc, nil
}

func fragmentError(doc *goquery.Document) string {
	sel := doc.Find(".error-state").First()
	if sel.Length() == 0 {
		return ""
	}
	msg := strings.Join(strings.Fields(sel.Text()), " ")
	if msg == "" {
		msg = "unknown error"
	}
	return msg
}

// Downloads parses the full downloads list fragment. Rows are returned in
// document order; a repeated id keeps its first occurrence.
func Downloads(r io.Reader) ([]download.Download, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}

	var out []download.Download
	seen := make(map[download.ID]bool)
	doc.Find(`[id^="` + downloadIDPrefix + `"]`).Each(func(_ int, s *goquery.Selection) {
		raw, _ := s.Attr("id")
		id := download.ID(strings.TrimPrefix(raw, downloadIDPrefix))
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, downloadRow(id, s))
	})
	return out, nil
}

func downloadRow(id download.ID, s *goquery.Selection) download.Download {
	d := download.Download{
		ID:     id,
		Status: download.Status(strings.TrimSpace(s.AttrOr("data-status", ""))),
		Name:   cleanText(s.Find(".download-name").First()),
	}
	if v, ok := s.Attr("data-progress"); ok {
		if p, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			d.Progress = download.ClampProgress(p)
		}
	} else if style, ok := s.Find(".progress-fill").First().Attr("style"); ok {
		if m := widthPattern.FindStringSubmatch(style); m != nil {
			p, _ := strconv.ParseFloat(m[1], 64)
			d.Progress = download.ClampProgress(p)
		}
	}
	d.SubtitleStatus = strings.TrimSpace(s.AttrOr("data-subtitle-status", ""))
	d.ErrorMessage = strings.TrimSpace(s.AttrOr("data-error", ""))
	if d.Status == download.StatusError && d.ErrorMessage == "" {
		d.ErrorMessage = cleanText(s.Find(".download-status-text").First())
	}
	return d
}

// Media parses the media collection fragment.
func Media(r io.Reader) ([]download.MediaItem, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}

	var out []download.MediaItem
	doc.Find(".movie-item").Each(func(_ int, s *goquery.Selection) {
		path := strings.TrimSpace(s.AttrOr("data-path", ""))
		if path == "" {
			path = cleanText(s.Find(".movie-name").First())
		}
		if path == "" {
			return
		}
		item := download.MediaItem{
			Path:     path,
			FileType: strings.TrimSpace(s.AttrOr("data-type", "")),
		}
		if v, ok := s.Attr("data-size"); ok {
			item.Size, _ = strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		}
		out = append(out, item)
	})
	return out, nil
}

// Files parses the file-selection fragment of a download awaiting
// selection.
func Files(r io.Reader) ([]download.File, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}

	var out []download.File
	doc.Find("input.file-checkbox").Each(func(_ int, s *goquery.Selection) {
		id := strings.TrimSpace(s.AttrOr("value", ""))
		if id == "" {
			return
		}
		f := download.File{ID: id, Selected: s.Is("[checked]")}
		f.Path = strings.TrimSpace(s.AttrOr("data-path", ""))
		if f.Path == "" {
			f.Path = fileLabel(s)
		}
		if v, ok := s.Attr("data-bytes"); ok {
			f.Bytes, _ = strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		}
		out = append(out, f)
	})
	return out, nil
}

func fileLabel(s *goquery.Selection) string {
	if label := s.Closest("label"); label.Length() > 0 {
		if t := cleanText(label.Find(".file-name").First()); t != "" {
			return t
		}
		return cleanText(label)
	}
	if item := s.Closest(".file-item"); item.Length() > 0 {
		return cleanText(item.Find(".file-name").First())
	}
	return ""
}

func cleanText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
