// Package action turns user intents into backend requests: local
// validation, one busy flag per action kind, exactly one request per
// submission, and normalized error messages.
package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pders01/rdash/internal/debuglog"
	"github.com/pders01/rdash/internal/download"
	"github.com/pders01/rdash/internal/reconcile"
	"github.com/pders01/rdash/internal/validation"
)

// Backend is the write side of the api client.
type Backend interface {
	AddMagnet(ctx context.Context, magnet string, downloadSubs bool) error
	AddTorrentFile(ctx context.Context, filename string, r io.Reader, downloadSubs bool) error
	SelectFiles(ctx context.Context, id download.ID, fileIDs []string) error
	DeleteDownload(ctx context.Context, id download.ID) error
	DeleteMedia(ctx context.Context, path string) error
}

// RunFunc issues the prepared request.
type RunFunc func(ctx context.Context) Outcome

// Submitter is driven from a single loop and holds no locks.
type Submitter struct {
	backend  Backend
	torrents *validation.TorrentFileValidator
	busy     map[Kind]bool
}

func NewSubmitter(backend Backend) *Submitter {
	return &Submitter{
		backend:  backend,
		torrents: validation.NewTorrentFileValidator(),
		busy:     make(map[Kind]bool),
	}
}

func (s *Submitter) Busy(k Kind) bool {
	return s.busy[k]
}

// Prepare validates req and marks its kind busy. The returned RunFunc sends
// exactly one request; its Outcome must be handed back to Complete.
func (s *Submitter) Prepare(req Request) (RunFunc, error) {
	run, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if s.busy[req.Kind()] {
		return nil, ErrBusy
	}
	s.busy[req.Kind()] = true
	debuglog.Debugf("action: %s started", req.Kind())
	return run, nil
}

// Complete clears the busy flag for the outcome's kind, whatever the result.
func (s *Submitter) Complete(o Outcome) {
	delete(s.busy, o.Kind)
	if o.Err != nil {
		debuglog.Warnf("action: %s failed: %v", o.Kind, o.Err)
	} else {
		debuglog.Infof("action: %s succeeded", o.Kind)
	}
}

// Do runs Prepare, the request and Complete in one call.
func (s *Submitter) Do(ctx context.Context, req Request) Outcome {
	run, err := s.Prepare(req)
	if err != nil {
		return Outcome{Kind: req.Kind(), Err: err}
	}
	o := run(ctx)
	s.Complete(o)
	return o
}

func (s *Submitter) build(req Request) (RunFunc, error) {
	switch r := req.(type) {
	case AddMagnet:
		magnet, err := validation.ValidateMagnet(r.Magnet)
		if err != nil {
			return nil, invalid("magnet", err)
		}
		return func(ctx context.Context) Outcome {
			err := s.backend.AddMagnet(ctx, magnet, r.DownloadSubs)
			return outcome(KindAddMagnet, err, reconcile.DownloadsChanged{})
		}, nil

	case AddTorrentFile:
		path, err := s.torrents.Validate(r.Path)
		if err != nil {
			return nil, invalid("torrent", err)
		}
		return func(ctx context.Context) Outcome {
			err := s.upload(ctx, path, r.DownloadSubs)
			return outcome(KindAddTorrent, err, reconcile.DownloadsChanged{})
		}, nil

	case SelectFiles:
		if strings.TrimSpace(string(r.DownloadID)) == "" {
			return nil, invalid("download", errors.New("no download to select files for"))
		}
		if len(r.FileIDs) == 0 {
			return nil, invalid("files", errors.New("please select at least one file"))
		}
		ids := append([]string(nil), r.FileIDs...)
		return func(ctx context.Context) Outcome {
			err := s.backend.SelectFiles(ctx, r.DownloadID, ids)
			return outcome(KindSelectFiles, err, reconcile.DownloadsChanged{})
		}, nil

	case DeleteDownload:
		if strings.TrimSpace(string(r.ID)) == "" {
			return nil, invalid("download", errors.New("no download to delete"))
		}
		if !r.Confirmed {
			return nil, ErrNotConfirmed
		}
		return func(ctx context.Context) Outcome {
			err := s.backend.DeleteDownload(ctx, r.ID)
			return outcome(KindDeleteDownload, err, reconcile.DownloadRemoved{ID: r.ID})
		}, nil

	case DeleteMedia:
		if strings.TrimSpace(r.Path) == "" {
			return nil, invalid("path", errors.New("no file to delete"))
		}
		if !r.Confirmed {
			return nil, ErrNotConfirmed
		}
		return func(ctx context.Context) Outcome {
			err := s.backend.DeleteMedia(ctx, r.Path)
			return outcome(KindDeleteMedia, err, reconcile.MediaChanged{})
		}, nil
	}

	return nil, fmt.Errorf("unsupported request %T", req)
}

func (s *Submitter) upload(ctx context.Context, path string, downloadSubs bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening torrent: %w", err)
	}
	defer f.Close()
	return s.backend.AddTorrentFile(ctx, filepath.Base(path), f, downloadSubs)
}

func outcome(k Kind, err error, follow reconcile.Event) Outcome {
	if err != nil {
		return Outcome{Kind: k, Err: err}
	}
	return Outcome{Kind: k, Event: follow}
}
