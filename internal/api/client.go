// Package api is the typed HTTP client for the download dashboard backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/pders01/rdash/internal/config"
	"github.com/pders01/rdash/internal/debuglog"
	"github.com/pders01/rdash/internal/download"
	"github.com/pders01/rdash/internal/markup"
)

const (
	pathDownloads = "/api/downloads"
	pathStream    = "/api/downloads/stream"
	pathMovies    = "/api/movies"
	pathMagnet    = "/api/torrents/magnet"
	pathTorrent   = "/api/torrents/file"
)

// retryLogger routes retryablehttp's leveled output into debuglog.
type retryLogger struct{}

func (retryLogger) Error(msg string, keysAndValues ...interface{}) {
	debuglog.Logger().Error("retry: "+msg, keysAndValues...)
}

func (retryLogger) Info(msg string, keysAndValues ...interface{}) {
	debuglog.Logger().Debug("retry: "+msg, keysAndValues...)
}

func (retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	debuglog.Logger().Debug("retry: "+msg, keysAndValues...)
}

func (retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	debuglog.Logger().Warn("retry: "+msg, keysAndValues...)
}

// Client talks to the backend. Reads are retried; writes are sent exactly
// once so a submitted action never reaches the server twice.
type Client struct {
	baseURL   string
	userAgent string
	reads     *http.Client
	writes    *http.Client
}

func NewClient(cfg config.ServerConfig) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = retryLogger{}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:   strings.TrimSuffix(cfg.URL, "/"),
		userAgent: cfg.UserAgent,
		reads:     retryClient.StandardClient(),
		writes:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// StreamURL is the server-push endpoint for download events.
func (c *Client) StreamURL() string {
	return c.baseURL + pathStream
}

// Downloads fetches and parses the full downloads list.
func (c *Client) Downloads(ctx context.Context) ([]download.Download, error) {
	body, err := c.get(ctx, pathDownloads)
	if err != nil {
		return nil, fmt.Errorf("fetching downloads: %w", err)
	}
	defer body.Close()

	downloads, err := markup.Downloads(body)
	if err != nil {
		return nil, fmt.Errorf("parsing downloads: %w", err)
	}
	return downloads, nil
}

// Media fetches and parses the full media collection.
func (c *Client) Media(ctx context.Context) ([]download.MediaItem, error) {
	body, err := c.get(ctx, pathMovies)
	if err != nil {
		return nil, fmt.Errorf("fetching media: %w", err)
	}
	defer body.Close()

	items, err := markup.Media(body)
	if err != nil {
		return nil, fmt.Errorf("parsing media: %w", err)
	}
	return items, nil
}

// Files fetches the selectable files of an awaiting-selection download.
func (c *Client) Files(ctx context.Context, id download.ID) ([]download.File, error) {
	body, err := c.get(ctx, downloadPath(id)+"/files")
	if err != nil {
		return nil, fmt.Errorf("fetching files: %w", err)
	}
	defer body.Close()

	files, err := markup.Files(body)
	if err != nil {
		return nil, fmt.Errorf("parsing files: %w", err)
	}
	return files, nil
}

func (c *Client) AddMagnet(ctx context.Context, magnet string, downloadSubs bool) error {
	payload := map[string]any{
		"magnet":        magnet,
		"download_subs": downloadSubs,
	}
	return c.sendJSON(ctx, http.MethodPost, pathMagnet, payload)
}

// AddTorrentFile uploads a .torrent as multipart form field "torrent".
func (c *Client) AddTorrentFile(ctx context.Context, filename string, r io.Reader, downloadSubs bool) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("torrent", filename)
	if err != nil {
		return fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("reading torrent: %w", err)
	}
	if err := w.WriteField("download_subs", strconv.FormatBool(downloadSubs)); err != nil {
		return fmt.Errorf("building upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("building upload: %w", err)
	}

	return c.send(ctx, http.MethodPost, pathTorrent, w.FormDataContentType(), &buf)
}

// SelectFiles sends the chosen file ids comma-joined.
func (c *Client) SelectFiles(ctx context.Context, id download.ID, fileIDs []string) error {
	payload := map[string]string{"file_ids": strings.Join(fileIDs, ",")}
	return c.sendJSON(ctx, http.MethodPost, downloadPath(id)+"/select", payload)
}

func (c *Client) DeleteDownload(ctx context.Context, id download.ID) error {
	return c.send(ctx, http.MethodDelete, downloadPath(id), "", nil)
}

func (c *Client) DeleteMedia(ctx context.Context, path string) error {
	return c.sendJSON(ctx, http.MethodDelete, pathMovies, map[string]string{"path": path})
}

func downloadPath(id download.ID) string {
	return pathDownloads + "/" + url.PathEscape(string(id))
}

func (c *Client) get(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Accept", "text/html")

	resp, err := c.reads.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, errorFromResponse(resp)
	}
	return resp.Body, nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	return c.send(ctx, method, path, "application/json", bytes.NewReader(data))
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	debuglog.Debugf("%s %s", method, path)
	resp, err := c.writes.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}
