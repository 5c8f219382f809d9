package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/rdash/internal/download"
)

const (
	kindMedia    = "media"
	kindDownload = "download"
)

type bleveEngine struct {
	idx  bleve.Index
	docs map[string]map[string]bool // kind -> doc ids
}

// NewBleveEngine builds an in-memory index. Nothing is written to disk;
// the lists are refetched every session anyway.
func NewBleveEngine() (Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	return &bleveEngine{
		idx: idx,
		docs: map[string]map[string]bool{
			kindMedia:    {},
			kindDownload: {},
		},
	}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	path := bleve.NewTextFieldMapping()
	path.Analyzer = standard.Name
	path.Store = true

	status := bleve.NewTextFieldMapping()
	status.Analyzer = keyword.Name
	status.Store = true

	kind := bleve.NewTextFieldMapping()
	kind.Analyzer = keyword.Name
	kind.Store = true

	name := bleve.NewTextFieldMapping()
	name.Index = false
	name.Store = true

	size := bleve.NewNumericFieldMapping()
	size.Index = false
	size.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("path", path)
	dm.AddFieldMappingsAt("status", status)
	dm.AddFieldMappingsAt("kind", kind)
	dm.AddFieldMappingsAt("name", name)
	dm.AddFieldMappingsAt("size", size)

	im.DefaultMapping = dm
	return im
}

func (b *bleveEngine) IndexMedia(items []download.MediaItem) error {
	docs := make(map[string]map[string]any, len(items))
	for _, m := range items {
		docs[docIDForMedia(m.Path)] = map[string]any{
			"kind":  kindMedia,
			"title": humanTitle(m.Name()),
			"path":  pathWords(m.Path),
			"name":  m.Path,
			"size":  float64(m.Size),
		}
	}
	return b.replace(kindMedia, docs)
}

func (b *bleveEngine) IndexDownloads(downloads []download.Download) error {
	docs := make(map[string]map[string]any, len(downloads))
	for _, d := range downloads {
		docs[docIDForDownload(d.ID)] = map[string]any{
			"kind":   kindDownload,
			"title":  humanTitle(d.DisplayName()),
			"status": string(d.Status),
			"name":   d.Name,
		}
	}
	return b.replace(kindDownload, docs)
}

// replace swaps every document of kind for docs in one batch.
func (b *bleveEngine) replace(kind string, docs map[string]map[string]any) error {
	batch := b.idx.NewBatch()
	for id := range b.docs[kind] {
		if _, keep := docs[id]; !keep {
			batch.Delete(id)
		}
	}
	for id, doc := range docs {
		if err := batch.Index(id, doc); err != nil {
			return fmt.Errorf("indexing %s: %w", id, err)
		}
	}
	if err := b.idx.Batch(batch); err != nil {
		return fmt.Errorf("applying %s batch: %w", kind, err)
	}

	ids := make(map[string]bool, len(docs))
	for id := range docs {
		ids[id] = true
	}
	b.docs[kind] = ids
	return nil
}

func (b *bleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < minQueryLen {
		return []*Result{}, nil
	}
	// OR of per-term matches across fields, boosted by field
	tokens := tokenize(query)
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)
		qtp := bleve.NewPrefixQuery(tok)
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)

		qp := bleve.NewMatchQuery(tok)
		qp.SetField("path")
		qp.SetBoost(1.0)
		qs = append(qs, qp)
		qpp := bleve.NewPrefixQuery(tok)
		qpp.SetField("path")
		qpp.SetBoost(0.8)
		qs = append(qs, qpp)

		qs2 := bleve.NewTermQuery(tok)
		qs2.SetField("status")
		qs2.SetBoost(0.5)
		qs = append(qs, qs2)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"kind", "title", "status", "name", "size"}
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		r := &Result{Score: h.Score}
		title, _ := h.Fields["title"].(string)
		switch {
		case strings.HasPrefix(h.ID, "media:"):
			m := &download.MediaItem{Path: strings.TrimPrefix(h.ID, "media:")}
			if sz, ok := h.Fields["size"].(float64); ok {
				m.Size = int64(sz)
			}
			r.Media = m
			r.Matches = []Match{{Field: "title", Text: title, Weight: h.Score}}
		case strings.HasPrefix(h.ID, "download:"):
			d := &download.Download{ID: download.ID(strings.TrimPrefix(h.ID, "download:"))}
			if n, ok := h.Fields["name"].(string); ok {
				d.Name = n
			}
			if s, ok := h.Fields["status"].(string); ok {
				d.Status = download.Status(s)
			}
			r.Download = d
			r.Matches = []Match{{Field: "name", Text: title, Weight: h.Score}}
		default:
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (b *bleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

// pathWords splits a path into words so directory names are searchable.
func pathWords(p string) string {
	return humanTitle(strings.NewReplacer("/", " ", `\`, " ").Replace(p))
}

func docIDForMedia(path string) string       { return "media:" + path }
func docIDForDownload(id download.ID) string { return "download:" + string(id) }
