package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
)

const (
	requestTimeout = 3 * time.Second
	pageSize       = 500
)

// indexMapping stores the short searchable fields as lowercased keywords so
// wildcard queries give case-insensitive substring matches. Descriptions are
// unbounded free text and use the wildcard field type, which indexes values
// of any length.
const indexMapping = `{
  "settings": {
    "analysis": {
      "normalizer": {
        "lower": {"type": "custom", "filter": ["lowercase"]}
      }
    }
  },
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "title":       {"type": "keyword", "normalizer": "lower"},
      "description": {"type": "wildcard"},
      "company":     {"type": "keyword", "normalizer": "lower"},
      "category":    {"type": "keyword", "normalizer": "lower"},
      "created_at":  {"type": "date"}
    }
  }
}`

// InternshipIndex mirrors internships into Elasticsearch for catalog search.
type InternshipIndex struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewInternshipIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *InternshipIndex {
	return &InternshipIndex{es: es, index: index, logger: logger}
}

type internshipDoc struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Company     string    `json:"company"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *InternshipIndex) EnsureIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Indices.Exists([]string{x.index}, x.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	res, err = x.es.Indices.Create(x.index,
		x.es.Indices.Create.WithContext(ctx),
		x.es.Indices.Create.WithBody(strings.NewReader(indexMapping)))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("create index", res)
	}
	if x.logger != nil {
		x.logger.WithField("index", x.index).Info("elasticsearch index created")
	}
	return nil
}

func (x *InternshipIndex) Index(ctx context.Context, in *entity.Internship) error {
	b, err := json.Marshal(internshipDoc{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Company:     in.Company.Name,
		Category:    in.Category.Name,
		CreatedAt:   in.CreatedAt,
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: docID(in.ID), Body: bytes.NewReader(b), Refresh: "true"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("index internship", res)
	}
	return nil
}

// Remove deletes the document; a missing document is not an error.
func (x *InternshipIndex) Remove(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: docID(id), Refresh: "true"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("remove internship", res)
	}
	return nil
}

// Search returns every matching id, newest first. Results are read page by
// page with search_after so no match is cut off by a result window.
func (x *InternshipIndex) Search(ctx context.Context, f entity.InternshipFilter) ([]int64, error) {
	var ids []int64
	var after []any
	for {
		page, last, err := x.searchPage(ctx, buildQuery(f, after))
		if err != nil {
			return nil, err
		}
		ids = append(ids, page...)
		if len(page) < pageSize || last == nil {
			break
		}
		after = last
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// searchPage runs one query and returns the hit ids plus the sort values of
// the final hit.
func (x *InternshipIndex) searchPage(ctx context.Context, body map[string]any) ([]int64, []any, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, nil, responseError("search internships", res)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source internshipDoc `json:"_source"`
				Sort   []any         `json:"sort"`
			} `json:"hits"`
		} `json:"hits"`
	}
	dec := json.NewDecoder(res.Body)
	// Sort values are epoch millis and ids; keep them exact for search_after.
	dec.UseNumber()
	if err := dec.Decode(&parsed); err != nil {
		return nil, nil, err
	}
	hits := parsed.Hits.Hits
	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.Source.ID)
	}
	var last []any
	if len(hits) > 0 {
		last = hits[len(hits)-1].Sort
	}
	return ids, last, nil
}

// buildQuery ANDs one wildcard clause per filter field; the free-text query
// may match either the title or the description. after holds the sort values
// of the previous page's last hit.
func buildQuery(f entity.InternshipFilter, after []any) map[string]any {
	var must []any
	if f.Query != "" {
		must = append(must, map[string]any{
			"bool": map[string]any{
				"should":               []any{wildcard("title", f.Query), wildcard("description", f.Query)},
				"minimum_should_match": 1,
			},
		})
	}
	if f.Category != "" {
		must = append(must, wildcard("category", f.Category))
	}
	if f.Company != "" {
		must = append(must, wildcard("company", f.Company))
	}
	query := map[string]any{"match_all": map[string]any{}}
	if len(must) > 0 {
		query = map[string]any{"bool": map[string]any{"filter": must}}
	}
	body := map[string]any{
		"query":            query,
		"size":             pageSize,
		"sort":             []any{map[string]any{"created_at": "desc"}, map[string]any{"id": "desc"}},
		"_source":          []string{"id"},
		"track_total_hits": false,
	}
	if len(after) > 0 {
		body["search_after"] = after
	}
	return body
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func wildcard(field, value string) map[string]any {
	return map[string]any{
		"wildcard": map[string]any{
			field: map[string]any{
				"value":            "*" + wildcardEscaper.Replace(strings.ToLower(value)) + "*",
				"case_insensitive": true,
			},
		},
	}
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("elasticsearch %s: %s: %s", op, res.Status(), strings.TrimSpace(string(body)))
}
