package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
)

// PostIndex mirrors posts into an Elasticsearch index for full-text search.
type PostIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewPostIndex(es *elasticsearch.Client, index string) *PostIndex {
	return &PostIndex{es: es, index: index}
}

type postDoc struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	PublishedAt time.Time `json:"published_at"`
}

func (x *PostIndex) Index(ctx context.Context, p *entity.Post) error {
	b, err := json.Marshal(postDoc{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		AuthorID:    p.AuthorID,
		AuthorName:  p.AuthorName,
		PublishedAt: p.PublishedAt,
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: strconv.FormatInt(p.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Delete removes a post document. A missing document is not an error.
func (x *PostIndex) Delete(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over title and content and returns matching post ids by score.
func (x *PostIndex) Search(ctx context.Context, q string, size int) ([]int64, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "content", "author_name"},
			},
		},
		"size":    size,
		"_source": false,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
