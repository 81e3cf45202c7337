package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/quizcore/admin-api/internal/domain/entity"
)

// UserIndexer mirrors the user directory into Elasticsearch so admins can
// search it. Indexing is best-effort: failures are logged and never fail
// the request that triggered them.
type UserIndexer struct {
	ES        *elasticsearch.Client
	IndexName string
	Logger    *logrus.Logger
}

func NewUserIndexer(es *elasticsearch.Client, index string, logger *logrus.Logger) *UserIndexer {
	return &UserIndexer{ES: es, IndexName: index, Logger: logger}
}

func (x *UserIndexer) enabled() bool {
	return x != nil && x.ES != nil && x.IndexName != ""
}

// Index upserts the user document. The password never reaches the index.
func (x *UserIndexer) Index(ctx context.Context, u *entity.User) {
	if !x.enabled() {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"role":       u.Role.String(),
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		if x.Logger != nil {
			x.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && x.Logger != nil {
		x.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

// Remove deletes the user document after an account deletion.
func (x *UserIndexer) Remove(ctx context.Context, userID string) {
	if !x.enabled() {
		return
	}
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: userID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		if x.Logger != nil {
			x.Logger.WithError(err).WithField("user_id", userID).Warn("es delete failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 && x.Logger != nil {
		x.Logger.WithField("status", res.Status()).WithField("user_id", userID).Warn("es delete response error")
	}
}

// Search performs a simple multi_match search on email and role.
func (x *UserIndexer) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if !x.enabled() {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "role"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.IndexName), x.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
