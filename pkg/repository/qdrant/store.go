package qdrant

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qdrant/go-client/qdrant"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/logging"
)

const (
	// putBatchSize bounds one upsert call to respect backend throughput
	// limits.
	putBatchSize = 50

	// putMaxAttempts bounds retries per batch; exhausting them fails the
	// whole Put call.
	putMaxAttempts = 3

	putBackoffStep = 1500 * time.Millisecond
)

// Config holds Qdrant connection configuration.
type Config struct {
	// URL is the Qdrant server address (e.g., "https://example.qdrant.io:6334").
	URL string

	// APIKey is an optional API key for authentication.
	APIKey string

	// Dimension is the embedding vector size used when creating collections.
	Dimension int
}

// Store implements interfaces.DocumentStore on Qdrant. Each collection key
// maps to one Qdrant collection, created lazily on first write. Point IDs
// are the content-derived chunk UUIDs, which makes writes idempotent per
// chunk: an upsert of an existing ID rewrites identical content.
type Store struct {
	client    *qdrant.Client
	dimension int
}

var _ interfaces.DocumentStore = &Store{}

// New creates a Qdrant-backed document store.
func New(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, goerr.New("qdrant url is required")
	}

	parsedURL := cfg.URL
	if !strings.HasPrefix(parsedURL, "http://") && !strings.HasPrefix(parsedURL, "https://") {
		parsedURL = "https://" + parsedURL
	}

	u, err := url.Parse(parsedURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse qdrant url", goerr.V("url", cfg.URL))
	}

	host := u.Hostname()
	port := 6334 // default gRPC port
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, goerr.Wrap(err, "invalid qdrant port", goerr.V("port", u.Port()))
		}
		port = p
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: u.Scheme == "https",
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create qdrant client")
	}

	dimension := cfg.Dimension
	if dimension <= 0 {
		dimension = model.EmbeddingDimension
	}

	return &Store{
		client:    client,
		dimension: dimension,
	}, nil
}

// Put writes chunks into the collection. Already-present IDs are skipped,
// and the rest are upserted in bounded batches with retry on transient
// failure. Exhausted retries fail the call rather than dropping chunks.
func (s *Store) Put(ctx context.Context, collection string, chunks []*model.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	if err := s.ensureCollection(ctx, collection); err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(chunks))
	for _, c := range chunks {
		ids = append(ids, c.ID)
	}
	existing, err := s.Has(ctx, collection, ids)
	if err != nil {
		return 0, err
	}

	var points []*qdrant.PointStruct
	seen := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		if existing[c.ID] || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(c.ID),
			Vectors: qdrant.NewVectors(c.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{"content": c.Text}),
		})
	}

	for start := 0; start < len(points); start += putBatchSize {
		end := start + putBatchSize
		if end > len(points) {
			end = len(points)
		}
		if err := s.upsertBatch(ctx, collection, points[start:end]); err != nil {
			return 0, err
		}
	}

	return len(points), nil
}

func (s *Store) upsertBatch(ctx context.Context, collection string, points []*qdrant.PointStruct) error {
	wait := true
	var lastErr error

	for attempt := 1; attempt <= putMaxAttempts; attempt++ {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Points:         points,
			Wait:           &wait,
		})
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == putMaxAttempts {
			break
		}

		backoff := time.Duration(attempt) * putBackoffStep
		logging.From(ctx).Warn("qdrant upsert failed, retrying",
			"collection", collection,
			"attempt", attempt,
			"backoff", backoff.String(),
			"error", err.Error(),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return goerr.Wrap(ctx.Err(), "qdrant upsert canceled", goerr.V("collection", collection))
		}
	}

	return goerr.Wrap(lastErr, "qdrant upsert failed after retries",
		goerr.V("collection", collection),
		goerr.V("attempts", putMaxAttempts),
		goerr.V("batchSize", len(points)),
	)
}

func (s *Store) ensureCollection(ctx context.Context, collection string) error {
	exists, err := s.Exists(ctx, collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create qdrant collection", goerr.V("collection", collection))
	}
	return nil
}

// Has reports which chunk IDs already exist in the collection. A collection
// that has not been created yet yields an empty set.
func (s *Store) Has(ctx context.Context, collection string, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))

	exists, err := s.Exists(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return found, nil
	}

	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		pointIDs = append(pointIDs, qdrant.NewID(id))
	}

	points, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: collection,
		Ids:            pointIDs,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up existing points", goerr.V("collection", collection))
	}

	for _, p := range points {
		if p.Id == nil {
			continue
		}
		if id := p.Id.GetUuid(); id != "" {
			found[id] = true
		}
	}
	return found, nil
}

// Exists reports whether the collection has been created.
func (s *Store) Exists(ctx context.Context, collection string) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return false, goerr.Wrap(err, "failed to check qdrant collection", goerr.V("collection", collection))
	}
	return exists, nil
}

// Count returns the number of points stored in the collection.
func (s *Store) Count(ctx context.Context, collection string) (uint64, error) {
	exists, err := s.Exists(ctx, collection)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}

	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count qdrant points", goerr.V("collection", collection))
	}
	return count, nil
}

// Search returns up to limit chunks most similar to the vector.
func (s *Store) Search(ctx context.Context, collection string, vector []float32, limit int) ([]*model.ScoredChunk, error) {
	limitUint64 := uint64(limit)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limitUint64,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "qdrant search failed", goerr.V("collection", collection))
	}

	results := make([]*model.ScoredChunk, 0, len(points))
	for _, point := range points {
		chunk := &model.ScoredChunk{Score: point.Score}
		if point.Id != nil {
			chunk.ID = point.Id.GetUuid()
		}
		if point.Payload != nil {
			if v, ok := point.Payload["content"]; ok {
				chunk.Text = v.GetStringValue()
			}
		}
		results = append(results, chunk)
	}
	return results, nil
}

// Close releases the underlying gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}
