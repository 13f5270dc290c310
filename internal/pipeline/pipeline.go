package pipeline

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/rcandelu/adant/internal/cache"
	"github.com/rcandelu/adant/internal/upstream"
)

// Source names one upstream collection: its cache key, its path on the
// tracking API, and (for reference collections) how to key it for joins.
type Source struct {
	Key      string
	Path     string
	Selector KeySelector
}

// Schema describes one technology variant end to end, so both variants run
// through the same pipeline.
type Schema struct {
	Name           string
	Events         Source
	References     []Source
	TimestampField string
	Columns        []string
	Enrich         EnrichFunc
}

// Pipeline glues the cache, the fetcher and a schema for one instance.
type Pipeline struct {
	schema Schema
	store  *cache.Store
	client *upstream.Client
	pool   pond.Pool
	logger *zap.Logger
}

func New(schema Schema, store *cache.Store, client *upstream.Client, logger *zap.Logger) *Pipeline {
	workers := len(schema.References)
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		schema: schema,
		store:  store,
		client: client,
		pool:   pond.NewPool(workers),
		logger: logger,
	}
}

// Schema exposes the descriptor for handlers (timestamp field, columns).
func (p *Pipeline) Schema() Schema {
	return p.schema
}

func (p *Pipeline) collection(ctx context.Context, src Source) (gjson.Result, error) {
	raw, err := p.store.GetOrFetch(ctx, src.Key, func(ctx context.Context) (string, error) {
		return p.client.FetchCollection(ctx, src.Path)
	})
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.Parse(raw), nil
}

// Events returns the raw event collection through the cache.
func (p *Pipeline) Events(ctx context.Context) ([]gjson.Result, error) {
	coll, err := p.collection(ctx, p.schema.Events)
	if err != nil {
		return nil, err
	}
	return coll.Array(), nil
}

// Lookups snapshots every reference collection once and builds the join
// maps from those snapshots, so one enrichment call never mixes cache
// states. Collections are fetched concurrently; the first failure wins and
// fails the whole call (partial reference data is not enriched against).
func (p *Pipeline) Lookups(ctx context.Context) (Lookups, error) {
	var mu sync.Mutex
	lk := make(Lookups, len(p.schema.References))

	group := p.pool.NewGroup()
	for _, src := range p.schema.References {
		src := src
		group.SubmitErr(func() error {
			coll, err := p.collection(ctx, src)
			if err != nil {
				return err
			}
			m := BuildLookup(coll, src.Selector)
			mu.Lock()
			lk[src.Key] = m
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return lk, nil
}

// EnrichAll builds the lookups and enriches the given (already filtered)
// events in upstream order.
func (p *Pipeline) EnrichAll(ctx context.Context, events []gjson.Result) ([]json.RawMessage, error) {
	lk, err := p.Lookups(ctx)
	if err != nil {
		return nil, err
	}
	return Enrich(events, lk, p.schema.Enrich), nil
}
