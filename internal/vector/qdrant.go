package vector

import (
	"context"
	"fmt"
	"sync"

	"github.com/qdrant/go-client/qdrant"

	"github.com/xxxsen/ernexus/internal/model"
)

type qdrantConfig struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	APIKey     string `json:"api_key"`
	UseTLS     bool   `json:"use_tls"`
	Collection string `json:"collection"`
}

type qdrantDriver struct {
	client     *qdrant.Client
	collection string

	mu    sync.Mutex
	ready bool
}

func init() {
	Register("qdrant", createQdrantDriver)
}

func createQdrantDriver(args interface{}) (Driver, error) {
	config := &qdrantConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	if config.Host == "" {
		return nil, fmt.Errorf("qdrant host is required")
	}
	if config.Port == 0 {
		config.Port = 6334
	}
	if config.Collection == "" {
		config.Collection = "ernexus_multimodal"
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   config.Host,
		Port:   config.Port,
		APIKey: config.APIKey,
		UseTLS: config.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connect qdrant: %w", err)
	}
	return &qdrantDriver{client: client, collection: config.Collection}, nil
}

func (d *qdrantDriver) ensureCollection(ctx context.Context, dims int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ready {
		return nil
	}
	exists, err := d.client.CollectionExists(ctx, d.collection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if !exists {
		err = d.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: d.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(dims),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("create collection %s: %w", d.collection, err)
		}
	}
	d.ready = true
	return nil
}

func (d *qdrantDriver) Add(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := d.ensureCollection(ctx, len(entries[0].Embedding)); err != nil {
		return err
	}
	points := make([]*qdrant.PointStruct, 0, len(entries))
	for _, e := range entries {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(e.ID),
			Vectors: qdrant.NewVectors(e.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"modality": string(e.Modality),
				"summary":  e.Summary,
			}),
		})
	}
	_, err := d.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: d.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

func (d *qdrantDriver) Query(ctx context.Context, embedding []float32, topK int) ([]Hit, error) {
	d.mu.Lock()
	ready := d.ready
	d.mu.Unlock()
	if !ready {
		return nil, ErrNotReady
	}
	points, err := d.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: d.collection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", d.collection, err)
	}
	hits := make([]Hit, 0, len(points))
	for _, p := range points {
		hit := Hit{ID: p.GetId().GetUuid(), Score: p.GetScore()}
		if v, ok := p.GetPayload()["modality"]; ok {
			hit.Modality = model.Modality(v.GetStringValue())
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (d *qdrantDriver) Reset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.client.DeleteCollection(ctx, d.collection); err != nil {
		return fmt.Errorf("delete collection %s: %w", d.collection, err)
	}
	d.ready = false
	return nil
}

func (d *qdrantDriver) Close() error {
	return d.client.Close()
}
