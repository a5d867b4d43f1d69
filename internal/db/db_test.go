package db

import (
	"context"
	"os"
	"testing"

	"claimflow-rag/internal/config"
	"claimflow-rag/internal/models"
)

func TestConnectDB_requiresDSN(t *testing.T) {
	if _, err := ConnectDB(&config.DatabaseConfig{}); err == nil {
		t.Error("expected error without dsn")
	}
}

func TestStore(t *testing.T) {
	dsn := os.Getenv("PGVECTOR_TEST_DSN")
	if dsn == "" {
		t.Skip("PGVECTOR_TEST_DSN not set")
	}
	ctx := context.Background()
	store, err := NewStore(ctx, &config.DatabaseConfig{DSN: dsn})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	const name = "insurance_kb_test"
	if err := store.DeleteCollection(ctx, name); err != nil {
		t.Fatal(err)
	}
	defer store.DeleteCollection(ctx, name)
	if err := store.CreateCollection(ctx, name); err != nil {
		t.Fatal(err)
	}
	entries := []models.IndexEntry{
		{ID: "a", Content: "hospital bills", Embedding: []float32{1, 0, 0}, Metadata: map[string]string{"type": "regular"}},
		{ID: "b", Content: "compound interest", Embedding: []float32{0, 0, 1}},
	}
	if err := store.Add(ctx, name, entries); err != nil {
		t.Fatal(err)
	}
	n, err := store.Count(ctx, name)
	if err != nil || n != 2 {
		t.Fatalf("Count = %d, %v", n, err)
	}
	hits, err := store.Query(ctx, name, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 || hits[0].ID != "a" {
		t.Fatalf("unexpected hits %+v", hits)
	}
	if hits[0].Distance > 1e-4 || hits[1].Distance < 1.99 {
		t.Errorf("unexpected distances %f, %f", hits[0].Distance, hits[1].Distance)
	}
	if hits[0].Metadata["type"] != "regular" {
		t.Errorf("metadata not round-tripped: %v", hits[0].Metadata)
	}
}
