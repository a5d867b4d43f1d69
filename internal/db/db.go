package db

import (
	"context"
	"database/sql"
	"fmt"

	"claimflow-rag/internal/config"
	"claimflow-rag/internal/models"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// Row is a chunk stored in a pgvector table. The table name is the
// collection name and is supplied per query.
type Row struct {
	bun.BaseModel `bun:"alias:c"`

	ID        string            `bun:"id,pk"`
	Content   string            `bun:"content,notnull"`
	Metadata  map[string]string `bun:"metadata,type:jsonb"`
	Embedding pgvector.Vector   `bun:"embedding,type:vector"`
	Distance  float32           `bun:"distance,scanonly"`
}

// Store is a vector index backed by PostgreSQL with the pgvector extension.
type Store struct {
	db *bun.DB
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// ConnectDB opens a connection with pgdriver, or with lib/pq when the driver
// is "postgres".
func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	if cfg.Driver == "postgres" {
		return sql.Open("postgres", cfg.DSN)
	}
	opts := []pgdriver.Option{pgdriver.WithDSN(cfg.DSN)}
	if cfg.Password != "" {
		opts = append(opts, pgdriver.WithPassword(cfg.Password))
	}
	return sql.OpenDB(pgdriver.NewConnector(opts...)), nil
}

// NewStore connects, pings and enables the vector extension.
func NewStore(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	sqldb, err := ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	db := NewDB(sqldb, cfg.Debug)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable pgvector: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) CreateCollection(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		"CREATE TABLE IF NOT EXISTS ? (id text PRIMARY KEY, content text NOT NULL, metadata jsonb, embedding vector NOT NULL)",
		bun.Ident(name))
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	return nil
}

func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS ?", bun.Ident(name)); err != nil {
		return fmt.Errorf("failed to drop collection %s: %w", name, err)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, name string, entries []models.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			ID:        e.ID,
			Content:   e.Content,
			Metadata:  e.Metadata,
			Embedding: pgvector.NewVector(e.Embedding),
		})
	}
	_, err := s.db.NewInsert().
		Model(&rows).
		ModelTableExpr("?", bun.Ident(name)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

// Query orders by cosine distance. pgvector's <=> is 1 - cos, doubled here to
// report the squared euclidean distance between unit vectors.
func (s *Store) Query(ctx context.Context, name string, embedding []float32, topN int) ([]models.SearchHit, error) {
	if topN <= 0 {
		return nil, nil
	}
	var rows []Row
	err := s.db.NewSelect().
		Model(&rows).
		ModelTableExpr("? AS c", bun.Ident(name)).
		Column("id", "content", "metadata").
		ColumnExpr("(embedding <=> ?) * 2 AS distance", pgvector.NewVector(embedding)).
		OrderExpr("distance").
		Limit(topN).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	hits := make([]models.SearchHit, 0, len(rows))
	for _, r := range rows {
		hits = append(hits, models.SearchHit{
			ID:       r.ID,
			Content:  r.Content,
			Metadata: r.Metadata,
			Distance: r.Distance,
		})
	}
	return hits, nil
}

func (s *Store) Count(ctx context.Context, name string) (int, error) {
	n, err := s.db.NewSelect().TableExpr("?", bun.Ident(name)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count collection %s: %w", name, err)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
