// Package pgvector runs sketch similarity searches against Postgres with pgvector.
package pgvector

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgv "github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/inkmatch/internal/vector"
	"github.com/thebtf/inkmatch/pkg/models"
)

// DefaultFunction is the SQL function that ranks sketches by cosine similarity.
const DefaultFunction = "match_sketches"

// Config holds connection settings for the sketch database.
type Config struct {
	DSN      string
	Function string // SQL function name (default: match_sketches)
	MaxConns int32  // Pool size (default: 4)
	// SimpleProtocol disables prepared statements, which transaction-mode
	// poolers such as Supabase's pgbouncer reject.
	SimpleProtocol bool
}

// Client queries the match function over a pgx connection pool.
type Client struct {
	pool     *pgxpool.Pool
	function string
}

var _ vector.Searcher = (*Client)(nil)

// NewClient opens the pool and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 4
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	if cfg.SimpleProtocol {
		poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewClientFromPool(pool, cfg.Function), nil
}

// NewClientFromPool wraps an existing pool.
func NewClientFromPool(pool *pgxpool.Pool, function string) *Client {
	if function == "" {
		function = DefaultFunction
	}
	return &Client{pool: pool, function: function}
}

// Close releases the pool.
func (c *Client) Close() {
	c.pool.Close()
}

// Ping verifies the database is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// sketchRow mirrors the result columns of the match function.
// Every text column may be NULL in the hosted table.
type sketchRow struct {
	ID                string   `db:"id"`
	Title             *string  `db:"title"`
	Description       *string  `db:"description"`
	ArtistName        *string  `db:"artist_name"`
	ArtistBio         *string  `db:"artist_bio"`
	ImageFilename     *string  `db:"image_filename"`
	Size              *string  `db:"size"`
	Price             *float64 `db:"price"`
	Tags              []string `db:"tags"`
	Style             *string  `db:"style"`
	Complexity        *string  `db:"complexity"`
	Meaning           *string  `db:"meaning"`
	Visibility        *string  `db:"visibility"`
	ChaosOrder        *string  `db:"chaos_order"`
	VisualDescription *string  `db:"visual_description"`
	Similarity        float64  `db:"similarity"`
}

func (c *Client) querySQL() string {
	return fmt.Sprintf(`SELECT id, title, description, artist_name, artist_bio, image_filename,
		size, price, tags, style, complexity, meaning, visibility, chaos_order,
		visual_description, similarity
	FROM %s($1, $2, $3)`, pgx.Identifier{c.function}.Sanitize())
}

// Query returns the sketches most similar to embedding.
func (c *Client) Query(ctx context.Context, embedding []float32, limit int, threshold float64) ([]models.SketchRecord, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("empty query embedding")
	}
	if limit <= 0 {
		return []models.SketchRecord{}, nil
	}

	rows, err := c.pool.Query(ctx, c.querySQL(), pgv.NewVector(embedding), threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", c.function, err)
	}

	collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[sketchRow])
	if err != nil {
		return nil, fmt.Errorf("scan %s rows: %w", c.function, err)
	}

	sketches := rowsToSketches(collected, limit)

	log.Debug().
		Str("function", c.function).
		Int("limit", limit).
		Float64("threshold", threshold).
		Int("results", len(sketches)).
		Msg("Vector search completed")

	return sketches, nil
}

func rowsToSketches(rows []sketchRow, limit int) []models.SketchRecord {
	if len(rows) > limit {
		rows = rows[:limit]
	}
	sketches := make([]models.SketchRecord, 0, len(rows))
	for _, r := range rows {
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		sketches = append(sketches, models.SketchRecord{
			ID:                r.ID,
			Title:             deref(r.Title),
			ArtistName:        deref(r.ArtistName),
			ArtistBio:         deref(r.ArtistBio),
			Description:       deref(r.Description),
			VisualDescription: deref(r.VisualDescription),
			Tags:              tags,
			Size:              deref(r.Size),
			Style:             deref(r.Style),
			Complexity:        deref(r.Complexity),
			Meaning:           deref(r.Meaning),
			Visibility:        deref(r.Visibility),
			ChaosOrder:        deref(r.ChaosOrder),
			Price:             r.Price,
			ImageFilename:     deref(r.ImageFilename),
			Similarity:        r.Similarity,
		})
	}
	return sketches
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
