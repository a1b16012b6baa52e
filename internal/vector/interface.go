// Package vector provides the similarity search contract used by inkmatch.
package vector

import (
	"context"

	"github.com/thebtf/inkmatch/pkg/models"
)

// Searcher runs a similarity search over sketch embeddings.
// Implementations return at most limit records ordered by descending
// similarity and exclude records whose similarity is not above threshold.
type Searcher interface {
	Query(ctx context.Context, embedding []float32, limit int, threshold float64) ([]models.SketchRecord, error)
}
