// Package models contains domain models for inkmatch.
package models

// SketchRecord is a tattoo sketch returned by the similarity search.
// ImageURL is derived at response time and is never stored.
type SketchRecord struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	ArtistName        string   `json:"artist_name"`
	ArtistBio         string   `json:"artist_bio,omitempty"`
	Description       string   `json:"description"`
	VisualDescription string   `json:"visual_description"`
	Tags              []string `json:"tags"`
	Size              string   `json:"size,omitempty"`
	Style             string   `json:"style,omitempty"`
	Complexity        string   `json:"complexity,omitempty"`
	Meaning           string   `json:"meaning,omitempty"`
	Visibility        string   `json:"visibility,omitempty"`
	ChaosOrder        string   `json:"chaos_order,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	ImageFilename     string   `json:"image_filename"`
	Similarity        float64  `json:"similarity"`
	ImageURL          string   `json:"image_url"`
}

// SketchIDs returns the ids of the given sketches in order.
func SketchIDs(sketches []SketchRecord) []string {
	ids := make([]string, 0, len(sketches))
	for _, s := range sketches {
		ids = append(ids, s.ID)
	}
	return ids
}
