package search

import "github.com/kamusis/coursepath/internal/dataset"

// Result represents one matched course.
type Result struct {
	Course dataset.Item `json:"course"`
	// Score counts the fields that contained every query token.
	Score float64 `json:"score"`
	Why   string  `json:"why"`
}
