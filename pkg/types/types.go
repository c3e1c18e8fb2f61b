package types

// ScoredLabel pairs a class label with the model score for that class.
type ScoredLabel struct {
	Label string  `json:"label" example:"Class2"`
	Index int     `json:"index" example:"1"`
	Score float64 `json:"score" example:"0.87"`
}
