package drift

// Config tunes the rename matcher.
type Config struct {
	// RenameThreshold is the similarity a pair must strictly exceed to match.
	RenameThreshold float64 `mapstructure:"rename_threshold" default:"0.5"`
	// AmbiguityMargin is how close a rival score must be to flag a match as ambiguous.
	AmbiguityMargin float64 `mapstructure:"ambiguity_margin" default:"0.000001"`
}
