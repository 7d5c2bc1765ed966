package ir

const (
	// ResultsVersion is the schema version of fingerprinted result trees.
	ResultsVersion = "1"

	// ToolVersion is the typematrix release.
	ToolVersion = "0.1.0"
)
