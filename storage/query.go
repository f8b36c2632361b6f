package storage

import "github.com/scribeworks/paperdex/core"

// Field identifies which chunk record field a clause matches against.
type Field int

const (
	// FieldContent matches against the chunk text.
	FieldContent Field = iota + 1
	// FieldFilename matches against the owning document's filename.
	FieldFilename
)

// MatchType selects how a clause's text is matched.
type MatchType int

const (
	// MatchTerms scores each term independently.
	MatchTerms MatchType = iota + 1
	// MatchPhrase requires the terms to appear verbatim, in order.
	MatchPhrase
)

// Clause is one disjunct of a query. A record matching several clauses
// accumulates each clause's boosted contribution.
type Clause struct {
	Field  Field
	Match  MatchType
	Terms  []string // Analyzed terms, for MatchTerms
	Phrase string   // Normalized phrase, for MatchPhrase
	Boost  float64  // Multiplier applied to the clause's relevance score
}

// Query is a disjunctive multi-clause query with a result limit.
type Query struct {
	Clauses []Clause
	Limit   int
}

// ScoredRecord is a chunk record with its combined relevance score.
type ScoredRecord struct {
	Record *core.ChunkRecord
	Score  float64
}
