package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/scribeworks/paperdex/core"
	"github.com/scribeworks/paperdex/storage"
)

// Default ranking policy: exact phrase on content weighted highest,
// loose term match on content medium, filename match lowest. The weights
// are policy defaults, tunable per deployment.
const (
	DefaultPhraseBoost   = 3.0
	DefaultContentBoost  = 2.0
	DefaultFilenameBoost = 1.0

	// DefaultMaxLimit caps the per-query result count.
	DefaultMaxLimit = 50

	// DefaultFragmentSize bounds highlighted fragments, in runes.
	DefaultFragmentSize = 200

	// DefaultMaxFragments caps fragments per result.
	DefaultMaxFragments = 3
)

// Searcher plans boosted multi-field queries and ranks the results.
type Searcher struct {
	store         storage.ChunkStore
	maxLimit      int
	phraseBoost   float64
	contentBoost  float64
	filenameBoost float64
	fragmentSize  int
	maxFragments  int
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMaxLimit sets the maximum accepted result limit.
func WithMaxLimit(maxLimit int) Option {
	return func(s *Searcher) error {
		if maxLimit < 1 {
			return fmt.Errorf("%w: max limit must be positive", ErrInvalidQuery)
		}
		s.maxLimit = maxLimit
		return nil
	}
}

// WithBoosts overrides the clause boost weights.
func WithBoosts(phrase, content, filename float64) Option {
	return func(s *Searcher) error {
		if phrase <= 0 || content <= 0 || filename <= 0 {
			return fmt.Errorf("%w: boosts must be positive", ErrInvalidQuery)
		}
		s.phraseBoost = phrase
		s.contentBoost = content
		s.filenameBoost = filename
		return nil
	}
}

// WithHighlighting overrides the fragment size and per-result fragment cap.
func WithHighlighting(fragmentSize, maxFragments int) Option {
	return func(s *Searcher) error {
		if fragmentSize < 1 || maxFragments < 1 {
			return fmt.Errorf("%w: highlight bounds must be positive", ErrInvalidQuery)
		}
		s.fragmentSize = fragmentSize
		s.maxFragments = maxFragments
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(store storage.ChunkStore, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrChunkStoreRequired
	}

	s := &Searcher{
		store:         store,
		maxLimit:      DefaultMaxLimit,
		phraseBoost:   DefaultPhraseBoost,
		contentBoost:  DefaultContentBoost,
		filenameBoost: DefaultFilenameBoost,
		fragmentSize:  DefaultFragmentSize,
		maxFragments:  DefaultMaxFragments,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns up to limit results for the query, ranked by relevance.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, limit, nil)
}

// SearchWithMonitor searches with per-stage monitoring callbacks.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, limit int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty query text", ErrInvalidQuery)
	}
	if limit < 1 || limit > s.maxLimit {
		return nil, fmt.Errorf("%w: limit %d outside 1..%d", ErrInvalidQuery, limit, s.maxLimit)
	}

	terms := core.Tokenize(trimmed)
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: no searchable terms", ErrInvalidQuery)
	}

	monitor.Start(trimmed, limit)

	// Fail fast instead of paying a timeout per query when the store is
	// known down.
	if s.store.Health(ctx) == storage.Unavailable {
		return nil, fmt.Errorf("%w: store reports unavailable", ErrSearchUnavailable)
	}

	q := s.plan(trimmed, terms, limit)
	monitor.AfterPlan(q)

	scored, err := s.store.Query(ctx, q)
	if err != nil {
		s.logger.Error("store query failed", "query", trimmed, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}
	monitor.AfterStoreQuery(scored)

	// Descending score; ties broken by earlier chunk, then document ID,
	// so identical corpora always rank identically.
	slices.SortFunc(scored, func(a, b *storage.ScoredRecord) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		if a.Record.Seq != b.Record.Seq {
			return a.Record.Seq - b.Record.Seq
		}
		if a.Record.DocumentId != b.Record.DocumentId {
			if a.Record.DocumentId < b.Record.DocumentId {
				return -1
			}
			return 1
		}
		return 0
	})

	results := make([]*core.SearchResult, 0, len(scored))
	for _, hit := range scored {
		results = append(results, &core.SearchResult{
			Record:    hit.Record,
			Score:     hit.Score,
			Fragments: highlight(hit.Record.Content, terms, s.fragmentSize, s.maxFragments),
		})
	}

	monitor.Finish(results)
	return results, nil
}

// plan builds the disjunctive boosted query for the analyzed search text.
func (s *Searcher) plan(text string, terms []string, limit int) *storage.Query {
	return &storage.Query{
		Clauses: []storage.Clause{
			{
				Field:  storage.FieldContent,
				Match:  storage.MatchPhrase,
				Phrase: text,
				Boost:  s.phraseBoost,
			},
			{
				Field: storage.FieldContent,
				Match: storage.MatchTerms,
				Terms: terms,
				Boost: s.contentBoost,
			},
			{
				Field: storage.FieldFilename,
				Match: storage.MatchTerms,
				Terms: terms,
				Boost: s.filenameBoost,
			},
		},
		Limit: limit,
	}
}
