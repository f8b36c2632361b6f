package badger

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/scribeworks/paperdex/core"
	"github.com/scribeworks/paperdex/storage"
)

// BM25 parameters. Standard defaults for short prose chunks.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// candidate carries the per-record statistics gathered during the scan.
type candidate struct {
	record     *core.ChunkRecord
	contentTF  map[string]int
	contentLen int
	nameTF     map[string]int
	nameLen    int
}

// fieldStats holds the corpus-level statistics of one field.
type fieldStats struct {
	docFreq map[string]int
	avgLen  float64
	total   int
}

// Query executes a boosted multi-clause query. Relevance per clause is
// BM25 over the clause's terms in the clause's field; a phrase clause
// contributes only when its terms appear verbatim and in order. Clause
// scores are multiplied by their boosts and summed.
func (s *ChunkStore) Query(ctx context.Context, q *storage.Query) ([]*storage.ScoredRecord, error) {
	if q == nil || q.Limit <= 0 || len(q.Clauses) == 0 {
		return nil, storage.ErrInvalidQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	wanted := queryTerms(q)

	candidates, err := s.scanCandidates(wanted)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	contentStats := collectFieldStats(candidates, wanted, storage.FieldContent)
	nameStats := collectFieldStats(candidates, wanted, storage.FieldFilename)

	results := make([]*storage.ScoredRecord, 0, len(candidates))
	for _, cand := range candidates {
		score := 0.0
		for _, clause := range q.Clauses {
			score += clauseScore(cand, clause, contentStats, nameStats)
		}
		if score > 0 {
			results = append(results, &storage.ScoredRecord{
				Record: cand.record,
				Score:  score,
			})
		}
	}

	// Deterministic order: score, then chunk position, then document
	slices.SortFunc(results, func(a, b *storage.ScoredRecord) int {
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

	if len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

// scanCandidates reads every chunk record and gathers term frequencies for
// the requested terms.
func (s *ChunkStore) scanCandidates(wanted map[string]struct{}) ([]*candidate, error) {
	var candidates []*candidate

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var record *core.ChunkRecord
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalChunkRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil {
				continue
			}

			contentTokens := core.Tokenize(record.Content)
			nameTokens := core.Tokenize(filenameText(record.Filename))

			candidates = append(candidates, &candidate{
				record:     record,
				contentTF:  termFreq(contentTokens, wanted),
				contentLen: len(contentTokens),
				nameTF:     termFreq(nameTokens, wanted),
				nameLen:    len(nameTokens),
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// queryTerms returns the union of terms referenced by any clause.
func queryTerms(q *storage.Query) map[string]struct{} {
	wanted := make(map[string]struct{})
	for _, clause := range q.Clauses {
		terms := clause.Terms
		if clause.Match == storage.MatchPhrase {
			terms = core.Tokenize(clause.Phrase)
		}
		for _, term := range terms {
			wanted[term] = struct{}{}
		}
	}
	return wanted
}

// termFreq counts occurrences of the wanted terms only.
func termFreq(tokens []string, wanted map[string]struct{}) map[string]int {
	tf := make(map[string]int)
	for _, token := range tokens {
		if _, ok := wanted[token]; ok {
			tf[token]++
		}
	}
	return tf
}

// filenameText makes separator characters in filenames analyzable as
// word boundaries, e.g. "annual_report-2024.pdf" -> "annual report 2024 pdf".
func filenameText(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.', '/':
			return ' '
		}
		return r
	}, name)
}

func collectFieldStats(candidates []*candidate, wanted map[string]struct{}, field storage.Field) *fieldStats {
	stats := &fieldStats{
		docFreq: make(map[string]int, len(wanted)),
		total:   len(candidates),
	}

	lenSum := 0
	for _, cand := range candidates {
		tf, length := cand.fieldData(field)
		lenSum += length
		for term := range wanted {
			if tf[term] > 0 {
				stats.docFreq[term]++
			}
		}
	}
	if stats.total > 0 {
		stats.avgLen = float64(lenSum) / float64(stats.total)
	}
	return stats
}

func (c *candidate) fieldData(field storage.Field) (map[string]int, int) {
	if field == storage.FieldFilename {
		return c.nameTF, c.nameLen
	}
	return c.contentTF, c.contentLen
}

// clauseScore computes one clause's boosted contribution for a candidate.
func clauseScore(cand *candidate, clause storage.Clause, contentStats, nameStats *fieldStats) float64 {
	stats := contentStats
	if clause.Field == storage.FieldFilename {
		stats = nameStats
	}

	terms := clause.Terms
	if clause.Match == storage.MatchPhrase {
		terms = core.Tokenize(clause.Phrase)
		if !phraseMatches(cand, clause) {
			return 0
		}
	}

	tf, length := cand.fieldData(clause.Field)
	return bm25(terms, tf, length, stats) * clause.Boost
}

// phraseMatches reports whether the clause's phrase appears verbatim in
// the clause's field, ignoring case and whitespace runs.
func phraseMatches(cand *candidate, clause storage.Clause) bool {
	phrase := core.NormalizePhrase(clause.Phrase)
	if phrase == "" {
		return false
	}

	var text string
	if clause.Field == storage.FieldFilename {
		text = core.NormalizePhrase(filenameText(cand.record.Filename))
	} else {
		text = core.NormalizePhrase(cand.record.Content)
	}
	return strings.Contains(text, phrase)
}

// bm25 scores the terms against one field of one record.
func bm25(terms []string, tf map[string]int, length int, stats *fieldStats) float64 {
	if length == 0 || stats.total == 0 || stats.avgLen == 0 {
		return 0
	}

	score := 0.0
	dl := float64(length)
	N := float64(stats.total)

	for _, term := range terms {
		freq := tf[term]
		if freq == 0 {
			continue
		}

		n := float64(stats.docFreq[term])
		idf := math.Log((N-n+0.5)/(n+0.5) + 1)

		f := float64(freq)
		score += idf * (f * (bm25K1 + 1)) / (f + bm25K1*(1-bm25B+bm25B*dl/stats.avgLen))
	}
	return score
}
