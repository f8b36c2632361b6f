package search

import (
	"github.com/scribeworks/paperdex/core"
	"github.com/scribeworks/paperdex/storage"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string, limit int)
	AfterPlan(q *storage.Query)
	AfterStoreQuery(scored []*storage.ScoredRecord)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)                     {}
func (n *noopMonitor) AfterPlan(_ *storage.Query)                {}
func (n *noopMonitor) AfterStoreQuery(_ []*storage.ScoredRecord) {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)             {}
