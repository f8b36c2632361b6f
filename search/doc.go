// Package search plans and executes relevance-ranked queries over indexed
// chunks. A free-text query becomes a disjunctive boosted query (exact
// phrase on content weighted highest, content terms next, filename terms
// lowest); the storage collaborator supplies the underlying relevance
// scoring. Results are deterministically ordered and highlighted.
//
// A failing or unreachable store surfaces as ErrSearchUnavailable, never
// as an empty result list.
package search
