// Package ingestion turns uploaded documents into searchable chunk
// records: extract text, split into overlapping chunks, reject duplicate
// content through the fingerprint index, and write the whole chunk batch
// atomically. Independent documents ingest in parallel; the fingerprint
// gate is the only synchronization point.
package ingestion
