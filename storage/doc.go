// Copyright 2025 Scribeworks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage defines the contract between paperdex and its search
// storage collaborator.
//
// The interfaces mirror the operations a managed search cluster exposes:
// batched chunk writes, relevance-scored queries, an atomic conditional
// insert backing the fingerprint index, and a health probe. The bundled
// BadgerDB implementation lives in storage/badger; any backend satisfying
// these interfaces (a hosted OpenSearch-style cluster, an in-memory fake)
// can be substituted without touching the ingestion or search packages.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return these interfaces rather
// than concrete types, keeping callers decoupled from any one backend:
//
//	store, err := badger.NewChunkStore(backend) // returns storage.ChunkStore
//
// # Atomicity
//
// PutChunks persists all records of one document or none of them; a
// document is never left partially searchable. ConditionalInsert is a
// single test-and-set: among concurrent inserts of the same fingerprint,
// exactly one observes Inserted.
//
// # Thread Safety
//
// All implementations must be safe for concurrent use.
package storage
