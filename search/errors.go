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


package search

import "errors"

var (
	// ErrChunkStoreRequired is returned when a chunk store is not provided.
	ErrChunkStoreRequired = errors.New("chunk store required")

	// ErrInvalidQuery indicates a caller input fault: empty query text or
	// a result limit outside the configured range. Never retryable.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrSearchUnavailable indicates the storage collaborator is
	// unreachable, erroring, or timed out. Distinct from zero results.
	ErrSearchUnavailable = errors.New("search unavailable")
)
