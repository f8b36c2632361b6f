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


package badger

import "github.com/scribeworks/paperdex/storage"

// NewMemoryStores creates an in-memory chunk store and fingerprint index
// for testing. Returns chunkStore, fingerprintIndex, backend, and error.
// Caller must close all three when done.
func NewMemoryStores() (storage.ChunkStore, storage.FingerprintIndex, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	chunks, err := NewChunkStore(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	fingerprints, err := NewFingerprintIndex(backend)
	if err != nil {
		chunks.Close()
		backend.Close()
		return nil, nil, nil, err
	}

	return chunks, fingerprints, backend, nil
}
