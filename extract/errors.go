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


package extract

import "errors"

var (
	// ErrExtraction indicates that text extraction failed. Every
	// extraction failure wraps this error.
	ErrExtraction = errors.New("text extraction failed")

	// ErrNoText indicates the document contains no extractable text,
	// for example image-only pages without a text layer.
	ErrNoText = errors.New("no extractable text")

	// ErrUnsupportedFormat indicates no extractor is registered for the
	// document's file extension.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)
