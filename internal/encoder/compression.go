// Copyright 2025 the original author or authors.
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

package encoder

// BlobCompression selects the codec Pack (and so SaveHeader and
// GenerateBatchPacker) uses when packing a blob's payload. Only RAW and ZLIB
// are supported; this package never produces lzma/lz4/zstd blobs, and
// internal/decoder does not decode them either (it reports them as
// ErrBlobEmpty).
type BlobCompression int

const (
	RAW BlobCompression = iota
	ZLIB
)
