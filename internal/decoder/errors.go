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

package decoder

import "errors"

const (
	// MaxHeaderSize is the declared ceiling on a BlobHeader's encoded size.
	MaxHeaderSize = 64 * 1024

	// MaxMessageSize is the declared ceiling on a Blob's decompressed
	// payload size, guarding against decompression bombs.
	MaxMessageSize = 32 * 1024 * 1024
)

// ErrInvalidHeaderSize is returned when a partial (1-3 byte) header size
// prefix is read where either 0 or 4 bytes were expected.
var ErrInvalidHeaderSize = errors.New("invalid blob header size prefix")

// ErrHeaderTooBig is returned when a declared BlobHeader size meets or
// exceeds MaxHeaderSize.
var ErrHeaderTooBig = errors.New("blob header too big")

// ErrMessageTooBig is returned when a blob's declared or decompressed
// payload meets or exceeds MaxMessageSize.
var ErrMessageTooBig = errors.New("blob message too big")

// ErrBlobEmpty is returned when a Blob carries neither raw nor zlib_data.
var ErrBlobEmpty = errors.New("blob has no payload")

// ErrStringtableIndexOutOfBounds is returned when an Info.user_sid or
// Relation.roles_sid entry references an index outside the block's
// stringtable. Unlike tag decoding, these lookups have no safe default and
// are surfaced to the caller rather than silently substituted.
var ErrStringtableIndexOutOfBounds = errors.New("stringtable index out of bounds")

// ErrUnknownMemberType is returned when a Relation's types entry carries an
// enum value outside NODE, WAY, and RELATION.
var ErrUnknownMemberType = errors.New("unknown relation member type")
