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

package osmpbf

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/go-spatial/osmpbf/internal/decoder"
)

// ErrorKind classifies the failures a Reader or IndexedReader can surface.
type ErrorKind int

const (
	// KindIO covers underlying byte-stream failures, including a
	// truncated record, and every failure classify does not otherwise
	// recognise, protobuf schema parse failures among them.
	KindIO ErrorKind = iota

	// KindProtobuf names a schema parse failure. classify never assigns
	// it: such failures are reported with KindIO.
	KindProtobuf

	// KindHeaderSizeInvalid means the 4-byte header size prefix was
	// partially read where either 0 or 4 bytes were expected.
	KindHeaderSizeInvalid

	// KindHeaderTooBig means a declared BlobHeader size met or exceeded
	// the 64 KiB ceiling.
	KindHeaderTooBig

	// KindMessageTooBig means a blob's declared or decompressed payload
	// met or exceeded the 32 MiB ceiling.
	KindMessageTooBig

	// KindBlobEmpty means a Blob carried neither raw nor zlib_data.
	KindBlobEmpty

	// KindUnknownCompression means a Blob's oneof carried a compression
	// this library does not implement.
	KindUnknownCompression

	// KindStringtableIndexOutOfBounds means an Info.user_sid or
	// Relation.roles_sid entry referenced an index outside the block's
	// stringtable.
	KindStringtableIndexOutOfBounds

	// KindUnknownMemberType means a Relation's types entry carried an enum
	// value outside NODE, WAY, and RELATION.
	KindUnknownMemberType
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindProtobuf:
		return "protobuf"
	case KindHeaderSizeInvalid:
		return "header size invalid"
	case KindHeaderTooBig:
		return "header too big"
	case KindMessageTooBig:
		return "message too big"
	case KindBlobEmpty:
		return "blob empty"
	case KindUnknownCompression:
		return "unknown compression"
	case KindStringtableIndexOutOfBounds:
		return "stringtable index out of bounds"
	case KindUnknownMemberType:
		return "unknown member type"
	default:
		return "unknown"
	}
}

// Error is the error type returned for all framing, size-ceiling, and
// decode failures surfaced by this package. Location names the decoder
// stage in which the failure occurred: "blob header" or "blob content".
// Finer stages such as raw or zlib blob data are not distinguished.
type Error struct {
	Kind     ErrorKind
	Location string
	Err      error
}

func (e *Error) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Location, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify wraps a low-level decoder error into an Error carrying a Kind a
// caller can switch on, annotating size-ceiling errors with a
// human-readable limit.
func classify(location string, err error) error {
	if err == nil {
		return nil
	}

	var asErr *Error
	if errors.As(err, &asErr) {
		return err
	}

	switch {
	case errors.Is(err, decoder.ErrHeaderTooBig):
		return &Error{Kind: KindHeaderTooBig, Location: location,
			Err: fmt.Errorf("%w (limit %s)", err, humanize.IBytes(decoder.MaxHeaderSize))}
	case errors.Is(err, decoder.ErrMessageTooBig):
		return &Error{Kind: KindMessageTooBig, Location: location,
			Err: fmt.Errorf("%w (limit %s)", err, humanize.IBytes(decoder.MaxMessageSize))}
	case errors.Is(err, decoder.ErrInvalidHeaderSize):
		return &Error{Kind: KindHeaderSizeInvalid, Location: location, Err: err}
	case errors.Is(err, decoder.ErrBlobEmpty):
		return &Error{Kind: KindBlobEmpty, Location: location, Err: err}
	case errors.Is(err, decoder.ErrUnknownCompressionType):
		return &Error{Kind: KindUnknownCompression, Location: location, Err: err}
	case errors.Is(err, decoder.ErrStringtableIndexOutOfBounds):
		return &Error{Kind: KindStringtableIndexOutOfBounds, Location: location, Err: err}
	case errors.Is(err, decoder.ErrUnknownMemberType):
		return &Error{Kind: KindUnknownMemberType, Location: location, Err: err}
	default:
		return &Error{Kind: KindIO, Location: location, Err: err}
	}
}
