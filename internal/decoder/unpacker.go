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

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"github.com/go-spatial/osmpbf/internal/core"
	"github.com/go-spatial/osmpbf/internal/pb"
)

// ErrUnknownCompressionType is returned when a blob's Data holds a oneof case
// unpack does not handle. pb.UnmarshalBlob never produces such a case: the
// lzma/lz4/zstd payloads some writers emit are skipped while unmarshalling,
// and such a blob is reported as ErrBlobEmpty.
var ErrUnknownCompressionType = errors.New("unknown blob compression type")

// unpack uncompresses the blob.
//
// This method is not "buried" within the readBlob function so that decompression
// of blobs can be performed concurrently.
func unpack(buf *core.PooledBuffer, blob *pb.Blob) ([]byte, error) {
	var factory func(blob *pb.Blob) (io.Reader, error)

	switch blob.Data.(type) {
	case *pb.Blob_Raw:
		raw := blob.GetRaw()
		if len(raw) >= MaxMessageSize {
			return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooBig, len(raw))
		}

		return raw, nil
	case *pb.Blob_ZlibData:
		factory = func(b *pb.Blob) (io.Reader, error) {
			return zlib.NewReader(bytes.NewReader(b.GetZlibData()))
		}
	case nil:
		return nil, ErrBlobEmpty
	default:
		return nil, ErrUnknownCompressionType
	}

	if blob.GetRawSize() >= MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooBig, blob.GetRawSize())
	}

	rawBufferSize := int(blob.GetRawSize() + bytes.MinRead)
	if rawBufferSize > buf.Cap() {
		buf.Grow(rawBufferSize)
	}

	rdr, err := factory(blob)
	if err != nil {
		return nil, fmt.Errorf("unpacker factory error: %w", err)
	}

	if n, err := buf.ReadFrom(io.LimitReader(rdr, MaxMessageSize)); err != nil {
		return nil, fmt.Errorf("unpacker read error: %w", err)
	} else if n >= MaxMessageSize {
		return nil, fmt.Errorf("%w: decompressed to at least %d bytes", ErrMessageTooBig, n)
	} else if n != int64(blob.GetRawSize()) {
		return nil, fmt.Errorf("raw blob data size %d but expected %d", buf.Len(), blob.GetRawSize())
	}

	return buf.Bytes(), nil
}
