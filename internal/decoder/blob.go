// Copyright 2017-25 the original author or authors.
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
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-spatial/osmpbf/internal/core"
	"github.com/go-spatial/osmpbf/internal/pb"
)

// Blob pairs a decoded BlobHeader with its payload, so callers can dispatch
// on the declared type ("OSMHeader", "OSMData", or anything else) without
// decompressing blobs they intend to skip.
type Blob struct {
	Header *pb.BlobHeader
	Data   *pb.Blob
}

// GenerateBlobReader creates an iterator that returns framed blobs read off
// of the reader, in stream order.
func GenerateBlobReader(ctx context.Context, reader io.Reader) func(yield func(enc *Blob, err error) bool) {
	return func(yield func(enc *Blob, err error) bool) {
		buffer := core.NewPooledBuffer()
		defer buffer.Close()

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			blob, err := readBlob(reader)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					slog.Error("unable to read blob", "error", err)
					yield(nil, err)
				}

				return
			}

			if !yield(blob, nil) {
				return
			}

			buffer.Reset()
		}
	}
}

// ReadBlob reads one framed blob (header + payload) from rdr.
func ReadBlob(rdr io.Reader) (*Blob, error) {
	return readBlob(rdr)
}

// ReadHeaderSkipBody reads one blob's header and discards its payload by
// skipping size bytes forward on skip, without decoding the payload. It is
// the fast path for building an index of blob offsets and types.
func ReadHeaderSkipBody(rdr io.Reader, skip func(n int64) error) (*pb.BlobHeader, error) {
	h, err := readBlobHeader(rdr)
	if err != nil {
		return nil, fmt.Errorf("error reading blob header: %w", err)
	}

	if err := skip(int64(h.GetDatasize())); err != nil {
		return nil, fmt.Errorf("error skipping blob body: %w", err)
	}

	return h, nil
}

// readBlob reads a framed blob (header + payload) from rdr.
func readBlob(rdr io.Reader) (*Blob, error) {
	h, err := readBlobHeader(rdr)
	if err != nil {
		return nil, fmt.Errorf("error reading blob header: %w", err)
	}

	b, err := readBlobData(rdr, int64(h.GetDatasize()))
	if err != nil {
		return nil, fmt.Errorf("error reading blob: %w", err)
	}

	return &Blob{Header: h, Data: b}, nil
}

// readBlobHeader unmarshals a header from an array of protobuf encoded bytes.
// The header is used when decoding blobs into OSM elements.
func readBlobHeader(rdr io.Reader) (header *pb.BlobHeader, err error) {
	buf := core.NewPooledBuffer()
	defer buf.Close()

	sizeBuf := make([]byte, 4)

	n, err := io.ReadFull(rdr, sizeBuf)
	switch {
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: got %d of 4 bytes", ErrInvalidHeaderSize, n)
	case err != nil:
		return nil, fmt.Errorf("error reading blob size: %w", err)
	}

	size := binary.BigEndian.Uint32(sizeBuf)

	if size >= MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooBig, size)
	}

	if n, err := io.CopyN(buf, rdr, int64(size)); err != nil {
		return nil, fmt.Errorf("error reading blob: %w", err)
	} else if n != int64(size) {
		return nil, fmt.Errorf("error reading blob: expected %d bytes, got %d", size, n)
	}

	header, err = pb.UnmarshalBlobHeader(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling blob header: %w", err)
	}

	return header, nil
}

// readBlobData unmarshals a blob from an array of protobuf encoded bytes.  The
// blob still needs to be decoded into OSM elements.
func readBlobData(rdr io.Reader, size int64) (*pb.Blob, error) {
	buf := core.NewPooledBuffer()
	defer buf.Close()

	if _, err := io.CopyN(buf, rdr, size); err != nil {
		return nil, fmt.Errorf("error reading blob: %w", err)
	}

	blob, err := pb.UnmarshalBlob(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling blob: %w", err)
	}

	return blob, nil
}
