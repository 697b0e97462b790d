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
	"io"

	"github.com/go-spatial/osmpbf/internal/decoder"
	"github.com/go-spatial/osmpbf/internal/pb"
)

// BlobReader reads one framed blob at a time from an underlying byte
// stream. When the stream also implements io.Seeker, BlobReader tracks an
// absolute offset and supports Seek and BlobAtOffset. After any failure
// other than clean EOF, the reader enters a terminal state and every
// subsequent call returns io.EOF, so a corrupt or truncated record cannot
// be mistaken for more data further down the stream.
type BlobReader struct {
	r          io.Reader
	seeker     io.Seeker
	offset     int64
	lastBlobOK bool
}

// NewBlobReader wraps r for framed blob reading. If r implements
// io.Seeker, the returned BlobReader supports Seek and BlobAtOffset.
func NewBlobReader(r io.Reader) *BlobReader {
	br := &BlobReader{r: r, lastBlobOK: true}

	if s, ok := r.(io.Seeker); ok {
		br.seeker = s
	}

	return br
}

// Next reads the next framed blob and, when the stream is seekable, the
// absolute offset at which this blob record began; the offset is -1 when
// the stream is not seekable.
func (br *BlobReader) Next() (*decoder.Blob, int64, error) {
	if !br.lastBlobOK {
		return nil, -1, io.EOF
	}

	start := br.currentOffset()

	blob, err := decoder.ReadBlob(br.r)
	if err != nil {
		br.lastBlobOK = false

		if errors.Is(err, io.EOF) {
			return nil, -1, io.EOF
		}

		return nil, -1, classify("blob content", err)
	}

	br.offset = start + 4 + int64(headerWireSize(blob.Header)) + int64(blob.Header.GetDatasize())

	return blob, start, nil
}

// NextHeaderSkipBlob reads the next blob's header and skips its payload via
// a relative seek, without paying the cost of unmarshalling the payload.
// Only available when the underlying stream is seekable.
func (br *BlobReader) NextHeaderSkipBlob() (*pb.BlobHeader, int64, error) {
	if br.seeker == nil {
		return nil, -1, fmt.Errorf("osmpbf: NextHeaderSkipBlob requires a seekable stream")
	}

	if !br.lastBlobOK {
		return nil, -1, io.EOF
	}

	start := br.currentOffset()

	h, err := decoder.ReadHeaderSkipBody(br.r, func(n int64) error {
		_, err := br.seeker.Seek(n, io.SeekCurrent)

		return err
	})
	if err != nil {
		br.lastBlobOK = false

		if errors.Is(err, io.EOF) {
			return nil, -1, io.EOF
		}

		return nil, -1, classify("blob header", err)
	}

	br.offset = start + 4 + int64(headerWireSize(h)) + int64(h.GetDatasize())

	return h, start, nil
}

// Seek repositions the reader to an absolute byte offset. Only available
// when the underlying stream is seekable.
func (br *BlobReader) Seek(offset int64) error {
	if br.seeker == nil {
		return fmt.Errorf("osmpbf: Seek requires a seekable stream")
	}

	if _, err := br.seeker.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("osmpbf: seek to %d: %w", offset, err)
	}

	br.offset = offset
	br.lastBlobOK = true

	return nil
}

// BlobAtOffset reads one blob starting at the given absolute offset. Only
// available when the underlying stream is seekable.
func (br *BlobReader) BlobAtOffset(offset int64) (*decoder.Blob, error) {
	if err := br.Seek(offset); err != nil {
		return nil, err
	}

	blob, _, err := br.Next()
	if err == io.EOF {
		return nil, fmt.Errorf("osmpbf: %w at offset %d", io.ErrUnexpectedEOF, offset)
	}

	return blob, err
}

func (br *BlobReader) currentOffset() int64 {
	if br.seeker == nil {
		return -1
	}

	return br.offset
}

// headerWireSize re-marshals h to recover its on-wire size; used only to
// keep the offset counter exact, since neither fast path retains the raw
// header bytes once decoded.
func headerWireSize(h *pb.BlobHeader) int {
	b, err := h.Marshal()
	if err != nil {
		return 0
	}

	return len(b)
}
