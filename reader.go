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

// Package osmpbf reads and writes the OpenStreetMap Protocolbuffer Binary
// Format: a length-prefixed, optionally zlib-compressed stream of Protocol
// Buffer messages encoding nodes, ways, and relations.
package osmpbf

import (
	"context"
	"io"

	"github.com/destel/rill"

	"github.com/go-spatial/osmpbf/internal/decoder"
	"github.com/go-spatial/osmpbf/model"
)

// Reader reads OpenStreetMap PBF data from a stream, sequentially or in
// parallel. The leading OSMHeader blob is consumed and decoded during
// construction.
type Reader struct {
	Header model.Header

	reader io.Reader
	cfg    readerOptions
}

// NewReader constructs a Reader over reader, configured with opts, reading
// and decoding the stream's leading OSMHeader blob.
func NewReader(reader io.Reader, opts ...ReaderOption) (*Reader, error) {
	cfg := defaultReaderConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	hdr, err := decoder.LoadHeader(reader)
	if err != nil {
		return nil, classify("blob header", err)
	}

	return &Reader{Header: hdr, reader: reader, cfg: cfg}, nil
}

// ForEach walks every entity in the stream in on-disk order, invoking f for
// each. OSMHeader and any other non-OSMData blob pass silently. The first
// error — from I/O, decoding, or f itself — stops iteration and is
// returned.
func (r *Reader) ForEach(ctx context.Context, f func(model.Entity) error) error {
	for blob, err := range decoder.GenerateBlobReader(ctx, r.reader) {
		if err != nil {
			return classify("blob content", err)
		}

		if blob.Header.GetType() != "OSMData" {
			continue
		}

		entities, ok := <-decoder.DecodeBatch([]*decoder.Blob{blob})
		if !ok {
			return nil
		}

		if entities.Error != nil {
			return classify("blob content", entities.Error)
		}

		for _, e := range entities.Value {
			if err := f(e); err != nil {
				return err
			}
		}
	}

	return nil
}

// ParMapReduce decodes blobs concurrently across r's configured worker
// count: each OSMData blob is decompressed, parsed, and folded into a
// partial value via mapFn/reduce starting from identity(), then per-blob
// partials are combined via reduce in on-disk blob order (rill.OrderedMap
// keeps the input order). Framed reading itself remains sequential. The
// first error observed short-circuits the pipeline.
func ParMapReduce[T any](
	ctx context.Context,
	r *Reader,
	mapFn func(model.Entity) T,
	identity func() T,
	reduce func(a, b T) T,
) (T, error) {
	zero := identity()

	blobs := make(chan rill.Try[*decoder.Blob])

	go func() {
		defer close(blobs)

		for blob, err := range decoder.GenerateBlobReader(ctx, r.reader) {
			blobs <- rill.Wrap(blob, err)

			if err != nil {
				return
			}
		}
	}()

	partials := rill.OrderedMap(blobs, int(r.cfg.nCPU), func(blob *decoder.Blob) (T, error) {
		if blob.Header.GetType() != "OSMData" {
			return identity(), nil
		}

		entities, ok := <-decoder.DecodeBatch([]*decoder.Blob{blob})
		if !ok {
			return identity(), nil
		}

		if entities.Error != nil {
			return identity(), entities.Error
		}

		acc := identity()
		for _, e := range entities.Value {
			acc = reduce(acc, mapFn(e))
		}

		return acc, nil
	})

	acc := zero

	for p := range partials {
		if p.Error != nil {
			return zero, classify("blob content", p.Error)
		}

		acc = reduce(acc, p.Value)
	}

	return acc, nil
}
