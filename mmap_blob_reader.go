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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/go-spatial/osmpbf/internal/decoder"
	"github.com/go-spatial/osmpbf/internal/pb"
	"github.com/go-spatial/osmpbf/model"
)

// mmapIndexEntry records where one blob's payload lives within the mapped
// file, so Blob can hand back a borrowed sub-slice without touching
// anything outside it.
type mmapIndexEntry struct {
	headerType    string
	payloadOffset int64
	payloadSize   int64
}

// Mmap is a memory-mapped view of a PBF file. The whole file is indexed up
// front by walking its headers; no blob payload is decompressed or
// protobuf-parsed until Blob(i).Decode is called.
type Mmap struct {
	data    mmap.MMap
	entries []mmapIndexEntry
}

// OpenMmap memory-maps f read-only and indexes every blob it contains.
func OpenMmap(f *os.File) (*Mmap, error) {
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("osmpbf: mmap: %w", err)
	}

	entries, err := indexMmap(data)
	if err != nil {
		_ = data.Unmap()

		return nil, err
	}

	return &Mmap{data: data, entries: entries}, nil
}

// Close unmaps the underlying file. Any MmapBlob obtained from m must not
// be used afterward.
func (m *Mmap) Close() error {
	return m.data.Unmap()
}

// Len reports the number of blobs indexed.
func (m *Mmap) Len() int {
	return len(m.entries)
}

// Type reports the declared type ("OSMHeader", "OSMData", ...) of blob i.
func (m *Mmap) Type(i int) string {
	return m.entries[i].headerType
}

// Blob returns a lazily-decoding view over blob i's payload, borrowed
// directly from the mapping.
func (m *Mmap) Blob(i int) *MmapBlob {
	e := m.entries[i]

	return &MmapBlob{
		typ:  e.headerType,
		data: m.data[e.payloadOffset : e.payloadOffset+e.payloadSize],
	}
}

// MmapBlob is one blob payload borrowed from a memory mapping. Decode
// performs the zlib decompression (if any) and protobuf parse; it is safe
// to call more than once and each call re-parses independently, since the
// underlying bytes are never mutated.
type MmapBlob struct {
	typ  string
	data []byte
}

// Type reports the blob's declared type.
func (b *MmapBlob) Type() string {
	return b.typ
}

// Decode parses the blob's payload into entities. Non-OSMData blobs decode
// to an empty, non-nil slice.
func (b *MmapBlob) Decode() ([]model.Entity, error) {
	if b.typ != "OSMData" {
		return []model.Entity{}, nil
	}

	raw, err := pb.UnmarshalBlob(b.data)
	if err != nil {
		return nil, classify("blob content", fmt.Errorf("error unmarshalling blob: %w", err))
	}

	batch := &decoder.Blob{
		Header: &pb.BlobHeader{Type: pb.String(b.typ)},
		Data:   raw,
	}

	result, ok := <-decoder.DecodeBatch([]*decoder.Blob{batch})
	if !ok {
		return []model.Entity{}, nil
	}

	if result.Error != nil {
		return nil, classify("blob content", result.Error)
	}

	return result.Value, nil
}

// indexMmap walks data's length-prefixed blob headers, recording each
// blob's declared type and payload sub-slice without parsing any payload.
func indexMmap(data []byte) ([]mmapIndexEntry, error) {
	var entries []mmapIndexEntry

	r := bytes.NewReader(data)

	for {
		h, err := decoder.ReadHeaderSkipBody(r, func(n int64) error {
			_, err := r.Seek(n, io.SeekCurrent)

			return err
		})
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, classify("blob header", err)
		}

		payloadOffset := int64(len(data)) - int64(r.Len()) - int64(h.GetDatasize())

		entries = append(entries, mmapIndexEntry{
			headerType:    h.GetType(),
			payloadOffset: payloadOffset,
			payloadSize:   int64(h.GetDatasize()),
		})
	}

	return entries, nil
}
