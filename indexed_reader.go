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
	"io"
	"sort"

	"github.com/go-spatial/osmpbf/internal/decoder"
	"github.com/go-spatial/osmpbf/model"
)

// indexedBlob records what IndexedReader currently knows about one blob:
// its declared type, and, once a decode has passed over it, whether it
// carries any nodes and (if so) their id range. Ranges accumulate
// monotonically and are never cleared, matching the index's lifetime.
type indexedBlob struct {
	offset     int64
	blobType   string
	rangeKnown bool
	hasNodes   bool
	minNodeID  model.ID
	maxNodeID  model.ID
}

// IndexedReader answers "find ways matching a predicate, then that way set
// plus every node they reference" without scanning a file twice
// sequentially. It requires a seekable stream; the index is built once, up
// front, using the header-only fast path, and is never discarded.
type IndexedReader struct {
	r       io.ReadSeeker
	blobs   []indexedBlob
	builder *BlobReader
}

// NewIndexedReader indexes every blob in r by walking its headers.
func NewIndexedReader(r io.ReadSeeker) (*IndexedReader, error) {
	br := NewBlobReader(r)

	var blobs []indexedBlob

	for {
		h, offset, err := br.NextHeaderSkipBlob()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, err
		}

		blobs = append(blobs, indexedBlob{offset: offset, blobType: h.GetType()})
	}

	return &IndexedReader{r: r, blobs: blobs, builder: br}, nil
}

// decodeAt decodes the one blob starting at offset into entities.
func (ir *IndexedReader) decodeAt(offset int64) ([]model.Entity, error) {
	blob, err := ir.builder.BlobAtOffset(offset)
	if err != nil {
		return nil, err
	}

	if blob.Header.GetType() != "OSMData" {
		return nil, nil
	}

	result, ok := <-decoder.DecodeBatch([]*decoder.Blob{blob})
	if !ok {
		return nil, nil
	}

	if result.Error != nil {
		return nil, classify("blob content", result.Error)
	}

	return result.Value, nil
}

// recordRange populates idx's node range from a freshly decoded entity
// batch, the first time this blob is seen.
func recordRange(idx *indexedBlob, entities []model.Entity) {
	if idx.rangeKnown {
		return
	}

	for _, e := range entities {
		n, ok := e.(*model.Node)
		if !ok {
			continue
		}

		if !idx.hasNodes {
			idx.hasNodes = true
			idx.minNodeID = n.ID
			idx.maxNodeID = n.ID

			continue
		}

		if n.ID < idx.minNodeID {
			idx.minNodeID = n.ID
		}

		if n.ID > idx.maxNodeID {
			idx.maxNodeID = n.ID
		}
	}

	idx.rangeKnown = true
}

// ReadWaysAndDeps finds every way accepted by filterWay, then every node
// any accepted way references, emitting each via onElement. Ways are
// emitted during the first pass over data blobs; their referenced nodes
// during a second pass restricted to blobs whose (now known) node range
// intersects the required id set.
func (ir *IndexedReader) ReadWaysAndDeps(filterWay func(*model.Way) bool, onElement func(model.Entity) error) error {
	required := map[model.ID]struct{}{}

	for i := range ir.blobs {
		idx := &ir.blobs[i]

		if idx.blobType != "OSMData" {
			continue
		}

		entities, err := ir.decodeAt(idx.offset)
		if err != nil {
			return err
		}

		recordRange(idx, entities)

		for _, e := range entities {
			way, ok := e.(*model.Way)
			if !ok {
				continue
			}

			if !filterWay(way) {
				continue
			}

			if err := onElement(way); err != nil {
				return err
			}

			for _, id := range way.NodeIDs {
				required[id] = struct{}{}
			}
		}
	}

	if len(required) == 0 {
		return nil
	}

	sorted := make([]model.ID, 0, len(required))
	for id := range required {
		sorted = append(sorted, id)
	}

	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for i := range ir.blobs {
		idx := &ir.blobs[i]

		if idx.blobType != "OSMData" || !idx.rangeKnown || !idx.hasNodes {
			continue
		}

		if !rangeIntersectsSorted(idx.minNodeID, idx.maxNodeID, sorted) {
			continue
		}

		entities, err := ir.decodeAt(idx.offset)
		if err != nil {
			return err
		}

		for _, e := range entities {
			node, ok := e.(*model.Node)
			if !ok {
				continue
			}

			if !sortedContains(sorted, node.ID) {
				continue
			}

			if err := onElement(node); err != nil {
				return err
			}
		}
	}

	return nil
}

// ForEachNode visits every node in the file in one pass. Blobs already
// known (from a prior index-populating pass) to carry zero nodes are
// skipped without decoding.
func (ir *IndexedReader) ForEachNode(f func(*model.Node) error) error {
	for i := range ir.blobs {
		idx := &ir.blobs[i]

		if idx.blobType != "OSMData" {
			continue
		}

		if idx.rangeKnown && !idx.hasNodes {
			continue
		}

		entities, err := ir.decodeAt(idx.offset)
		if err != nil {
			return err
		}

		recordRange(idx, entities)

		for _, e := range entities {
			node, ok := e.(*model.Node)
			if !ok {
				continue
			}

			if err := f(node); err != nil {
				return err
			}
		}
	}

	return nil
}

func rangeIntersectsSorted(lo, hi model.ID, sorted []model.ID) bool {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= lo })

	return i < len(sorted) && sorted[i] <= hi
}

func sortedContains(sorted []model.ID, id model.ID) bool {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= id })

	return i < len(sorted) && sorted[i] == id
}
