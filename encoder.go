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
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/destel/rill"

	"github.com/go-spatial/osmpbf/internal/encoder"
	"github.com/go-spatial/osmpbf/model"
)

const (
	numConsumers = 2

	encodeCPU = 5
)

// Encoder writes entities as a framed, compressed PBF stream. The final
// bounding box is not known until every entity has been seen, yet it must
// appear in the leading OSMHeader blob; Encoder resolves this by spooling
// encoded PrimitiveBlocks to a temporary file while the box accumulates,
// then writing the header followed by the spooled body on Close.
type Encoder struct {
	Header   model.Header
	Entities chan<- []model.Entity

	cfg  *encoderOptions
	wrtr io.Writer

	err   error
	close sync.Once

	completed sync.WaitGroup
	closed    sync.WaitGroup
}

// NewEncoder returns a new Encoder, configured with opts, that writes a
// framed PBF stream to wrtr.
func NewEncoder(wrtr io.Writer, opts ...EncoderOption) (*Encoder, error) {
	cfg := defaultEncoderConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := initializeTempStore(&cfg); err != nil {
		return nil, err
	}

	e := &Encoder{
		Header: model.Header{
			BoundingBox:                      model.InitialBoundingBox(),
			RequiredFeatures:                 cfg.requiredFeatures,
			OptionalFeatures:                 cfg.optionalFeatures,
			WritingProgram:                   cfg.writingProgram,
			Source:                           cfg.source,
			OsmosisReplicationTimestamp:      cfg.osmosisReplicationTimestamp,
			OsmosisReplicationSequenceNumber: cfg.osmosisReplicationSequenceNumber,
			OsmosisReplicationBaseURL:        cfg.osmosisReplicationBaseURL,
		},

		cfg:  &cfg,
		wrtr: wrtr,
	}

	entities := make(chan []model.Entity)
	e.Entities = entities

	coalesced := encoder.Coalesce(entities, encoder.EntityLimit)
	inspected, bboxes := encoder.ExtractBoundingBoxes(coalesced)
	encoded := rill.OrderedMap(inspected, encodeCPU, encoder.EncodeBatch)
	packed := rill.OrderedMap(encoded, encodeCPU, encoder.GenerateBatchPacker(cfg.compression))
	statuses := encoder.SavePacked(cfg.wrtr, packed)

	e.completed.Add(numConsumers)
	go e.consumeBBoxes(bboxes)
	go e.consumeStatuses(statuses)

	e.closed.Add(1)
	go e.writeHeaderAndBody()

	return e, nil
}

// Encode writes a single entity to the stream.
func (e *Encoder) Encode(entity model.Entity) error {
	return e.EncodeBatch([]model.Entity{entity})
}

// EncodeBatch writes a batch of entities to the stream as one or more
// PrimitiveBlocks.
func (e *Encoder) EncodeBatch(entities []model.Entity) error {
	e.Entities <- entities

	return nil
}

// Close drains the background encoding pipeline, writes the OSMHeader
// blob (now that the bounding box is final), and copies the spooled body
// after it. It blocks until the whole stream has been written, and
// returns the first error observed by the pipeline, if any.
func (e *Encoder) Close() error {
	e.doClose(nil)
	e.closed.Wait()

	return e.err
}

func (e *Encoder) doClose(err error) {
	e.close.Do(func() {
		e.err = err
		close(e.Entities)
	})
}

func (e *Encoder) consumeBBoxes(bboxes <-chan rill.Try[*model.BoundingBox]) {
	defer e.completed.Done()

	for bbox := range bboxes {
		e.Header.BoundingBox.ExpandWithBoundingBox(bbox.Value)
	}
}

func (e *Encoder) consumeStatuses(statuses <-chan rill.Try[struct{}]) {
	defer e.completed.Done()

	for status := range statuses {
		if status.Error != nil {
			slog.Error("encoder pipeline status error", "error", status.Error)
			e.doClose(status.Error)
		}
	}
}

func (e *Encoder) writeHeaderAndBody() {
	defer e.closed.Done()

	defer func() {
		if err := os.RemoveAll(e.cfg.store); err != nil {
			slog.Error("error removing temporary store", "error", err)
		}
	}()

	e.completed.Wait()

	if e.err != nil {
		return
	}

	if err := e.cfg.wrtr.Sync(); err != nil {
		e.err = fmt.Errorf("cannot sync batch: %w", err)

		return
	}

	if offset, err := e.cfg.wrtr.Seek(0, io.SeekStart); err != nil {
		e.err = fmt.Errorf("cannot seek to beginning of spool file: %w", err)

		return
	} else if offset != 0 {
		e.err = fmt.Errorf("cannot seek to beginning of spool file")

		return
	}

	if err := encoder.SaveHeader(e.wrtr, e.Header, e.cfg.compression); err != nil {
		e.err = fmt.Errorf("error writing header: %w", err)

		return
	}

	if _, err := io.Copy(e.wrtr, e.cfg.wrtr); err != nil {
		e.err = fmt.Errorf("error copying entities file: %w", err)
	}
}
