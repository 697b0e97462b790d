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
	"fmt"
	"io"
	"time"

	"github.com/go-spatial/osmpbf/internal/core"
	"github.com/go-spatial/osmpbf/internal/pb"
	"github.com/go-spatial/osmpbf/model"
)

// LoadHeader reads and decodes the leading OSMHeader blob off of reader.
func LoadHeader(reader io.Reader) (model.Header, error) {
	blob, err := readBlob(reader)
	if err != nil {
		return model.Header{}, err
	}

	buf := core.NewPooledBuffer()
	defer buf.Close()

	raw, err := unpack(buf, blob.Data)
	if err != nil {
		return model.Header{}, fmt.Errorf("error unpacking header blob: %w", err)
	}

	hb, err := pb.UnmarshalHeaderBlock(raw)
	if err != nil {
		return model.Header{}, fmt.Errorf("error unmarshalling header block: %w", err)
	}

	return decodeHeaderBlock(hb), nil
}

// decodeHeaderBlock converts a protobuf HeaderBlock into the public model.
func decodeHeaderBlock(hb *pb.HeaderBlock) model.Header {
	var bbox *model.BoundingBox

	if b := hb.GetBbox(); b != nil {
		bbox = &model.BoundingBox{
			Top:    model.ToDegrees(0, 1, b.GetTop()),
			Left:   model.ToDegrees(0, 1, b.GetLeft()),
			Bottom: model.ToDegrees(0, 1, b.GetBottom()),
			Right:  model.ToDegrees(0, 1, b.GetRight()),
		}
	}

	var replicationTimestamp time.Time
	if hb.OsmosisReplicationTimestamp != nil {
		replicationTimestamp = time.Unix(hb.GetOsmosisReplicationTimestamp(), 0).UTC()
	}

	return model.Header{
		BoundingBox:                      bbox,
		RequiredFeatures:                 hb.GetRequiredFeatures(),
		OptionalFeatures:                 hb.GetOptionalFeatures(),
		WritingProgram:                   hb.GetWritingprogram(),
		Source:                           hb.GetSource(),
		OsmosisReplicationTimestamp:      replicationTimestamp,
		OsmosisReplicationSequenceNumber: hb.GetOsmosisReplicationSequenceNumber(),
		OsmosisReplicationBaseURL:        hb.GetOsmosisReplicationBaseUrl(),
	}
}
