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

package pb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// HeaderBBox is the bounding box carried in a HeaderBlock, expressed as raw
// nanodegree integers (no offset or granularity, unlike PrimitiveBlock
// coordinates).
type HeaderBBox struct {
	Left   *int64
	Right  *int64
	Top    *int64
	Bottom *int64
}

func (x *HeaderBBox) GetLeft() int64 {
	if x != nil && x.Left != nil {
		return *x.Left
	}

	return 0
}

func (x *HeaderBBox) GetRight() int64 {
	if x != nil && x.Right != nil {
		return *x.Right
	}

	return 0
}

func (x *HeaderBBox) GetTop() int64 {
	if x != nil && x.Top != nil {
		return *x.Top
	}

	return 0
}

func (x *HeaderBBox) GetBottom() int64 {
	if x != nil && x.Bottom != nil {
		return *x.Bottom
	}

	return 0
}

func (x *HeaderBBox) Marshal() ([]byte, error) {
	var b []byte

	if x.Left != nil {
		b = appendSint64Field(b, 1, *x.Left)
	}

	if x.Right != nil {
		b = appendSint64Field(b, 2, *x.Right)
	}

	if x.Top != nil {
		b = appendSint64Field(b, 3, *x.Top)
	}

	if x.Bottom != nil {
		b = appendSint64Field(b, 4, *x.Bottom)
	}

	return b, nil
}

func unmarshalHeaderBBox(b []byte) (*HeaderBBox, error) {
	x := &HeaderBBox{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed HeaderBBox tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case 1, 2, 3, 4:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed HeaderBBox field %d: %w", num, protowire.ParseError(n))
			}

			sv := protowire.DecodeZigZag(v)

			switch num {
			case 1:
				x.Left = Int64(sv)
			case 2:
				x.Right = Int64(sv)
			case 3:
				x.Top = Int64(sv)
			case 4:
				x.Bottom = Int64(sv)
			}

			b = b[n:]
		default:
			n, err := skipField(b, typ)
			if err != nil {
				return nil, err
			}

			b = b[n:]
		}
	}

	return x, nil
}

// HeaderBlock is always the first blob in a PBF stream.
type HeaderBlock struct {
	Bbox                             *HeaderBBox
	RequiredFeatures                 []string
	OptionalFeatures                 []string
	Writingprogram                   *string
	Source                           *string
	OsmosisReplicationTimestamp      *int64
	OsmosisReplicationSequenceNumber *int64
	OsmosisReplicationBaseUrl        *string
}

func (x *HeaderBlock) GetBbox() *HeaderBBox {
	if x != nil {
		return x.Bbox
	}

	return nil
}

func (x *HeaderBlock) GetRequiredFeatures() []string {
	if x != nil {
		return x.RequiredFeatures
	}

	return nil
}

func (x *HeaderBlock) GetOptionalFeatures() []string {
	if x != nil {
		return x.OptionalFeatures
	}

	return nil
}

func (x *HeaderBlock) GetWritingprogram() string {
	if x != nil && x.Writingprogram != nil {
		return *x.Writingprogram
	}

	return ""
}

func (x *HeaderBlock) GetSource() string {
	if x != nil && x.Source != nil {
		return *x.Source
	}

	return ""
}

func (x *HeaderBlock) GetOsmosisReplicationTimestamp() int64 {
	if x != nil && x.OsmosisReplicationTimestamp != nil {
		return *x.OsmosisReplicationTimestamp
	}

	return 0
}

func (x *HeaderBlock) GetOsmosisReplicationSequenceNumber() int64 {
	if x != nil && x.OsmosisReplicationSequenceNumber != nil {
		return *x.OsmosisReplicationSequenceNumber
	}

	return 0
}

func (x *HeaderBlock) GetOsmosisReplicationBaseUrl() string {
	if x != nil && x.OsmosisReplicationBaseUrl != nil {
		return *x.OsmosisReplicationBaseUrl
	}

	return ""
}

func (x *HeaderBlock) Marshal() ([]byte, error) {
	var b []byte

	if x.Bbox != nil {
		bb, err := x.Bbox.Marshal()
		if err != nil {
			return nil, err
		}

		b = appendMessageField(b, 1, bb)
	}

	for _, f := range x.RequiredFeatures {
		b = appendStringField(b, 4, f)
	}

	for _, f := range x.OptionalFeatures {
		b = appendStringField(b, 5, f)
	}

	if x.Writingprogram != nil {
		b = appendStringField(b, 16, *x.Writingprogram)
	}

	if x.Source != nil {
		b = appendStringField(b, 17, *x.Source)
	}

	if x.OsmosisReplicationTimestamp != nil {
		b = appendInt64Field(b, 32, *x.OsmosisReplicationTimestamp)
	}

	if x.OsmosisReplicationSequenceNumber != nil {
		b = appendInt64Field(b, 33, *x.OsmosisReplicationSequenceNumber)
	}

	if x.OsmosisReplicationBaseUrl != nil {
		b = appendStringField(b, 34, *x.OsmosisReplicationBaseUrl)
	}

	return b, nil
}

func UnmarshalHeaderBlock(b []byte) (*HeaderBlock, error) {
	x := &HeaderBlock{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed HeaderBlock tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed HeaderBlock.bbox: %w", protowire.ParseError(n))
			}

			bbox, err := unmarshalHeaderBBox(v)
			if err != nil {
				return nil, err
			}

			x.Bbox = bbox
			b = b[n:]
		case 4:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed HeaderBlock.required_features: %w", protowire.ParseError(n))
			}

			x.RequiredFeatures = append(x.RequiredFeatures, v)
			b = b[n:]
		case 5:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed HeaderBlock.optional_features: %w", protowire.ParseError(n))
			}

			x.OptionalFeatures = append(x.OptionalFeatures, v)
			b = b[n:]
		case 16:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed HeaderBlock.writingprogram: %w", protowire.ParseError(n))
			}

			x.Writingprogram = String(v)
			b = b[n:]
		case 17:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed HeaderBlock.source: %w", protowire.ParseError(n))
			}

			x.Source = String(v)
			b = b[n:]
		case 32:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed HeaderBlock.osmosis_replication_timestamp: %w", protowire.ParseError(n))
			}

			x.OsmosisReplicationTimestamp = Int64(int64(v))
			b = b[n:]
		case 33:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed HeaderBlock.osmosis_replication_sequence_number: %w", protowire.ParseError(n))
			}

			x.OsmosisReplicationSequenceNumber = Int64(int64(v))
			b = b[n:]
		case 34:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed HeaderBlock.osmosis_replication_base_url: %w", protowire.ParseError(n))
			}

			x.OsmosisReplicationBaseUrl = String(v)
			b = b[n:]
		default:
			n, err := skipField(b, typ)
			if err != nil {
				return nil, err
			}

			b = b[n:]
		}
	}

	return x, nil
}

// StringTable is the per-block table every string reference indexes into.
// Index 0 is reserved and always blank.
type StringTable struct {
	S []string
}

func (x *StringTable) GetS() []string {
	if x != nil {
		return x.S
	}

	return nil
}

func (x *StringTable) Marshal() ([]byte, error) {
	var b []byte
	for _, s := range x.S {
		b = appendBytesField(b, 1, []byte(s))
	}

	return b, nil
}

func unmarshalStringTable(b []byte) (*StringTable, error) {
	x := &StringTable{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed StringTable tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		if num == 1 {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed StringTable.s: %w", protowire.ParseError(n))
			}

			x.S = append(x.S, string(v))
			b = b[n:]

			continue
		}

		n, err := skipField(b, typ)
		if err != nil {
			return nil, err
		}

		b = b[n:]
	}

	return x, nil
}

// Info carries the common metadata (version, timestamp, changeset, user,
// visibility) for a Node, Way or Relation encoded outside of DenseNodes.
type Info struct {
	Version   *int32
	Timestamp *int32
	Changeset *int64
	Uid       *int32
	UserSid   *int32
	Visible   *bool
}

func (x *Info) GetVersion() int32 {
	if x != nil && x.Version != nil {
		return *x.Version
	}

	return -1
}

func (x *Info) GetTimestamp() int32 {
	if x != nil && x.Timestamp != nil {
		return *x.Timestamp
	}

	return 0
}

func (x *Info) GetChangeset() int64 {
	if x != nil && x.Changeset != nil {
		return *x.Changeset
	}

	return 0
}

func (x *Info) GetUid() int32 {
	if x != nil && x.Uid != nil {
		return *x.Uid
	}

	return -1
}

func (x *Info) GetUserSid() int32 {
	if x != nil && x.UserSid != nil {
		return *x.UserSid
	}

	return 0
}

func (x *Info) GetVisible() bool {
	if x != nil && x.Visible != nil {
		return *x.Visible
	}

	return true
}

func (x *Info) Marshal() ([]byte, error) {
	var b []byte

	if x.Version != nil {
		b = appendInt32Field(b, 1, *x.Version)
	}

	if x.Timestamp != nil {
		b = appendInt64Field(b, 2, int64(*x.Timestamp))
	}

	if x.Changeset != nil {
		b = appendInt64Field(b, 3, *x.Changeset)
	}

	if x.Uid != nil {
		b = appendInt32Field(b, 4, *x.Uid)
	}

	if x.UserSid != nil {
		b = appendInt32Field(b, 5, *x.UserSid)
	}

	if x.Visible != nil {
		b = appendBoolField(b, 6, *x.Visible)
	}

	return b, nil
}

func unmarshalInfo(b []byte) (*Info, error) {
	x := &Info{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed Info tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Info.version: %w", protowire.ParseError(n))
			}

			x.Version = Int32(int32(v))
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Info.timestamp: %w", protowire.ParseError(n))
			}

			x.Timestamp = Int32(int32(int64(v)))
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Info.changeset: %w", protowire.ParseError(n))
			}

			x.Changeset = Int64(int64(v))
			b = b[n:]
		case 4:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Info.uid: %w", protowire.ParseError(n))
			}

			x.Uid = Int32(int32(v))
			b = b[n:]
		case 5:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Info.user_sid: %w", protowire.ParseError(n))
			}

			x.UserSid = Int32(int32(v))
			b = b[n:]
		case 6:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Info.visible: %w", protowire.ParseError(n))
			}

			x.Visible = Bool(v != 0)
			b = b[n:]
		default:
			n, err := skipField(b, typ)
			if err != nil {
				return nil, err
			}

			b = b[n:]
		}
	}

	return x, nil
}

// DenseInfo is the struct-of-arrays equivalent of Info used by DenseNodes;
// every column except Version and Visible is delta-coded.
type DenseInfo struct {
	Version   []int32
	Timestamp []int64
	Changeset []int64
	Uid       []int32
	UserSid   []int32
	Visible   []bool
}

func (x *DenseInfo) GetVersion() []int32 {
	if x != nil {
		return x.Version
	}

	return nil
}

func (x *DenseInfo) GetTimestamp() []int64 {
	if x != nil {
		return x.Timestamp
	}

	return nil
}

func (x *DenseInfo) GetChangeset() []int64 {
	if x != nil {
		return x.Changeset
	}

	return nil
}

func (x *DenseInfo) GetUid() []int32 {
	if x != nil {
		return x.Uid
	}

	return nil
}

func (x *DenseInfo) GetUserSid() []int32 {
	if x != nil {
		return x.UserSid
	}

	return nil
}

func (x *DenseInfo) GetVisible() []bool {
	if x != nil {
		return x.Visible
	}

	return nil
}

func (x *DenseInfo) Marshal() ([]byte, error) {
	var b []byte

	b = appendPackedInt32(b, 1, x.Version)
	b = appendPackedSint64(b, 2, x.Timestamp)
	b = appendPackedSint64(b, 3, x.Changeset)
	b = appendPackedSint32(b, 4, x.Uid)
	b = appendPackedSint32(b, 5, x.UserSid)
	b = appendPackedBool(b, 6, x.Visible)

	return b, nil
}

func unmarshalDenseInfo(b []byte) (*DenseInfo, error) {
	x := &DenseInfo{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed DenseInfo tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case 1:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: DenseInfo.version: %w", err)
			}

			for _, v := range vs {
				x.Version = append(x.Version, int32(v))
			}

			b = b[n:]
		case 2:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: DenseInfo.timestamp: %w", err)
			}

			for _, v := range vs {
				x.Timestamp = append(x.Timestamp, protowire.DecodeZigZag(v))
			}

			b = b[n:]
		case 3:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: DenseInfo.changeset: %w", err)
			}

			for _, v := range vs {
				x.Changeset = append(x.Changeset, protowire.DecodeZigZag(v))
			}

			b = b[n:]
		case 4:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: DenseInfo.uid: %w", err)
			}

			for _, v := range vs {
				x.Uid = append(x.Uid, int32(protowire.DecodeZigZag(v)))
			}

			b = b[n:]
		case 5:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: DenseInfo.user_sid: %w", err)
			}

			for _, v := range vs {
				x.UserSid = append(x.UserSid, int32(protowire.DecodeZigZag(v)))
			}

			b = b[n:]
		case 6:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: DenseInfo.visible: %w", err)
			}

			for _, v := range vs {
				x.Visible = append(x.Visible, v != 0)
			}

			b = b[n:]
		default:
			n, err := skipField(b, typ)
			if err != nil {
				return nil, err
			}

			b = b[n:]
		}
	}

	return x, nil
}

// consumePackedOrSingle decodes a repeated scalar field that may appear
// either packed (a single length-delimited entry) or unpacked (one varint
// entry per occurrence), returning the raw varint values and the number of
// bytes consumed from b for this one field occurrence.
func consumePackedOrSingle(b []byte, typ protowire.Type) ([]uint64, int, error) {
	switch typ {
	case protowire.BytesType:
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, 0, protowire.ParseError(n)
		}

		vs, err := consumeVarintSlice(v)
		if err != nil {
			return nil, 0, err
		}

		return vs, n, nil
	case protowire.VarintType:
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, 0, protowire.ParseError(n)
		}

		return []uint64{v}, n, nil
	default:
		return nil, 0, fmt.Errorf("unexpected wire type %v for packed field", typ)
	}
}

// Node is a single node encoded outside of a DenseNodes group (rare in
// practice; real-world writers emit DenseNodes almost exclusively).
type Node struct {
	Id   *int64
	Keys []uint32
	Vals []uint32
	Info *Info
	Lat  *int64
	Lon  *int64
}

func (x *Node) GetId() int64 {
	if x != nil && x.Id != nil {
		return *x.Id
	}

	return 0
}

func (x *Node) GetKeys() []uint32 {
	if x != nil {
		return x.Keys
	}

	return nil
}

func (x *Node) GetVals() []uint32 {
	if x != nil {
		return x.Vals
	}

	return nil
}

func (x *Node) GetInfo() *Info {
	if x != nil {
		return x.Info
	}

	return nil
}

func (x *Node) GetLat() int64 {
	if x != nil && x.Lat != nil {
		return *x.Lat
	}

	return 0
}

func (x *Node) GetLon() int64 {
	if x != nil && x.Lon != nil {
		return *x.Lon
	}

	return 0
}

func (x *Node) Marshal() ([]byte, error) {
	var b []byte

	if x.Id != nil {
		b = appendSint64Field(b, 1, *x.Id)
	}

	b = appendPackedUint32(b, 2, x.Keys)
	b = appendPackedUint32(b, 3, x.Vals)

	if x.Info != nil {
		ib, err := x.Info.Marshal()
		if err != nil {
			return nil, err
		}

		b = appendMessageField(b, 4, ib)
	}

	if x.Lat != nil {
		b = appendSint64Field(b, 8, *x.Lat)
	}

	if x.Lon != nil {
		b = appendSint64Field(b, 9, *x.Lon)
	}

	return b, nil
}

func unmarshalNode(b []byte) (*Node, error) {
	x := &Node{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed Node tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Node.id: %w", protowire.ParseError(n))
			}

			x.Id = Int64(protowire.DecodeZigZag(v))
			b = b[n:]
		case 2:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: Node.keys: %w", err)
			}

			for _, v := range vs {
				x.Keys = append(x.Keys, uint32(v))
			}

			b = b[n:]
		case 3:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: Node.vals: %w", err)
			}

			for _, v := range vs {
				x.Vals = append(x.Vals, uint32(v))
			}

			b = b[n:]
		case 4:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Node.info: %w", protowire.ParseError(n))
			}

			info, err := unmarshalInfo(v)
			if err != nil {
				return nil, err
			}

			x.Info = info
			b = b[n:]
		case 8:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Node.lat: %w", protowire.ParseError(n))
			}

			x.Lat = Int64(protowire.DecodeZigZag(v))
			b = b[n:]
		case 9:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Node.lon: %w", protowire.ParseError(n))
			}

			x.Lon = Int64(protowire.DecodeZigZag(v))
			b = b[n:]
		default:
			n, err := skipField(b, typ)
			if err != nil {
				return nil, err
			}

			b = b[n:]
		}
	}

	return x, nil
}

// DenseNodes is the struct-of-arrays encoding used for the overwhelming
// majority of nodes: Id, Lat and Lon are delta-coded against the previous
// entry, while KeysVals is a flat run of string-table indexes, each node's
// pairs terminated by 0.
type DenseNodes struct {
	Id        []int64
	Denseinfo *DenseInfo
	Lat       []int64
	Lon       []int64
	KeysVals  []int32
}

func (x *DenseNodes) GetId() []int64 {
	if x != nil {
		return x.Id
	}

	return nil
}

func (x *DenseNodes) GetDenseinfo() *DenseInfo {
	if x != nil {
		return x.Denseinfo
	}

	return nil
}

func (x *DenseNodes) GetLat() []int64 {
	if x != nil {
		return x.Lat
	}

	return nil
}

func (x *DenseNodes) GetLon() []int64 {
	if x != nil {
		return x.Lon
	}

	return nil
}

func (x *DenseNodes) GetKeysVals() []int32 {
	if x != nil {
		return x.KeysVals
	}

	return nil
}

func (x *DenseNodes) Marshal() ([]byte, error) {
	var b []byte

	b = appendPackedSint64(b, 1, x.Id)

	if x.Denseinfo != nil {
		ib, err := x.Denseinfo.Marshal()
		if err != nil {
			return nil, err
		}

		b = appendMessageField(b, 5, ib)
	}

	b = appendPackedSint64(b, 8, x.Lat)
	b = appendPackedSint64(b, 9, x.Lon)
	b = appendPackedInt32(b, 10, x.KeysVals)

	return b, nil
}

func unmarshalDenseNodes(b []byte) (*DenseNodes, error) {
	x := &DenseNodes{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed DenseNodes tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case 1:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: DenseNodes.id: %w", err)
			}

			for _, v := range vs {
				x.Id = append(x.Id, protowire.DecodeZigZag(v))
			}

			b = b[n:]
		case 5:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed DenseNodes.denseinfo: %w", protowire.ParseError(n))
			}

			di, err := unmarshalDenseInfo(v)
			if err != nil {
				return nil, err
			}

			x.Denseinfo = di
			b = b[n:]
		case 8:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: DenseNodes.lat: %w", err)
			}

			for _, v := range vs {
				x.Lat = append(x.Lat, protowire.DecodeZigZag(v))
			}

			b = b[n:]
		case 9:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: DenseNodes.lon: %w", err)
			}

			for _, v := range vs {
				x.Lon = append(x.Lon, protowire.DecodeZigZag(v))
			}

			b = b[n:]
		case 10:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: DenseNodes.keys_vals: %w", err)
			}

			for _, v := range vs {
				x.KeysVals = append(x.KeysVals, int32(v))
			}

			b = b[n:]
		default:
			n, err := skipField(b, typ)
			if err != nil {
				return nil, err
			}

			b = b[n:]
		}
	}

	return x, nil
}

// Way is an ordered polyline of node references, delta-coded. Fields 9/10
// (lat/lon) are the LocationsOnWays extension some writers embed so readers
// can resolve way geometry without a second pass over nodes.
type Way struct {
	Id   *int64
	Keys []uint32
	Vals []uint32
	Info *Info
	Refs []int64
	Lat  []int64
	Lon  []int64
}

func (x *Way) GetId() int64 {
	if x != nil && x.Id != nil {
		return *x.Id
	}

	return 0
}

func (x *Way) GetKeys() []uint32 {
	if x != nil {
		return x.Keys
	}

	return nil
}

func (x *Way) GetVals() []uint32 {
	if x != nil {
		return x.Vals
	}

	return nil
}

func (x *Way) GetInfo() *Info {
	if x != nil {
		return x.Info
	}

	return nil
}

func (x *Way) GetRefs() []int64 {
	if x != nil {
		return x.Refs
	}

	return nil
}

func (x *Way) GetLat() []int64 {
	if x != nil {
		return x.Lat
	}

	return nil
}

func (x *Way) GetLon() []int64 {
	if x != nil {
		return x.Lon
	}

	return nil
}

func (x *Way) Marshal() ([]byte, error) {
	var b []byte

	if x.Id != nil {
		b = appendInt64Field(b, 1, *x.Id)
	}

	b = appendPackedUint32(b, 2, x.Keys)
	b = appendPackedUint32(b, 3, x.Vals)

	if x.Info != nil {
		ib, err := x.Info.Marshal()
		if err != nil {
			return nil, err
		}

		b = appendMessageField(b, 4, ib)
	}

	b = appendPackedSint64(b, 8, x.Refs)
	b = appendPackedSint64(b, 9, x.Lat)
	b = appendPackedSint64(b, 10, x.Lon)

	return b, nil
}

func unmarshalWay(b []byte) (*Way, error) {
	x := &Way{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed Way tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Way.id: %w", protowire.ParseError(n))
			}

			x.Id = Int64(int64(v))
			b = b[n:]
		case 2:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: Way.keys: %w", err)
			}

			for _, v := range vs {
				x.Keys = append(x.Keys, uint32(v))
			}

			b = b[n:]
		case 3:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: Way.vals: %w", err)
			}

			for _, v := range vs {
				x.Vals = append(x.Vals, uint32(v))
			}

			b = b[n:]
		case 4:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Way.info: %w", protowire.ParseError(n))
			}

			info, err := unmarshalInfo(v)
			if err != nil {
				return nil, err
			}

			x.Info = info
			b = b[n:]
		case 8:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: Way.refs: %w", err)
			}

			for _, v := range vs {
				x.Refs = append(x.Refs, protowire.DecodeZigZag(v))
			}

			b = b[n:]
		case 9:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: Way.lat: %w", err)
			}

			for _, v := range vs {
				x.Lat = append(x.Lat, protowire.DecodeZigZag(v))
			}

			b = b[n:]
		case 10:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: Way.lon: %w", err)
			}

			for _, v := range vs {
				x.Lon = append(x.Lon, protowire.DecodeZigZag(v))
			}

			b = b[n:]
		default:
			n, err := skipField(b, typ)
			if err != nil {
				return nil, err
			}

			b = b[n:]
		}
	}

	return x, nil
}

// Relation_MemberType enumerates the kind of entity a relation member
// refers to.
type Relation_MemberType int32

const (
	Relation_NODE     Relation_MemberType = 0
	Relation_WAY       Relation_MemberType = 1
	Relation_RELATION Relation_MemberType = 2
)

// Relation documents a relationship between two or more entities.
type Relation struct {
	Id       *int64
	Keys     []uint32
	Vals     []uint32
	Info     *Info
	RolesSid []int32
	Memids   []int64
	Types    []Relation_MemberType
}

func (x *Relation) GetId() int64 {
	if x != nil && x.Id != nil {
		return *x.Id
	}

	return 0
}

func (x *Relation) GetKeys() []uint32 {
	if x != nil {
		return x.Keys
	}

	return nil
}

func (x *Relation) GetVals() []uint32 {
	if x != nil {
		return x.Vals
	}

	return nil
}

func (x *Relation) GetInfo() *Info {
	if x != nil {
		return x.Info
	}

	return nil
}

func (x *Relation) GetRolesSid() []int32 {
	if x != nil {
		return x.RolesSid
	}

	return nil
}

func (x *Relation) GetMemids() []int64 {
	if x != nil {
		return x.Memids
	}

	return nil
}

func (x *Relation) GetTypes() []Relation_MemberType {
	if x != nil {
		return x.Types
	}

	return nil
}

func (x *Relation) Marshal() ([]byte, error) {
	var b []byte

	if x.Id != nil {
		b = appendInt64Field(b, 1, *x.Id)
	}

	b = appendPackedUint32(b, 2, x.Keys)
	b = appendPackedUint32(b, 3, x.Vals)

	if x.Info != nil {
		ib, err := x.Info.Marshal()
		if err != nil {
			return nil, err
		}

		b = appendMessageField(b, 4, ib)
	}

	b = appendPackedEnum(b, 8, x.RolesSid)
	b = appendPackedSint64(b, 9, x.Memids)
	b = appendPackedEnum(b, 10, x.Types)

	return b, nil
}

func unmarshalRelation(b []byte) (*Relation, error) {
	x := &Relation{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed Relation tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Relation.id: %w", protowire.ParseError(n))
			}

			x.Id = Int64(int64(v))
			b = b[n:]
		case 2:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: Relation.keys: %w", err)
			}

			for _, v := range vs {
				x.Keys = append(x.Keys, uint32(v))
			}

			b = b[n:]
		case 3:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: Relation.vals: %w", err)
			}

			for _, v := range vs {
				x.Vals = append(x.Vals, uint32(v))
			}

			b = b[n:]
		case 4:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Relation.info: %w", protowire.ParseError(n))
			}

			info, err := unmarshalInfo(v)
			if err != nil {
				return nil, err
			}

			x.Info = info
			b = b[n:]
		case 8:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: Relation.roles_sid: %w", err)
			}

			for _, v := range vs {
				x.RolesSid = append(x.RolesSid, int32(v))
			}

			b = b[n:]
		case 9:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: Relation.memids: %w", err)
			}

			for _, v := range vs {
				x.Memids = append(x.Memids, protowire.DecodeZigZag(v))
			}

			b = b[n:]
		case 10:
			vs, n, err := consumePackedOrSingle(b, typ)
			if err != nil {
				return nil, fmt.Errorf("pb: Relation.types: %w", err)
			}

			for _, v := range vs {
				x.Types = append(x.Types, Relation_MemberType(int32(v)))
			}

			b = b[n:]
		default:
			n, err := skipField(b, typ)
			if err != nil {
				return nil, err
			}

			b = b[n:]
		}
	}

	return x, nil
}

// PrimitiveGroup carries one homogeneous run of entities: sparse nodes OR
// dense nodes OR ways OR relations, never a mix.
type PrimitiveGroup struct {
	Nodes     []*Node
	Dense     *DenseNodes
	Ways      []*Way
	Relations []*Relation
}

func (x *PrimitiveGroup) GetNodes() []*Node {
	if x != nil {
		return x.Nodes
	}

	return nil
}

func (x *PrimitiveGroup) GetDense() *DenseNodes {
	if x != nil {
		return x.Dense
	}

	return nil
}

func (x *PrimitiveGroup) GetWays() []*Way {
	if x != nil {
		return x.Ways
	}

	return nil
}

func (x *PrimitiveGroup) GetRelations() []*Relation {
	if x != nil {
		return x.Relations
	}

	return nil
}

func (x *PrimitiveGroup) Marshal() ([]byte, error) {
	var b []byte

	for _, n := range x.Nodes {
		nb, err := n.Marshal()
		if err != nil {
			return nil, err
		}

		b = appendMessageField(b, 1, nb)
	}

	if x.Dense != nil {
		db, err := x.Dense.Marshal()
		if err != nil {
			return nil, err
		}

		b = appendMessageField(b, 2, db)
	}

	for _, w := range x.Ways {
		wb, err := w.Marshal()
		if err != nil {
			return nil, err
		}

		b = appendMessageField(b, 3, wb)
	}

	for _, r := range x.Relations {
		rb, err := r.Marshal()
		if err != nil {
			return nil, err
		}

		b = appendMessageField(b, 4, rb)
	}

	return b, nil
}

func unmarshalPrimitiveGroup(b []byte) (*PrimitiveGroup, error) {
	x := &PrimitiveGroup{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed PrimitiveGroup tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed PrimitiveGroup.nodes: %w", protowire.ParseError(n))
			}

			node, err := unmarshalNode(v)
			if err != nil {
				return nil, err
			}

			x.Nodes = append(x.Nodes, node)
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed PrimitiveGroup.dense: %w", protowire.ParseError(n))
			}

			dense, err := unmarshalDenseNodes(v)
			if err != nil {
				return nil, err
			}

			x.Dense = dense
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed PrimitiveGroup.ways: %w", protowire.ParseError(n))
			}

			way, err := unmarshalWay(v)
			if err != nil {
				return nil, err
			}

			x.Ways = append(x.Ways, way)
			b = b[n:]
		case 4:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed PrimitiveGroup.relations: %w", protowire.ParseError(n))
			}

			rel, err := unmarshalRelation(v)
			if err != nil {
				return nil, err
			}

			x.Relations = append(x.Relations, rel)
			b = b[n:]
		default:
			n, err := skipField(b, typ)
			if err != nil {
				return nil, err
			}

			b = b[n:]
		}
	}

	return x, nil
}

// PrimitiveBlock is the unit of batching for nodes/ways/relations: a shared
// stringtable plus one or more PrimitiveGroups, coordinate and date
// granularity/offsets.
type PrimitiveBlock struct {
	Stringtable    *StringTable
	Primitivegroup []*PrimitiveGroup
	Granularity    *int32
	LatOffset      *int64
	LonOffset      *int64
	DateGranularity *int32
}

func (x *PrimitiveBlock) GetStringtable() *StringTable {
	if x != nil {
		return x.Stringtable
	}

	return nil
}

func (x *PrimitiveBlock) GetPrimitivegroup() []*PrimitiveGroup {
	if x != nil {
		return x.Primitivegroup
	}

	return nil
}

func (x *PrimitiveBlock) GetGranularity() int32 {
	if x != nil && x.Granularity != nil {
		return *x.Granularity
	}

	return 100
}

func (x *PrimitiveBlock) GetLatOffset() int64 {
	if x != nil && x.LatOffset != nil {
		return *x.LatOffset
	}

	return 0
}

func (x *PrimitiveBlock) GetLonOffset() int64 {
	if x != nil && x.LonOffset != nil {
		return *x.LonOffset
	}

	return 0
}

func (x *PrimitiveBlock) GetDateGranularity() int32 {
	if x != nil && x.DateGranularity != nil {
		return *x.DateGranularity
	}

	return 1000
}

func (x *PrimitiveBlock) Marshal() ([]byte, error) {
	var b []byte

	if x.Stringtable != nil {
		sb, err := x.Stringtable.Marshal()
		if err != nil {
			return nil, err
		}

		b = appendMessageField(b, 1, sb)
	}

	for _, pg := range x.Primitivegroup {
		pgb, err := pg.Marshal()
		if err != nil {
			return nil, err
		}

		b = appendMessageField(b, 2, pgb)
	}

	if x.Granularity != nil {
		b = appendInt32Field(b, 17, *x.Granularity)
	}

	if x.LatOffset != nil {
		b = appendInt64Field(b, 19, *x.LatOffset)
	}

	if x.LonOffset != nil {
		b = appendInt64Field(b, 20, *x.LonOffset)
	}

	if x.DateGranularity != nil {
		b = appendInt32Field(b, 18, *x.DateGranularity)
	}

	return b, nil
}

func UnmarshalPrimitiveBlock(b []byte) (*PrimitiveBlock, error) {
	x := &PrimitiveBlock{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed PrimitiveBlock tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed PrimitiveBlock.stringtable: %w", protowire.ParseError(n))
			}

			st, err := unmarshalStringTable(v)
			if err != nil {
				return nil, err
			}

			x.Stringtable = st
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed PrimitiveBlock.primitivegroup: %w", protowire.ParseError(n))
			}

			pg, err := unmarshalPrimitiveGroup(v)
			if err != nil {
				return nil, err
			}

			x.Primitivegroup = append(x.Primitivegroup, pg)
			b = b[n:]
		case 17:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed PrimitiveBlock.granularity: %w", protowire.ParseError(n))
			}

			x.Granularity = Int32(int32(v))
			b = b[n:]
		case 18:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed PrimitiveBlock.date_granularity: %w", protowire.ParseError(n))
			}

			x.DateGranularity = Int32(int32(v))
			b = b[n:]
		case 19:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed PrimitiveBlock.lat_offset: %w", protowire.ParseError(n))
			}

			x.LatOffset = Int64(int64(v))
			b = b[n:]
		case 20:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed PrimitiveBlock.lon_offset: %w", protowire.ParseError(n))
			}

			x.LonOffset = Int64(int64(v))
			b = b[n:]
		default:
			n, err := skipField(b, typ)
			if err != nil {
				return nil, err
			}

			b = b[n:]
		}
	}

	return x, nil
}
