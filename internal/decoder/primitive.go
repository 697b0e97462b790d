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
	"time"

	"github.com/go-spatial/osmpbf/internal/pb"
	"github.com/go-spatial/osmpbf/model"
)

func parsePrimitiveBlock(buf []byte) ([]model.Entity, error) {
	blk, err := pb.UnmarshalPrimitiveBlock(buf)
	if err != nil {
		return nil, fmt.Errorf("unable to unmarshal primitive block: %w", err)
	}

	c := newBlockContext(blk)

	entities := make([]model.Entity, 0)

	for _, pg := range blk.GetPrimitivegroup() {
		nodes, err := c.decodeNodes(pg.GetNodes())
		if err != nil {
			return nil, err
		}

		entities = append(entities, nodes...)

		dense, err := c.decodeDenseNodes(pg.GetDense())
		if err != nil {
			return nil, err
		}

		entities = append(entities, dense...)

		ways, err := c.decodeWays(pg.GetWays())
		if err != nil {
			return nil, err
		}

		entities = append(entities, ways...)

		relations, err := c.decodeRelations(pg.GetRelations())
		if err != nil {
			return nil, err
		}

		entities = append(entities, relations...)
	}

	return entities, nil
}

type blockContext struct {
	strings         []string
	granularity     int32
	latOffset       int64
	lonOffset       int64
	dateGranularity int32
}

func newBlockContext(pb *pb.PrimitiveBlock) *blockContext {
	return &blockContext{
		strings:         pb.GetStringtable().GetS(),
		granularity:     pb.GetGranularity(),
		latOffset:       pb.GetLatOffset(),
		lonOffset:       pb.GetLonOffset(),
		dateGranularity: pb.GetDateGranularity(),
	}
}

func (c *blockContext) decodeNodes(nodes []*pb.Node) ([]model.Entity, error) {
	entities := make([]model.Entity, len(nodes))

	for i, node := range nodes {
		info, err := c.decodeInfo(node.GetInfo())
		if err != nil {
			return nil, err
		}

		entities[i] = &model.Node{
			ID:   model.ID(node.GetId()),
			Tags: c.decodeTags(node.GetKeys(), node.GetVals()),
			Info: info,
			Lat:  model.ToDegrees(c.latOffset, c.granularity, node.GetLat()),
			Lon:  model.ToDegrees(c.lonOffset, c.granularity, node.GetLon()),
		}
	}

	return entities, nil
}

func (c *blockContext) decodeDenseNodes(nodes *pb.DenseNodes) ([]model.Entity, error) {
	ids := nodes.GetId()
	entities := make([]model.Entity, len(ids))

	tic := c.newTagsContext(nodes.GetKeysVals())
	dic := c.newDenseInfoContext(nodes.GetDenseinfo())
	lats := nodes.GetLat()
	lons := nodes.GetLon()

	var id, lat, lon int64

	for i := range ids {
		id += ids[i]
		lat += lats[i]
		lon += lons[i]

		info, err := dic.decodeInfo(i)
		if err != nil {
			return nil, err
		}

		entities[i] = &model.Node{
			ID:   model.ID(id),
			Tags: tic.decodeTags(),
			Info: info,
			Lat:  model.ToDegrees(c.latOffset, c.granularity, lat),
			Lon:  model.ToDegrees(c.lonOffset, c.granularity, lon),
		}
	}

	return entities, nil
}

func (c *blockContext) decodeWays(nodes []*pb.Way) ([]model.Entity, error) {
	entities := make([]model.Entity, len(nodes))

	for i, node := range nodes {
		refs := node.GetRefs()
		nodeIDs := make([]model.ID, len(refs))

		var nodeID int64

		for j, delta := range refs {
			nodeID = delta + nodeID
			nodeIDs[j] = model.ID(nodeID)
		}

		info, err := c.decodeInfo(node.GetInfo())
		if err != nil {
			return nil, err
		}

		entities[i] = &model.Way{
			ID:            model.ID(node.GetId()),
			Tags:          c.decodeTags(node.GetKeys(), node.GetVals()),
			NodeIDs:       nodeIDs,
			RawRefs:       refs,
			Info:          info,
			NodeLocations: c.decodeWayLocations(node.GetLat(), node.GetLon()),
		}
	}

	return entities, nil
}

// decodeWayLocations reconstructs the optional inline node coordinates a
// writer may embed in a Way when using the LocationsOnWays optional feature.
// Absent either slice, the way carries no inline locations.
func (c *blockContext) decodeWayLocations(lats, lons []int64) []model.Location {
	if len(lats) == 0 || len(lons) == 0 {
		return nil
	}

	locations := make([]model.Location, len(lats))

	var lat, lon int64

	for i := range lats {
		lat += lats[i]
		lon += lons[i]

		locations[i] = model.Location{
			Lat: model.ToDegrees(c.latOffset, c.granularity, lat),
			Lon: model.ToDegrees(c.lonOffset, c.granularity, lon),
		}
	}

	return locations
}

func (c *blockContext) decodeRelations(nodes []*pb.Relation) ([]model.Entity, error) {
	entities := make([]model.Entity, len(nodes))

	for i, node := range nodes {
		info, err := c.decodeInfo(node.GetInfo())
		if err != nil {
			return nil, err
		}

		members, err := c.decodeMembers(node)
		if err != nil {
			return nil, err
		}

		entities[i] = &model.Relation{
			ID:      model.ID(node.GetId()),
			Tags:    c.decodeTags(node.GetKeys(), node.GetVals()),
			Info:    info,
			Members: members,
		}
	}

	return entities, nil
}

func (c *blockContext) decodeMembers(node *pb.Relation) ([]model.Member, error) {
	memids := node.GetMemids()
	memtypes := node.GetTypes()
	memroles := node.GetRolesSid()
	members := make([]model.Member, len(memids))

	var memid int64

	for i := range memids {
		memid = memids[i] + memid

		memberType, err := decodeMemberType(memtypes[i])
		if err != nil {
			return nil, err
		}

		role, err := c.lookupString(int32(memroles[i]))
		if err != nil {
			return nil, err
		}

		members[i] = model.Member{
			ID:   model.ID(memid),
			Type: memberType,
			Role: role,
		}
	}

	return members, nil
}

// decodeTags zips the key/value stringtable index arrays into a tag map. A
// pair referencing an out-of-bounds stringtable index is skipped rather than
// failing the whole element, preserving iterator totality.
func (c *blockContext) decodeTags(keyIDs, valIDs []uint32) map[string]string {
	tags := make(map[string]string, len(keyIDs))

	for i, keyID := range keyIDs {
		valID := valIDs[i]
		if int(keyID) >= len(c.strings) || int(valID) >= len(c.strings) {
			continue
		}

		tags[c.strings[keyID]] = c.strings[valID]
	}

	return tags
}

// lookupString resolves a stringtable index, returning
// ErrStringtableIndexOutOfBounds for an out-of-bounds index rather than
// defaulting or panicking: unlike tag decoding, there is no safe default
// for a user name or a member role.
func (c *blockContext) lookupString(idx int32) (string, error) {
	if idx < 0 || int(idx) >= len(c.strings) {
		return "", fmt.Errorf("%w: index %d, table size %d", ErrStringtableIndexOutOfBounds, idx, len(c.strings))
	}

	return c.strings[idx], nil
}

func (c *blockContext) decodeInfo(info *pb.Info) (*model.Info, error) {
	i := &model.Info{Visible: true}
	if info != nil {
		i.Version = info.GetVersion()
		i.Timestamp = toTimestamp(c.dateGranularity, info.GetTimestamp())
		i.Changeset = info.GetChangeset()
		i.UID = model.UID(info.GetUid())

		user, err := c.lookupString(info.GetUserSid())
		if err != nil {
			return nil, err
		}

		i.User = user

		if info.Visible != nil {
			i.Visible = info.GetVisible()
		}
	}

	return i, nil
}

func (c *blockContext) newDenseInfoContext(di *pb.DenseInfo) *denseInfoContext {
	uids := make([]model.UID, len(di.GetUid()))
	for i, uid := range di.GetUid() {
		uids[i] = model.UID(uid)
	}

	dic := &denseInfoContext{
		dateGranularity: c.dateGranularity,
		strings:         c.strings,
		versions:        di.GetVersion(),
		uids:            uids,
		timestamps:      di.GetTimestamp(),
		changesets:      di.GetChangeset(),
		userSids:        di.GetUserSid(),
	}

	visibilities := di.GetVisible()
	if visibilities != nil && len(visibilities) == 0 {
		dic.visibilities = nil
	} else {
		dic.visibilities = visibilities
	}

	return dic
}

type denseInfoContext struct {
	timestamp int64
	changeset int64
	uid       model.UID
	userSid   int32

	dateGranularity int32
	strings         []string
	versions        []int32
	uids            []model.UID
	timestamps      []int64
	changesets      []int64
	userSids        []int32
	visibilities    []bool
}

// decodeInfo reconstructs the i-th dense node's Info. version is stored
// directly in the DenseInfo arrays (not delta-encoded); timestamp, changeset,
// uid, and user_sid are independent running delta sums.
func (dic *denseInfoContext) decodeInfo(i int) (*model.Info, error) {
	dic.uid += dic.uids[i]
	dic.timestamp += dic.timestamps[i]
	dic.changeset += dic.changesets[i]
	dic.userSid += dic.userSids[i]

	user, err := dic.lookupDenseString(dic.userSid)
	if err != nil {
		return nil, err
	}

	info := &model.Info{
		Version:   dic.versions[i],
		UID:       dic.uid,
		Timestamp: toTimestamp(dic.dateGranularity, int32(dic.timestamp)),
		Changeset: dic.changeset,
		User:      user,
	}

	if dic.visibilities == nil {
		info.Visible = true
	} else {
		info.Visible = dic.visibilities[i]
	}

	return info, nil
}

// lookupDenseString resolves a stringtable index, returning
// ErrStringtableIndexOutOfBounds for an out-of-bounds index rather than
// defaulting or panicking.
func (dic *denseInfoContext) lookupDenseString(idx int32) (string, error) {
	if idx < 0 || int(idx) >= len(dic.strings) {
		return "", fmt.Errorf("%w: index %d, table size %d", ErrStringtableIndexOutOfBounds, idx, len(dic.strings))
	}

	return dic.strings[idx], nil
}

type tagsContext struct {
	strings []string
	i       int
	keyVals []int32
}

func (c *blockContext) newTagsContext(keyVals []int32) *tagsContext {
	tc := &tagsContext{strings: c.strings}

	if len(keyVals) != 0 {
		tc.keyVals = keyVals
	}

	return tc
}

func (tic *tagsContext) decodeTags() map[string]string {
	if tic.keyVals == nil {
		return map[string]string{}
	}

	tags := make(map[string]string)
	i := tic.i

	for tic.keyVals[i] != 0 {
		keyID, valID := tic.keyVals[i], tic.keyVals[i+1]

		if int(keyID) >= 0 && int(keyID) < len(tic.strings) && int(valID) >= 0 && int(valID) < len(tic.strings) {
			tags[tic.strings[keyID]] = tic.strings[valID]
		}

		i += 2
	}

	tic.i = i + 1

	return tags
}

// decodeMemberType converts protobuf enum Relation_MemberType to an
// EntityType, returning ErrUnknownMemberType for a value outside NODE, WAY,
// and RELATION rather than panicking.
func decodeMemberType(mt pb.Relation_MemberType) (model.EntityType, error) {
	switch mt {
	case pb.Relation_NODE:
		return model.NODE, nil
	case pb.Relation_WAY:
		return model.WAY, nil
	case pb.Relation_RELATION:
		return model.RELATION, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownMemberType, mt)
	}
}

// toTimestamp converts a timestamp with a specific granularity, in units of
// milliseconds, to a UTC timestamp of type Time.
func toTimestamp(granularity int32, timestamp int32) time.Time {
	return time.UnixMilli(int64(timestamp) * int64(granularity)).UTC()
}
