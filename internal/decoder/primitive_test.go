package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-spatial/osmpbf/internal/pb"
	"github.com/go-spatial/osmpbf/model"
)

func TestBlockContext_DecodeTagsSkipsOutOfBoundsIndices(t *testing.T) {
	c := &blockContext{strings: []string{"", "building", "yes"}}

	tags := c.decodeTags([]uint32{1, 9}, []uint32{2, 9})

	assert.Equal(t, map[string]string{"building": "yes"}, tags)
}

func TestBlockContext_LookupStringOutOfBounds(t *testing.T) {
	c := &blockContext{strings: []string{"", "a"}}

	s, err := c.lookupString(1)
	require.NoError(t, err)
	assert.Equal(t, "a", s)

	_, err = c.lookupString(5)
	assert.ErrorIs(t, err, ErrStringtableIndexOutOfBounds)

	_, err = c.lookupString(-1)
	assert.ErrorIs(t, err, ErrStringtableIndexOutOfBounds)
}

func TestDenseInfoContext_VersionIsNotDeltaEncoded(t *testing.T) {
	dic := &denseInfoContext{
		strings:    []string{""},
		versions:   []int32{3, 1, 4, 1, 5},
		uids:       []model.UID{17, 0, 0, 0, 0},
		timestamps: []int64{100, 0, 0, 0, 0},
		changesets: []int64{9, 0, 0, 0, 0},
		userSids:   []int32{0, 0, 0, 0, 0},
	}

	var got []int32

	for i := range dic.versions {
		info, err := dic.decodeInfo(i)
		require.NoError(t, err)

		got = append(got, info.Version)
	}

	assert.Equal(t, []int32{3, 1, 4, 1, 5}, got)
}

func TestDenseInfoContext_VisibleDefaultsTrueWhenAbsent(t *testing.T) {
	dic := &denseInfoContext{
		strings:    []string{""},
		versions:   []int32{1},
		uids:       []model.UID{0},
		timestamps: []int64{0},
		changesets: []int64{0},
		userSids:   []int32{0},
	}

	info, err := dic.decodeInfo(0)
	require.NoError(t, err)
	assert.True(t, info.Visible)
}

func TestDenseInfoContext_VisibleFalseSurvives(t *testing.T) {
	dic := &denseInfoContext{
		strings:      []string{""},
		versions:     []int32{1},
		uids:         []model.UID{0},
		timestamps:   []int64{0},
		changesets:   []int64{0},
		userSids:     []int32{0},
		visibilities: []bool{false},
	}

	info, err := dic.decodeInfo(0)
	require.NoError(t, err)
	assert.False(t, info.Visible)
}

func TestDenseInfoContext_UserSidOutOfBoundsIsError(t *testing.T) {
	dic := &denseInfoContext{
		strings:    []string{""},
		versions:   []int32{1},
		uids:       []model.UID{0},
		timestamps: []int64{0},
		changesets: []int64{0},
		userSids:   []int32{5},
	}

	_, err := dic.decodeInfo(0)
	assert.ErrorIs(t, err, ErrStringtableIndexOutOfBounds)
}

func TestBlockContext_DecodeWayLocations(t *testing.T) {
	c := &blockContext{granularity: 100, latOffset: 0, lonOffset: 0}

	locations := c.decodeWayLocations([]int64{10, 5, -15, 0}, []int64{20, -5, -15, 0})

	want := []model.Location{
		{Lat: model.ToDegrees(0, 100, 10), Lon: model.ToDegrees(0, 100, 20)},
		{Lat: model.ToDegrees(0, 100, 15), Lon: model.ToDegrees(0, 100, 15)},
		{Lat: model.ToDegrees(0, 100, 0), Lon: model.ToDegrees(0, 100, 0)},
		{Lat: model.ToDegrees(0, 100, 0), Lon: model.ToDegrees(0, 100, 0)},
	}

	assert.Equal(t, want, locations)
}

func TestBlockContext_DecodeWayLocationsAbsent(t *testing.T) {
	c := &blockContext{}

	assert.Nil(t, c.decodeWayLocations(nil, nil))
}

func TestTagsContext_DecodeTagsSkipsOutOfBoundsIndices(t *testing.T) {
	c := &blockContext{strings: []string{"", "k1", "v1", "k2"}}
	tic := c.newTagsContext([]int32{1, 2, 3, 99, 0})

	assert.Equal(t, map[string]string{"k1": "v1"}, tic.decodeTags())
}

func TestDecodeMemberType(t *testing.T) {
	nodeType, err := decodeMemberType(pb.Relation_NODE)
	require.NoError(t, err)
	assert.Equal(t, model.NODE, nodeType)

	wayType, err := decodeMemberType(pb.Relation_WAY)
	require.NoError(t, err)
	assert.Equal(t, model.WAY, wayType)

	relationType, err := decodeMemberType(pb.Relation_RELATION)
	require.NoError(t, err)
	assert.Equal(t, model.RELATION, relationType)
}

func TestDecodeMemberType_UnknownValueIsError(t *testing.T) {
	_, err := decodeMemberType(pb.Relation_MemberType(99))
	assert.ErrorIs(t, err, ErrUnknownMemberType)
}

func TestBlockContext_DecodeMembers_UnknownRoleIndexIsError(t *testing.T) {
	c := &blockContext{strings: []string{""}}

	node := &pb.Relation{
		Memids:   []int64{1},
		Types:    []pb.Relation_MemberType{pb.Relation_NODE},
		RolesSid: []int32{7},
	}

	_, err := c.decodeMembers(node)
	assert.ErrorIs(t, err, ErrStringtableIndexOutOfBounds)
}

func TestBlockContext_DecodeMembers_UnknownTypeIsError(t *testing.T) {
	c := &blockContext{strings: []string{""}}

	node := &pb.Relation{
		Memids:   []int64{1},
		Types:    []pb.Relation_MemberType{pb.Relation_MemberType(42)},
		RolesSid: []int32{0},
	}

	_, err := c.decodeMembers(node)
	assert.ErrorIs(t, err, ErrUnknownMemberType)
}
