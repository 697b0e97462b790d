package osmpbf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-spatial/osmpbf"
	"github.com/go-spatial/osmpbf/model"
)

func buildFixture(t *testing.T) []byte {
	t.Helper()

	var out bytes.Buffer

	enc, err := osmpbf.NewEncoder(&out,
		osmpbf.WithCompression(osmpbf.DefaultBlobCompression),
		osmpbf.WithRequiredFeatures("OsmSchema-V0.6", "DenseNodes"))
	require.NoError(t, err)

	nodes := []model.Entity{
		&model.Node{ID: 105, Lat: 52.1, Lon: 11.6, Info: &model.Info{UID: 17, Visible: true}},
		&model.Node{ID: 106, Lat: 52.11992359584, Lon: 11.62564468943, Info: &model.Info{UID: 17, Visible: true}},
		&model.Node{ID: 108, Lat: 52.2, Lon: 11.7, Info: &model.Info{UID: 17, Visible: true}},
	}

	way := &model.Way{
		ID:      107,
		Tags:    map[string]string{"building": "yes", "name": "triangle"},
		NodeIDs: []model.ID{105, 106, 108, 105},
		Info:    &model.Info{},
		NodeLocations: []model.Location{
			{Lat: 52.1, Lon: 11.6},
			{Lat: 52.11992359584, Lon: 11.62564468943},
			{Lat: 52.2, Lon: 11.7},
			{Lat: 52.1, Lon: 11.6},
		},
	}

	relation := &model.Relation{
		ID:      1,
		Tags:    map[string]string{"rel_key": "rel_value"},
		Info:    &model.Info{},
		Members: []model.Member{{ID: 107, Type: model.WAY, Role: "test_role"}},
	}

	require.NoError(t, enc.EncodeBatch(nodes))
	require.NoError(t, enc.Encode(way))
	require.NoError(t, enc.Encode(relation))
	require.NoError(t, enc.Close())

	return out.Bytes()
}

func TestReader_ForEachYieldsFixtureElements(t *testing.T) {
	data := buildFixture(t)

	r, err := osmpbf.NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	var (
		nodeCount, wayCount, relationCount int
		way                                *model.Way
		relation                           *model.Relation
	)

	err = r.ForEach(context.Background(), func(e model.Entity) error {
		switch v := e.(type) {
		case *model.Node:
			nodeCount++
			assert.Equal(t, model.UID(17), v.Info.UID)
			assert.True(t, v.Info.Visible)
		case *model.Way:
			wayCount++
			way = v
		case *model.Relation:
			relationCount++
			relation = v
		}

		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, nodeCount)
	assert.Equal(t, 1, wayCount)
	assert.Equal(t, 1, relationCount)

	require.NotNil(t, way)
	assert.Equal(t, map[string]string{"building": "yes", "name": "triangle"}, way.Tags)
	assert.Equal(t, []model.ID{105, 106, 108, 105}, way.NodeIDs)

	require.Len(t, way.NodeLocations, 4)
	assert.InDelta(t, float64(way.NodeLocations[0].Lat), float64(way.NodeLocations[3].Lat), 1e-6)
	assert.InDelta(t, float64(way.NodeLocations[0].Lon), float64(way.NodeLocations[3].Lon), 1e-6)

	require.NotNil(t, relation)
	assert.Equal(t, map[string]string{"rel_key": "rel_value"}, relation.Tags)
	require.Len(t, relation.Members, 1)
	assert.Equal(t, "test_role", relation.Members[0].Role)
	assert.Equal(t, model.WAY, relation.Members[0].Type)
}

func TestReader_ParMapReduceMatchesSequentialFold(t *testing.T) {
	data := buildFixture(t)

	countEntities := func(name string) int {
		r, err := osmpbf.NewReader(bytes.NewReader(data))
		require.NoError(t, err)

		total := 0

		require.NoError(t, r.ForEach(context.Background(), func(model.Entity) error {
			total++

			return nil
		}))

		return total
	}

	sequential := countEntities("sequential")

	r, err := osmpbf.NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	parallel, err := osmpbf.ParMapReduce(context.Background(), r,
		func(model.Entity) int { return 1 },
		func() int { return 0 },
		func(a, b int) int { return a + b },
	)
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestIndexedReader_ReadWaysAndDeps(t *testing.T) {
	data := buildFixture(t)

	ir, err := osmpbf.NewIndexedReader(bytes.NewReader(data))
	require.NoError(t, err)

	var ways []*model.Way

	nodes := map[model.ID]struct{}{}

	err = ir.ReadWaysAndDeps(
		func(w *model.Way) bool { return w.Tags["building"] == "yes" },
		func(e model.Entity) error {
			switch v := e.(type) {
			case *model.Way:
				ways = append(ways, v)
			case *model.Node:
				nodes[v.ID] = struct{}{}
			}

			return nil
		},
	)
	require.NoError(t, err)

	assert.Len(t, ways, 1)
	assert.Len(t, nodes, 3)
	assert.Contains(t, nodes, model.ID(105))
	assert.Contains(t, nodes, model.ID(106))
	assert.Contains(t, nodes, model.ID(108))
}

func TestIndexedReader_ForEachNode(t *testing.T) {
	data := buildFixture(t)

	ir, err := osmpbf.NewIndexedReader(bytes.NewReader(data))
	require.NoError(t, err)

	var count int

	require.NoError(t, ir.ForEachNode(func(*model.Node) error {
		count++

		return nil
	}))

	assert.Equal(t, 3, count)
}

func TestReader_HistoricalVisibleFalseSurvivesRoundTrip(t *testing.T) {
	var out bytes.Buffer

	enc, err := osmpbf.NewEncoder(&out, osmpbf.WithRequiredFeatures("HistoricalInformation"))
	require.NoError(t, err)

	require.NoError(t, enc.EncodeBatch([]model.Entity{
		&model.Node{ID: 200, Lat: 1, Lon: 1, Info: &model.Info{Visible: true}},
		&model.Node{ID: 201, Lat: 2, Lon: 2, Info: &model.Info{Visible: false}},
	}))
	require.NoError(t, enc.Close())

	r, err := osmpbf.NewReader(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Contains(t, r.Header.RequiredFeatures, "HistoricalInformation")

	visible := map[model.ID]bool{}

	require.NoError(t, r.ForEach(context.Background(), func(e model.Entity) error {
		if n, ok := e.(*model.Node); ok {
			visible[n.ID] = n.Info.Visible
		}

		return nil
	}))

	assert.True(t, visible[200])
	assert.False(t, visible[201])
}

func TestBlobReader_SeekAndBlobAtOffset(t *testing.T) {
	data := buildFixture(t)

	br := osmpbf.NewBlobReader(bytes.NewReader(data))

	first, offset, err := br.Next()
	require.NoError(t, err)
	assert.Equal(t, "OSMHeader", first.Header.GetType())

	again, err := br.BlobAtOffset(offset)
	require.NoError(t, err)
	assert.Equal(t, first.Header.GetType(), again.Header.GetType())
	assert.Equal(t, first.Header.GetDatasize(), again.Header.GetDatasize())
}
