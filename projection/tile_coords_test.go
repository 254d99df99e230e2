package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTilePyramid(t *testing.T) {
	pyramid := TilePyramid(TileCoord{X: 1, Y: 2, Z: 3}, 1)
	assert.Equal(t, []TileCoord{
		{X: 1, Y: 2, Z: 3},
		{X: 2, Y: 4, Z: 4},
		{X: 3, Y: 4, Z: 4},
		{X: 2, Y: 5, Z: 4},
		{X: 3, Y: 5, Z: 4},
	}, pyramid)

	assert.Len(t, TilePyramid(TileCoord{}, 2), 1+4+16)
	assert.Equal(t, []TileCoord{{X: 4, Y: 4, Z: 4}}, TilePyramid(TileCoord{X: 4, Y: 4, Z: 4}, -3))
}

func TestParseTileCoord(t *testing.T) {
	tc, err := ParseTileCoord("11/1093/715")
	require.NoError(t, err)
	assert.Equal(t, TileCoord{X: 1093, Y: 715, Z: 11}, tc)
	assert.Equal(t, "11/1093/715", tc.String())

	for _, bad := range []string{"", "1/2", "a/b/c", "1/2/0", "-1/0/0", "0/0/1", "25/0/0"} {
		_, err := ParseTileCoord(bad)
		assert.Error(t, err, bad)
	}
}

func TestXYZToBounds(t *testing.T) {
	bounds := XYZToBounds(0, 0, 1)
	assert.InDelta(t, -180, bounds.MinLon, delta)
	assert.InDelta(t, 0, bounds.MaxLon, delta)
	assert.InDelta(t, 0, bounds.MinLat, delta)
	assert.InDelta(t, 85.051129, bounds.MaxLat, delta)
}
