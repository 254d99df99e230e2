package mapboxglstyle

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberOrFunctionWrapperType(t *testing.T) {
	tests := []struct {
		name string
		json string
		zoom float64
		want float64
	}{
		{"plain number", `3.5`, 10, 3.5},
		{"below first stop", `{"stops": [[10, 8], [20, 14]]}`, 5, 8},
		{"above last stop", `{"stops": [[10, 8], [20, 14]]}`, 22, 14},
		{"linear between stops", `{"stops": [[10, 8], [20, 14]]}`, 15, 11},
		{"exponential between stops", `{"base": 2, "stops": [[0, 0], [2, 3]]}`, 1, 1},
		{"expression is unset", `["interpolate", ["linear"], ["zoom"], 0, 1, 10, 2]`, 5, 42},
		{"null is unset", `null`, 5, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var paint struct {
				Value *NumberOrFunctionWrapperType `json:"value"`
			}
			err := json.Unmarshal([]byte(`{"value":`+tt.json+`}`), &paint)
			require.NoError(t, err)

			assert.InDelta(t, tt.want, paint.Value.GetValueAtZoomLevel(tt.zoom, 42), 0.000001)
		})
	}
}

func TestNumberOrFunctionWrapperType_invalid(t *testing.T) {
	var n NumberOrFunctionWrapperType
	err := json.Unmarshal([]byte(`"wide"`), &n)
	assert.Error(t, err)
}

func TestColorOrFunctionWrapperType(t *testing.T) {
	var paint Paint
	err := json.Unmarshal([]byte(`{
		"fill-color": "#ff0000",
		"line-color": {"stops": [[0, "#000000"], [10, "#ffffff"]]},
		"circle-color": ["get", "colour"]
	}`), &paint)
	require.NoError(t, err)

	assert.Equal(t, color.NRGBA{0xff, 0, 0, 0xff}, paint.FillColor.GetColorAtZoomLevel(3))

	assert.Equal(t, color.NRGBA{0, 0, 0, 0xff}, paint.LineColor.GetColorAtZoomLevel(0))
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, paint.LineColor.GetColorAtZoomLevel(12))

	middle := paint.LineColor.GetColorAtZoomLevel(5).(color.NRGBA)
	assert.InDelta(t, 0x80, int(middle.R), 1)
	assert.Equal(t, uint8(0xff), middle.A)

	assert.Nil(t, paint.CircleColor.GetColorAtZoomLevel(3))
	assert.Nil(t, paint.BackgroundColor.GetColorAtZoomLevel(3))
}

func TestColorOrFunctionWrapperType_invalidColor(t *testing.T) {
	var paint Paint
	err := json.Unmarshal([]byte(`{"fill-color": "not-a-colour"}`), &paint)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"fill-color": {"stops": [[0]]}}`), &paint)
	assert.Error(t, err)
}
