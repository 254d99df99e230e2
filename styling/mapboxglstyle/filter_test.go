package mapboxglstyle

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_isObjectShown(t *testing.T) {
	properties := map[string]interface{}{
		"class":       "residential",
		"admin_level": float64(4),
		"name":        "Oslo",
	}

	tests := []struct {
		name         string
		filter       string
		geometryType string
		want         bool
	}{
		{"no filter", `null`, FilterThingTypePoint, true},
		{"type equals", `["==", "$type", "Polygon"]`, FilterThingTypePolygon, true},
		{"type not equals", `["==", "$type", "Polygon"]`, FilterThingTypePoint, false},
		{"property not equal", `["!=", "class", "residential"]`, FilterThingTypePolygon, false},
		{"in", `["in", "class", "suburb", "residential"]`, FilterThingTypePolygon, true},
		{"not in", `["!in", "class", "suburb", "residential"]`, FilterThingTypePolygon, false},
		{"in missing property", `["in", "subclass", "x"]`, FilterThingTypePolygon, false},
		{"number equals", `["==", "admin_level", 4]`, FilterThingTypeLineString, true},
		{"has", `["has", "name"]`, FilterThingTypePoint, true},
		{"not has", `["!has", "name"]`, FilterThingTypePoint, false},
		{"less or equal", `["<=", "admin_level", 4]`, FilterThingTypeLineString, true},
		{"more", `[">", "admin_level", 4]`, FilterThingTypeLineString, false},
		{"compare non number", `["<", "name", 4]`, FilterThingTypeLineString, false},
		{
			"all",
			`["all", ["==", "$type", "Polygon"], ["in", "class", "residential", "suburb", "neighbourhood"]]`,
			FilterThingTypePolygon,
			true,
		},
		{
			"all with one failing",
			`["all", ["==", "$type", "Point"], ["in", "class", "residential"]]`,
			FilterThingTypePolygon,
			false,
		},
		{"any", `["any", ["==", "$type", "Point"], ["has", "name"]]`, FilterThingTypePolygon, true},
		{"none", `["none", ["==", "$type", "Point"], ["has", "name"]]`, FilterThingTypePolygon, false},
		{"expression shows everything", `["match", ["get", "class"], "x", true, false]`, FilterThingTypePolygon, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var filter Filter
			require.NoError(t, json.Unmarshal([]byte(tt.filter), &filter))

			assert.Equal(t, tt.want, isObjectShown(filter, properties, tt.geometryType))
		})
	}
}
