package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataRow_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(DataRow{Depth: 100.5, Values: map[string]float64{"GR": 50, "RT": math.NaN(), "NPHI": -9999}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"depth":100.5,"values":{"GR":50,"RT":null,"NPHI":-9999}}`, string(b))
}

func TestFlatRow_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		row  FlatRow
		want string
	}{
		{"flattened", FlatRow{Depth: 8665, Values: map[string]float64{"GR": 45.2}}, `{"depth":8665,"GR":45.2}`},
		{"nan reading", FlatRow{Depth: 1, Values: map[string]float64{"GR": math.NaN()}}, `{"depth":1,"GR":null}`},
		{"depth key kept", FlatRow{Depth: 2, Values: map[string]float64{"depth": 9}}, `{"depth":2}`},
		{"no readings", FlatRow{Depth: 3}, `{"depth":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.row)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}
