package contentapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductDecoding_LegacyShapes(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{"id":5,"title":"Fuel","featured":"1","features":"[\"fast\",\"clean\"]"}`), &p)
	require.NoError(t, err)

	assert.Equal(t, ID("5"), p.ID)
	assert.True(t, bool(p.Featured))
	assert.Equal(t, StringList{"fast", "clean"}, p.Features)
}

func TestStringList_Shapes(t *testing.T) {
	tests := []struct {
		in   string
		want StringList
	}{
		{`["a","b"]`, StringList{"a", "b"}},
		{`"[\"a\"]"`, StringList{"a"}},
		{`""`, nil},
		{`null`, nil},
	}
	for _, tt := range tests {
		var l StringList
		require.NoError(t, json.Unmarshal([]byte(tt.in), &l), tt.in)
		assert.Equal(t, tt.want, l, tt.in)
	}
}

func TestFlag_RejectsGarbage(t *testing.T) {
	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &f))
}

func TestID_RoundTripKeepsType(t *testing.T) {
	out, err := json.Marshal(struct {
		A ID `json:"a"`
		B ID `json:"b"`
	}{A: "12", B: "ab-3"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12,"b":"ab-3"}`, string(out))
}

func TestStory_AsGallery(t *testing.T) {
	s := Story{Title: "Launch"}.WithImage("https://cdn.example/launch.jpg")
	assert.Equal(t, s.Img, s.Image)

	g := s.AsGallery()
	assert.Equal(t, "https://cdn.example/launch.jpg", g.Img)
	assert.Empty(t, g.Image)

	out, err := json.Marshal(g)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"image"`)
}
