package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chabad360/osc-spatial/geom"
)

const legacyRecordJSON = `{
	"positions": [{"x": 1.5, "y": -2.0, "z": 0.0}, {"x": 0.0, "y": 2.8, "z": 0.0}],
	"texts": ["kick", "snare"],
	"degreeAngles": [0, 90, 180, 270],
	"customZoneInputValue": "4",
	"headToggleState": true,
	"delayToggleState": true,
	"delayTime": 35,
	"inputChannelNumber": 7
}`

func TestDecodeLegacy(t *testing.T) {
	s, err := Decode("old show", []byte(legacyRecordJSON))
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, s.Version)
	assert.Equal(t, "old show", s.Name)
	assert.Equal(t, []geom.Point{{X: 1.5, Y: -2}, {X: 0, Y: 2.8}}, s.Positions)
	assert.Equal(t, []string{"kick", "snare"}, s.Labels)
	assert.Equal(t, []float64{0, 90, 180, 270}, s.ZoneAngles)
	assert.Equal(t, "4", s.ZoneCountText)
	assert.True(t, s.Headphones)
	require.NotNil(t, s.Delay)
	assert.Equal(t, Delay{Enabled: true, Time: 35}, *s.Delay)
	require.NotNil(t, s.InputChannel)
	assert.Equal(t, 7, *s.InputChannel)
}

func TestDecodeLegacyMinimal(t *testing.T) {
	s, err := Decode("x", []byte(`{"positions": [], "texts": []}`))
	require.NoError(t, err)
	assert.Nil(t, s.Delay)
	assert.Nil(t, s.InputChannel)
	assert.Empty(t, s.ZoneAngles)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode("x", []byte(`not json`))
	assert.Error(t, err)
	_, err = Decode("x", []byte(`{"version": 99}`))
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	in := sample()
	in.Name = "B"
	data, err := Encode(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": 2`)

	out, err := Decode("ignored", data)
	require.NoError(t, err)
	assert.Equal(t, "B", out.Name)
	assert.Equal(t, in.ZoneAngles, out.ZoneAngles)
	assert.Equal(t, 0, in.Version, "Encode must not modify its argument")
}

func TestClone(t *testing.T) {
	in := sample()
	c := in.Clone()
	c.Labels[0] = "changed"
	c.Delay.Time = 1
	*c.InputChannel = 9
	assert.Equal(t, "vox", in.Labels[0])
	assert.Equal(t, 120, in.Delay.Time)
	assert.Equal(t, 3, *in.InputChannel)
}
