package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chabad360/osc-spatial/geom"
	"github.com/chabad360/osc-spatial/osc"
)

func TestZoneAngles(t *testing.T) {
	angles := []float64{0, 89.6, -90, 999}

	a, err := ZoneAngles(angles, ModeA)
	require.NoError(t, err)
	assert.Equal(t, "/2d", a.Address)
	assert.Equal(t, []interface{}{int32(0), int32(90), int32(270), int32(279)}, a.Arguments)

	b, err := ZoneAngles(angles, ModeB)
	require.NoError(t, err)
	assert.Equal(t, "/2dHeadphones", b.Address)
	assert.Equal(t, []interface{}{
		int32(0), int32(0),
		int32(90), int32(0),
		int32(270), int32(0),
		int32(279), int32(0),
	}, b.Arguments)

	assert.Equal(t, []float64{0, 89.6, -90, 999}, angles, "input must not change")

	_, err = ZoneAngles(angles, Mode(7))
	assert.Error(t, err)
}

func TestZoneAnglesEmpty(t *testing.T) {
	m, err := ZoneAngles(nil, ModeA)
	require.NoError(t, err)
	raw, err := m.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte("/2d\x00,\x00\x00\x00"), raw)
}

func TestObjectPosition(t *testing.T) {
	assert.Equal(t, []interface{}{int32(3), int32(270)}, ObjectPosition(3, -90, -1).Arguments)
	assert.Equal(t, []interface{}{int32(1), int32(45), int32(90)}, ObjectPosition(1, 45, 120).Arguments)
	assert.Equal(t, "/objectPosition ,iii 2 0 45", ObjectPosition(2, 360, 44.6).String())
}

func TestObjectPositions(t *testing.T) {
	codec := geom.Codec{Radius: 2}
	pts := []geom.Point{{X: 0, Y: 2}, {X: 1, Y: 0}, {X: 0, Y: 0}}
	packets, err := ObjectPositions(pts, codec, true)
	require.NoError(t, err)
	require.Len(t, packets, 3)

	want := [][]interface{}{
		{int32(1), int32(0), int32(0)},
		{int32(2), int32(90), int32(45)},
		{int32(3), int32(0), int32(90)},
	}
	for i, p := range packets {
		assert.Equal(t, want[i], p.(*osc.Message).Arguments, "object %d", i+1)
	}

	packets, err = ObjectPositions(pts[:1], codec, false)
	require.NoError(t, err)
	assert.Len(t, packets[0].(*osc.Message).Arguments, 2)
}

func TestMixerMessages(t *testing.T) {
	assert.Equal(t, "/revsend/4 ,f 1", ReverbSend(4, 3).String())
	assert.Equal(t, "/objectPositionDBAP/2 ,ff 0.5 -1", ObjectPositionDBAP(2, geom.Point{X: 0.5, Y: -1}).String())
	assert.Equal(t, "/DBAPpositions ,ffff 1 2 3 4", DBAPPositions([]geom.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}).String())
	assert.Equal(t, "/MasterFader ,i -13", MasterFader(-12.6).String())
	assert.Equal(t, "/MonoFader ,f -70", MonoFader(-70).String())
	assert.Equal(t, "/ReverbFader ,f -35", ReverbFader(-35).String())
	assert.Equal(t, "/soloAll ,i 1", SoloAll(true).String())
	assert.Equal(t, "/soloAll ,i 0", SoloAll(false).String())
	assert.Equal(t, "/soloOn ,i 3", SoloOn(3).String())
	assert.Equal(t, "/soloOff ,i 3", SoloOff(3).String())
	assert.Equal(t, "/reverb/size ,i 100", ReverbSize(140).String())
	assert.Equal(t, "/reverb/decay ,f 0", ReverbDecay(-1).String())
	assert.Equal(t, "/heartbeat ,i 1", Heartbeat().String())

	e, err := Engine(2)
	require.NoError(t, err)
	assert.Equal(t, "/Engine ,i 2", e.String())
	_, err = Engine(3)
	assert.Error(t, err)

	d := Delay(true, 250)
	require.Len(t, d, 2)
	assert.Equal(t, "/delay/toggle/ ,T true", d[0].(*osc.Message).String())
	assert.Equal(t, "/delay/number/ ,i 250", d[1].(*osc.Message).String())
}
