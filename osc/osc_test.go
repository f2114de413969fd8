package osc

type packetTestCase struct {
	name    string
	obj     Packet
	raw     []byte
	wantErr bool
}

var messageTestCases = []packetTestCase{
	{"no_args", NewMessage("/test"), []byte("/test\x00\x00\x00,\x00\x00\x00"), false},
	{"int32", NewMessage("/a", int32(1)), []byte("/a\x00\x00,i\x00\x00\x00\x00\x00\x01"), false},
	{"negative_int32", NewMessage("/a", int32(-1)), []byte("/a\x00\x00,i\x00\x00\xff\xff\xff\xff"), false},
	{"float32", NewMessage("/f", float32(1.5)), []byte("/f\x00\x00,f\x00\x00\x3f\xc0\x00\x00"), false},
	{"string", NewMessage("/s", "hi"), []byte("/s\x00\x00,s\x00\x00hi\x00\x00"), false},
	{"string_four", NewMessage("/s", "abcd"), []byte("/s\x00\x00,s\x00\x00abcd\x00\x00\x00\x00"), false},
	{"true_nil", NewMessage("/tf", true, nil), []byte("/tf\x00,TN\x00"), false},
	{"false", NewMessage("/tf", false), []byte("/tf\x00,F\x00\x00"), false},
	{"blob", NewMessage("/b", []byte{1, 2, 3}), []byte("/b\x00\x00,b\x00\x00\x00\x00\x00\x03\x01\x02\x03\x00"), false},
	{"int64", NewMessage("/h", int64(2)), []byte("/h\x00\x00,h\x00\x00\x00\x00\x00\x00\x00\x00\x00\x02"), false},
	{"float64", NewMessage("/d", float64(2)), []byte("/d\x00\x00,d\x00\x00\x40\x00\x00\x00\x00\x00\x00\x00"), false},
	{"timetag", NewMessage("/t", Timetag(1)), []byte("/t\x00\x00,t\x00\x00\x00\x00\x00\x00\x00\x00\x00\x01"), false},
	{"pair", NewMessage("/2dHeadphones", int32(90), int32(0)), []byte("/2dHeadphones\x00\x00\x00,ii\x00\x00\x00\x00\x5a\x00\x00\x00\x00"), false},
}

var bundleTestCases = []packetTestCase{
	{"empty", &Bundle{Timetag: 1}, []byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01"), false},
	{
		"one_message",
		&Bundle{Timetag: 1, Elements: []Packet{NewMessage("/a", int32(1))}},
		[]byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00\x0c/a\x00\x00,i\x00\x00\x00\x00\x00\x01"),
		false,
	},
	{
		"nested",
		&Bundle{Timetag: 1, Elements: []Packet{&Bundle{Timetag: 1}}},
		[]byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00\x10#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01"),
		false,
	},
}
