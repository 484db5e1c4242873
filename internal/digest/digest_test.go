package digest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf_KnownVectors(t *testing.T) {
	assert.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		Of(nil).String())
	assert.Equal(t,
		"0x1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8",
		OfText("hello").String())
}

func TestOf_Deterministic(t *testing.T) {
	a := OfText("hello world")
	b := OfText("hello world")
	c := OfText("hello worle")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a.String(), 66)
	assert.Equal(t, strings.ToLower(a.String()), a.String())
}

func TestOfFile(t *testing.T) {
	data := []byte{0x00, 0xff, 0x10}

	assert.Equal(t, Of(data), OfFile(data, false))
	assert.NotEqual(t, Of(data), OfFile(data, true))
	assert.Equal(t, OfText("0x00ff10"), OfFile(data, true))
}

func TestParse(t *testing.T) {
	valid := OfText("doc")

	got, err := Parse(valid.String())
	require.NoError(t, err)
	assert.Equal(t, valid, got)

	upper := "0x" + strings.ToUpper(valid.String()[2:])
	got, err = Parse(upper)
	require.NoError(t, err)
	assert.Equal(t, valid, got)

	bad := []string{
		"",
		"0x",
		valid.String()[2:],
		"0X" + valid.String()[2:],
		valid.String()[:65],
		valid.String() + "0",
		"0x" + strings.Repeat("g", 64),
	}
	for _, s := range bad {
		_, err := Parse(s)
		assert.ErrorIs(t, err, ErrInvalidHashFormat, s)
	}
}

func TestPad(t *testing.T) {
	d, err := Pad([]byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, "0x"+strings.Repeat("00", 30)+"0102", d.String())

	d, err = Pad(nil)
	require.NoError(t, err)
	assert.Equal(t, Digest{}, d)

	_, err = Pad(make([]byte, Size+1))
	assert.ErrorIs(t, err, ErrInvalidHashFormat)
}

func TestMarshalText(t *testing.T) {
	d := OfText("hello")
	b, err := json.Marshal(map[string]Digest{"d": d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"`+d.String()+`"}`, string(b))
}

func TestUnmarshalText(t *testing.T) {
	want := OfText("hello")
	var got map[string]Digest
	require.NoError(t, json.Unmarshal([]byte(`{"d":"`+want.String()+`"}`), &got))
	assert.Equal(t, want, got["d"])

	assert.Error(t, json.Unmarshal([]byte(`{"d":"0xabc"}`), &got))
}
