package packet

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarIntBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		value uint32
		bytes []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"one byte max", 127, []byte{0x7F}},
		{"two bytes min", 128, []byte{0x80, 0x01}},
		{"two bytes max", 16383, []byte{0xFF, 0x7F}},
		{"three bytes min", 16384, []byte{0x80, 0x80, 0x01}},
		{"three bytes max", 2097151, []byte{0xFF, 0xFF, 0x7F}},
		{"four bytes min", 2097152, []byte{0x80, 0x80, 0x80, 0x01}},
		{"four bytes max", 268435455, []byte{0xFF, 0xFF, 0xFF, 0x7F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := WriteVarInt(&buf, tt.value)
			require.NoError(t, err)
			require.Equal(t, len(tt.bytes), n)
			require.Equal(t, tt.bytes, buf.Bytes())
			require.Equal(t, len(tt.bytes), VarIntSize(tt.value))

			value, err := ReadVarInt(&buf)
			require.NoError(t, err)
			require.Equal(t, tt.value, value)
		})
	}
}

func TestVarIntTooLarge(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteVarInt(&buf, MaxRemainingLength+1)
	require.ErrorIs(t, err, ErrPacketTooLarge)
}

func TestVarIntMalformed(t *testing.T) {
	// Four continuation bits in a row.
	r := bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x01})
	_, err := ReadVarInt(r)
	require.ErrorIs(t, err, ErrMalformedVarInt)
}

func TestVarIntTruncated(t *testing.T) {
	r := bytes.NewReader([]byte{0x80})
	_, err := ReadVarInt(r)
	require.Error(t, err)
}

func TestBool(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteBool(&buf, true)
	require.NoError(t, err)
	_, err = WriteBool(&buf, false)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x00}, buf.Bytes())

	v, err := ReadBool(&buf)
	require.NoError(t, err)
	require.True(t, v)
	v, err = ReadBool(&buf)
	require.NoError(t, err)
	require.False(t, v)
}

func TestBoolInvalid(t *testing.T) {
	_, err := ReadBool(bytes.NewReader([]byte{0x02}))
	require.ErrorIs(t, err, ErrInvalidBool)
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestUint16RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteUint16(&buf, 1337)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []byte{0x05, 0x39}, buf.Bytes())

	v, err := ReadUint16(&buf)
	require.NoError(t, err)
	require.Equal(t, uint16(1337), v)
}

func TestUint32RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteUint32(&buf, 220000)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	v, err := ReadUint32(&buf)
	require.NoError(t, err)
	require.Equal(t, uint32(220000), v)
}

func TestStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteString(&buf, "Mogwaï")
	require.NoError(t, err)
	require.Equal(t, 9, n)
	require.Equal(t, []byte{0x00, 0x07, 'M', 'o', 'g', 'w', 'a', 0xC3, 0xAF}, buf.Bytes())

	s, err := ReadString(&buf)
	require.NoError(t, err)
	require.Equal(t, "Mogwaï", s)
}

func TestStringTooLong(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteString(&buf, string(make([]byte, 65536)))
	require.ErrorIs(t, err, ErrStringTooLong)
}

func TestStringInvalidUTF8(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad encoding", []byte{0x00, 0x02, 0xC3, 0x28}, ErrInvalidUTF8},
		{"null character", []byte{0x00, 0x03, 'a', 0x00, 'b'}, ErrInvalidUTF8NullChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadString(bytes.NewReader(tt.data))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	data := []byte{0x0D, 0x15, 0xEA, 0x5E}

	var buf bytes.Buffer
	n, err := WriteBinary(&buf, data)
	require.NoError(t, err)
	require.Equal(t, 6, n)

	got, err := ReadBinary(&buf)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestReadShortSource(t *testing.T) {
	_, err := ReadUint16(bytes.NewReader([]byte{0x01}))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = ReadBinary(bytes.NewReader([]byte{0x00, 0x04, 0x01}))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = ReadByte(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)
}
