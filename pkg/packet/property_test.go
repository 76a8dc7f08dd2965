package packet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropertyDefaultElision(t *testing.T) {
	tests := []struct {
		name string
		prop Property
	}{
		{"payload format indicator false", PayloadFormatIndicator(false)},
		{"session expiry interval zero", SessionExpiryInterval(0)},
		{"receive maximum 65535", ReceiveMaximum(65535)},
		{"maximum qos 2", MaximumQoS(QoS2)},
		{"retain available true", RetainAvailable(true)},
		{"topic alias maximum zero", TopicAliasMaximum(0)},
		{"request response info false", RequestResponseInfo(false)},
		{"request problem info true", RequestProblemInfo(true)},
		{"will delay interval zero", WillDelayInterval(0)},
		{"wildcard sub available true", WildcardSubAvailable(true)},
		{"sub id available true", SubIDAvailable(true)},
		{"shared sub available true", SharedSubAvailable(true)},
		{"empty reason string", ReasonString("")},
		{"empty correlation data", CorrelationData(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := tt.prop.Write(&buf)
			require.NoError(t, err)
			require.Zero(t, n)
			require.Empty(t, buf.Bytes())
		})
	}
}

func TestPropertyNonDefaultEncoded(t *testing.T) {
	tests := []struct {
		name  string
		prop  Property
		bytes []byte
	}{
		{"payload format indicator true", PayloadFormatIndicator(true), []byte{0x01, 0x01}},
		{"receive maximum", ReceiveMaximum(139), []byte{0x21, 0x00, 0x8B}},
		{"maximum qos 1", MaximumQoS(QoS1), []byte{0x24, 0x01}},
		{"retain available false", RetainAvailable(false), []byte{0x25, 0x00}},
		{"topic alias", TopicAlias(451), []byte{0x23, 0x01, 0xC3}},
		{"session expiry interval", SessionExpiryInterval(17), []byte{0x11, 0x00, 0x00, 0x00, 0x11}},
		{"subscription identifier", SubscriptionIdentifier(300), []byte{0x0B, 0xAC, 0x02}},
		{"content type", ContentType("Nirvana"), []byte{0x03, 0x00, 0x07, 'N', 'i', 'r', 'v', 'a', 'n', 'a'}},
		{"user property", UserProperty{Name: "a", Value: "b"}, []byte{0x26, 0x00, 0x01, 'a', 0x00, 0x01, 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := tt.prop.Write(&buf)
			require.NoError(t, err)
			require.Equal(t, len(tt.bytes), n)
			require.Equal(t, tt.bytes, buf.Bytes())
		})
	}
}

func TestPropertyZeroValueRejected(t *testing.T) {
	_, err := ReceiveMaximum(0).Write(new(bytes.Buffer))
	require.ErrorIs(t, err, ErrMalformedPacket)

	_, err = SubscriptionIdentifier(0).Write(new(bytes.Buffer))
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestWritePropertiesRegion(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteProperties(&buf,
		PayloadFormatIndicator(true),
		ReasonString(""),
		UserProperty{Name: "Mogwaï", Value: "Cat"},
	)
	require.NoError(t, err)
	require.Equal(t, buf.Len(), n)

	// Region length counts the encoded properties only; the elided reason
	// string contributes nothing.
	require.Equal(t, byte(2+15), buf.Bytes()[0])
}

func TestPropertiesDecoderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteProperties(&buf,
		SessionExpiryInterval(86400),
		ReceiveMaximum(20),
		ReasonString("gone fishing"),
		UserProperty{Name: "a", Value: "1"},
		UserProperty{Name: "a", Value: "2"},
	)
	require.NoError(t, err)

	dec, err := TakeProperties(&buf)
	require.NoError(t, err)

	var got []Property
	for dec.HasProperties() {
		p, err := dec.Read()
		require.NoError(t, err)
		got = append(got, p)
	}

	require.Equal(t, []Property{
		SessionExpiryInterval(86400),
		ReceiveMaximum(20),
		ReasonString("gone fishing"),
		UserProperty{Name: "a", Value: "1"},
		UserProperty{Name: "a", Value: "2"},
	}, got)
}

func TestPropertiesDecoderDuplicate(t *testing.T) {
	var buf bytes.Buffer
	WriteVarInt(&buf, 10)
	writeUint32Property(&buf, PropSessionExpiryInterval, 1)
	writeUint32Property(&buf, PropSessionExpiryInterval, 2)

	dec, err := TakeProperties(&buf)
	require.NoError(t, err)

	_, err = dec.Read()
	require.NoError(t, err)
	_, err = dec.Read()
	require.ErrorIs(t, err, ErrDuplicateProperty)
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestPropertiesDecoderRepeatable(t *testing.T) {
	// User properties and subscription identifiers may both appear any
	// number of times in one region.
	var buf bytes.Buffer
	body := new(bytes.Buffer)
	UserProperty{Name: "k", Value: "1"}.Write(body)
	UserProperty{Name: "k", Value: "2"}.Write(body)
	SubscriptionIdentifier(10).Write(body)
	SubscriptionIdentifier(11).Write(body)
	WriteVarInt(&buf, uint32(body.Len()))
	buf.Write(body.Bytes())

	dec, err := TakeProperties(&buf)
	require.NoError(t, err)

	count := 0
	for dec.HasProperties() {
		_, err := dec.Read()
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 4, count)
}

func TestPropertiesDecoderZeroReceiveMaximum(t *testing.T) {
	dec, err := TakeProperties(bytes.NewReader([]byte{3, 0x21, 0x00, 0x00}))
	require.NoError(t, err)

	_, err = dec.Read()
	require.ErrorIs(t, err, ErrMalformedPacket)
	require.NotErrorIs(t, err, ErrProtocolError)
}

func TestPropertiesDecoderZeroSubscriptionID(t *testing.T) {
	dec, err := TakeProperties(bytes.NewReader([]byte{2, 0x0B, 0x00}))
	require.NoError(t, err)

	_, err = dec.Read()
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestPropertiesDecoderUnknownID(t *testing.T) {
	dec, err := TakeProperties(bytes.NewReader([]byte{2, 0x7D, 0x00}))
	require.NoError(t, err)

	_, err = dec.Read()
	require.ErrorIs(t, err, ErrInvalidPropertyID)
}

func TestPropertiesDecoderEmptyRegion(t *testing.T) {
	dec, err := TakeProperties(bytes.NewReader([]byte{0}))
	require.NoError(t, err)
	require.False(t, dec.HasProperties())
}
