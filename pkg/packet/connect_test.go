package packet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectRoundTrip(t *testing.T) {
	connect := &Connect{
		CleanStart:    true,
		KeepAlive:     30,
		ClientID:      "wiremq-test",
		SessionExpiry: 3600,
		ReceiveMax:    20,
		TopicAliasMax: 10,
		UserProperties: []UserProperty{
			{Name: "Mogwaï", Value: "Cat"},
		},
		Authentication: Authentication{
			Method: "Willow",
			Data:   []byte{0x0D, 0x15},
		},
		Username: "tester",
		Password: []byte("hunter2"),
	}
	connect.RequestProblem = DefaultRequestProblemInfo

	var buf bytes.Buffer
	_, err := connect.Write(&buf)
	require.NoError(t, err)

	got, err := ReadConnect(&buf)
	require.NoError(t, err)
	require.Equal(t, connect, got)
}

func TestConnectWithWill(t *testing.T) {
	connect := &Connect{
		CleanStart: true,
		ClientID:   "c1",
		ReceiveMax: DefaultReceiveMaximum,
		Will: &Will{
			QoS:           QoS1,
			Retain:        true,
			DelayInterval: 5,
			ContentType:   "text/plain",
			Topic:         "goodbye",
			Payload:       []byte("gone"),
		},
	}
	connect.RequestProblem = DefaultRequestProblemInfo

	var buf bytes.Buffer
	_, err := connect.Write(&buf)
	require.NoError(t, err)

	got, err := ReadConnect(&buf)
	require.NoError(t, err)
	require.Equal(t, connect, got)
}

func TestConnectDefaults(t *testing.T) {
	connect := &Connect{ClientID: "c1"}
	connect.RequestProblem = DefaultRequestProblemInfo

	var buf bytes.Buffer
	_, err := connect.Write(&buf)
	require.NoError(t, err)

	got, err := ReadConnect(&buf)
	require.NoError(t, err)
	require.Equal(t, DefaultReceiveMaximum, got.ReceiveMax)
	require.Equal(t, DefaultSessionExpiryInterval, got.SessionExpiry)
	require.True(t, got.RequestProblem)
	require.Nil(t, got.Will)
	require.Empty(t, got.Username)
}

func TestConnectBadProtocolName(t *testing.T) {
	body := []byte{0, 4, 'M', 'Q', 'T', 'X', 5, 0, 0, 0, 0, 0, 0}
	_, err := ReadConnect(bytes.NewReader(body))
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestConnectBadProtocolLevel(t *testing.T) {
	body := []byte{0, 4, 'M', 'Q', 'T', 'T', 4, 0, 0, 0, 0, 0, 0}
	_, err := ReadConnect(bytes.NewReader(body))
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestConnectReservedFlag(t *testing.T) {
	body := []byte{0, 4, 'M', 'Q', 'T', 'T', 5, 0x01, 0, 0, 0, 0, 0}
	_, err := ReadConnect(bytes.NewReader(body))
	require.ErrorIs(t, err, ErrMalformedPacket)
}

func TestConnackRoundTrip(t *testing.T) {
	connack := NewConnack()
	connack.SessionPresent = true
	connack.ReasonCode = ReasonSuccess
	connack.ReceiveMax = 100
	connack.MaxQoS = QoS1
	connack.AssignedClientID = "assigned-17"
	connack.ServerKeepAlive = 60
	connack.ReasonString = "welcome"

	var buf bytes.Buffer
	_, err := connack.Write(&buf)
	require.NoError(t, err)

	got, err := ReadConnack(&buf)
	require.NoError(t, err)
	require.Equal(t, connack, got)
}

func TestConnackDefaults(t *testing.T) {
	// Acknowledge flags, reason code, empty properties region.
	connack, err := ReadConnack(bytes.NewReader([]byte{0x00, 0x00, 0}))
	require.NoError(t, err)
	require.False(t, connack.SessionPresent)
	require.Equal(t, ReasonSuccess, connack.ReasonCode)
	require.Equal(t, DefaultReceiveMaximum, connack.ReceiveMax)
	require.Equal(t, DefaultMaximumQoS, connack.MaxQoS)
	require.True(t, connack.RetainAvail)
	require.True(t, connack.WildcardSubAvail)
	require.True(t, connack.SharedSubAvail)
}

func TestConnackReservedFlags(t *testing.T) {
	_, err := ReadConnack(bytes.NewReader([]byte{0x02, 0x00, 0}))
	require.ErrorIs(t, err, ErrMalformedPacket)
}

func TestConnackInvalidReasonCode(t *testing.T) {
	connack := NewConnack()
	connack.ReasonCode = ReasonKeepAliveTimeout
	_, err := connack.Write(new(bytes.Buffer))
	require.ErrorIs(t, err, ErrInvalidReasonCode)
}
