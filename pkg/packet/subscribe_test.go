package packet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubscribeRoundTrip(t *testing.T) {
	subscribe := &Subscribe{
		PacketID:       1337,
		SubscriptionID: 42,
		UserProperties: []UserProperty{{Name: "Mogwaï", Value: "Cat"}},
		Subscriptions: []Subscription{
			{Topic: "harder/better", QoS: QoS0},
			{Topic: "faster/+", QoS: QoS1, NoLocal: true},
			{Topic: "stronger/#", QoS: QoS2, RetainAsPublished: true, RetainHandling: DoNotSendRetained},
		},
	}

	var buf bytes.Buffer
	n, err := subscribe.Write(&buf)
	require.NoError(t, err)

	got, err := ReadSubscribe(&buf, uint32(n))
	require.NoError(t, err)
	require.Equal(t, subscribe, got)
}

func TestSubscriptionOptionsByte(t *testing.T) {
	tests := []struct {
		name string
		sub  Subscription
		want byte
	}{
		{"qos0", Subscription{QoS: QoS0}, 0x00},
		{"qos2", Subscription{QoS: QoS2}, 0x02},
		{"no local", Subscription{QoS: QoS1, NoLocal: true}, 0x05},
		{"retain as published", Subscription{RetainAsPublished: true}, 0x08},
		{"retain handling", Subscription{RetainHandling: DoNotSendRetained}, 0x20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.sub.options())

			got, err := parseSubscriptionOptions(tt.want)
			require.NoError(t, err)
			require.Equal(t, tt.sub, got)
		})
	}
}

func TestSubscriptionOptionsReservedBits(t *testing.T) {
	_, err := parseSubscriptionOptions(0x40)
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestSubscriptionOptionsInvalid(t *testing.T) {
	_, err := parseSubscriptionOptions(0x03)
	require.ErrorIs(t, err, ErrInvalidQoS)

	_, err = parseSubscriptionOptions(0x30)
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestSubscribeEmpty(t *testing.T) {
	subscribe := &Subscribe{PacketID: 1}
	_, err := subscribe.Write(new(bytes.Buffer))
	require.ErrorIs(t, err, ErrProtocolError)

	// Packet identifier plus empty properties region and nothing after.
	body := []byte{0x00, 0x01, 0}
	_, err = ReadSubscribe(bytes.NewReader(body), uint32(len(body)))
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestUnsubscribeRoundTrip(t *testing.T) {
	unsubscribe := &Unsubscribe{
		PacketID: 99,
		Topics:   []string{"one/more/time", "around/the/world"},
	}

	var buf bytes.Buffer
	n, err := unsubscribe.Write(&buf)
	require.NoError(t, err)

	got, err := ReadUnsubscribe(&buf, uint32(n))
	require.NoError(t, err)
	require.Equal(t, unsubscribe, got)
}

func TestUnsubscribeEmpty(t *testing.T) {
	unsubscribe := &Unsubscribe{PacketID: 1}
	_, err := unsubscribe.Write(new(bytes.Buffer))
	require.ErrorIs(t, err, ErrProtocolError)

	body := []byte{0x00, 0x01, 0}
	_, err = ReadUnsubscribe(bytes.NewReader(body), uint32(len(body)))
	require.ErrorIs(t, err, ErrProtocolError)
}
