package packet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func authVector() []byte {
	return []byte{
		0x18, // Continue authentication
		38,   // properties length
		0x15, 0, 6, 'W', 'i', 'l', 'l', 'o', 'w',
		0x16, 0, 4, 0x0D, 0x15, 0xEA, 0x5E,
		0x1F, 0, 4, 'B', 'i', 'w', 'i',
		0x26, 0, 7, 'M', 'o', 'g', 'w', 'a', 0xC3, 0xAF, 0, 3, 'C', 'a', 't',
	}
}

func authPacket() *Auth {
	return &Auth{
		ReasonCode: ReasonContinueAuth,
		Authentication: Authentication{
			Method: "Willow",
			Data:   []byte{0x0D, 0x15, 0xEA, 0x5E},
		},
		ReasonString:   "Biwi",
		UserProperties: []UserProperty{{Name: "Mogwaï", Value: "Cat"}},
	}
}

func TestAuthEncode(t *testing.T) {
	var buf bytes.Buffer
	n, err := authPacket().Write(&buf)
	require.NoError(t, err)
	require.Equal(t, 40, n)
	require.Equal(t, authVector(), buf.Bytes())
}

func TestAuthDecode(t *testing.T) {
	auth, err := ReadAuth(bytes.NewReader(authVector()))
	require.NoError(t, err)
	require.Equal(t, authPacket(), auth)
}

func TestAuthMissingMethod(t *testing.T) {
	auth := &Auth{ReasonCode: ReasonSuccess}
	_, err := auth.Write(new(bytes.Buffer))
	require.ErrorIs(t, err, ErrMissingAuthMethod)

	// Reason code followed by an empty properties region.
	_, err = ReadAuth(bytes.NewReader([]byte{0x00, 0}))
	require.ErrorIs(t, err, ErrMissingAuthMethod)
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestAuthRejectsForeignProperty(t *testing.T) {
	body := []byte{
		0x00, // Success
		3,
		0x23, 0x01, 0xC3, // topic alias has no business here
	}
	_, err := ReadAuth(bytes.NewReader(body))
	require.ErrorIs(t, err, ErrUnexpectedProperty)
}

func TestAuthInvalidReasonCode(t *testing.T) {
	// Quota exceeded is not defined for AUTH.
	_, err := ReadAuth(bytes.NewReader([]byte{0x97, 0}))
	require.ErrorIs(t, err, ErrInvalidReasonCode)
}
