package packet

import (
	"errors"
	"fmt"
)

// Sentinel errors for packet encoding and decoding.
//
// Specific protocol violations wrap ErrProtocolError, so callers can match
// the whole class with errors.Is(err, ErrProtocolError) or a precise
// condition with its own sentinel. ErrMalformedPacket is deliberately a
// separate kind (MQTT 5.0 distinguishes Malformed Packet from Protocol
// Error). Stream failures surface as the underlying io errors.
var (
	// ErrProtocolError indicates well-formed bytes carrying a value or
	// structure the standard forbids.
	ErrProtocolError = errors.New("protocol error")

	// ErrMalformedPacket indicates a specifically flagged malformed value,
	// such as a Receive Maximum of zero.
	ErrMalformedPacket = errors.New("malformed packet")

	// ErrPacketTooLarge indicates a value exceeding the variable byte
	// integer range (268,435,455).
	ErrPacketTooLarge = errors.New("packet too large")

	// ErrMalformedVarInt indicates a variable byte integer whose fourth
	// byte still has the continuation bit set.
	ErrMalformedVarInt = errors.New("malformed variable byte integer")

	// ErrStringTooLong indicates a string or binary field exceeding 65,535 bytes.
	ErrStringTooLong = errors.New("string exceeds maximum length")

	// ErrInvalidUTF8 indicates a string contains invalid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 string")

	// ErrInvalidUTF8NullChar indicates a string contains a null character.
	ErrInvalidUTF8NullChar = errors.New("UTF-8 string contains null character")

	// ErrInvalidBool indicates a boolean byte other than 0x00 or 0x01.
	ErrInvalidBool = fmt.Errorf("%w: invalid boolean value", ErrProtocolError)

	// ErrInvalidPropertyID indicates an unknown property identifier.
	ErrInvalidPropertyID = fmt.Errorf("%w: invalid property identifier", ErrProtocolError)

	// ErrDuplicateProperty indicates a non-repeatable property appearing
	// twice in one properties region.
	ErrDuplicateProperty = fmt.Errorf("%w: duplicate property", ErrProtocolError)

	// ErrUnexpectedProperty indicates a property not allowed for the packet
	// type that carried it.
	ErrUnexpectedProperty = fmt.Errorf("%w: property not allowed for packet type", ErrProtocolError)

	// ErrInvalidReasonCode indicates a reason code not legal for the packet
	// type that carried it.
	ErrInvalidReasonCode = fmt.Errorf("%w: invalid reason code", ErrProtocolError)

	// ErrInvalidPacketID indicates a missing or zero packet identifier where
	// one is required.
	ErrInvalidPacketID = fmt.Errorf("%w: invalid packet identifier", ErrProtocolError)

	// ErrMissingAuthMethod indicates an AUTH packet without the required
	// Authentication Method property.
	ErrMissingAuthMethod = fmt.Errorf("%w: missing authentication method", ErrProtocolError)

	// ErrInvalidQoS indicates an invalid QoS level.
	ErrInvalidQoS = fmt.Errorf("%w: invalid QoS level", ErrProtocolError)

	// ErrInvalidPacketType indicates an unknown or reserved packet type.
	ErrInvalidPacketType = fmt.Errorf("%w: invalid packet type", ErrProtocolError)

	// ErrInvalidFlags indicates invalid fixed header flags for the packet type.
	ErrInvalidFlags = fmt.Errorf("%w: invalid packet flags", ErrProtocolError)
)
