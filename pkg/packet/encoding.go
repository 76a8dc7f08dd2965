package packet

import (
	"encoding/binary"
	"io"
	"unicode/utf8"
)

// Primitive wire formats from MQTT 5.0 Section 1.5. Every Write returns
// the number of bytes produced; every Read consumes exactly the bytes the
// format defines and reports a short source as an io error.

// WriteByte writes a single byte to w.
func WriteByte(w io.Writer, b byte) (int, error) {
	return w.Write([]byte{b})
}

// ReadByte reads a single byte from r.
func ReadByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteBool writes a boolean as a single byte, 0x00 or 0x01.
// MQTT 5.0 has no boolean type; it expresses one as a byte restricted
// to those two values.
func WriteBool(w io.Writer, v bool) (int, error) {
	var b byte
	if v {
		b = 1
	}
	return WriteByte(w, b)
}

// ReadBool reads a single-byte boolean from r. Any byte other than
// 0x00 or 0x01 is a protocol error.
func ReadBool(r io.Reader) (bool, error) {
	b, err := ReadByte(r)
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

// WriteUint16 writes a 16-bit unsigned integer in big-endian order.
func WriteUint16(w io.Writer, v uint16) (int, error) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return w.Write(buf[:])
}

// ReadUint16 reads a big-endian 16-bit unsigned integer from r.
func ReadUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// WriteUint32 writes a 32-bit unsigned integer in big-endian order.
func WriteUint32(w io.Writer, v uint32) (int, error) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return w.Write(buf[:])
}

// ReadUint32 reads a big-endian 32-bit unsigned integer from r.
func ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// WriteVarInt writes a variable byte integer: 1 to 4 bytes, 7 payload
// bits per byte, top bit as continuation flag.
// MQTT 5.0 Section 1.5.5
func WriteVarInt(w io.Writer, value uint32) (int, error) {
	if value > MaxRemainingLength {
		return 0, ErrPacketTooLarge
	}

	var buf [4]byte
	i := 0
	for {
		encodedByte := byte(value & 0x7F)
		value >>= 7
		if value > 0 {
			encodedByte |= 0x80
		}
		buf[i] = encodedByte
		i++
		if value == 0 {
			break
		}
	}
	return w.Write(buf[:i])
}

// ReadVarInt reads a variable byte integer from r, stopping at the first
// byte whose continuation bit is clear. A fourth byte with the
// continuation bit still set is malformed.
func ReadVarInt(r io.Reader) (uint32, error) {
	var value uint32
	for i := 0; i < 4; i++ {
		b, err := ReadByte(r)
		if err != nil {
			return 0, err
		}
		value |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return value, nil
		}
	}
	return 0, ErrMalformedVarInt
}

// VarIntSize returns the number of bytes needed to encode a value as a
// variable byte integer.
func VarIntSize(value uint32) int {
	switch {
	case value < 128:
		return 1
	case value < 16384:
		return 2
	case value < 2097152:
		return 3
	default:
		return 4
	}
}

// WriteString writes a UTF-8 string with a 2-byte big-endian length prefix.
// MQTT 5.0 Section 1.5.4
func WriteString(w io.Writer, s string) (int, error) {
	if len(s) > maxBinaryLength {
		return 0, ErrStringTooLong
	}
	n, err := WriteUint16(w, uint16(len(s)))
	if err != nil {
		return n, err
	}
	m, err := io.WriteString(w, s)
	return n + m, err
}

// ReadString reads a length-prefixed UTF-8 string from r and validates it.
func ReadString(r io.Reader) (string, error) {
	data, err := ReadBinary(r)
	if err != nil {
		return "", err
	}
	if err := ValidateUTF8String(data); err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteBinary writes binary data with a 2-byte big-endian length prefix.
// MQTT 5.0 Section 1.5.6
func WriteBinary(w io.Writer, data []byte) (int, error) {
	if len(data) > maxBinaryLength {
		return 0, ErrStringTooLong
	}
	n, err := WriteUint16(w, uint16(len(data)))
	if err != nil {
		return n, err
	}
	m, err := w.Write(data)
	return n + m, err
}

// ReadBinary reads length-prefixed binary data from r.
func ReadBinary(r io.Reader) ([]byte, error) {
	length, err := ReadUint16(r)
	if err != nil {
		return nil, err
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

// ValidateUTF8String validates that a byte slice is valid UTF-8 without
// null characters or surrogate code points.
// MQTT 5.0 Section 1.5.4
func ValidateUTF8String(data []byte) error {
	if !utf8.Valid(data) {
		return ErrInvalidUTF8
	}

	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == 0 {
			return ErrInvalidUTF8NullChar
		}
		if r >= 0xD800 && r <= 0xDFFF {
			return ErrInvalidUTF8
		}
		i += size
	}

	return nil
}
