package packet

import (
	"fmt"
	"io"
)

// Packet is one MQTT 5.0 control packet. Write produces the body only;
// WritePacket frames it with the fixed header. The flag nibble of the
// fixed header is fixed per type (with Publish carrying live data there),
// so it stays internal to the codec.
type Packet interface {
	Type() Type
	Write(w io.Writer) (int, error)
	flags() byte
}

// FixedHeader is the two-field header that starts every control packet.
// MQTT 5.0 Section 2.1
type FixedHeader struct {
	Type      Type
	Flags     byte
	Remaining uint32
}

// WriteFixedHeader writes the packet type and flags byte followed by the
// remaining length.
func WriteFixedHeader(w io.Writer, h FixedHeader) (int, error) {
	n, err := WriteByte(w, byte(h.Type)<<4|h.Flags&0x0F)
	if err != nil {
		return n, err
	}
	m, err := WriteVarInt(w, h.Remaining)
	return n + m, err
}

// ReadFixedHeader reads and splits the first byte and the remaining length.
func ReadFixedHeader(r io.Reader) (FixedHeader, error) {
	b, err := ReadByte(r)
	if err != nil {
		return FixedHeader{}, err
	}
	h := FixedHeader{
		Type:  Type(b >> 4),
		Flags: b & 0x0F,
	}
	if !h.Type.Valid() {
		return FixedHeader{}, fmt.Errorf("%w: 0x%X", ErrInvalidPacketType, byte(h.Type))
	}
	h.Remaining, err = ReadVarInt(r)
	if err != nil {
		return FixedHeader{}, err
	}
	return h, nil
}

// WritePacket frames and writes one control packet: the body is staged to
// measure the remaining length, then the fixed header and body go out.
func WritePacket(w io.Writer, p Packet) (int, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if _, err := p.Write(buf); err != nil {
		return 0, err
	}

	n, err := WriteFixedHeader(w, FixedHeader{
		Type:      p.Type(),
		Flags:     p.flags(),
		Remaining: uint32(buf.Len()),
	})
	if err != nil {
		return n, err
	}
	m, err := w.Write(buf.Bytes())
	return n + m, err
}

// ReadPacket reads one control packet from r: fixed header, flag
// validation, then dispatch to the body decoder for the packet type. The
// body decoder never reads past the remaining length.
func ReadPacket(r io.Reader) (Packet, error) {
	h, err := ReadFixedHeader(r)
	if err != nil {
		return nil, err
	}

	// Publish is the one type whose flag nibble carries data.
	if h.Type == TypePublish {
		dup := h.Flags&PublishFlagDup != 0
		qos := QoS(h.Flags >> 1 & 0x03)
		retain := h.Flags&PublishFlagRetain != 0
		return ReadPublish(r, dup, qos, retain, h.Remaining)
	}

	var want byte
	switch h.Type {
	case TypePubrel:
		want = PubrelFlags
	case TypeSubscribe:
		want = SubscribeFlags
	case TypeUnsubscribe:
		want = UnsubscribeFlags
	}
	if h.Flags != want {
		return nil, fmt.Errorf("%w: 0x%X for %s", ErrInvalidFlags, h.Flags, h.Type)
	}

	lr := &io.LimitedReader{R: r, N: int64(h.Remaining)}
	shortened := h.Remaining == 2

	switch h.Type {
	case TypeConnect:
		return ReadConnect(lr)
	case TypeConnack:
		return ReadConnack(lr)
	case TypePuback:
		return ReadPuback(lr, shortened)
	case TypePubrec:
		return ReadPubrec(lr, shortened)
	case TypePubrel:
		return ReadPubrel(lr, shortened)
	case TypePubcomp:
		return ReadPubcomp(lr, shortened)
	case TypeSubscribe:
		return ReadSubscribe(lr, h.Remaining)
	case TypeSuback:
		return ReadSuback(lr, h.Remaining)
	case TypeUnsubscribe:
		return ReadUnsubscribe(lr, h.Remaining)
	case TypeUnsuback:
		return ReadUnsuback(lr, h.Remaining)
	case TypePingreq:
		if h.Remaining != 0 {
			return nil, fmt.Errorf("%w: PINGREQ with a body", ErrProtocolError)
		}
		return &Pingreq{}, nil
	case TypePingresp:
		if h.Remaining != 0 {
			return nil, fmt.Errorf("%w: PINGRESP with a body", ErrProtocolError)
		}
		return &Pingresp{}, nil
	case TypeDisconnect:
		return ReadDisconnect(lr, h.Remaining)
	case TypeAuth:
		if h.Remaining == 0 {
			return nil, ErrMissingAuthMethod
		}
		return ReadAuth(lr)
	default:
		return nil, fmt.Errorf("%w: 0x%X", ErrInvalidPacketType, byte(h.Type))
	}
}
