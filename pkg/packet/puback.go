package packet

import (
	"fmt"
	"io"
)

// The four publish acknowledgements (Puback, Pubrec, Pubrel, Pubcomp)
// share one body layout: packet identifier, reason code, properties.
// A fully successful acknowledgement with no reason string and no user
// properties is written in the shortened two-byte form holding only the
// packet identifier; a receiver recognizes it by a remaining length of 2
// and substitutes the Success reason code.
// MQTT 5.0 Sections 3.4-3.7

type ack struct {
	PacketID       uint16
	ReasonCode     ReasonCode
	ReasonString   string
	UserProperties []UserProperty
}

func writeAck(w io.Writer, t Type, a ack) (int, error) {
	if !a.ReasonCode.Valid(t) {
		return 0, fmt.Errorf("%w: 0x%02X in %s", ErrInvalidReasonCode, byte(a.ReasonCode), t)
	}

	n, err := WriteUint16(w, a.PacketID)
	if err != nil {
		return n, err
	}

	if a.ReasonCode == ReasonSuccess && a.ReasonString == "" && len(a.UserProperties) == 0 {
		return n, nil
	}

	m, err := a.ReasonCode.Write(w)
	n += m
	if err != nil {
		return n, err
	}

	props := []Property{ReasonString(a.ReasonString)}
	for _, u := range a.UserProperties {
		props = append(props, u)
	}
	m, err = WriteProperties(w, props...)
	return n + m, err
}

func readAck(r io.Reader, t Type, shortened bool) (ack, error) {
	var a ack

	id, err := ReadUint16(r)
	if err != nil {
		return a, err
	}
	a.PacketID = id

	if shortened {
		a.ReasonCode = ReasonSuccess
		return a, nil
	}

	a.ReasonCode, err = ReadReasonCode(r, t)
	if err != nil {
		return a, err
	}

	props, err := TakeProperties(r)
	if err != nil {
		return a, err
	}
	for props.HasProperties() {
		prop, err := props.Read()
		if err != nil {
			return a, err
		}
		switch v := prop.(type) {
		case ReasonString:
			a.ReasonString = string(v)
		case UserProperty:
			a.UserProperties = append(a.UserProperties, v)
		default:
			return a, fmt.Errorf("%w: 0x%02X in %s", ErrUnexpectedProperty, byte(prop.ID()), t)
		}
	}
	return a, nil
}

// Puback acknowledges a QoS 1 Publish.
type Puback struct {
	PacketID       uint16
	ReasonCode     ReasonCode
	ReasonString   string
	UserProperties []UserProperty
}

// Type returns TypePuback.
func (p *Puback) Type() Type { return TypePuback }

func (p *Puback) flags() byte { return 0 }

// Write encodes the PUBACK body, using the shortened form when the
// acknowledgement is a bare success.
func (p *Puback) Write(w io.Writer) (int, error) {
	return writeAck(w, TypePuback, ack(*p))
}

// ReadPuback decodes a PUBACK body. Set shortened when the remaining
// length was 2.
func ReadPuback(r io.Reader, shortened bool) (*Puback, error) {
	a, err := readAck(r, TypePuback, shortened)
	if err != nil {
		return nil, err
	}
	p := Puback(a)
	return &p, nil
}

// Pubrec is the first acknowledgement of a QoS 2 Publish.
type Pubrec struct {
	PacketID       uint16
	ReasonCode     ReasonCode
	ReasonString   string
	UserProperties []UserProperty
}

// Type returns TypePubrec.
func (p *Pubrec) Type() Type { return TypePubrec }

func (p *Pubrec) flags() byte { return 0 }

// Write encodes the PUBREC body, using the shortened form when the
// acknowledgement is a bare success.
func (p *Pubrec) Write(w io.Writer) (int, error) {
	return writeAck(w, TypePubrec, ack(*p))
}

// ReadPubrec decodes a PUBREC body. Set shortened when the remaining
// length was 2.
func ReadPubrec(r io.Reader, shortened bool) (*Pubrec, error) {
	a, err := readAck(r, TypePubrec, shortened)
	if err != nil {
		return nil, err
	}
	p := Pubrec(a)
	return &p, nil
}

// Pubrel is the second step of the QoS 2 delivery handshake. Its fixed
// header flags are always 0x02.
type Pubrel struct {
	PacketID       uint16
	ReasonCode     ReasonCode
	ReasonString   string
	UserProperties []UserProperty
}

// Type returns TypePubrel.
func (p *Pubrel) Type() Type { return TypePubrel }

func (p *Pubrel) flags() byte { return PubrelFlags }

// Write encodes the PUBREL body, using the shortened form when the
// acknowledgement is a bare success.
func (p *Pubrel) Write(w io.Writer) (int, error) {
	return writeAck(w, TypePubrel, ack(*p))
}

// ReadPubrel decodes a PUBREL body. Set shortened when the remaining
// length was 2.
func ReadPubrel(r io.Reader, shortened bool) (*Pubrel, error) {
	a, err := readAck(r, TypePubrel, shortened)
	if err != nil {
		return nil, err
	}
	p := Pubrel(a)
	return &p, nil
}

// Pubcomp completes the QoS 2 delivery handshake.
type Pubcomp struct {
	PacketID       uint16
	ReasonCode     ReasonCode
	ReasonString   string
	UserProperties []UserProperty
}

// Type returns TypePubcomp.
func (p *Pubcomp) Type() Type { return TypePubcomp }

func (p *Pubcomp) flags() byte { return 0 }

// Write encodes the PUBCOMP body, using the shortened form when the
// acknowledgement is a bare success.
func (p *Pubcomp) Write(w io.Writer) (int, error) {
	return writeAck(w, TypePubcomp, ack(*p))
}

// ReadPubcomp decodes a PUBCOMP body. Set shortened when the remaining
// length was 2.
func ReadPubcomp(r io.Reader, shortened bool) (*Pubcomp, error) {
	a, err := readAck(r, TypePubcomp, shortened)
	if err != nil {
		return nil, err
	}
	p := Pubcomp(a)
	return &p, nil
}
