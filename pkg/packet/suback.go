package packet

import (
	"fmt"
	"io"
)

// Suback is the SUBACK packet, answering a Subscribe with one reason code
// per requested subscription, in order. The reason codes trail the
// properties region and run to the end of the packet, so decoding needs
// the remaining length.
// MQTT 5.0 Section 3.9
type Suback struct {
	PacketID       uint16
	UserProperties []UserProperty
	ReasonCodes    []ReasonCode
}

// Type returns TypeSuback.
func (p *Suback) Type() Type { return TypeSuback }

func (p *Suback) flags() byte { return 0 }

// Write encodes the SUBACK body: packet identifier, properties region,
// then the reason codes.
func (p *Suback) Write(w io.Writer) (int, error) {
	n, err := WriteUint16(w, p.PacketID)
	if err != nil {
		return n, err
	}

	props := make([]Property, 0, len(p.UserProperties))
	for _, u := range p.UserProperties {
		props = append(props, u)
	}
	m, err := WriteProperties(w, props...)
	n += m
	if err != nil {
		return n, err
	}

	for _, code := range p.ReasonCodes {
		if !code.Valid(TypeSuback) {
			return n, fmt.Errorf("%w: 0x%02X in SUBACK", ErrInvalidReasonCode, byte(code))
		}
		m, err = code.Write(w)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadSuback decodes a SUBACK body bounded by remaining.
func ReadSuback(r io.Reader, remaining uint32) (*Suback, error) {
	lr := &io.LimitedReader{R: r, N: int64(remaining)}

	id, err := ReadUint16(lr)
	if err != nil {
		return nil, err
	}
	p := Suback{PacketID: id}

	props, err := TakeProperties(lr)
	if err != nil {
		return nil, err
	}
	for props.HasProperties() {
		prop, err := props.Read()
		if err != nil {
			return nil, err
		}
		switch v := prop.(type) {
		case UserProperty:
			p.UserProperties = append(p.UserProperties, v)
		default:
			return nil, fmt.Errorf("%w: 0x%02X in SUBACK", ErrUnexpectedProperty, byte(prop.ID()))
		}
	}

	for lr.N > 0 {
		code, err := ReadReasonCode(lr, TypeSuback)
		if err != nil {
			return nil, err
		}
		p.ReasonCodes = append(p.ReasonCodes, code)
	}
	return &p, nil
}
