package packet

import (
	"fmt"
	"io"
)

// Unsuback is the UNSUBACK packet, answering an Unsubscribe with one
// reason code per topic filter, in order. Like Suback, the reason codes
// run to the end of the packet.
// MQTT 5.0 Section 3.11
type Unsuback struct {
	PacketID       uint16
	UserProperties []UserProperty
	ReasonCodes    []ReasonCode
}

// Type returns TypeUnsuback.
func (p *Unsuback) Type() Type { return TypeUnsuback }

func (p *Unsuback) flags() byte { return 0 }

// Write encodes the UNSUBACK body: packet identifier, properties region,
// then the reason codes.
func (p *Unsuback) Write(w io.Writer) (int, error) {
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
		if !code.Valid(TypeUnsuback) {
			return n, fmt.Errorf("%w: 0x%02X in UNSUBACK", ErrInvalidReasonCode, byte(code))
		}
		m, err = code.Write(w)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadUnsuback decodes an UNSUBACK body bounded by remaining.
func ReadUnsuback(r io.Reader, remaining uint32) (*Unsuback, error) {
	lr := &io.LimitedReader{R: r, N: int64(remaining)}

	id, err := ReadUint16(lr)
	if err != nil {
		return nil, err
	}
	p := Unsuback{PacketID: id}

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
			return nil, fmt.Errorf("%w: 0x%02X in UNSUBACK", ErrUnexpectedProperty, byte(prop.ID()))
		}
	}

	for lr.N > 0 {
		code, err := ReadReasonCode(lr, TypeUnsuback)
		if err != nil {
			return nil, err
		}
		p.ReasonCodes = append(p.ReasonCodes, code)
	}
	return &p, nil
}
