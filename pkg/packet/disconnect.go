package packet

import (
	"fmt"
	"io"
)

// Disconnect is the DISCONNECT packet, the last packet either side sends
// on a connection. A normal disconnection with nothing else to say is
// written with an empty body; a receiver recognizes it by a remaining
// length of zero and substitutes the Success reason code.
// MQTT 5.0 Section 3.14
type Disconnect struct {
	ReasonCode      ReasonCode
	SessionExpiry   uint32
	ReasonString    string
	UserProperties  []UserProperty
	ServerReference string
}

// Type returns TypeDisconnect.
func (p *Disconnect) Type() Type { return TypeDisconnect }

func (p *Disconnect) flags() byte { return 0 }

// Write encodes the DISCONNECT body, using the empty shortened form when
// the packet is a bare normal disconnection.
func (p *Disconnect) Write(w io.Writer) (int, error) {
	if !p.ReasonCode.Valid(TypeDisconnect) {
		return 0, fmt.Errorf("%w: 0x%02X in DISCONNECT", ErrInvalidReasonCode, byte(p.ReasonCode))
	}

	if p.ReasonCode == ReasonSuccess && p.SessionExpiry == DefaultSessionExpiryInterval &&
		p.ReasonString == "" && len(p.UserProperties) == 0 && p.ServerReference == "" {
		return 0, nil
	}

	n, err := p.ReasonCode.Write(w)
	if err != nil {
		return n, err
	}

	props := []Property{
		SessionExpiryInterval(p.SessionExpiry),
		ReasonString(p.ReasonString),
		ServerReference(p.ServerReference),
	}
	for _, u := range p.UserProperties {
		props = append(props, u)
	}
	m, err := WriteProperties(w, props...)
	return n + m, err
}

// ReadDisconnect decodes a DISCONNECT body bounded by remaining. A zero
// remaining length is the shortened normal disconnection.
func ReadDisconnect(r io.Reader, remaining uint32) (*Disconnect, error) {
	p := Disconnect{ReasonCode: ReasonSuccess}
	if remaining == 0 {
		return &p, nil
	}

	lr := &io.LimitedReader{R: r, N: int64(remaining)}

	code, err := ReadReasonCode(lr, TypeDisconnect)
	if err != nil {
		return nil, err
	}
	p.ReasonCode = code

	// A one-byte body carries the reason code alone.
	if lr.N == 0 {
		return &p, nil
	}

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
		case SessionExpiryInterval:
			p.SessionExpiry = uint32(v)
		case ReasonString:
			p.ReasonString = string(v)
		case ServerReference:
			p.ServerReference = string(v)
		case UserProperty:
			p.UserProperties = append(p.UserProperties, v)
		default:
			return nil, fmt.Errorf("%w: 0x%02X in DISCONNECT", ErrUnexpectedProperty, byte(prop.ID()))
		}
	}
	return &p, nil
}
