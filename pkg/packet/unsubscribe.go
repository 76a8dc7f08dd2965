package packet

import (
	"fmt"
	"io"
)

// Unsubscribe is the UNSUBSCRIBE packet. Its fixed header flags are
// always 0x02, and its payload must carry at least one topic filter.
// MQTT 5.0 Section 3.10
type Unsubscribe struct {
	PacketID       uint16
	UserProperties []UserProperty
	Topics         []string
}

// Type returns TypeUnsubscribe.
func (p *Unsubscribe) Type() Type { return TypeUnsubscribe }

func (p *Unsubscribe) flags() byte { return UnsubscribeFlags }

// Write encodes the UNSUBSCRIBE body: packet identifier, properties
// region, then the topic filters.
func (p *Unsubscribe) Write(w io.Writer) (int, error) {
	if len(p.Topics) == 0 {
		return 0, fmt.Errorf("%w: UNSUBSCRIBE without topic filters", ErrProtocolError)
	}

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

	for _, topic := range p.Topics {
		m, err = WriteString(w, topic)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadUnsubscribe decodes an UNSUBSCRIBE body bounded by remaining.
func ReadUnsubscribe(r io.Reader, remaining uint32) (*Unsubscribe, error) {
	lr := &io.LimitedReader{R: r, N: int64(remaining)}

	id, err := ReadUint16(lr)
	if err != nil {
		return nil, err
	}
	p := Unsubscribe{PacketID: id}

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
			return nil, fmt.Errorf("%w: 0x%02X in UNSUBSCRIBE", ErrUnexpectedProperty, byte(prop.ID()))
		}
	}

	for lr.N > 0 {
		topic, err := ReadString(lr)
		if err != nil {
			return nil, err
		}
		p.Topics = append(p.Topics, topic)
	}

	if len(p.Topics) == 0 {
		return nil, fmt.Errorf("%w: UNSUBSCRIBE without topic filters", ErrProtocolError)
	}
	return &p, nil
}
