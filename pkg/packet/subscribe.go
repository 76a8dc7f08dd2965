package packet

import (
	"fmt"
	"io"
)

// Subscription is one topic filter with its subscription options, as
// carried in the Subscribe payload.
// MQTT 5.0 Section 3.8.3
type Subscription struct {
	Topic             string
	QoS               QoS
	NoLocal           bool
	RetainAsPublished bool
	RetainHandling    RetainHandling
}

// Subscription options byte layout.
const (
	subOptionNoLocal           = 1 << 2
	subOptionRetainAsPublished = 1 << 3
	subOptionRetainHandlingPos = 4
	subOptionReservedMask      = 0xC0
)

func (s Subscription) options() byte {
	b := byte(s.QoS)
	if s.NoLocal {
		b |= subOptionNoLocal
	}
	if s.RetainAsPublished {
		b |= subOptionRetainAsPublished
	}
	b |= byte(s.RetainHandling) << subOptionRetainHandlingPos
	return b
}

func parseSubscriptionOptions(b byte) (Subscription, error) {
	if b&subOptionReservedMask != 0 {
		return Subscription{}, fmt.Errorf("%w: reserved subscription option bits set", ErrProtocolError)
	}
	s := Subscription{
		QoS:               QoS(b & 0x03),
		NoLocal:           b&subOptionNoLocal != 0,
		RetainAsPublished: b&subOptionRetainAsPublished != 0,
		RetainHandling:    RetainHandling(b >> subOptionRetainHandlingPos),
	}
	if !s.QoS.Valid() {
		return Subscription{}, ErrInvalidQoS
	}
	if !s.RetainHandling.Valid() {
		return Subscription{}, fmt.Errorf("%w: invalid retain handling", ErrProtocolError)
	}
	return s, nil
}

// Subscribe is the SUBSCRIBE packet. Its fixed header flags are always
// 0x02, and its payload must carry at least one subscription.
// MQTT 5.0 Section 3.8
type Subscribe struct {
	PacketID       uint16
	SubscriptionID uint32 // optional, zero when absent
	UserProperties []UserProperty
	Subscriptions  []Subscription
}

// Type returns TypeSubscribe.
func (p *Subscribe) Type() Type { return TypeSubscribe }

func (p *Subscribe) flags() byte { return SubscribeFlags }

// Write encodes the SUBSCRIBE body: packet identifier, properties region,
// then one topic filter and options byte per subscription.
func (p *Subscribe) Write(w io.Writer) (int, error) {
	if len(p.Subscriptions) == 0 {
		return 0, fmt.Errorf("%w: SUBSCRIBE without subscriptions", ErrProtocolError)
	}

	n, err := WriteUint16(w, p.PacketID)
	if err != nil {
		return n, err
	}

	var props []Property
	if p.SubscriptionID != 0 {
		props = append(props, SubscriptionIdentifier(p.SubscriptionID))
	}
	for _, u := range p.UserProperties {
		props = append(props, u)
	}
	m, err := WriteProperties(w, props...)
	n += m
	if err != nil {
		return n, err
	}

	for _, s := range p.Subscriptions {
		m, err = WriteString(w, s.Topic)
		n += m
		if err != nil {
			return n, err
		}
		m, err = WriteByte(w, s.options())
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadSubscribe decodes a SUBSCRIBE body bounded by remaining.
func ReadSubscribe(r io.Reader, remaining uint32) (*Subscribe, error) {
	lr := &io.LimitedReader{R: r, N: int64(remaining)}

	id, err := ReadUint16(lr)
	if err != nil {
		return nil, err
	}
	p := Subscribe{PacketID: id}

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
		case SubscriptionIdentifier:
			p.SubscriptionID = uint32(v)
		case UserProperty:
			p.UserProperties = append(p.UserProperties, v)
		default:
			return nil, fmt.Errorf("%w: 0x%02X in SUBSCRIBE", ErrUnexpectedProperty, byte(prop.ID()))
		}
	}

	for lr.N > 0 {
		topic, err := ReadString(lr)
		if err != nil {
			return nil, err
		}
		options, err := ReadByte(lr)
		if err != nil {
			return nil, err
		}
		s, err := parseSubscriptionOptions(options)
		if err != nil {
			return nil, err
		}
		s.Topic = topic
		p.Subscriptions = append(p.Subscriptions, s)
	}

	if len(p.Subscriptions) == 0 {
		return nil, fmt.Errorf("%w: SUBSCRIBE without subscriptions", ErrProtocolError)
	}
	return &p, nil
}
