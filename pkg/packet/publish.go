package packet

import (
	"fmt"
	"io"
)

// Publish is the PUBLISH packet, carrying an application message. Unlike
// every other packet type its fixed header flags are live data: the DUP,
// QoS and RETAIN fields travel there rather than in the body, so the body
// codec receives them from the fixed header decoder.
// MQTT 5.0 Section 3.3
type Publish struct {
	Dup    bool
	QoS    QoS
	Retain bool

	Topic    string
	PacketID uint16 // required when QoS > 0

	PayloadFormat   bool
	MessageExpiry   uint32
	TopicAlias      uint16
	ResponseTopic   string
	CorrelationData []byte
	UserProperties  []UserProperty
	SubscriptionIDs []uint32
	ContentType     string

	Payload []byte
}

// Type returns TypePublish.
func (p *Publish) Type() Type { return TypePublish }

func (p *Publish) flags() byte {
	f := byte(p.QoS) << 1
	if p.Dup {
		f |= PublishFlagDup
	}
	if p.Retain {
		f |= PublishFlagRetain
	}
	return f
}

// Write encodes the PUBLISH body: topic name, packet identifier when
// QoS > 0, properties region, then the raw payload filling the rest of
// the packet.
func (p *Publish) Write(w io.Writer) (int, error) {
	n, err := WriteString(w, p.Topic)
	if err != nil {
		return n, err
	}

	if p.QoS != QoS0 {
		if p.PacketID == 0 {
			return n, ErrInvalidPacketID
		}
		m, err := WriteUint16(w, p.PacketID)
		n += m
		if err != nil {
			return n, err
		}
	}

	props := []Property{
		PayloadFormatIndicator(p.PayloadFormat),
		MessageExpiryInterval(p.MessageExpiry),
		TopicAlias(p.TopicAlias),
		ResponseTopic(p.ResponseTopic),
		CorrelationData(p.CorrelationData),
	}
	for _, u := range p.UserProperties {
		props = append(props, u)
	}
	for _, id := range p.SubscriptionIDs {
		props = append(props, SubscriptionIdentifier(id))
	}
	props = append(props, ContentType(p.ContentType))

	m, err := WriteProperties(w, props...)
	n += m
	if err != nil {
		return n, err
	}

	m, err = w.Write(p.Payload)
	return n + m, err
}

// ReadPublish decodes a PUBLISH body. The dup, qos and retain arguments
// come from the fixed header flags; remaining bounds the body so the
// payload is whatever is left after the properties region.
func ReadPublish(r io.Reader, dup bool, qos QoS, retain bool, remaining uint32) (*Publish, error) {
	if !qos.Valid() {
		return nil, ErrInvalidQoS
	}

	lr := io.LimitReader(r, int64(remaining))

	topic, err := ReadString(lr)
	if err != nil {
		return nil, err
	}

	p := Publish{
		Dup:    dup,
		QoS:    qos,
		Retain: retain,
		Topic:  topic,
	}

	if qos != QoS0 {
		p.PacketID, err = ReadUint16(lr)
		if err != nil {
			return nil, err
		}
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
		case PayloadFormatIndicator:
			p.PayloadFormat = bool(v)
		case MessageExpiryInterval:
			p.MessageExpiry = uint32(v)
		case TopicAlias:
			p.TopicAlias = uint16(v)
		case ResponseTopic:
			p.ResponseTopic = string(v)
		case CorrelationData:
			p.CorrelationData = []byte(v)
		case UserProperty:
			p.UserProperties = append(p.UserProperties, v)
		case SubscriptionIdentifier:
			p.SubscriptionIDs = append(p.SubscriptionIDs, uint32(v))
		case ContentType:
			p.ContentType = string(v)
		default:
			return nil, fmt.Errorf("%w: 0x%02X in PUBLISH", ErrUnexpectedProperty, byte(prop.ID()))
		}
	}

	p.Payload, err = io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
