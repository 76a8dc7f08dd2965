package packet

import (
	"fmt"
	"io"
)

const (
	protocolName  = "MQTT"
	protocolLevel = 5
)

// Connect flag bits, MQTT 5.0 Section 3.1.2.3
const (
	connectFlagReserved   = 1 << 0
	connectFlagCleanStart = 1 << 1
	connectFlagWill       = 1 << 2
	connectFlagWillQoSPos = 3
	connectFlagWillRetain = 1 << 5
	connectFlagPassword   = 1 << 6
	connectFlagUsername   = 1 << 7
)

// Will describes the message the server publishes on the client's behalf
// when the connection ends abnormally. It travels in the Connect payload
// with its own properties region.
// MQTT 5.0 Section 3.1.3.2
type Will struct {
	QoS    QoS
	Retain bool

	DelayInterval   uint32
	PayloadFormat   bool
	MessageExpiry   uint32
	ContentType     string
	ResponseTopic   string
	CorrelationData []byte
	UserProperties  []UserProperty

	Topic   string
	Payload []byte
}

// Connect is the CONNECT packet, the first packet a client sends on a new
// network connection.
// MQTT 5.0 Section 3.1
type Connect struct {
	CleanStart bool
	KeepAlive  uint16
	ClientID   string

	SessionExpiry   uint32
	ReceiveMax      uint16 // zero means unset; encodes as the default 65,535
	MaxPacketSize   uint32
	TopicAliasMax   uint16
	RequestResponse bool
	RequestProblem  bool
	UserProperties  []UserProperty
	Authentication  Authentication

	Will     *Will
	Username string
	Password []byte
}

// Type returns TypeConnect.
func (p *Connect) Type() Type { return TypeConnect }

func (p *Connect) flags() byte { return 0 }

func (p *Connect) connectFlags() byte {
	var f byte
	if p.CleanStart {
		f |= connectFlagCleanStart
	}
	if p.Will != nil {
		f |= connectFlagWill
		f |= byte(p.Will.QoS) << connectFlagWillQoSPos
		if p.Will.Retain {
			f |= connectFlagWillRetain
		}
	}
	if len(p.Password) > 0 {
		f |= connectFlagPassword
	}
	if p.Username != "" {
		f |= connectFlagUsername
	}
	return f
}

// Write encodes the CONNECT body: protocol name and level, connect flags,
// keep alive, properties region, then the payload fields selected by the
// flags.
func (p *Connect) Write(w io.Writer) (int, error) {
	if p.Will != nil && !p.Will.QoS.Valid() {
		return 0, ErrInvalidQoS
	}

	n, err := WriteString(w, protocolName)
	if err != nil {
		return n, err
	}
	m, err := WriteByte(w, protocolLevel)
	n += m
	if err != nil {
		return n, err
	}
	m, err = WriteByte(w, p.connectFlags())
	n += m
	if err != nil {
		return n, err
	}
	m, err = WriteUint16(w, p.KeepAlive)
	n += m
	if err != nil {
		return n, err
	}

	// A zero ReceiveMax means the field was left alone; the wire default
	// (65,535) applies and nothing is encoded.
	receiveMax := p.ReceiveMax
	if receiveMax == 0 {
		receiveMax = DefaultReceiveMaximum
	}
	props := []Property{
		SessionExpiryInterval(p.SessionExpiry),
		ReceiveMaximum(receiveMax),
		MaximumPacketSize(p.MaxPacketSize),
		TopicAliasMaximum(p.TopicAliasMax),
		RequestResponseInfo(p.RequestResponse),
		RequestProblemInfo(p.RequestProblem),
	}
	props = append(props, p.Authentication.properties()...)
	for _, u := range p.UserProperties {
		props = append(props, u)
	}
	m, err = WriteProperties(w, props...)
	n += m
	if err != nil {
		return n, err
	}

	m, err = WriteString(w, p.ClientID)
	n += m
	if err != nil {
		return n, err
	}

	if p.Will != nil {
		willProps := []Property{
			WillDelayInterval(p.Will.DelayInterval),
			PayloadFormatIndicator(p.Will.PayloadFormat),
			MessageExpiryInterval(p.Will.MessageExpiry),
			ContentType(p.Will.ContentType),
			ResponseTopic(p.Will.ResponseTopic),
			CorrelationData(p.Will.CorrelationData),
		}
		for _, u := range p.Will.UserProperties {
			willProps = append(willProps, u)
		}
		m, err = WriteProperties(w, willProps...)
		n += m
		if err != nil {
			return n, err
		}
		m, err = WriteString(w, p.Will.Topic)
		n += m
		if err != nil {
			return n, err
		}
		m, err = WriteBinary(w, p.Will.Payload)
		n += m
		if err != nil {
			return n, err
		}
	}

	if p.Username != "" {
		m, err = WriteString(w, p.Username)
		n += m
		if err != nil {
			return n, err
		}
	}
	if len(p.Password) > 0 {
		m, err = WriteBinary(w, p.Password)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadConnect decodes a CONNECT body.
func ReadConnect(r io.Reader) (*Connect, error) {
	name, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	if name != protocolName {
		return nil, fmt.Errorf("%w: unexpected protocol name %q", ErrProtocolError, name)
	}
	level, err := ReadByte(r)
	if err != nil {
		return nil, err
	}
	if level != protocolLevel {
		return nil, fmt.Errorf("%w: unsupported protocol level %d", ErrProtocolError, level)
	}

	flags, err := ReadByte(r)
	if err != nil {
		return nil, err
	}
	if flags&connectFlagReserved != 0 {
		return nil, fmt.Errorf("%w: reserved connect flag set", ErrMalformedPacket)
	}

	p := Connect{
		CleanStart:     flags&connectFlagCleanStart != 0,
		ReceiveMax:     DefaultReceiveMaximum,
		RequestProblem: DefaultRequestProblemInfo,
	}

	willFlag := flags&connectFlagWill != 0
	willQoS := QoS((flags >> connectFlagWillQoSPos) & 0x03)
	willRetain := flags&connectFlagWillRetain != 0
	if !willFlag && (willQoS != QoS0 || willRetain) {
		return nil, fmt.Errorf("%w: will flags set without will flag", ErrMalformedPacket)
	}
	if !willQoS.Valid() {
		return nil, ErrInvalidQoS
	}

	p.KeepAlive, err = ReadUint16(r)
	if err != nil {
		return nil, err
	}

	props, err := TakeProperties(r)
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
		case ReceiveMaximum:
			p.ReceiveMax = uint16(v)
		case MaximumPacketSize:
			p.MaxPacketSize = uint32(v)
		case TopicAliasMaximum:
			p.TopicAliasMax = uint16(v)
		case RequestResponseInfo:
			p.RequestResponse = bool(v)
		case RequestProblemInfo:
			p.RequestProblem = bool(v)
		case AuthenticationMethod:
			p.Authentication.Method = string(v)
		case AuthenticationData:
			p.Authentication.Data = []byte(v)
		case UserProperty:
			p.UserProperties = append(p.UserProperties, v)
		default:
			return nil, fmt.Errorf("%w: 0x%02X in CONNECT", ErrUnexpectedProperty, byte(prop.ID()))
		}
	}

	p.ClientID, err = ReadString(r)
	if err != nil {
		return nil, err
	}

	if willFlag {
		will := Will{QoS: willQoS, Retain: willRetain}

		willProps, err := TakeProperties(r)
		if err != nil {
			return nil, err
		}
		for willProps.HasProperties() {
			prop, err := willProps.Read()
			if err != nil {
				return nil, err
			}
			switch v := prop.(type) {
			case WillDelayInterval:
				will.DelayInterval = uint32(v)
			case PayloadFormatIndicator:
				will.PayloadFormat = bool(v)
			case MessageExpiryInterval:
				will.MessageExpiry = uint32(v)
			case ContentType:
				will.ContentType = string(v)
			case ResponseTopic:
				will.ResponseTopic = string(v)
			case CorrelationData:
				will.CorrelationData = []byte(v)
			case UserProperty:
				will.UserProperties = append(will.UserProperties, v)
			default:
				return nil, fmt.Errorf("%w: 0x%02X in will properties", ErrUnexpectedProperty, byte(prop.ID()))
			}
		}

		will.Topic, err = ReadString(r)
		if err != nil {
			return nil, err
		}
		will.Payload, err = ReadBinary(r)
		if err != nil {
			return nil, err
		}
		p.Will = &will
	}

	if flags&connectFlagUsername != 0 {
		p.Username, err = ReadString(r)
		if err != nil {
			return nil, err
		}
	}
	if flags&connectFlagPassword != 0 {
		p.Password, err = ReadBinary(r)
		if err != nil {
			return nil, err
		}
	}
	return &p, nil
}
