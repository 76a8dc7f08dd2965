package packet

import (
	"fmt"
	"io"
)

// Connack acknowledge flag bits, MQTT 5.0 Section 3.2.2.1
const (
	connackFlagSessionPresent = 1 << 0
	connackFlagReservedMask   = 0xFE
)

// Connack is the CONNACK packet, the server's answer to Connect.
// MQTT 5.0 Section 3.2
type Connack struct {
	SessionPresent bool
	ReasonCode     ReasonCode

	SessionExpiry    uint32
	ReceiveMax       uint16 // zero means unset; encodes as the default 65,535
	MaxQoS           QoS
	RetainAvail      bool
	MaxPacketSize    uint32
	AssignedClientID string
	TopicAliasMax    uint16
	ReasonString     string
	UserProperties   []UserProperty
	WildcardSubAvail bool
	SubIDAvail       bool
	SharedSubAvail   bool
	ServerKeepAlive  uint16 // zero means absent
	ResponseInfo     string
	ServerReference  string
	Authentication   Authentication
}

// NewConnack returns a Connack whose capability fields hold the wire
// defaults, so only deliberate restrictions are encoded.
func NewConnack() *Connack {
	return &Connack{
		MaxQoS:           DefaultMaximumQoS,
		RetainAvail:      DefaultRetainAvailable,
		WildcardSubAvail: DefaultWildcardSubAvailable,
		SubIDAvail:       DefaultSubIDAvailable,
		SharedSubAvail:   DefaultSharedSubAvailable,
	}
}

// Type returns TypeConnack.
func (p *Connack) Type() Type { return TypeConnack }

func (p *Connack) flags() byte { return 0 }

// Write encodes the CONNACK body: acknowledge flags, reason code,
// properties region.
func (p *Connack) Write(w io.Writer) (int, error) {
	if !p.ReasonCode.Valid(TypeConnack) {
		return 0, fmt.Errorf("%w: 0x%02X in CONNACK", ErrInvalidReasonCode, byte(p.ReasonCode))
	}

	n, err := WriteBool(w, p.SessionPresent)
	if err != nil {
		return n, err
	}
	m, err := p.ReasonCode.Write(w)
	n += m
	if err != nil {
		return n, err
	}

	receiveMax := p.ReceiveMax
	if receiveMax == 0 {
		receiveMax = DefaultReceiveMaximum
	}
	props := []Property{
		SessionExpiryInterval(p.SessionExpiry),
		ReceiveMaximum(receiveMax),
		MaximumQoS(p.MaxQoS),
		RetainAvailable(p.RetainAvail),
		MaximumPacketSize(p.MaxPacketSize),
		AssignedClientID(p.AssignedClientID),
		TopicAliasMaximum(p.TopicAliasMax),
		ReasonString(p.ReasonString),
		WildcardSubAvailable(p.WildcardSubAvail),
		SubIDAvailable(p.SubIDAvail),
		SharedSubAvailable(p.SharedSubAvail),
		ServerKeepAlive(p.ServerKeepAlive),
		ResponseInfo(p.ResponseInfo),
		ServerReference(p.ServerReference),
	}
	props = append(props, p.Authentication.properties()...)
	for _, u := range p.UserProperties {
		props = append(props, u)
	}
	m, err = WriteProperties(w, props...)
	return n + m, err
}

// ReadConnack decodes a CONNACK body.
func ReadConnack(r io.Reader) (*Connack, error) {
	flags, err := ReadByte(r)
	if err != nil {
		return nil, err
	}
	if flags&connackFlagReservedMask != 0 {
		return nil, fmt.Errorf("%w: reserved connack flags set", ErrMalformedPacket)
	}

	code, err := ReadReasonCode(r, TypeConnack)
	if err != nil {
		return nil, err
	}

	p := NewConnack()
	p.SessionPresent = flags&connackFlagSessionPresent != 0
	p.ReasonCode = code
	p.ReceiveMax = DefaultReceiveMaximum

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
		case MaximumQoS:
			p.MaxQoS = QoS(v)
		case RetainAvailable:
			p.RetainAvail = bool(v)
		case MaximumPacketSize:
			p.MaxPacketSize = uint32(v)
		case AssignedClientID:
			p.AssignedClientID = string(v)
		case TopicAliasMaximum:
			p.TopicAliasMax = uint16(v)
		case ReasonString:
			p.ReasonString = string(v)
		case UserProperty:
			p.UserProperties = append(p.UserProperties, v)
		case WildcardSubAvailable:
			p.WildcardSubAvail = bool(v)
		case SubIDAvailable:
			p.SubIDAvail = bool(v)
		case SharedSubAvailable:
			p.SharedSubAvail = bool(v)
		case ServerKeepAlive:
			p.ServerKeepAlive = uint16(v)
		case ResponseInfo:
			p.ResponseInfo = string(v)
		case ServerReference:
			p.ServerReference = string(v)
		case AuthenticationMethod:
			p.Authentication.Method = string(v)
		case AuthenticationData:
			p.Authentication.Data = []byte(v)
		default:
			return nil, fmt.Errorf("%w: 0x%02X in CONNACK", ErrUnexpectedProperty, byte(prop.ID()))
		}
	}
	return p, nil
}
