package packet

import (
	"fmt"
	"io"
)

// PropertyID identifies an MQTT 5.0 property. On the wire a property ID
// is a variable byte integer, though every identifier defined so far
// fits in one byte.
// MQTT 5.0 Section 2.2.2.2
type PropertyID byte

const (
	PropPayloadFormatIndicator PropertyID = 0x01
	PropMessageExpiryInterval  PropertyID = 0x02
	PropContentType            PropertyID = 0x03
	PropResponseTopic          PropertyID = 0x08
	PropCorrelationData        PropertyID = 0x09
	PropSubscriptionIdentifier PropertyID = 0x0B
	PropSessionExpiryInterval  PropertyID = 0x11
	PropAssignedClientID       PropertyID = 0x12
	PropServerKeepAlive        PropertyID = 0x13
	PropAuthenticationMethod   PropertyID = 0x15
	PropAuthenticationData     PropertyID = 0x16
	PropRequestProblemInfo     PropertyID = 0x17
	PropWillDelayInterval      PropertyID = 0x18
	PropRequestResponseInfo    PropertyID = 0x19
	PropResponseInfo           PropertyID = 0x1A
	PropServerReference        PropertyID = 0x1C
	PropReasonString           PropertyID = 0x1F
	PropReceiveMaximum         PropertyID = 0x21
	PropTopicAliasMaximum      PropertyID = 0x22
	PropTopicAlias             PropertyID = 0x23
	PropMaximumQoS             PropertyID = 0x24
	PropRetainAvailable        PropertyID = 0x25
	PropUserProperty           PropertyID = 0x26
	PropMaximumPacketSize      PropertyID = 0x27
	PropWildcardSubAvailable   PropertyID = 0x28
	PropSubIDAvailable         PropertyID = 0x29
	PropSharedSubAvailable     PropertyID = 0x2A
)

// Property is one decoded MQTT 5.0 property. The concrete types below are
// the full set of variants; Write encodes the identifier and value, and
// returns 0 bytes when the value equals its protocol default, so callers
// can unconditionally write every property a packet carries.
type Property interface {
	ID() PropertyID
	Write(w io.Writer) (int, error)
}

// writePropertyHeader writes the variable byte integer property identifier.
func writePropertyHeader(w io.Writer, id PropertyID) (int, error) {
	return WriteVarInt(w, uint32(id))
}

// PayloadFormatIndicator states whether a Publish payload is UTF-8 text.
type PayloadFormatIndicator bool

func (PayloadFormatIndicator) ID() PropertyID { return PropPayloadFormatIndicator }

func (p PayloadFormatIndicator) Write(w io.Writer) (int, error) {
	if bool(p) == DefaultPayloadFormatIndicator {
		return 0, nil
	}
	return writeBoolProperty(w, PropPayloadFormatIndicator, bool(p))
}

// MessageExpiryInterval is the lifetime of a Publish message in seconds.
type MessageExpiryInterval uint32

func (MessageExpiryInterval) ID() PropertyID { return PropMessageExpiryInterval }

func (p MessageExpiryInterval) Write(w io.Writer) (int, error) {
	if p == 0 {
		return 0, nil
	}
	return writeUint32Property(w, PropMessageExpiryInterval, uint32(p))
}

// ContentType describes the format of a Publish payload.
type ContentType string

func (ContentType) ID() PropertyID { return PropContentType }

func (p ContentType) Write(w io.Writer) (int, error) {
	if p == "" {
		return 0, nil
	}
	return writeStringProperty(w, PropContentType, string(p))
}

// ResponseTopic is the topic a request/response responder should publish to.
type ResponseTopic string

func (ResponseTopic) ID() PropertyID { return PropResponseTopic }

func (p ResponseTopic) Write(w io.Writer) (int, error) {
	if p == "" {
		return 0, nil
	}
	return writeStringProperty(w, PropResponseTopic, string(p))
}

// CorrelationData lets a requester match a response to its request.
type CorrelationData []byte

func (CorrelationData) ID() PropertyID { return PropCorrelationData }

func (p CorrelationData) Write(w io.Writer) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return writeBinaryProperty(w, PropCorrelationData, p)
}

// SubscriptionIdentifier tags a Publish with the subscription that matched
// it. A Publish may carry several; zero is not a legal value.
type SubscriptionIdentifier uint32

func (SubscriptionIdentifier) ID() PropertyID { return PropSubscriptionIdentifier }

func (p SubscriptionIdentifier) Write(w io.Writer) (int, error) {
	if p == 0 {
		return 0, fmt.Errorf("%w: subscription identifier must not be zero", ErrProtocolError)
	}
	n, err := writePropertyHeader(w, PropSubscriptionIdentifier)
	if err != nil {
		return n, err
	}
	m, err := WriteVarInt(w, uint32(p))
	return n + m, err
}

// SessionExpiryInterval is how long the session outlives the connection,
// in seconds.
type SessionExpiryInterval uint32

func (SessionExpiryInterval) ID() PropertyID { return PropSessionExpiryInterval }

func (p SessionExpiryInterval) Write(w io.Writer) (int, error) {
	if uint32(p) == DefaultSessionExpiryInterval {
		return 0, nil
	}
	return writeUint32Property(w, PropSessionExpiryInterval, uint32(p))
}

// AssignedClientID is the client identifier the server chose for a client
// that connected without one.
type AssignedClientID string

func (AssignedClientID) ID() PropertyID { return PropAssignedClientID }

func (p AssignedClientID) Write(w io.Writer) (int, error) {
	if p == "" {
		return 0, nil
	}
	return writeStringProperty(w, PropAssignedClientID, string(p))
}

// ServerKeepAlive overrides the keep alive the client asked for.
type ServerKeepAlive uint16

func (ServerKeepAlive) ID() PropertyID { return PropServerKeepAlive }

func (p ServerKeepAlive) Write(w io.Writer) (int, error) {
	if p == 0 {
		return 0, nil
	}
	return writeUint16Property(w, PropServerKeepAlive, uint16(p))
}

// AuthenticationMethod names the extended authentication mechanism in use.
type AuthenticationMethod string

func (AuthenticationMethod) ID() PropertyID { return PropAuthenticationMethod }

func (p AuthenticationMethod) Write(w io.Writer) (int, error) {
	if p == "" {
		return 0, nil
	}
	return writeStringProperty(w, PropAuthenticationMethod, string(p))
}

// AuthenticationData carries mechanism-specific authentication bytes.
type AuthenticationData []byte

func (AuthenticationData) ID() PropertyID { return PropAuthenticationData }

func (p AuthenticationData) Write(w io.Writer) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return writeBinaryProperty(w, PropAuthenticationData, p)
}

// RequestProblemInfo asks the server to include reason strings and user
// properties on failures.
type RequestProblemInfo bool

func (RequestProblemInfo) ID() PropertyID { return PropRequestProblemInfo }

func (p RequestProblemInfo) Write(w io.Writer) (int, error) {
	if bool(p) == DefaultRequestProblemInfo {
		return 0, nil
	}
	return writeBoolProperty(w, PropRequestProblemInfo, bool(p))
}

// WillDelayInterval delays publication of the Will Message, in seconds.
type WillDelayInterval uint32

func (WillDelayInterval) ID() PropertyID { return PropWillDelayInterval }

func (p WillDelayInterval) Write(w io.Writer) (int, error) {
	if uint32(p) == DefaultWillDelayInterval {
		return 0, nil
	}
	return writeUint32Property(w, PropWillDelayInterval, uint32(p))
}

// RequestResponseInfo asks the server for response information in Connack.
type RequestResponseInfo bool

func (RequestResponseInfo) ID() PropertyID { return PropRequestResponseInfo }

func (p RequestResponseInfo) Write(w io.Writer) (int, error) {
	if bool(p) == DefaultRequestResponseInfo {
		return 0, nil
	}
	return writeBoolProperty(w, PropRequestResponseInfo, bool(p))
}

// ResponseInfo is the basis a client uses to build response topics.
type ResponseInfo string

func (ResponseInfo) ID() PropertyID { return PropResponseInfo }

func (p ResponseInfo) Write(w io.Writer) (int, error) {
	if p == "" {
		return 0, nil
	}
	return writeStringProperty(w, PropResponseInfo, string(p))
}

// ServerReference names another server the client should use.
type ServerReference string

func (ServerReference) ID() PropertyID { return PropServerReference }

func (p ServerReference) Write(w io.Writer) (int, error) {
	if p == "" {
		return 0, nil
	}
	return writeStringProperty(w, PropServerReference, string(p))
}

// ReasonString is a human readable elaboration of a reason code.
type ReasonString string

func (ReasonString) ID() PropertyID { return PropReasonString }

func (p ReasonString) Write(w io.Writer) (int, error) {
	if p == "" {
		return 0, nil
	}
	return writeStringProperty(w, PropReasonString, string(p))
}

// ReceiveMaximum limits the number of in-flight QoS 1 and 2 messages.
// Zero is not a legal value.
type ReceiveMaximum uint16

func (ReceiveMaximum) ID() PropertyID { return PropReceiveMaximum }

func (p ReceiveMaximum) Write(w io.Writer) (int, error) {
	if p == 0 {
		return 0, fmt.Errorf("%w: receive maximum must not be zero", ErrMalformedPacket)
	}
	if uint16(p) == DefaultReceiveMaximum {
		return 0, nil
	}
	return writeUint16Property(w, PropReceiveMaximum, uint16(p))
}

// TopicAliasMaximum is the highest topic alias the sender will accept.
type TopicAliasMaximum uint16

func (TopicAliasMaximum) ID() PropertyID { return PropTopicAliasMaximum }

func (p TopicAliasMaximum) Write(w io.Writer) (int, error) {
	if uint16(p) == DefaultTopicAliasMaximum {
		return 0, nil
	}
	return writeUint16Property(w, PropTopicAliasMaximum, uint16(p))
}

// TopicAlias stands in for the topic name of a Publish.
type TopicAlias uint16

func (TopicAlias) ID() PropertyID { return PropTopicAlias }

func (p TopicAlias) Write(w io.Writer) (int, error) {
	if p == 0 {
		return 0, nil
	}
	return writeUint16Property(w, PropTopicAlias, uint16(p))
}

// MaximumQoS is the highest QoS the server supports.
type MaximumQoS QoS

func (MaximumQoS) ID() PropertyID { return PropMaximumQoS }

func (p MaximumQoS) Write(w io.Writer) (int, error) {
	if QoS(p) == DefaultMaximumQoS {
		return 0, nil
	}
	n, err := writePropertyHeader(w, PropMaximumQoS)
	if err != nil {
		return n, err
	}
	m, err := WriteByte(w, byte(p))
	return n + m, err
}

// RetainAvailable states whether the server supports retained messages.
type RetainAvailable bool

func (RetainAvailable) ID() PropertyID { return PropRetainAvailable }

func (p RetainAvailable) Write(w io.Writer) (int, error) {
	if bool(p) == DefaultRetainAvailable {
		return 0, nil
	}
	return writeBoolProperty(w, PropRetainAvailable, bool(p))
}

// UserProperty is an application defined name/value pair. Unlike the
// other properties it may appear any number of times and is always
// encoded, even with empty strings.
type UserProperty struct {
	Name  string
	Value string
}

func (UserProperty) ID() PropertyID { return PropUserProperty }

func (p UserProperty) Write(w io.Writer) (int, error) {
	n, err := writePropertyHeader(w, PropUserProperty)
	if err != nil {
		return n, err
	}
	m, err := WriteString(w, p.Name)
	if err != nil {
		return n + m, err
	}
	k, err := WriteString(w, p.Value)
	return n + m + k, err
}

// MaximumPacketSize is the largest packet the sender will accept, in bytes.
type MaximumPacketSize uint32

func (MaximumPacketSize) ID() PropertyID { return PropMaximumPacketSize }

func (p MaximumPacketSize) Write(w io.Writer) (int, error) {
	if p == 0 {
		return 0, nil
	}
	return writeUint32Property(w, PropMaximumPacketSize, uint32(p))
}

// WildcardSubAvailable states whether wildcard subscriptions are supported.
type WildcardSubAvailable bool

func (WildcardSubAvailable) ID() PropertyID { return PropWildcardSubAvailable }

func (p WildcardSubAvailable) Write(w io.Writer) (int, error) {
	if bool(p) == DefaultWildcardSubAvailable {
		return 0, nil
	}
	return writeBoolProperty(w, PropWildcardSubAvailable, bool(p))
}

// SubIDAvailable states whether subscription identifiers are supported.
type SubIDAvailable bool

func (SubIDAvailable) ID() PropertyID { return PropSubIDAvailable }

func (p SubIDAvailable) Write(w io.Writer) (int, error) {
	if bool(p) == DefaultSubIDAvailable {
		return 0, nil
	}
	return writeBoolProperty(w, PropSubIDAvailable, bool(p))
}

// SharedSubAvailable states whether shared subscriptions are supported.
type SharedSubAvailable bool

func (SharedSubAvailable) ID() PropertyID { return PropSharedSubAvailable }

func (p SharedSubAvailable) Write(w io.Writer) (int, error) {
	if bool(p) == DefaultSharedSubAvailable {
		return 0, nil
	}
	return writeBoolProperty(w, PropSharedSubAvailable, bool(p))
}

func writeBoolProperty(w io.Writer, id PropertyID, v bool) (int, error) {
	n, err := writePropertyHeader(w, id)
	if err != nil {
		return n, err
	}
	m, err := WriteBool(w, v)
	return n + m, err
}

func writeUint16Property(w io.Writer, id PropertyID, v uint16) (int, error) {
	n, err := writePropertyHeader(w, id)
	if err != nil {
		return n, err
	}
	m, err := WriteUint16(w, v)
	return n + m, err
}

func writeUint32Property(w io.Writer, id PropertyID, v uint32) (int, error) {
	n, err := writePropertyHeader(w, id)
	if err != nil {
		return n, err
	}
	m, err := WriteUint32(w, v)
	return n + m, err
}

func writeStringProperty(w io.Writer, id PropertyID, v string) (int, error) {
	n, err := writePropertyHeader(w, id)
	if err != nil {
		return n, err
	}
	m, err := WriteString(w, v)
	return n + m, err
}

func writeBinaryProperty(w io.Writer, id PropertyID, v []byte) (int, error) {
	n, err := writePropertyHeader(w, id)
	if err != nil {
		return n, err
	}
	m, err := WriteBinary(w, v)
	return n + m, err
}

// WriteProperties stages the given properties and writes them as one
// length-prefixed properties region. Properties holding their default
// value contribute nothing, so the region length reflects only what is
// actually encoded.
func WriteProperties(w io.Writer, props ...Property) (int, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	for _, p := range props {
		if _, err := p.Write(buf); err != nil {
			return 0, err
		}
	}

	n, err := WriteVarInt(w, uint32(buf.Len()))
	if err != nil {
		return n, err
	}
	m, err := w.Write(buf.Bytes())
	return n + m, err
}

// PropertiesDecoder reads one properties region. It consumes the region's
// length prefix up front and then hands back one decoded Property per
// Read call until the region is exhausted, rejecting duplicates of
// properties that may appear at most once.
type PropertiesDecoder struct {
	r    io.LimitedReader
	seen map[PropertyID]struct{}
}

// TakeProperties reads the length prefix of a properties region from r
// and returns a decoder bounded to that many bytes.
func TakeProperties(r io.Reader) (*PropertiesDecoder, error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &PropertiesDecoder{
		r:    io.LimitedReader{R: r, N: int64(length)},
		seen: make(map[PropertyID]struct{}),
	}, nil
}

// HasProperties returns true while the region has bytes left to decode.
func (d *PropertiesDecoder) HasProperties() bool {
	return d.r.N > 0
}

// Read decodes the next property in the region. A property other than
// UserProperty or SubscriptionIdentifier appearing twice is a protocol
// error.
func (d *PropertiesDecoder) Read() (Property, error) {
	rawID, err := ReadVarInt(&d.r)
	if err != nil {
		return nil, err
	}
	id := PropertyID(rawID)

	if id != PropUserProperty && id != PropSubscriptionIdentifier {
		if _, dup := d.seen[id]; dup {
			return nil, fmt.Errorf("%w: 0x%02X", ErrDuplicateProperty, byte(id))
		}
		d.seen[id] = struct{}{}
	}

	switch id {
	case PropPayloadFormatIndicator:
		v, err := ReadBool(&d.r)
		return PayloadFormatIndicator(v), err
	case PropMessageExpiryInterval:
		v, err := ReadUint32(&d.r)
		return MessageExpiryInterval(v), err
	case PropContentType:
		v, err := ReadString(&d.r)
		return ContentType(v), err
	case PropResponseTopic:
		v, err := ReadString(&d.r)
		return ResponseTopic(v), err
	case PropCorrelationData:
		v, err := ReadBinary(&d.r)
		return CorrelationData(v), err
	case PropSubscriptionIdentifier:
		v, err := ReadVarInt(&d.r)
		if err != nil {
			return nil, err
		}
		if v == 0 {
			return nil, fmt.Errorf("%w: subscription identifier must not be zero", ErrProtocolError)
		}
		return SubscriptionIdentifier(v), nil
	case PropSessionExpiryInterval:
		v, err := ReadUint32(&d.r)
		return SessionExpiryInterval(v), err
	case PropAssignedClientID:
		v, err := ReadString(&d.r)
		return AssignedClientID(v), err
	case PropServerKeepAlive:
		v, err := ReadUint16(&d.r)
		return ServerKeepAlive(v), err
	case PropAuthenticationMethod:
		v, err := ReadString(&d.r)
		return AuthenticationMethod(v), err
	case PropAuthenticationData:
		v, err := ReadBinary(&d.r)
		return AuthenticationData(v), err
	case PropRequestProblemInfo:
		v, err := ReadBool(&d.r)
		return RequestProblemInfo(v), err
	case PropWillDelayInterval:
		v, err := ReadUint32(&d.r)
		return WillDelayInterval(v), err
	case PropRequestResponseInfo:
		v, err := ReadBool(&d.r)
		return RequestResponseInfo(v), err
	case PropResponseInfo:
		v, err := ReadString(&d.r)
		return ResponseInfo(v), err
	case PropServerReference:
		v, err := ReadString(&d.r)
		return ServerReference(v), err
	case PropReasonString:
		v, err := ReadString(&d.r)
		return ReasonString(v), err
	case PropReceiveMaximum:
		v, err := ReadUint16(&d.r)
		if err != nil {
			return nil, err
		}
		if v == 0 {
			return nil, fmt.Errorf("%w: receive maximum must not be zero", ErrMalformedPacket)
		}
		return ReceiveMaximum(v), nil
	case PropTopicAliasMaximum:
		v, err := ReadUint16(&d.r)
		return TopicAliasMaximum(v), err
	case PropTopicAlias:
		v, err := ReadUint16(&d.r)
		return TopicAlias(v), err
	case PropMaximumQoS:
		b, err := ReadByte(&d.r)
		if err != nil {
			return nil, err
		}
		q := QoS(b)
		if !q.Valid() {
			return nil, ErrInvalidQoS
		}
		return MaximumQoS(q), nil
	case PropRetainAvailable:
		v, err := ReadBool(&d.r)
		return RetainAvailable(v), err
	case PropUserProperty:
		name, err := ReadString(&d.r)
		if err != nil {
			return nil, err
		}
		value, err := ReadString(&d.r)
		if err != nil {
			return nil, err
		}
		return UserProperty{Name: name, Value: value}, nil
	case PropMaximumPacketSize:
		v, err := ReadUint32(&d.r)
		return MaximumPacketSize(v), err
	case PropWildcardSubAvailable:
		v, err := ReadBool(&d.r)
		return WildcardSubAvailable(v), err
	case PropSubIDAvailable:
		v, err := ReadBool(&d.r)
		return SubIDAvailable(v), err
	case PropSharedSubAvailable:
		v, err := ReadBool(&d.r)
		return SharedSubAvailable(v), err
	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrInvalidPropertyID, byte(rawID))
	}
}
