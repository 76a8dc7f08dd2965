package packet

import (
	"fmt"
	"io"
)

// ReasonCode represents an MQTT 5.0 reason code.
// Reason codes less than 0x80 indicate success, 0x80 or greater indicate failure.
// MQTT 5.0 Section 2.4
type ReasonCode byte

// Success reason codes (< 0x80)
const (
	ReasonSuccess              ReasonCode = 0x00 // Success / Normal disconnection / Granted QoS 0
	ReasonGrantedQoS1          ReasonCode = 0x01 // Granted QoS 1
	ReasonGrantedQoS2          ReasonCode = 0x02 // Granted QoS 2
	ReasonDisconnectWithWill   ReasonCode = 0x04 // Disconnect with Will Message
	ReasonNoMatchingSubscriber ReasonCode = 0x10 // No matching subscribers
	ReasonNoSubscriptionExist  ReasonCode = 0x11 // No subscription existed
	ReasonContinueAuth         ReasonCode = 0x18 // Continue authentication
	ReasonReAuthenticate       ReasonCode = 0x19 // Re-authenticate
)

// Error reason codes (>= 0x80)
const (
	ReasonUnspecifiedError           ReasonCode = 0x80 // Unspecified error
	ReasonMalformedPacket            ReasonCode = 0x81 // Malformed Packet
	ReasonProtocolError              ReasonCode = 0x82 // Protocol Error
	ReasonImplSpecificError          ReasonCode = 0x83 // Implementation specific error
	ReasonUnsupportedProtocolVersion ReasonCode = 0x84 // Unsupported Protocol Version
	ReasonClientIDNotValid           ReasonCode = 0x85 // Client Identifier not valid
	ReasonBadUserNameOrPassword      ReasonCode = 0x86 // Bad User Name or Password
	ReasonNotAuthorized              ReasonCode = 0x87 // Not authorized
	ReasonServerUnavailable          ReasonCode = 0x88 // Server unavailable
	ReasonServerBusy                 ReasonCode = 0x89 // Server busy
	ReasonBanned                     ReasonCode = 0x8A // Banned
	ReasonServerShuttingDown         ReasonCode = 0x8B // Server shutting down
	ReasonBadAuthMethod              ReasonCode = 0x8C // Bad authentication method
	ReasonKeepAliveTimeout           ReasonCode = 0x8D // Keep Alive timeout
	ReasonSessionTakenOver           ReasonCode = 0x8E // Session taken over
	ReasonTopicFilterInvalid         ReasonCode = 0x8F // Topic Filter invalid
	ReasonTopicNameInvalid           ReasonCode = 0x90 // Topic Name invalid
	ReasonPacketIDInUse              ReasonCode = 0x91 // Packet Identifier in use
	ReasonPacketIDNotFound           ReasonCode = 0x92 // Packet Identifier not found
	ReasonReceiveMaxExceeded         ReasonCode = 0x93 // Receive Maximum exceeded
	ReasonTopicAliasInvalid          ReasonCode = 0x94 // Topic Alias invalid
	ReasonPacketTooLarge             ReasonCode = 0x95 // Packet too large
	ReasonMessageRateTooHigh         ReasonCode = 0x96 // Message rate too high
	ReasonQuotaExceeded              ReasonCode = 0x97 // Quota exceeded
	ReasonAdminAction                ReasonCode = 0x98 // Administrative action
	ReasonPayloadFormatInvalid       ReasonCode = 0x99 // Payload format invalid
	ReasonRetainNotSupported         ReasonCode = 0x9A // Retain not supported
	ReasonQoSNotSupported            ReasonCode = 0x9B // QoS not supported
	ReasonUseAnotherServer           ReasonCode = 0x9C // Use another server
	ReasonServerMoved                ReasonCode = 0x9D // Server moved
	ReasonSharedSubsNotSupported     ReasonCode = 0x9E // Shared Subscriptions not supported
	ReasonConnectionRateExceeded     ReasonCode = 0x9F // Connection rate exceeded
	ReasonMaxConnectTime             ReasonCode = 0xA0 // Maximum connect time
	ReasonSubIDsNotSupported         ReasonCode = 0xA1 // Subscription Identifiers not supported
	ReasonWildcardSubsNotSupported   ReasonCode = 0xA2 // Wildcard Subscriptions not supported
)

// validReasonCodes indicates which reason codes are legal in which packet
// types, per the reason code tables of MQTT 5.0 Sections 3.2-3.15.
var validReasonCodes = map[ReasonCode]map[Type]bool{
	ReasonSuccess:                    {TypeConnack: true, TypePuback: true, TypePubrec: true, TypePubrel: true, TypePubcomp: true, TypeSuback: true, TypeUnsuback: true, TypeDisconnect: true, TypeAuth: true},
	ReasonGrantedQoS1:                {TypeSuback: true},
	ReasonGrantedQoS2:                {TypeSuback: true},
	ReasonDisconnectWithWill:         {TypeDisconnect: true},
	ReasonNoMatchingSubscriber:       {TypePuback: true, TypePubrec: true},
	ReasonNoSubscriptionExist:        {TypeUnsuback: true},
	ReasonContinueAuth:               {TypeAuth: true},
	ReasonReAuthenticate:             {TypeAuth: true},
	ReasonUnspecifiedError:           {TypeConnack: true, TypePuback: true, TypePubrec: true, TypeSuback: true, TypeUnsuback: true, TypeDisconnect: true},
	ReasonMalformedPacket:            {TypeConnack: true, TypeDisconnect: true},
	ReasonProtocolError:              {TypeConnack: true, TypeDisconnect: true},
	ReasonImplSpecificError:          {TypeConnack: true, TypePuback: true, TypePubrec: true, TypeSuback: true, TypeUnsuback: true, TypeDisconnect: true},
	ReasonUnsupportedProtocolVersion: {TypeConnack: true},
	ReasonClientIDNotValid:           {TypeConnack: true},
	ReasonBadUserNameOrPassword:      {TypeConnack: true},
	ReasonNotAuthorized:              {TypeConnack: true, TypePuback: true, TypePubrec: true, TypeSuback: true, TypeUnsuback: true, TypeDisconnect: true},
	ReasonServerUnavailable:          {TypeConnack: true},
	ReasonServerBusy:                 {TypeConnack: true, TypeDisconnect: true},
	ReasonBanned:                     {TypeConnack: true},
	ReasonServerShuttingDown:         {TypeDisconnect: true},
	ReasonBadAuthMethod:              {TypeConnack: true, TypeDisconnect: true},
	ReasonKeepAliveTimeout:           {TypeDisconnect: true},
	ReasonSessionTakenOver:           {TypeDisconnect: true},
	ReasonTopicFilterInvalid:         {TypeSuback: true, TypeUnsuback: true, TypeDisconnect: true},
	ReasonTopicNameInvalid:           {TypeConnack: true, TypePuback: true, TypePubrec: true, TypeDisconnect: true},
	ReasonPacketIDInUse:              {TypePuback: true, TypePubrec: true, TypeSuback: true, TypeUnsuback: true},
	ReasonPacketIDNotFound:           {TypePubrel: true, TypePubcomp: true},
	ReasonReceiveMaxExceeded:         {TypeDisconnect: true},
	ReasonTopicAliasInvalid:          {TypeDisconnect: true},
	ReasonPacketTooLarge:             {TypeConnack: true, TypeDisconnect: true},
	ReasonMessageRateTooHigh:         {TypeDisconnect: true},
	ReasonQuotaExceeded:              {TypeConnack: true, TypePuback: true, TypePubrec: true, TypeSuback: true, TypeDisconnect: true},
	ReasonAdminAction:                {TypeDisconnect: true},
	ReasonPayloadFormatInvalid:       {TypeConnack: true, TypePuback: true, TypePubrec: true, TypeDisconnect: true},
	ReasonRetainNotSupported:         {TypeConnack: true, TypeDisconnect: true},
	ReasonQoSNotSupported:            {TypeConnack: true, TypeDisconnect: true},
	ReasonUseAnotherServer:           {TypeConnack: true, TypeDisconnect: true},
	ReasonServerMoved:                {TypeConnack: true, TypeDisconnect: true},
	ReasonSharedSubsNotSupported:     {TypeSuback: true, TypeDisconnect: true},
	ReasonConnectionRateExceeded:     {TypeConnack: true, TypeDisconnect: true},
	ReasonMaxConnectTime:             {TypeDisconnect: true},
	ReasonSubIDsNotSupported:         {TypeSuback: true, TypeDisconnect: true},
	ReasonWildcardSubsNotSupported:   {TypeSuback: true, TypeDisconnect: true},
}

// Valid returns true if the reason code is legal in the given packet type.
func (r ReasonCode) Valid(t Type) bool {
	return validReasonCodes[r][t]
}

// ParseReasonCode validates a raw byte as a reason code for the given
// packet type.
func ParseReasonCode(b byte, t Type) (ReasonCode, error) {
	code := ReasonCode(b)
	if !code.Valid(t) {
		return 0, fmt.Errorf("%w: 0x%02X in %s", ErrInvalidReasonCode, b, t)
	}
	return code, nil
}

// ReadReasonCode reads one byte from r and validates it for the given
// packet type.
func ReadReasonCode(r io.Reader, t Type) (ReasonCode, error) {
	b, err := ReadByte(r)
	if err != nil {
		return 0, err
	}
	return ParseReasonCode(b, t)
}

// Write writes the reason code as a single byte.
func (r ReasonCode) Write(w io.Writer) (int, error) {
	return WriteByte(w, byte(r))
}

// IsSuccess returns true if the reason code indicates success.
func (r ReasonCode) IsSuccess() bool {
	return r < 0x80
}

// IsError returns true if the reason code indicates an error.
func (r ReasonCode) IsError() bool {
	return r >= 0x80
}

// String returns the string representation of the reason code.
func (r ReasonCode) String() string {
	switch r {
	case ReasonSuccess:
		return "Success"
	case ReasonGrantedQoS1:
		return "Granted QoS 1"
	case ReasonGrantedQoS2:
		return "Granted QoS 2"
	case ReasonDisconnectWithWill:
		return "Disconnect with Will Message"
	case ReasonNoMatchingSubscriber:
		return "No matching subscribers"
	case ReasonNoSubscriptionExist:
		return "No subscription existed"
	case ReasonContinueAuth:
		return "Continue authentication"
	case ReasonReAuthenticate:
		return "Re-authenticate"
	case ReasonUnspecifiedError:
		return "Unspecified error"
	case ReasonMalformedPacket:
		return "Malformed Packet"
	case ReasonProtocolError:
		return "Protocol Error"
	case ReasonImplSpecificError:
		return "Implementation specific error"
	case ReasonUnsupportedProtocolVersion:
		return "Unsupported Protocol Version"
	case ReasonClientIDNotValid:
		return "Client Identifier not valid"
	case ReasonBadUserNameOrPassword:
		return "Bad User Name or Password"
	case ReasonNotAuthorized:
		return "Not authorized"
	case ReasonServerUnavailable:
		return "Server unavailable"
	case ReasonServerBusy:
		return "Server busy"
	case ReasonBanned:
		return "Banned"
	case ReasonServerShuttingDown:
		return "Server shutting down"
	case ReasonBadAuthMethod:
		return "Bad authentication method"
	case ReasonKeepAliveTimeout:
		return "Keep Alive timeout"
	case ReasonSessionTakenOver:
		return "Session taken over"
	case ReasonTopicFilterInvalid:
		return "Topic Filter invalid"
	case ReasonTopicNameInvalid:
		return "Topic Name invalid"
	case ReasonPacketIDInUse:
		return "Packet Identifier in use"
	case ReasonPacketIDNotFound:
		return "Packet Identifier not found"
	case ReasonReceiveMaxExceeded:
		return "Receive Maximum exceeded"
	case ReasonTopicAliasInvalid:
		return "Topic Alias invalid"
	case ReasonPacketTooLarge:
		return "Packet too large"
	case ReasonMessageRateTooHigh:
		return "Message rate too high"
	case ReasonQuotaExceeded:
		return "Quota exceeded"
	case ReasonAdminAction:
		return "Administrative action"
	case ReasonPayloadFormatInvalid:
		return "Payload format invalid"
	case ReasonRetainNotSupported:
		return "Retain not supported"
	case ReasonQoSNotSupported:
		return "QoS not supported"
	case ReasonUseAnotherServer:
		return "Use another server"
	case ReasonServerMoved:
		return "Server moved"
	case ReasonSharedSubsNotSupported:
		return "Shared Subscriptions not supported"
	case ReasonConnectionRateExceeded:
		return "Connection rate exceeded"
	case ReasonMaxConnectTime:
		return "Maximum connect time"
	case ReasonSubIDsNotSupported:
		return "Subscription Identifiers not supported"
	case ReasonWildcardSubsNotSupported:
		return "Wildcard Subscriptions not supported"
	default:
		return "Unknown reason code"
	}
}
