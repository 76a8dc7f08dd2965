package packet

import (
	"fmt"
	"io"
)

// Authentication bundles the extended authentication method with its
// mechanism-specific data. It appears in Connect, Connack and Auth packets.
type Authentication struct {
	Method string
	Data   []byte
}

func (a Authentication) properties() []Property {
	return []Property{
		AuthenticationMethod(a.Method),
		AuthenticationData(a.Data),
	}
}

// Auth is the AUTH packet, exchanged after Connect to carry the steps of
// an extended authentication handshake. It must always name the
// authentication method.
// MQTT 5.0 Section 3.15
type Auth struct {
	ReasonCode     ReasonCode
	Authentication Authentication
	ReasonString   string
	UserProperties []UserProperty
}

// Type returns TypeAuth.
func (p *Auth) Type() Type { return TypeAuth }

func (p *Auth) flags() byte { return 0 }

// Write encodes the AUTH variable header: reason code followed by the
// properties region.
func (p *Auth) Write(w io.Writer) (int, error) {
	if p.Authentication.Method == "" {
		return 0, ErrMissingAuthMethod
	}

	n, err := p.ReasonCode.Write(w)
	if err != nil {
		return n, err
	}

	props := p.Authentication.properties()
	props = append(props, ReasonString(p.ReasonString))
	for _, u := range p.UserProperties {
		props = append(props, u)
	}

	m, err := WriteProperties(w, props...)
	return n + m, err
}

// ReadAuth decodes an AUTH packet body. An AUTH packet that does not
// carry an Authentication Method property is a protocol error.
func ReadAuth(r io.Reader) (*Auth, error) {
	code, err := ReadReasonCode(r, TypeAuth)
	if err != nil {
		return nil, err
	}

	auth := Auth{ReasonCode: code}

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
		case AuthenticationMethod:
			auth.Authentication.Method = string(v)
		case AuthenticationData:
			auth.Authentication.Data = []byte(v)
		case ReasonString:
			auth.ReasonString = string(v)
		case UserProperty:
			auth.UserProperties = append(auth.UserProperties, v)
		default:
			return nil, fmt.Errorf("%w: 0x%02X in AUTH", ErrUnexpectedProperty, byte(prop.ID()))
		}
	}

	if auth.Authentication.Method == "" {
		return nil, ErrMissingAuthMethod
	}
	return &auth, nil
}
