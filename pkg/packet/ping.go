package packet

import "io"

// Pingreq is the PINGREQ packet. It has no body.
// MQTT 5.0 Section 3.12
type Pingreq struct{}

// Type returns TypePingreq.
func (p *Pingreq) Type() Type { return TypePingreq }

func (p *Pingreq) flags() byte { return 0 }

// Write encodes the empty PINGREQ body.
func (p *Pingreq) Write(w io.Writer) (int, error) { return 0, nil }

// Pingresp is the PINGRESP packet. It has no body.
// MQTT 5.0 Section 3.13
type Pingresp struct{}

// Type returns TypePingresp.
func (p *Pingresp) Type() Type { return TypePingresp }

func (p *Pingresp) flags() byte { return 0 }

// Write encodes the empty PINGRESP body.
func (p *Pingresp) Write(w io.Writer) (int, error) { return 0, nil }
