package packet

// Default property values from MQTT 5.0 Section 3.1.2.11 and 3.2.2.3.
// A property equal to its default is elided on encode; a region lacking
// it decodes to the default.
const (
	DefaultPayloadFormatIndicator         = false
	DefaultSessionExpiryInterval   uint32 = 0
	DefaultReceiveMaximum          uint16 = 65535
	DefaultMaximumQoS                     = QoS2
	DefaultRetainAvailable                = true
	DefaultTopicAliasMaximum       uint16 = 0
	DefaultRequestResponseInfo            = false
	DefaultRequestProblemInfo             = true
	DefaultWillDelayInterval       uint32 = 0
	DefaultWildcardSubAvailable           = true
	DefaultSubIDAvailable                 = true
	DefaultSharedSubAvailable             = true
)
