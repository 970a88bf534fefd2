package protocol

const (
	// Key info related prefixes
	PrefixKeyInfo = "key:info:" // key:info:EthAddress(hex) = Key info json
	PrefixKeyRef  = "key:ref:"  // key:ref:KeyID = EthAddress(hex)
)
