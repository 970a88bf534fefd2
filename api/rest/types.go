package rest

// General response structure
type RestResp struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Service status response
type StatusResp struct {
	NetworkID uint32   `json:"networkId"`
	HRP       string   `json:"hrp"`
	Signers   []string `json:"signers"`
}

// Address parse response
type AddressResp struct {
	Address   string `json:"address"`
	ChainHRP  string `json:"hrp,omitempty"`
	ShortID   string `json:"shortId,omitempty"`
	ShortHex  string `json:"shortHex,omitempty"`
	EthFormat string `json:"ethAddress,omitempty"` // EIP-55 form for hex input
}

// Message encode request
type EncodeMsgReq struct {
	Op        string `json:"op"`
	ChainID   string `json:"chainId"` // cb58, empty means the zero id
	RequestID uint32 `json:"requestId"`
	Deadline  string `json:"deadline"` // Go duration, e.g. "2s"
	Payload   string `json:"payload"`  // hex
}

// Message encode response
type EncodeMsgResp struct {
	Op      string `json:"op"`
	Display string `json:"display"`
	Bytes   string `json:"bytes"` // hex, length header included
}
