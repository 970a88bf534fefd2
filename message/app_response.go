package message

import (
	"fmt"

	prt "github.com/abcfe/avax-types/protocol"
)

// AppResponse is sent from the VM in response to an AppRequest.
type AppResponse struct {
	ChainID   prt.ID
	RequestID uint32
	AppBytes  []byte
}

func NewAppResponse(chainID prt.ID, requestID uint32, appBytes []byte) *AppResponse {
	return &AppResponse{ChainID: chainID, RequestID: requestID, AppBytes: appBytes}
}

func (m *AppResponse) Op() string { return OpAppResponse }

func (m *AppResponse) Compressible() bool { return false }

func (m *AppResponse) String() string {
	return fmt.Sprintf("msg app_response (chain %s, request %d, %d bytes)", m.ChainID, m.RequestID, len(m.AppBytes))
}

func (m *AppResponse) SerializeWithHeader() ([]byte, error) {
	w := newWriter(m.Op(), m.Compressible())
	w.fixed(m.ChainID[:])
	w.u32(m.RequestID)
	w.bytes(m.AppBytes)
	return w.take()
}
