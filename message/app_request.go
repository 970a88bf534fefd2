package message

import (
	"fmt"
	"time"

	prt "github.com/abcfe/avax-types/protocol"
)

// AppRequest carries an application-defined request to a peer's VM.
// Deadline is the time the sender is willing to wait, in nanoseconds.
type AppRequest struct {
	ChainID   prt.ID
	RequestID uint32
	Deadline  uint64
	AppBytes  []byte
}

func NewAppRequest(chainID prt.ID, requestID uint32, deadline time.Duration, appBytes []byte) *AppRequest {
	return &AppRequest{
		ChainID:   chainID,
		RequestID: requestID,
		Deadline:  uint64(deadline),
		AppBytes:  appBytes,
	}
}

func (m *AppRequest) Op() string { return OpAppRequest }

func (m *AppRequest) Compressible() bool { return false }

func (m *AppRequest) String() string {
	return fmt.Sprintf("msg app_request (chain %s, request %d, deadline %s, %d bytes)",
		m.ChainID, m.RequestID, time.Duration(m.Deadline), len(m.AppBytes))
}

func (m *AppRequest) SerializeWithHeader() ([]byte, error) {
	w := newWriter(m.Op(), m.Compressible())
	w.fixed(m.ChainID[:])
	w.u32(m.RequestID)
	w.u64(m.Deadline)
	w.bytes(m.AppBytes)
	return w.take()
}
