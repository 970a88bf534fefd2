package message

import (
	"fmt"

	prt "github.com/abcfe/avax-types/protocol"
)

// AppGossip is a one-way application message; it has no request id.
type AppGossip struct {
	ChainID  prt.ID
	AppBytes []byte
}

func NewAppGossip(chainID prt.ID, appBytes []byte) *AppGossip {
	return &AppGossip{ChainID: chainID, AppBytes: appBytes}
}

func (m *AppGossip) Op() string { return OpAppGossip }

func (m *AppGossip) Compressible() bool { return false }

func (m *AppGossip) String() string {
	return fmt.Sprintf("msg app_gossip (chain %s, %d bytes)", m.ChainID, len(m.AppBytes))
}

func (m *AppGossip) SerializeWithHeader() ([]byte, error) {
	w := newWriter(m.Op(), m.Compressible())
	w.fixed(m.ChainID[:])
	w.bytes(m.AppBytes)
	return w.take()
}
