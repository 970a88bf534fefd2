package message

import (
	"fmt"

	prt "github.com/abcfe/avax-types/protocol"
)

// StateSummaryFrontier is the response to GetStateSummaryFrontier.
type StateSummaryFrontier struct {
	ChainID   prt.ID
	RequestID uint32
	Summary   []byte
}

func NewStateSummaryFrontier(chainID prt.ID, requestID uint32, summary []byte) *StateSummaryFrontier {
	return &StateSummaryFrontier{ChainID: chainID, RequestID: requestID, Summary: summary}
}

func (m *StateSummaryFrontier) Op() string { return OpStateSummaryFrontier }

func (m *StateSummaryFrontier) Compressible() bool { return false }

func (m *StateSummaryFrontier) String() string {
	return fmt.Sprintf("msg state_summary_frontier (chain %s, request %d, %d bytes)", m.ChainID, m.RequestID, len(m.Summary))
}

func (m *StateSummaryFrontier) SerializeWithHeader() ([]byte, error) {
	w := newWriter(m.Op(), m.Compressible())
	w.fixed(m.ChainID[:])
	w.u32(m.RequestID)
	w.bytes(m.Summary)
	return w.take()
}
