package message

import (
	"fmt"
	"time"

	prt "github.com/abcfe/avax-types/protocol"
)

type GetStateSummaryFrontier struct {
	ChainID   prt.ID
	RequestID uint32
	Deadline  uint64
}

func NewGetStateSummaryFrontier(chainID prt.ID, requestID uint32, deadline time.Duration) *GetStateSummaryFrontier {
	return &GetStateSummaryFrontier{ChainID: chainID, RequestID: requestID, Deadline: uint64(deadline)}
}

func (m *GetStateSummaryFrontier) Op() string { return OpGetStateSummaryFrontier }

func (m *GetStateSummaryFrontier) Compressible() bool { return false }

func (m *GetStateSummaryFrontier) String() string {
	return fmt.Sprintf("msg get_state_summary_frontier (chain %s, request %d, deadline %s)",
		m.ChainID, m.RequestID, time.Duration(m.Deadline))
}

func (m *GetStateSummaryFrontier) SerializeWithHeader() ([]byte, error) {
	w := newWriter(m.Op(), m.Compressible())
	w.fixed(m.ChainID[:])
	w.u32(m.RequestID)
	w.u64(m.Deadline)
	return w.take()
}
