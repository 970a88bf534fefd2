package message

import (
	"fmt"

	prt "github.com/abcfe/avax-types/protocol"
)

// Connected is an internal notification raised when a peer handshake
// completes. It never goes on the wire and so has no type code.
type Connected struct {
	Version prt.ApplicationVersion
	NodeID  prt.NodeID
}

func NewConnected(nodeID prt.NodeID, version prt.ApplicationVersion) *Connected {
	return &Connected{Version: version, NodeID: nodeID}
}

func (m *Connected) String() string {
	return fmt.Sprintf("msg connected to node %s with version %s", m.NodeID, m.Version)
}
