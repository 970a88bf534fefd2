package protocol

// Network ids and their bech32 human-readable parts.
const (
	MainnetID  uint32 = 1
	CascadeID  uint32 = 2
	DenaliID   uint32 = 3
	EverestID  uint32 = 4
	FujiID     uint32 = 5
	UnitTestID uint32 = 10
	LocalID    uint32 = 12345

	MainnetHRP  = "avax"
	CascadeHRP  = "cascade"
	DenaliHRP   = "denali"
	EverestHRP  = "everest"
	FujiHRP     = "fuji"
	UnitTestHRP = "testing"
	LocalHRP    = "local"
	FallbackHRP = "custom"
)

// Chain aliases carried only in the textual address prefix.
const (
	ChainAliasX = "X"
	ChainAliasP = "P"
	ChainAliasC = "C"
)

var networkIDToHRP = map[uint32]string{
	MainnetID:  MainnetHRP,
	CascadeID:  CascadeHRP,
	DenaliID:   DenaliHRP,
	EverestID:  EverestHRP,
	FujiID:     FujiHRP,
	UnitTestID: UnitTestHRP,
	LocalID:    LocalHRP,
}

// HRP returns the bech32 human-readable part for a network id.
// Unregistered networks use "custom".
func HRP(networkID uint32) string {
	if hrp, ok := networkIDToHRP[networkID]; ok {
		return hrp
	}
	return FallbackHRP
}
