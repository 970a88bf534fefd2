package protocol

import "fmt"

// ApplicationVersion is the peer software version reported on connect.
type ApplicationVersion struct {
	App   string `json:"app"`
	Major uint32 `json:"major"`
	Minor uint32 `json:"minor"`
	Patch uint32 `json:"patch"`
}

// String renders e.g. "avalanche/1.7.3".
func (v ApplicationVersion) String() string {
	return fmt.Sprintf("%s/%d.%d.%d", v.App, v.Major, v.Minor, v.Patch)
}

// Compare orders versions by major, minor, patch. App names are not compared.
func (v ApplicationVersion) Compare(o ApplicationVersion) int {
	switch {
	case v.Major != o.Major:
		return cmpU32(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpU32(v.Minor, o.Minor)
	default:
		return cmpU32(v.Patch, o.Patch)
	}
}

func cmpU32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
