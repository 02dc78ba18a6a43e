package domain

import (
	"strconv"
	"strings"
)

// POIPrefix marks node ids that belong to attached points of interest.
const POIPrefix = "poi:"

// NodeID identifies a node in the street network.
// Street nodes carry the network-native id in decimal form; POI nodes carry POIPrefix + name.
type NodeID string

// StreetNodeID renders a network-native id.
func StreetNodeID(native int64) NodeID {
	return NodeID(strconv.FormatInt(native, 10))
}

// POINodeID derives the node id of a named POI.
func POINodeID(name string) NodeID {
	return NodeID(POIPrefix + name)
}

func (id NodeID) IsPOI() bool { return strings.HasPrefix(string(id), POIPrefix) }

// POIName returns the POI name for POI ids and "" otherwise.
func (id NodeID) POIName() string {
	if !id.IsPOI() {
		return ""
	}
	return strings.TrimPrefix(string(id), POIPrefix)
}

func (id NodeID) String() string { return string(id) }

type NodeKind uint8

const (
	KindStreet NodeKind = iota
	KindPOI
)

func (k NodeKind) String() string {
	switch k {
	case KindStreet:
		return "street"
	case KindPOI:
		return "poi"
	default:
		return "unknown"
	}
}

// ParseNodeKind is the inverse of NodeKind.String.
func ParseNodeKind(s string) (NodeKind, bool) {
	switch s {
	case "street":
		return KindStreet, true
	case "poi":
		return KindPOI, true
	default:
		return 0, false
	}
}

// Node is a vertex of the street network.
type Node struct {
	ID   NodeID
	Lat  float64
	Lon  float64
	Kind NodeKind
}

func (n Node) Coordinates() Coordinates { return Coordinates{Lon: n.Lon, Lat: n.Lat} }

// EdgeRecord is the identifier-level form of a directed edge, used for ingestion and persistence.
// Name and Highway are optional attributes carried from the network source.
type EdgeRecord struct {
	From    NodeID
	To      NodeID
	Length  float64
	Name    string
	Highway string
}
