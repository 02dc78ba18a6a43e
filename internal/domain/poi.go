package domain

// Represents a named point of interest attached to the street network.
// A POI is created by attaching it to its geodesically nearest street node;
// its lifetime is the lifetime of the attached node.
type POI struct {
	Name             string
	Lat              float64
	Lon              float64
	NodeID           NodeID
	AttachedTo       NodeID
	AttachmentMeters float64
}

// POISeed is a catalogue entry waiting to be attached.
type POISeed struct {
	Name string  `yaml:"name" json:"name"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Lon  float64 `yaml:"lon" json:"lon"`
}

// Snapshot is a complete, ordered description of a graph: what ingestion produces
// and what persistence must reproduce exactly.
type Snapshot struct {
	Nodes []Node
	Edges []EdgeRecord
	POIs  []POI
}
