package dto

// RouteRequest references nodes by node id or POI name.
type RouteRequest struct {
	Mode   string `json:"mode"`
	Source string `json:"source"`
	Target string `json:"target"`
	Via    string `json:"via,omitempty"`
	Avoid  string `json:"avoid,omitempty"`
	Hour   *int   `json:"hour,omitempty"`
}

type RouteResponse struct {
	Mode         string   `json:"mode"`
	Nodes        []string `json:"nodes"`
	Hops         int      `json:"hops"`
	Cost         float64  `json:"cost"`
	LengthMeters float64  `json:"length_meters"`
}
