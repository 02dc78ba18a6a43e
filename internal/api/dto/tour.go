package dto

type TourRequest struct {
	Start         string   `json:"start"`
	Stops         []string `json:"stops"`
	ReturnToStart bool     `json:"return_to_start"`
}

type TourLegResponse struct {
	Nodes        []string `json:"nodes"`
	Cost         float64  `json:"cost"`
	LengthMeters float64  `json:"length_meters"`
}

type TourResponse struct {
	Start             string            `json:"start"`
	Stops             []string          `json:"stops"`
	Legs              []TourLegResponse `json:"legs"`
	TotalCost         float64           `json:"total_cost"`
	TotalLengthMeters float64           `json:"total_length_meters"`
}
