package dto

type POIResponse struct {
	Name             string  `json:"name"`
	NodeID           string  `json:"node_id"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	AttachedTo       string  `json:"attached_to"`
	AttachmentMeters float64 `json:"attachment_meters"`
}

type ListPOIsResponse struct {
	POIs []POIResponse `json:"pois"`
}
