package dto

type MatrixRequest struct {
	IDs []string `json:"ids"`
}

// MatrixCellResponse leaves Cost and LengthMeters out for unreachable pairs.
type MatrixCellResponse struct {
	Reachable    bool     `json:"reachable"`
	Cost         *float64 `json:"cost,omitempty"`
	LengthMeters *float64 `json:"length_meters,omitempty"`
}

type MatrixResponse struct {
	IDs  []string               `json:"ids"`
	Rows [][]MatrixCellResponse `json:"rows"`
}
