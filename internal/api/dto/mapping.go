package dto

import (
	"poi-route-service/internal/domain"
	"poi-route-service/internal/services"
)

func NodeStrings(ids []domain.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// NewRouteResponse reports hops as the number of edges, so a source==target path has zero.
func NewRouteResponse(mode string, p domain.Path) RouteResponse {
	return RouteResponse{
		Mode:         mode,
		Nodes:        NodeStrings(p.Nodes),
		Hops:         max(len(p.Nodes)-1, 0),
		Cost:         p.Cost,
		LengthMeters: p.LengthMeters,
	}
}

func NewListPOIsResponse(pois []domain.POI) ListPOIsResponse {
	res := ListPOIsResponse{POIs: make([]POIResponse, 0, len(pois))}
	for _, p := range pois {
		res.POIs = append(res.POIs, POIResponse{
			Name:             p.Name,
			NodeID:           string(p.NodeID),
			Lat:              p.Lat,
			Lon:              p.Lon,
			AttachedTo:       string(p.AttachedTo),
			AttachmentMeters: p.AttachmentMeters,
		})
	}
	return res
}

func NewMatrixResponse(m *services.Matrix) MatrixResponse {
	res := MatrixResponse{
		IDs:  NodeStrings(m.IDs),
		Rows: make([][]MatrixCellResponse, len(m.Cells)),
	}
	for i, row := range m.Cells {
		res.Rows[i] = make([]MatrixCellResponse, len(row))
		for j, c := range row {
			if !c.Reachable {
				continue
			}
			cost, length := c.Path.Cost, c.Path.LengthMeters
			res.Rows[i][j] = MatrixCellResponse{Reachable: true, Cost: &cost, LengthMeters: &length}
		}
	}
	return res
}

func NewTourResponse(plan domain.TourPlan) TourResponse {
	res := TourResponse{
		Start:             string(plan.Start),
		Stops:             NodeStrings(plan.Stops),
		Legs:              make([]TourLegResponse, 0, len(plan.Legs)),
		TotalCost:         plan.TotalCost,
		TotalLengthMeters: plan.TotalLengthMeters,
	}
	for _, leg := range plan.Legs {
		res.Legs = append(res.Legs, TourLegResponse{
			Nodes:        NodeStrings(leg.Nodes),
			Cost:         leg.Cost,
			LengthMeters: leg.LengthMeters,
		})
	}
	return res
}
