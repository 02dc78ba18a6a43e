package services

import (
	"context"
	"fmt"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/graph"
	"poi-route-service/internal/overlay"
	"poi-route-service/internal/platform/obs"
	"poi-route-service/internal/routing"
	"strings"

	"go.uber.org/zap"
)

var identity overlay.Identity

// Query modes accepted by Route.
const (
	ModeDirect   = "direct"
	ModeWaypoint = "waypoint"
	ModeAvoid    = "avoid"
	ModeTraffic  = "traffic"
)

// ValidateMode rejects anything but the four query modes.
func ValidateMode(mode string) error {
	switch mode {
	case ModeDirect, ModeWaypoint, ModeAvoid, ModeTraffic:
		return nil
	}
	return fmt.Errorf("route: %w: unknown mode %q", domain.ErrInvalidParameter, mode)
}

// RouteRequest is the mode-tagged form of a route query.
// Via is required for waypoint, Avoid for avoid and Hour for traffic.
type RouteRequest struct {
	Mode   string
	Source domain.NodeID
	Target domain.NodeID
	Via    domain.NodeID
	Avoid  domain.NodeID
	Hour   *int
}

// Key renders the request canonically. Fields that do not apply to the mode are left out.
func (r RouteRequest) Key() string {
	var b strings.Builder
	b.WriteString(r.Mode)
	b.WriteString("|")
	b.WriteString(string(r.Source))
	b.WriteString("|")
	b.WriteString(string(r.Target))
	switch r.Mode {
	case ModeWaypoint:
		b.WriteString("|via=" + string(r.Via))
	case ModeAvoid:
		b.WriteString("|avoid=" + string(r.Avoid))
	case ModeTraffic:
		if r.Hour != nil {
			fmt.Fprintf(&b, "|hour=%d", *r.Hour)
		}
	}
	return b.String()
}

// Router answers mode-tagged route queries.
type Router interface {
	Route(ctx context.Context, req RouteRequest) (domain.Path, error)
}

// RouteService is the query entry point over a frozen street graph.
// All methods are safe for concurrent use.
type RouteService struct {
	g      *graph.Store
	finder *routing.Finder
	logger *zap.Logger
}

// NewRouteService freezes g; no further nodes, edges or POIs can be added afterwards.
func NewRouteService(g *graph.Store, logger *zap.Logger, opts ...routing.Option) *RouteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouteService{
		g:      g,
		finder: routing.NewFinder(g, opts...),
		logger: logger,
	}
}

func (s *RouteService) Graph() *graph.Store { return s.g }

// Resolve maps a reference to a node id. A reference is either a node id
// present in the graph or the name of an attached POI.
func (s *RouteService) Resolve(ref string) (domain.NodeID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("resolve: %w: empty node reference", domain.ErrInvalidParameter)
	}
	if id := domain.NodeID(ref); s.g.NodeExists(id) {
		return id, nil
	}
	if p, ok := s.g.POI(ref); ok {
		return p.NodeID, nil
	}
	return "", fmt.Errorf("resolve %q: %w", ref, domain.ErrUnknownNode)
}

func (s *RouteService) requireNodes(op string, ids ...domain.NodeID) error {
	for _, id := range ids {
		if !s.g.NodeExists(id) {
			return fmt.Errorf("%s: %w: %q", op, domain.ErrUnknownNode, id)
		}
	}
	return nil
}

// DirectRoute returns the shortest path by base length.
func (s *RouteService) DirectRoute(ctx context.Context, source, target domain.NodeID) (p domain.Path, err error) {
	defer obs.Time(ctx, "route.direct")(&err)

	if err := s.requireNodes("direct route", source, target); err != nil {
		return domain.Path{}, err
	}

	p, err = s.finder.Find(ctx, identity, source, target)
	if err != nil {
		return domain.Path{}, fmt.Errorf("direct route: %w", err)
	}
	return p, nil
}

// WaypointRoute returns source->via followed by via->target, each leg shortest
// by base length. The junction appears once; costs and lengths are summed.
func (s *RouteService) WaypointRoute(ctx context.Context, source, via, target domain.NodeID) (p domain.Path, err error) {
	defer obs.Time(ctx, "route.waypoint")(&err)

	if err := s.requireNodes("waypoint route", source, via, target); err != nil {
		return domain.Path{}, err
	}

	first, err := s.finder.Find(ctx, identity, source, via)
	if err != nil {
		return domain.Path{}, fmt.Errorf("waypoint route: first leg: %w", err)
	}
	second, err := s.finder.Find(ctx, identity, via, target)
	if err != nil {
		return domain.Path{}, fmt.Errorf("waypoint route: second leg: %w", err)
	}

	return joinLegs(first, second), nil
}

// AvoidingRoute returns the shortest path that never visits avoid.
func (s *RouteService) AvoidingRoute(ctx context.Context, source, target, avoid domain.NodeID) (p domain.Path, err error) {
	defer obs.Time(ctx, "route.avoid")(&err)

	if err := s.requireNodes("avoiding route", source, target, avoid); err != nil {
		return domain.Path{}, err
	}
	if avoid == source || avoid == target {
		return domain.Path{}, fmt.Errorf("avoiding route: %w: avoid %q is an endpoint", domain.ErrInvalidParameter, avoid)
	}

	w, err := overlay.NewAvoidance(s.g, avoid)
	if err != nil {
		return domain.Path{}, fmt.Errorf("avoiding route: %w", err)
	}

	p, err = s.finder.Find(ctx, w, source, target)
	if err != nil {
		return domain.Path{}, fmt.Errorf("avoiding route: %w", err)
	}
	return p, nil
}

// TrafficRoute returns the shortest path under the time-of-day congestion overlay.
// Path.Cost is the congested cost; Path.LengthMeters stays the physical length.
func (s *RouteService) TrafficRoute(ctx context.Context, source, target domain.NodeID, hour int) (p domain.Path, err error) {
	defer obs.Time(ctx, "route.traffic")(&err)

	if err := s.requireNodes("traffic route", source, target); err != nil {
		return domain.Path{}, err
	}

	w, err := overlay.NewTraffic(s.g, hour)
	if err != nil {
		return domain.Path{}, fmt.Errorf("traffic route: %w", err)
	}

	p, err = s.finder.Find(ctx, w, source, target)
	if err != nil {
		return domain.Path{}, fmt.Errorf("traffic route: %w", err)
	}
	return p, nil
}

// Route dispatches on req.Mode.
func (s *RouteService) Route(ctx context.Context, req RouteRequest) (domain.Path, error) {
	var (
		p   domain.Path
		err error
	)

	switch req.Mode {
	case ModeDirect:
		p, err = s.DirectRoute(ctx, req.Source, req.Target)
	case ModeWaypoint:
		if req.Via == "" {
			return domain.Path{}, fmt.Errorf("route: %w: waypoint mode requires via", domain.ErrInvalidParameter)
		}
		p, err = s.WaypointRoute(ctx, req.Source, req.Via, req.Target)
	case ModeAvoid:
		if req.Avoid == "" {
			return domain.Path{}, fmt.Errorf("route: %w: avoid mode requires avoid", domain.ErrInvalidParameter)
		}
		p, err = s.AvoidingRoute(ctx, req.Source, req.Target, req.Avoid)
	case ModeTraffic:
		if req.Hour == nil {
			return domain.Path{}, fmt.Errorf("route: %w: traffic mode requires hour", domain.ErrInvalidParameter)
		}
		p, err = s.TrafficRoute(ctx, req.Source, req.Target, *req.Hour)
	default:
		return domain.Path{}, ValidateMode(req.Mode)
	}
	if err != nil {
		return domain.Path{}, err
	}

	s.logger.Debug("route computed",
		zap.String("req_id", obs.RequestID(ctx)),
		zap.String("mode", req.Mode),
		zap.String("source", string(req.Source)),
		zap.String("target", string(req.Target)),
		zap.Int("nodes", len(p.Nodes)),
		zap.Float64("cost", p.Cost),
	)
	return p, nil
}

func joinLegs(first, second domain.Path) domain.Path {
	nodes := make([]domain.NodeID, 0, len(first.Nodes)+len(second.Nodes)-1)
	nodes = append(nodes, first.Nodes...)
	nodes = append(nodes, second.Nodes[1:]...)

	return domain.Path{
		Nodes:        nodes,
		Cost:         first.Cost + second.Cost,
		LengthMeters: first.LengthMeters + second.LengthMeters,
	}
}
