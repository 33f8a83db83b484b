package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nandanugg/geopresence/module/presence/domain"
	"github.com/nandanugg/geopresence/module/presence/internal/repository/database"
	"github.com/nandanugg/geopresence/module/presence/internal/repository/publisher"
)

// Context keys of the persisted node state.
const (
	KeyLastLat      = "lastLat"
	KeyLastLon      = "lastLon"
	KeyLastPresence = "lastPresence"
)

type statusReporter interface {
	Report(ctx context.Context, nodeID string, s domain.Status)
}

// PresenceService evaluates one configured node. It does no locking; callers
// delivering overlapping messages for the same node must serialise them.
type PresenceService struct {
	cfg       domain.NodeConfig
	state     database.ContextStore
	flow      database.VariableStore
	global    database.VariableStore
	publisher publisher.PresencePublisher
	status    statusReporter
}

func NewPresenceService(
	cfg domain.NodeConfig,
	state database.ContextStore,
	flow, global database.VariableStore,
	pub publisher.PresencePublisher,
	status statusReporter,
) *PresenceService {
	return &PresenceService{
		cfg:       cfg,
		state:     state,
		flow:      flow,
		global:    global,
		publisher: pub,
		status:    status,
	}
}

func (s *PresenceService) Config() domain.NodeConfig {
	return s.cfg
}

// Evaluate runs one invocation for msg. Missing coordinates and unchanged
// presence are reported through the status channel and the returned Result;
// the error is non-nil only when a store or the publisher fails.
func (s *PresenceService) Evaluate(ctx context.Context, msg domain.Message) (*domain.Result, error) {
	lat, err := s.gate(ctx, KeyLastLat, s.cfg.Lat, msg)
	if err != nil {
		return nil, err
	}
	lon, err := s.gate(ctx, KeyLastLon, s.cfg.Lon, msg)
	if err != nil {
		return nil, err
	}

	if s.cfg.Lat.Kind != domain.SourceMessage && !lat.valid {
		return s.finish(ctx, domain.OutcomeMissingExternal, missingExternalStatus("lat")), nil
	}
	if s.cfg.Lon.Kind != domain.SourceMessage && !lon.valid {
		return s.finish(ctx, domain.OutcomeMissingExternal, missingExternalStatus("lon")), nil
	}

	var missing []string
	if !lat.valid {
		missing = append(missing, "lat")
	}
	if !lon.valid {
		missing = append(missing, "lon")
	}
	if len(missing) > 0 {
		return s.finish(ctx, domain.OutcomeWaiting, domain.Status{
			Severity: domain.SeverityPending,
			Fill:     "yellow",
			Shape:    "dot",
			Text:     "waiting for " + strings.Join(missing, " and "),
		}), nil
	}

	dist := haversineKm(s.cfg.Reference.Lat, s.cfg.Reference.Lon, lat.value, lon.value)
	present := dist <= s.cfg.RadiusKm

	tmpl := s.cfg.NotPresent
	fill := "gray"
	if present {
		tmpl = s.cfg.Present
		fill = "green"
	}
	presenceMsg := parseTypedLiteral(tmpl.Type, tmpl.Value)
	text := fmt.Sprintf("%s: %v", s.cfg.Location, presenceMsg)

	if s.cfg.OnlySendOnChange {
		changed, err := s.presenceChanged(ctx, present)
		if err != nil {
			return nil, err
		}
		if !changed {
			res := s.finish(ctx, domain.OutcomeUnchanged, domain.Status{
				Severity: domain.SeverityInfo,
				Fill:     fill,
				Shape:    "dot",
				Text:     text + " (unchanged)",
			})
			res.Present, res.Distance = &present, &dist
			return res, nil
		}
	}

	// lastPresence is recorded only after a successful publish
	out := buildOutput(msg, s.cfg.Location, presenceMsg)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, s.cfg.ID, out); err != nil {
			return nil, err
		}
	}
	if s.cfg.OnlySendOnChange {
		if err := s.state.Set(ctx, s.cfg.ID, KeyLastPresence, present); err != nil {
			return nil, err
		}
	}

	res := s.finish(ctx, domain.OutcomeEmitted, domain.Status{
		Severity: domain.SeverityInfo,
		Fill:     fill,
		Shape:    "dot",
		Text:     text,
	})
	res.Present, res.Distance = &present, &dist
	res.Output = out
	return res, nil
}

// gate resolves one coordinate and applies the last-known fallback. Only
// message sourced values are persisted or restored.
func (s *PresenceService) gate(ctx context.Context, key string, src domain.Source, msg domain.Message) (reading, error) {
	raw, _, err := resolveValue(ctx, src, msg, s.flow, s.global)
	if err != nil {
		return reading{}, err
	}
	r := parseCoordinate(raw)
	if src.Kind != domain.SourceMessage {
		return r, nil
	}

	if r.valid {
		return r, s.state.Set(ctx, s.cfg.ID, key, r.value)
	}

	stored, ok, err := s.state.Get(ctx, s.cfg.ID, key)
	if err != nil || !ok {
		return reading{}, err
	}
	return parseCoordinate(stored), nil
}

// presenceChanged compares against the stored presence. A missing or
// non-boolean prior value counts as a change.
func (s *PresenceService) presenceChanged(ctx context.Context, present bool) (bool, error) {
	last, ok, err := s.state.Get(ctx, s.cfg.ID, KeyLastPresence)
	if err != nil {
		return false, err
	}
	if prev, isBool := last.(bool); ok && isBool && prev == present {
		return false, nil
	}
	return true, nil
}

func (s *PresenceService) finish(ctx context.Context, outcome domain.Outcome, st domain.Status) *domain.Result {
	if s.status != nil {
		s.status.Report(ctx, s.cfg.ID, st)
	}
	return &domain.Result{Outcome: outcome, Status: st}
}

func missingExternalStatus(axis string) domain.Status {
	return domain.Status{
		Severity: domain.SeverityError,
		Fill:     "red",
		Shape:    "ring",
		Text:     "flow/global " + axis + " missing or invalid",
	}
}
