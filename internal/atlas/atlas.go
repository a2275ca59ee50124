// Package atlas is the request layer over the pipeline: one enriched
// register and one world, shared read-only across any number of independent
// rendering requests.
package atlas

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"armsatlas/internal/aggregate"
	"armsatlas/internal/geo"
	"armsatlas/internal/model"
	"armsatlas/internal/register"
	"armsatlas/internal/render"
)

// Service renders maps from a fixed register and world. Both inputs are
// immutable after construction, so requests need no locking and may run
// concurrently.
type Service struct {
	reg   *register.Register
	world *geo.World
	log   *zap.Logger
}

// New builds a render service. A nil logger disables logging.
func New(reg *register.Register, world *geo.World, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{reg: reg, world: world, log: log}
}

// Render executes one query end to end: validate, aggregate, present.
// All data it allocates is owned by this request.
func (s *Service) Render(ctx context.Context, q model.Query) (*render.Spec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := s.log.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("activity", string(q.Activity)),
		zap.Int("year", q.Year),
		zap.String("focus", q.Focus),
	)

	if err := s.validate(q); err != nil {
		log.Warn("query rejected", zap.Error(err))
		return nil, err
	}

	rows, err := aggregate.Aggregate(s.reg, s.world, q)
	if err != nil {
		log.Warn("aggregation failed", zap.Error(err))
		return nil, err
	}

	focusCode := ""
	if q.Focus != "" {
		// A missing code only disables the highlight overlay; the
		// counterpart map still renders.
		focusCode, _ = s.reg.CodeOf(q.Focus)
	}

	spec, err := render.Build(rows, q, s.world, focusCode)
	if err != nil {
		log.Warn("render failed", zap.Error(err))
		return nil, err
	}
	log.Info("map rendered", zap.Int("regions", len(rows)), zap.Int("overlays", len(spec.Overlays)))
	return spec, nil
}

func (s *Service) validate(q model.Query) error {
	switch q.Activity {
	case model.ActivitySupplied, model.ActivityReceived, model.ActivityNet, model.ActivityTotal:
	default:
		return fmt.Errorf("atlas: unknown activity mode %q", q.Activity)
	}
	if !s.reg.HasUnit(q.Unit) {
		return fmt.Errorf("atlas: unknown unit column %q", q.Unit)
	}
	if q.Focus != "" {
		if _, ok := s.reg.TypeOf(q.Focus); !ok {
			return fmt.Errorf("atlas: unknown focus region %q", q.Focus)
		}
	}
	return nil
}

// View is a named query in a batch render.
type View struct {
	Name  string
	Query model.Query
}

// RenderViews renders independent views in parallel. Requests share nothing
// mutable; the first error cancels the rest.
func (s *Service) RenderViews(ctx context.Context, views []View) (map[string]*render.Spec, error) {
	specs := make([]*render.Spec, len(views))
	group, ctx := errgroup.WithContext(ctx)
	for i, view := range views {
		i, view := i, view
		group.Go(func() error {
			spec, err := s.Render(ctx, view.Query)
			if err != nil {
				return fmt.Errorf("view %s: %w", view.Name, err)
			}
			specs[i] = spec
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	byName := make(map[string]*render.Spec, len(views))
	for i, view := range views {
		byName[view.Name] = specs[i]
	}
	return byName, nil
}
