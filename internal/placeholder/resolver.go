package placeholder

import (
	"context"
	"time"

	"github.com/SeakMengs/AutoActa/internal/model"
	"go.uber.org/zap"
)

// GraphLoader reads the domain graph of a record.
type GraphLoader interface {
	LoadGraph(ctx context.Context, recordID string) (*Graph, error)
	FindTribunalMember(ctx context.Context, recordID, userID string) (*model.TribunalMember, error)
}

type Resolver struct {
	loader GraphLoader
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewResolver(loader GraphLoader, logger *zap.SugaredLogger, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{loader: loader, logger: logger, now: now}
}

func (r *Resolver) graph(ctx context.Context, recordID string, signerID *string) (*Graph, error) {
	g, err := r.loader.LoadGraph(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if err := ValidateDedication(g.Record.Dedication); err != nil {
		r.logger.Debugf("Record %s has dedication %q \n", recordID, g.Record.Dedication)
		return nil, err
	}

	if signerID != nil {
		m, err := r.loader.FindTribunalMember(ctx, recordID, *signerID)
		if err != nil {
			return nil, err
		}
		g.Recipient = m
	}
	return g, nil
}

// Resolve computes the core placeholder set for a record, with the recipient when signerID is given.
func (r *Resolver) Resolve(ctx context.Context, recordID string, signerID *string) (Set, error) {
	r.logger.Debugf("Resolve placeholders for record: %s \n", recordID)

	g, err := r.graph(ctx, recordID, signerID)
	if err != nil {
		return nil, err
	}
	return Build(g, r.now()), nil
}

// ResolveDocument returns the core set with the document extension layered on top.
func (r *Resolver) ResolveDocument(ctx context.Context, recordID string) (Set, error) {
	r.logger.Debugf("Resolve document placeholders for record: %s \n", recordID)

	g, err := r.graph(ctx, recordID, nil)
	if err != nil {
		return nil, err
	}
	return Build(g, r.now()).Merge(Extension(g)), nil
}
