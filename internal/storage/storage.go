package storage

import (
	"context"
	"errors"

	"yieldScope/internal/model"
)

// Storage defines a sink for ranking runs.
type Storage interface {
	PutReport(ctx context.Context, report model.Report) error
}

// Multi fans a report out to several sinks; every sink is attempted.
type Multi []Storage

// PutReport writes report to each sink and joins the errors.
func (m Multi) PutReport(ctx context.Context, report model.Report) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.PutReport(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
