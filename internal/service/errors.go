package service

import (
	"context"
	"errors"

	"github.com/target/scrapediff/internal/domain/model"
	apperrors "github.com/target/scrapediff/internal/errors"
)

// mapRepoError converts repository errors into AppErrors. The repository
// sentinel stays in the chain so errors.Is keeps working for callers.
// Driver errors the repositories did not translate are classified by constraint.
func mapRepoError(err error, op string) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, model.ErrEventSourceNotFound),
		errors.Is(err, model.ErrScrapeJobNotFound),
		errors.Is(err, model.ErrEventNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, op)
	case errors.Is(err, model.ErrEventSourceURLExists),
		errors.Is(err, model.ErrScrapeInProgress),
		errors.Is(err, model.ErrJobAlreadyFinished),
		errors.Is(err, model.ErrNotEnoughScrapes):
		return apperrors.Wrap(err, apperrors.ErrCodeConflict, op)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(err, apperrors.ErrCodeTimeout, op)
	case errors.Is(err, context.Canceled):
		return apperrors.Wrap(err, apperrors.ErrCodeCanceled, op)
	}
	if dbErr := apperrors.MapDBError(err, op); dbErr != nil {
		return dbErr
	}
	return apperrors.Persistence(err, op)
}
