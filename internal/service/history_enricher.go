package service

import (
	"context"
	"errors"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"

	"golang.org/x/sync/errgroup"
)

// maxHistoryLookupConcurrency caps the parallel per-exercise queries of
// one enrichment pass.
const maxHistoryLookupConcurrency = 8

// HistoryEnricher attaches, to each exercise of a session, the user's
// most recent prior completed performance of that exercise. Lookups run
// one query per exercise, concurrently; a session that performed an
// exercise without ever moving weight does not count as history.
type HistoryEnricher struct {
	sessionRepo repository.SessionRepository
}

// NewHistoryEnricher creates a new HistoryEnricher.
func NewHistoryEnricher(sessionRepo repository.SessionRepository) *HistoryEnricher {
	return &HistoryEnricher{sessionRepo: sessionRepo}
}

// Enrich returns one LastPerformance per exercise performance of the
// session, aligned by index. Entries are nil where no prior completed
// session qualifies. The session itself is always excluded, so
// enriching a completed session never returns the session as its own
// history.
func (e *HistoryEnricher) Enrich(ctx context.Context, session *domain.WorkoutSession) ([]*LastPerformance, error) {
	results := make([]*LastPerformance, len(session.ExercisePerformances))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxHistoryLookupConcurrency)

	for i := range session.ExercisePerformances {
		i := i
		exerciseID := session.ExercisePerformances[i].ExerciseID
		g.Go(func() error {
			prior, err := e.sessionRepo.FindLastCompletedWithExercise(ctx, session.UserID, exerciseID, session.ID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil
				}
				return err
			}

			// PerformanceFor returns the first entry for the
			// exercise. A session can carry duplicate entries, and
			// the qualifying set may live in a later one, so the
			// first entry's sets can still be empty. No sets means
			// no history to show.
			perf := prior.PerformanceFor(exerciseID)
			if perf == nil || len(perf.Sets) == 0 {
				return nil
			}

			last := &LastPerformance{
				SessionID: prior.ID,
				Sets:      perf.Sets,
			}
			// Completed sessions written before completion stamping
			// existed can lack completedAt; fall back to the
			// session's creation time rather than a zero date.
			if prior.CompletedAt != nil {
				last.Date = *prior.CompletedAt
			} else {
				last.Date = prior.CreatedAt
			}
			results[i] = last
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// EnrichDetail attaches last-performance blocks to an already populated
// session view. The detail's performances mirror the session's, so the
// two line up by index.
func (e *HistoryEnricher) EnrichDetail(ctx context.Context, detail *SessionDetail) error {
	history, err := e.Enrich(ctx, &detail.WorkoutSession)
	if err != nil {
		return err
	}
	for i := range detail.ExercisePerformances {
		if i < len(history) {
			detail.ExercisePerformances[i].LastPerformance = history[i]
		}
	}
	return nil
}
