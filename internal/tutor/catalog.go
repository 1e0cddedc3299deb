package tutor

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/synthtutor/internal/api"
)

// Catalog is the registry and progress list fetched after onboarding. Either
// half may be missing if its request failed.
type Catalog struct {
	Modules     []api.Module
	ModulesErr  error
	Progress    []api.ProgressRecord
	ProgressErr error
}

// FetchCatalog loads the registry and the student's progress concurrently.
// A failure in one does not cancel the other; the returned error is the
// first failure, if any.
func FetchCatalog(ctx context.Context, modules ModuleSource, progress ProgressStore, studentID string, log *zap.Logger) (Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var (
		cat Catalog
		g   errgroup.Group
	)

	g.Go(func() error {
		cat.Modules, cat.ModulesErr = modules.ListModules(ctx)
		if cat.ModulesErr != nil {
			log.Error("fetch modules failed", zap.Error(cat.ModulesErr))
			return fmt.Errorf("fetch modules: %w", cat.ModulesErr)
		}
		return nil
	})
	g.Go(func() error {
		cat.Progress, cat.ProgressErr = progress.ListProgress(ctx, studentID)
		if cat.ProgressErr != nil {
			log.Error("fetch progress failed", zap.String("student_id", studentID), zap.Error(cat.ProgressErr))
			return fmt.Errorf("fetch progress: %w", cat.ProgressErr)
		}
		return nil
	})

	err := g.Wait()
	return cat, err
}

// ApplyCatalog merges a fetched catalog into the session and recomputes
// locks. From here on the server's locked flags are ignored.
func (s *Session) ApplyCatalog(cat Catalog) {
	if cat.ModulesErr == nil && cat.Modules != nil {
		s.modules = ResolveModules(cat.Modules)
		if err := Validate(s.modules); err != nil {
			s.log.Warn("module registry has problems", zap.Error(err))
		}
	}
	if cat.ProgressErr == nil && cat.Progress != nil {
		s.progress = append([]api.ProgressRecord(nil), cat.Progress...)
	}
	s.modules = Recompute(s.modules, CompletedNames(s.progress))
}
