package tutor

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/synthtutor/internal/api"
	"github.com/abhisek/synthtutor/internal/widget"
)

// Module is a registry entry with its exercise kind resolved.
type Module struct {
	api.Module
	Kind widget.Kind
}

// ResolveModules attaches the exercise kind to each registry entry.
func ResolveModules(in []api.Module) []Module {
	out := make([]Module, len(in))
	for i, m := range in {
		m.Requirements = append([]string(nil), m.Requirements...)
		out[i] = Module{Module: m, Kind: widget.KindFor(m.Name)}
	}
	return out
}

// CompletedNames collects the names of completed modules from records,
// plus any extra names.
func CompletedNames(records []api.ProgressRecord, extra ...string) map[string]bool {
	done := make(map[string]bool, len(records)+len(extra))
	for _, r := range records {
		if r.Completed {
			done[r.ModuleName] = true
		}
	}
	for _, name := range extra {
		if name != "" {
			done[name] = true
		}
	}
	return done
}

// IsUnlocked reports whether every requirement of m is in completed. A
// module without requirements is always unlocked.
func IsUnlocked(m Module, completed map[string]bool) bool {
	for _, req := range m.Requirements {
		if !completed[req] {
			return false
		}
	}
	return true
}

// Recompute returns a copy of modules with Locked derived from completed.
// It is the only place lock state is computed.
func Recompute(modules []Module, completed map[string]bool) []Module {
	out := make([]Module, len(modules))
	for i, m := range modules {
		m.Locked = !IsUnlocked(m, completed)
		out[i] = m
	}
	return out
}

// Validate reports registry problems that would leave modules permanently
// locked: duplicate names and requirements naming no known module.
func Validate(modules []Module) error {
	var errs []string

	names := make(map[string]bool, len(modules))
	for _, m := range modules {
		if names[m.Name] {
			errs = append(errs, fmt.Sprintf("duplicate module name: %q", m.Name))
		}
		names[m.Name] = true
	}

	for _, m := range modules {
		for _, req := range m.Requirements {
			if !names[req] {
				errs = append(errs, fmt.Sprintf("module %q requires unknown module %q", m.Name, req))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("module registry validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// upsertProgress replaces the record for rec.ModuleID or appends it.
func upsertProgress(records []api.ProgressRecord, rec api.ProgressRecord) []api.ProgressRecord {
	out := append([]api.ProgressRecord(nil), records...)
	for i := range out {
		if out[i].ModuleID == rec.ModuleID {
			if rec.ID == "" {
				rec.ID = out[i].ID
			}
			out[i] = rec
			return out
		}
	}
	return append(out, rec)
}

// Modules returns a copy of the module list with current lock state.
func (s *Session) Modules() []Module {
	return slices.Clone(s.modules)
}

// Progress returns a copy of the known progress records.
func (s *Session) Progress() []api.ProgressRecord {
	return slices.Clone(s.progress)
}

// Selected returns the module being worked on, if any.
func (s *Session) Selected() (Module, bool) {
	if s.selected == nil {
		return Module{}, false
	}
	return *s.selected, true
}

// SelectModule opens a module. It is only allowed once the student exists,
// outside of another module, and for unlocked modules.
func (s *Session) SelectModule(id string) error {
	if s.student == nil || (s.state != StateLearning && s.state != StateChat) {
		return ErrNotReady
	}
	idx := slices.IndexFunc(s.modules, func(m Module) bool { return m.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownModule, id)
	}
	m := s.modules[idx]
	if m.Locked {
		return fmt.Errorf("%w: %s", ErrModuleLocked, m.Name)
	}

	s.selected = &m
	s.state = StateModule
	s.appendTutor(moduleIntro(m.Name))
	return nil
}

// BackToModules leaves the open module without recording anything.
func (s *Session) BackToModules() {
	if s.state != StateModule {
		return
	}
	s.selected = nil
	s.state = StateLearning
}

// Sync pushes a completion to the progress store and fetches the
// authoritative records back.
type Sync struct {
	Update api.ProgressUpdate
}

// SyncResult is what Reconcile consumes.
type SyncResult struct {
	Update  api.ProgressUpdate
	Records []api.ProgressRecord
	Err     error
}

// CompleteModule applies a widget result to the open module. A failed
// result changes nothing. On success the record is upserted locally, locks
// are recomputed with the module counted as completed, the congratulations
// message is appended and the session returns to learning. The returned Sync
// must be run and its result passed to Reconcile.
func (s *Session) CompleteModule(r widget.Result) (Sync, bool) {
	if !r.Success || s.state != StateModule || s.selected == nil || s.student == nil {
		return Sync{}, false
	}
	m := *s.selected

	update := api.ProgressUpdate{
		StudentID:  s.student.ID,
		ModuleID:   m.ID,
		ModuleName: m.Name,
		Completed:  true,
		Score:      r.Score,
	}
	s.progress = upsertProgress(s.progress, recordFor(update))
	s.modules = Recompute(s.modules, CompletedNames(s.progress, m.Name))

	s.appendTutor(congratulations(m.Name, r.Score))
	s.selected = nil
	s.state = StateLearning

	return Sync{Update: update}, true
}

func recordFor(u api.ProgressUpdate) api.ProgressRecord {
	return api.ProgressRecord{
		StudentID:  u.StudentID,
		ModuleID:   u.ModuleID,
		ModuleName: u.ModuleName,
		Completed:  u.Completed,
		Score:      u.Score,
	}
}

// Run posts the update and then re-reads the student's progress. Nothing is
// retried; failures are logged and reported in the result.
func (sy Sync) Run(ctx context.Context, store ProgressStore, log *zap.Logger) SyncResult {
	if log == nil {
		log = zap.NewNop()
	}
	res := SyncResult{Update: sy.Update}

	if _, err := store.UpdateProgress(ctx, sy.Update); err != nil {
		log.Warn("progress update failed",
			zap.String("student_id", sy.Update.StudentID),
			zap.String("module_id", sy.Update.ModuleID),
			zap.Error(err))
		res.Err = err
		return res
	}

	records, err := store.ListProgress(ctx, sy.Update.StudentID)
	if err != nil {
		log.Warn("progress refresh failed", zap.String("student_id", sy.Update.StudentID), zap.Error(err))
		res.Err = err
		return res
	}
	res.Records = records
	return res
}

// Reconcile replaces local progress with the server's records and recomputes
// locks. The confirmed completion is kept even if the listing does not show
// it yet. After a failed sync the optimistic state stands.
func (s *Session) Reconcile(res SyncResult) {
	if res.Err != nil {
		return
	}
	records := res.Records
	if !slices.ContainsFunc(records, func(r api.ProgressRecord) bool { return r.ModuleID == res.Update.ModuleID }) {
		records = upsertProgress(records, recordFor(res.Update))
	}
	s.progress = slices.Clone(records)
	s.modules = Recompute(s.modules, CompletedNames(s.progress, res.Update.ModuleName))
}
