package tutor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/synthtutor/internal/api"
)

var errBackendDown = errors.New("backend down")

// fakeBackend is an in-memory stand-in for the tutoring API.
type fakeBackend struct {
	mu sync.Mutex

	createErr   error
	chatErr     error
	updateErr   error
	listErr     error
	modulesErr  error
	chatReply   string
	modules     []api.Module
	records     []api.ProgressRecord
	created     []api.StudentCreate
	chats       []api.ChatRequest
	updates     []api.ProgressUpdate
	hideRecords bool
}

func (f *fakeBackend) CreateStudent(_ context.Context, in api.StudentCreate) (*api.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, in)
	return &api.Student{ID: fmt.Sprintf("s%d", len(f.created)), Name: in.Name, Grade: in.Grade, Interests: in.Interests}, nil
}

func (f *fakeBackend) Reply(_ context.Context, _ api.Student, req api.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, req)
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.chatReply, nil
}

func (f *fakeBackend) ListModules(context.Context) ([]api.Module, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.modulesErr != nil {
		return nil, f.modulesErr
	}
	return append([]api.Module(nil), f.modules...), nil
}

func (f *fakeBackend) UpdateProgress(_ context.Context, in api.ProgressUpdate) (*api.ProgressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, in)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	rec := api.ProgressRecord{StudentID: in.StudentID, ModuleID: in.ModuleID, ModuleName: in.ModuleName, Completed: in.Completed, Score: in.Score}
	for i := range f.records {
		if f.records[i].StudentID == in.StudentID && f.records[i].ModuleID == in.ModuleID {
			rec.ID = f.records[i].ID
			f.records[i] = rec
			return &rec, nil
		}
	}
	rec.ID = fmt.Sprintf("p%d", len(f.records)+1)
	f.records = append(f.records, rec)
	return &rec, nil
}

func (f *fakeBackend) ListProgress(_ context.Context, studentID string) ([]api.ProgressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []api.ProgressRecord{}
	if f.hideRecords {
		return out, nil
	}
	for _, r := range f.records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeBackend) services() Services {
	return Services{Students: f, Chat: f}
}

// defaultRegistry mirrors the backend's seed modules.
func defaultRegistry() []api.Module {
	return []api.Module{
		{ID: "m1", Name: "Introduction to Numbers", Subject: "Math", Difficulty: 1, Requirements: []string{}},
		{ID: "m2", Name: "Reading Comprehension", Subject: "English", Difficulty: 1, Requirements: []string{}},
		{ID: "m3", Name: "Basic Science Concepts", Subject: "Science", Difficulty: 1, Requirements: []string{}},
		{ID: "m4", Name: "Advanced Mathematics", Subject: "Math", Difficulty: 3, Locked: true, Requirements: []string{"Introduction to Numbers"}},
	}
}
