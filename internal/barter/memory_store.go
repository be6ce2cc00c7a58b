package barter

import (
	"context"
	"sort"
	"sync"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

// MemoryStore keeps every table in maps guarded by one mutex.
type MemoryStore struct {
	mu      sync.Mutex
	members map[string]entity.Member
	assets  map[string]entity.Asset
	tasks   map[string]entity.Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		members: make(map[string]entity.Member),
		assets:  make(map[string]entity.Asset),
		tasks:   make(map[string]entity.Task),
	}
}

func (m *MemoryStore) ListMembers(_ context.Context) ([]entity.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Member, 0, len(m.members))
	for _, v := range m.members {
		out = append(out, cloneMember(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) ListAssets(_ context.Context) ([]entity.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Asset, 0, len(m.assets))
	for _, v := range m.assets {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) ListTasks(_ context.Context) ([]entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Task, 0, len(m.tasks))
	for _, v := range m.tasks {
		out = append(out, cloneTask(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetMember(_ context.Context, id string) (*entity.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.members[id]
	if !ok {
		return nil, ErrMemberNotFound
	}
	c := cloneMember(v)
	return &c, nil
}

func (m *MemoryStore) GetMemberByUsername(_ context.Context, username string) (*entity.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.members {
		if v.Username == username {
			c := cloneMember(v)
			return &c, nil
		}
	}
	return nil, ErrMemberNotFound
}

func (m *MemoryStore) GetAsset(_ context.Context, id string) (*entity.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.assets[id]
	if !ok {
		return nil, ErrAssetNotFound
	}
	return &v, nil
}

func (m *MemoryStore) GetTask(_ context.Context, id string) (*entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	c := cloneTask(v)
	return &c, nil
}

func (m *MemoryStore) Commit(_ context.Context, cs ChangeSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range cs.Members {
		m.members[v.ID] = cloneMember(v)
	}
	for _, v := range cs.Assets {
		m.assets[v.ID] = v
	}
	for _, v := range cs.Tasks {
		m.tasks[v.ID] = cloneTask(v)
	}
	for _, id := range cs.DeletedAssets {
		delete(m.assets, id)
	}
	return nil
}

// cloneMember copies pointer fields so callers cannot alias stored state.
func cloneMember(v entity.Member) entity.Member {
	v.LastTaskSubmission = cloneTime(v.LastTaskSubmission)
	v.LastPenaltyDate = cloneTime(v.LastPenaltyDate)
	return v
}

func cloneTask(v entity.Task) entity.Task {
	v.SubmittedAt = cloneTime(v.SubmittedAt)
	v.CompletedAt = cloneTime(v.CompletedAt)
	return v
}
