package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/persistence"
)

var _ persistence.Storage = new(memoryStorage)

type experimentKey struct {
	orgId string
	id    string
}

type assignmentKey struct {
	orgId        string
	experimentId string
	userId       string
}

// memoryStorage keeps everything in process. The assignment map is guarded by
// the same mutex as the existence check, which gives it the uniqueness the
// other backends get from the database.
type memoryStorage struct {
	mu            sync.RWMutex
	experiments   map[experimentKey]model.Experiment
	assignments   map[assignmentKey]model.Assignment
	organizations map[string]model.Organization
}

func NewMemoryStorage() *memoryStorage {
	return &memoryStorage{
		experiments:   make(map[experimentKey]model.Experiment),
		assignments:   make(map[assignmentKey]model.Assignment),
		organizations: make(map[string]model.Organization),
	}
}

func (m *memoryStorage) SaveExperiment(ctx context.Context, exp model.Experiment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.experiments[experimentKey{exp.OrganizationId, exp.Id}] = exp
	return nil
}

func (m *memoryStorage) GetExperiment(ctx context.Context, orgId string, id string) (*model.Experiment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	exp, ok := m.experiments[experimentKey{orgId, id}]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return &exp, nil
}

func (m *memoryStorage) DeleteExperiment(ctx context.Context, orgId string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := experimentKey{orgId, id}
	if _, ok := m.experiments[key]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.experiments, key)
	return nil
}

func (m *memoryStorage) ListExperiments(ctx context.Context, orgId string) ([]*model.Experiment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []*model.Experiment
	for _, exp := range m.experiments {
		if exp.OrganizationId == orgId {
			exp := exp
			res = append(res, &exp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Id < res[j].Id })
	return res, nil
}

func (m *memoryStorage) GetAssignment(ctx context.Context, orgId string, experimentId string, userId string) (*model.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[assignmentKey{orgId, experimentId, userId}]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return &a, nil
}

func (m *memoryStorage) CreateAssignment(ctx context.Context, assignment model.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := assignmentKey{assignment.OrganizationId, assignment.ExperimentId, assignment.UserId}
	if _, ok := m.assignments[key]; ok {
		return persistence.ErrAssignmentExists
	}
	m.assignments[key] = assignment
	return nil
}

func (m *memoryStorage) SaveOrganization(ctx context.Context, org model.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.organizations[org.Id] = org
	return nil
}

func (m *memoryStorage) FindOrganizationByKey(ctx context.Context, kind model.APIKeyKind, key string) (*model.Organization, error) {
	if key == "" {
		return nil, persistence.ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, org := range m.organizations {
		if org.KeyFor(kind) == key {
			org := org
			return &org, nil
		}
	}
	return nil, persistence.ErrNotFound
}

func (m *memoryStorage) Close() error {
	return nil
}
