package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/persistence"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, s *memoryStorage){
		"experiments are org scoped":      testExperimentScope,
		"assignment is written once":      testAssignmentOnce,
		"concurrent creates have one win": testConcurrentCreate,
		"organization lookup by key kind": testOrganizationLookup,
		"same ids in two organizations":   testSharedIds,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, NewMemoryStorage())
		})
	}
}

func testExperimentScope(t *testing.T, s *memoryStorage) {
	ctx := context.Background()
	require.NoError(t, s.SaveExperiment(ctx, model.Experiment{Id: "e2", OrganizationId: "o1"}))
	require.NoError(t, s.SaveExperiment(ctx, model.Experiment{Id: "e1", OrganizationId: "o1"}))
	require.NoError(t, s.SaveExperiment(ctx, model.Experiment{Id: "e3", OrganizationId: "o2"}))

	_, err := s.GetExperiment(ctx, "o2", "e1")
	require.ErrorIs(t, err, persistence.ErrNotFound)
	exp, err := s.GetExperiment(ctx, "o1", "e1")
	require.NoError(t, err)
	require.Equal(t, "e1", exp.Id)

	list, err := s.ListExperiments(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "e1", list[0].Id)

	require.ErrorIs(t, s.DeleteExperiment(ctx, "o2", "e1"), persistence.ErrNotFound)
	require.NoError(t, s.DeleteExperiment(ctx, "o1", "e1"))
}

func testAssignmentOnce(t *testing.T, s *memoryStorage) {
	ctx := context.Background()
	_, err := s.GetAssignment(ctx, "o", "e", "u")
	require.ErrorIs(t, err, persistence.ErrNotFound)

	require.NoError(t, s.CreateAssignment(ctx, model.Assignment{OrganizationId: "o", ExperimentId: "e", UserId: "u", VariantId: "a"}))
	err = s.CreateAssignment(ctx, model.Assignment{OrganizationId: "o", ExperimentId: "e", UserId: "u", VariantId: "b"})
	require.ErrorIs(t, err, persistence.ErrAssignmentExists)

	a, err := s.GetAssignment(ctx, "o", "e", "u")
	require.NoError(t, err)
	require.Equal(t, "a", a.VariantId)
}

func testConcurrentCreate(t *testing.T, s *memoryStorage) {
	ctx := context.Background()
	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.CreateAssignment(ctx, model.Assignment{ExperimentId: "e", UserId: "u"}) == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), wins)
}

func testSharedIds(t *testing.T, s *memoryStorage) {
	ctx := context.Background()
	require.NoError(t, s.SaveExperiment(ctx, model.Experiment{Id: "e", OrganizationId: "o1", Name: "ours"}))
	require.NoError(t, s.SaveExperiment(ctx, model.Experiment{Id: "e", OrganizationId: "o2", Name: "theirs"}))

	exp, err := s.GetExperiment(ctx, "o1", "e")
	require.NoError(t, err)
	require.Equal(t, "ours", exp.Name)
	exp, err = s.GetExperiment(ctx, "o2", "e")
	require.NoError(t, err)
	require.Equal(t, "theirs", exp.Name)

	require.NoError(t, s.CreateAssignment(ctx, model.Assignment{OrganizationId: "o1", ExperimentId: "e", UserId: "u", VariantId: "a"}))
	require.NoError(t, s.CreateAssignment(ctx, model.Assignment{OrganizationId: "o2", ExperimentId: "e", UserId: "u", VariantId: "b"}))
	a, err := s.GetAssignment(ctx, "o2", "e", "u")
	require.NoError(t, err)
	require.Equal(t, "b", a.VariantId)

	require.NoError(t, s.DeleteExperiment(ctx, "o2", "e"))
	_, err = s.GetExperiment(ctx, "o1", "e")
	require.NoError(t, err)
}

func testOrganizationLookup(t *testing.T, s *memoryStorage) {
	ctx := context.Background()
	require.NoError(t, s.SaveOrganization(ctx, model.Organization{Id: "o1", TestAPIKey: "sf_test_1", LiveAPIKey: "sf_live_1", APIKey: "legacy"}))

	org, err := s.FindOrganizationByKey(ctx, model.API_KEY_TEST, "sf_test_1")
	require.NoError(t, err)
	require.Equal(t, "o1", org.Id)

	_, err = s.FindOrganizationByKey(ctx, model.API_KEY_LIVE, "sf_test_1")
	require.ErrorIs(t, err, persistence.ErrNotFound)

	_, err = s.FindOrganizationByKey(ctx, model.API_KEY_LEGACY, "")
	require.ErrorIs(t, err, persistence.ErrNotFound)
}
