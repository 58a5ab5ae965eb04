package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohitkumar/screenflow/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

var ErrNotFound = errors.New("not found")

// ErrAssignmentExists is returned by CreateAssignment when a row for the same
// experiment and user was written first.
var ErrAssignmentExists = errors.New("assignment already exists")

const EXPERIMENT_PREFIX string = "EXPERIMENT"
const ASSIGNMENT_PREFIX string = "ASSIGNMENT"
const ORGANIZATION_PREFIX string = "ORG"

type ExperimentStorage interface {
	SaveExperiment(ctx context.Context, exp model.Experiment) error
	GetExperiment(ctx context.Context, orgId string, id string) (*model.Experiment, error)
	DeleteExperiment(ctx context.Context, orgId string, id string) error
	ListExperiments(ctx context.Context, orgId string) ([]*model.Experiment, error)
}

type AssignmentStorage interface {
	GetAssignment(ctx context.Context, orgId string, experimentId string, userId string) (*model.Assignment, error)
	// CreateAssignment never overwrites. It returns ErrAssignmentExists when
	// the (experiment, user) pair is already taken.
	CreateAssignment(ctx context.Context, assignment model.Assignment) error
}

type OrganizationStorage interface {
	SaveOrganization(ctx context.Context, org model.Organization) error
	FindOrganizationByKey(ctx context.Context, kind model.APIKeyKind, key string) (*model.Organization, error)
}

type Storage interface {
	ExperimentStorage
	AssignmentStorage
	OrganizationStorage
	Close() error
}
