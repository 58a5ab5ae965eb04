package model

import "time"

type Environment string

const ENVIRONMENT_TEST Environment = "test"
const ENVIRONMENT_LIVE Environment = "live"

// Assignment is the sticky choice of a variant for one user of one experiment.
// It is unique on (OrganizationId, ExperimentId, UserId) and never updated.
type Assignment struct {
	Id             string      `json:"id"`
	OrganizationId string      `json:"organization_id"`
	ExperimentId   string      `json:"experiment_id"`
	UserId         string      `json:"user_id"`
	VariantId      string      `json:"variant_id"`
	Environment    Environment `json:"environment"`
	CreatedAt      time.Time   `json:"created_at"`
}

type AssignRequest struct {
	ExperimentId string `json:"experiment_id"`
	UserId       string `json:"user_id"`
}

type VariantConfig struct {
	Screens []Screen `json:"screens"`
}

type AssignmentResult struct {
	VariantId     string        `json:"variant_id"`
	VariantConfig VariantConfig `json:"variant_config"`
	Cached        bool          `json:"cached"`
}

type APIKeyKind string

const API_KEY_TEST APIKeyKind = "test"
const API_KEY_LIVE APIKeyKind = "live"
const API_KEY_LEGACY APIKeyKind = "legacy"

// Organization carries one key column per environment plus the single key
// used before environments existed.
type Organization struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	TestAPIKey string `json:"test_api_key,omitempty"`
	LiveAPIKey string `json:"live_api_key,omitempty"`
	APIKey     string `json:"api_key,omitempty"`
}

func (o *Organization) KeyFor(kind APIKeyKind) string {
	switch kind {
	case API_KEY_TEST:
		return o.TestAPIKey
	case API_KEY_LIVE:
		return o.LiveAPIKey
	case API_KEY_LEGACY:
		return o.APIKey
	}
	return ""
}
