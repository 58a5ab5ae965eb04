package sqlstore

// Plain ANSI types so the same statements run on postgres and sqlite.
// Empty api key columns are stored as NULL, which UNIQUE allows repeatedly.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		test_api_key TEXT UNIQUE,
		live_api_key TEXT UNIQUE,
		api_key TEXT UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS experiments (
		organization_id TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		variants TEXT NOT NULL,
		primary_metric TEXT NOT NULL DEFAULT '',
		secondary_metrics TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (organization_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS variant_assignments (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		experiment_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		variant_id TEXT NOT NULL,
		environment TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (organization_id, experiment_id, user_id)
	)`,
}
