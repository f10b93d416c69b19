package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS quality_characteristics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	weight_percentage REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS subcharacteristics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	max_score INTEGER NOT NULL DEFAULT 3,
	characteristic_id INTEGER NOT NULL,
	FOREIGN KEY (characteristic_id) REFERENCES quality_characteristics(id)
);

CREATE TABLE IF NOT EXISTS softwares (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	software_id INTEGER NOT NULL,
	date TIMESTAMP NOT NULL,
	global_score_percentage REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS evaluation_details (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	evaluation_id INTEGER NOT NULL,
	subcharacteristic_id INTEGER NOT NULL,
	score INTEGER NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	subcharacteristic_name TEXT NOT NULL,
	subcharacteristic_description TEXT NOT NULL DEFAULT '',
	max_score INTEGER NOT NULL,
	FOREIGN KEY (evaluation_id) REFERENCES evaluations(id),
	FOREIGN KEY (subcharacteristic_id) REFERENCES subcharacteristics(id)
);

CREATE TABLE IF NOT EXISTS evaluation_characteristic_summaries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	evaluation_id INTEGER NOT NULL,
	characteristic_id INTEGER NOT NULL,
	value INTEGER NOT NULL,
	max_value INTEGER NOT NULL,
	result_percentage REAL NOT NULL,
	weighted_percentage REAL NOT NULL,
	characteristic_name TEXT NOT NULL,
	weight_percentage REAL NOT NULL,
	FOREIGN KEY (evaluation_id) REFERENCES evaluations(id),
	FOREIGN KEY (characteristic_id) REFERENCES quality_characteristics(id)
);

CREATE INDEX IF NOT EXISTS idx_evaluations_software ON evaluations(software_id);
CREATE INDEX IF NOT EXISTS idx_details_evaluation ON evaluation_details(evaluation_id);
CREATE INDEX IF NOT EXISTS idx_summaries_evaluation ON evaluation_characteristic_summaries(evaluation_id);
`

// EnsureSchema creates the evaluation tables if they do not exist yet.
// Migrations proper are out of scope; this keeps a fresh database usable.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
