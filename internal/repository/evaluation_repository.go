package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/softqual/evaluation-server/internal/repository/models"
)

type EvaluationRepository struct {
	db *sql.DB
}

func NewEvaluationRepository(db *sql.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// GetSubcharacteristic fetches one catalog subcharacteristic by id.
// The boolean reports whether the row exists.
func (r *EvaluationRepository) GetSubcharacteristic(ctx context.Context, id int64) (models.Subcharacteristic, bool, error) {
	const query = `
		SELECT id, name, description, max_score, characteristic_id
		FROM subcharacteristics
		WHERE id = ?
	`

	var sub models.Subcharacteristic
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.Name, &sub.Description, &sub.MaxScore, &sub.CharacteristicID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Subcharacteristic{}, false, nil
		}
		return models.Subcharacteristic{}, false, fmt.Errorf("query GetSubcharacteristic: %w", err)
	}
	return sub, true, nil
}

// GetCharacteristic fetches one catalog quality characteristic by id.
func (r *EvaluationRepository) GetCharacteristic(ctx context.Context, id int64) (models.QualityCharacteristic, bool, error) {
	const query = `
		SELECT id, name, weight_percentage
		FROM quality_characteristics
		WHERE id = ?
	`

	var qc models.QualityCharacteristic
	err := r.db.QueryRowContext(ctx, query, id).Scan(&qc.ID, &qc.Name, &qc.WeightPercentage)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.QualityCharacteristic{}, false, nil
		}
		return models.QualityCharacteristic{}, false, fmt.Errorf("query GetCharacteristic: %w", err)
	}
	return qc, true, nil
}

// InsertEvaluation persists one evaluation with all of its detail and
// summary rows in a single transaction. Either every row commits or none
// does. Returns the id allocated for the evaluation.
func (r *EvaluationRepository) InsertEvaluation(
	ctx context.Context,
	eval models.Evaluation,
	details []models.EvaluationDetail,
	summaries []models.EvaluationCharacteristicSummary,
) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin InsertEvaluation: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO evaluations (software_id, date, global_score_percentage)
		VALUES (?, ?, ?)
	`, eval.SoftwareID, eval.Date.UTC(), eval.GlobalScorePercentage)
	if err != nil {
		return 0, fmt.Errorf("insert evaluation: %w", err)
	}

	evaluationID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("evaluation id: %w", err)
	}

	for _, d := range details {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO evaluation_details (
				evaluation_id, subcharacteristic_id, score, comment,
				subcharacteristic_name, subcharacteristic_description, max_score
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`, evaluationID, d.SubcharacteristicID, d.Score, d.Comment,
			d.SubcharacteristicName, d.SubcharacteristicDescription, d.MaxScore)
		if err != nil {
			return 0, fmt.Errorf("insert evaluation detail: %w", err)
		}
	}

	for _, s := range summaries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO evaluation_characteristic_summaries (
				evaluation_id, characteristic_id, value, max_value,
				result_percentage, weighted_percentage, characteristic_name, weight_percentage
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, evaluationID, s.CharacteristicID, s.Value, s.MaxValue,
			s.ResultPercentage, s.WeightedPercentage, s.CharacteristicName, s.WeightPercentage)
		if err != nil {
			return 0, fmt.Errorf("insert characteristic summary: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit InsertEvaluation: %w", err)
	}
	return evaluationID, nil
}

// FindLatestEvaluation returns the most recent evaluation for a software.
func (r *EvaluationRepository) FindLatestEvaluation(ctx context.Context, softwareID int64) (models.Evaluation, bool, error) {
	const query = `
		SELECT id, software_id, date, global_score_percentage
		FROM evaluations
		WHERE software_id = ?
		ORDER BY date DESC, id DESC
		LIMIT 1
	`

	var e models.Evaluation
	err := r.db.QueryRowContext(ctx, query, softwareID).Scan(
		&e.ID, &e.SoftwareID, &e.Date, &e.GlobalScorePercentage,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Evaluation{}, false, nil
		}
		return models.Evaluation{}, false, fmt.Errorf("query FindLatestEvaluation: %w", err)
	}
	return e, true, nil
}

// FindEvaluation returns the evaluation matching both ids. Requiring the
// software id guards against evaluation ids leaking across softwares.
func (r *EvaluationRepository) FindEvaluation(ctx context.Context, evaluationID, softwareID int64) (models.Evaluation, bool, error) {
	const query = `
		SELECT id, software_id, date, global_score_percentage
		FROM evaluations
		WHERE id = ? AND software_id = ?
	`

	var e models.Evaluation
	err := r.db.QueryRowContext(ctx, query, evaluationID, softwareID).Scan(
		&e.ID, &e.SoftwareID, &e.Date, &e.GlobalScorePercentage,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Evaluation{}, false, nil
		}
		return models.Evaluation{}, false, fmt.Errorf("query FindEvaluation: %w", err)
	}
	return e, true, nil
}

// ListDetailsForEvaluation returns all detail rows of an evaluation joined
// with their subcharacteristic and its owning characteristic, so callers
// never need per-row catalog lookups.
func (r *EvaluationRepository) ListDetailsForEvaluation(ctx context.Context, evaluationID int64) ([]models.DetailWithCatalog, error) {
	const query = `
		SELECT
			d.id, d.evaluation_id, d.subcharacteristic_id, d.score, d.comment,
			d.subcharacteristic_name, d.subcharacteristic_description, d.max_score,
			s.id, s.name, s.description, s.max_score, s.characteristic_id,
			c.id, c.name, c.weight_percentage
		FROM evaluation_details AS d
		JOIN subcharacteristics AS s ON d.subcharacteristic_id = s.id
		JOIN quality_characteristics AS c ON s.characteristic_id = c.id
		WHERE d.evaluation_id = ?
		ORDER BY d.id
	`

	rows, err := r.db.QueryContext(ctx, query, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("query ListDetailsForEvaluation: %w", err)
	}
	defer rows.Close()

	var results []models.DetailWithCatalog
	for rows.Next() {
		var dc models.DetailWithCatalog
		err := rows.Scan(
			&dc.Detail.ID, &dc.Detail.EvaluationID, &dc.Detail.SubcharacteristicID,
			&dc.Detail.Score, &dc.Detail.Comment, &dc.Detail.SubcharacteristicName,
			&dc.Detail.SubcharacteristicDescription, &dc.Detail.MaxScore,
			&dc.Subcharacteristic.ID, &dc.Subcharacteristic.Name,
			&dc.Subcharacteristic.Description, &dc.Subcharacteristic.MaxScore,
			&dc.Subcharacteristic.CharacteristicID,
			&dc.Characteristic.ID, &dc.Characteristic.Name, &dc.Characteristic.WeightPercentage,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ListDetailsForEvaluation row: %w", err)
		}
		results = append(results, dc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListDetailsForEvaluation: %w", err)
	}
	return results, nil
}

// ListSoftwaresOwnedByUser returns every software of a user together with
// all of its evaluations, from a single LEFT JOIN query.
func (r *EvaluationRepository) ListSoftwaresOwnedByUser(ctx context.Context, userID int64) ([]models.SoftwareWithEvaluations, error) {
	const query = `
		SELECT
			s.id, s.user_id, s.name,
			e.id, e.date, e.global_score_percentage
		FROM softwares AS s
		LEFT JOIN evaluations AS e ON e.software_id = s.id
		WHERE s.user_id = ?
		ORDER BY s.id, e.date, e.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query ListSoftwaresOwnedByUser: %w", err)
	}
	defer rows.Close()

	var results []models.SoftwareWithEvaluations
	index := make(map[int64]int)

	for rows.Next() {
		var sw models.Software
		var evalID sql.NullInt64
		var evalDate sql.NullTime
		var evalScore sql.NullFloat64

		if err := rows.Scan(&sw.ID, &sw.UserID, &sw.Name, &evalID, &evalDate, &evalScore); err != nil {
			return nil, fmt.Errorf("scan ListSoftwaresOwnedByUser row: %w", err)
		}

		i, ok := index[sw.ID]
		if !ok {
			i = len(results)
			index[sw.ID] = i
			results = append(results, models.SoftwareWithEvaluations{Software: sw})
		}

		if evalID.Valid {
			results[i].Evaluations = append(results[i].Evaluations, models.Evaluation{
				ID:                    evalID.Int64,
				SoftwareID:            sw.ID,
				Date:                  evalDate.Time,
				GlobalScorePercentage: evalScore.Float64,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListSoftwaresOwnedByUser: %w", err)
	}
	return results, nil
}

// ListSummariesForEvaluation returns the per-characteristic summary rows
// of one evaluation, in insertion order.
func (r *EvaluationRepository) ListSummariesForEvaluation(ctx context.Context, evaluationID int64) ([]models.EvaluationCharacteristicSummary, error) {
	const query = `
		SELECT id, evaluation_id, characteristic_id, value, max_value,
			result_percentage, weighted_percentage, characteristic_name, weight_percentage
		FROM evaluation_characteristic_summaries
		WHERE evaluation_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("query ListSummariesForEvaluation: %w", err)
	}
	defer rows.Close()

	var results []models.EvaluationCharacteristicSummary
	for rows.Next() {
		var s models.EvaluationCharacteristicSummary
		err := rows.Scan(
			&s.ID, &s.EvaluationID, &s.CharacteristicID, &s.Value, &s.MaxValue,
			&s.ResultPercentage, &s.WeightedPercentage, &s.CharacteristicName, &s.WeightPercentage,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ListSummariesForEvaluation row: %w", err)
		}
		results = append(results, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListSummariesForEvaluation: %w", err)
	}
	return results, nil
}
