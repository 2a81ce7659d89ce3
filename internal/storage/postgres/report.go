package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/deckbattle/internal/game/battle"
)

// ErrReportExists is returned when a battle has already been reported.
var ErrReportExists = errors.New("battle already reported")

// ReportRepository records victory reports for the world-impact collaborator.
type ReportRepository struct {
	db        *pgxpool.Pool
	profileID int64
}

// NewReportRepository creates a ReportRepository for profileID.
//
// Precondition: db must be a valid, open connection pool.
func NewReportRepository(db *pgxpool.Pool, profileID int64) *ReportRepository {
	return &ReportRepository{db: db, profileID: profileID}
}

// ReportVictory stores report under battleID.
//
// Postcondition: Returns ErrReportExists when battleID was already reported.
func (r *ReportRepository) ReportVictory(ctx context.Context, battleID string, report battle.VictoryReport) error {
	impacts, err := json.Marshal(report.Impacts)
	if err != nil {
		return fmt.Errorf("encoding impacts: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO battle_reports (battle_id, profile_id, scenario_id, action, impacts)
		VALUES ($1,$2,$3,$4,$5)`,
		battleID, r.profileID, report.ScenarioID, report.Action, impacts)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrReportExists
		}
		return fmt.Errorf("inserting battle report: %w", err)
	}
	return nil
}

// ListByScenario returns the reports filed for scenarioID, oldest first.
func (r *ReportRepository) ListByScenario(ctx context.Context, scenarioID string) ([]battle.VictoryReport, error) {
	rows, err := r.db.Query(ctx, `
		SELECT action, impacts, scenario_id FROM battle_reports
		WHERE profile_id = $1 AND scenario_id = $2 ORDER BY id ASC`,
		r.profileID, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("listing battle reports: %w", err)
	}
	reports, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (battle.VictoryReport, error) {
		var rep battle.VictoryReport
		var raw []byte
		if err := row.Scan(&rep.Action, &raw, &rep.ScenarioID); err != nil {
			return rep, err
		}
		return rep, json.Unmarshal(raw, &rep.Impacts)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning battle reports: %w", err)
	}
	return reports, nil
}
