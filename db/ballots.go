// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballot-report/ballots"
	"github.com/danielhkuo/ballot-report/models"
)

const insertBallot = `
	INSERT INTO ballot (
		row_no, choice_1, choice_2, choice_3, choice_4,
		party_1, party_2, party_3, party_4,
		district_candidate_1, district_candidate_2,
		district_party_1, district_party_2,
		district_no, city_valid, district_valid
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`

const selectBallots = `
	SELECT row_no, choice_1, choice_2, choice_3, choice_4,
		party_1, party_2, party_3, party_4,
		district_candidate_1, district_candidate_2,
		district_party_1, district_party_2,
		district_no, city_valid, district_valid
	FROM ballot
	ORDER BY row_no
`

// ImportBallots replaces the ballot table with the store contents in one
// transaction and records the run. Returns the import run ID.
func ImportBallots(ctx context.Context, db *sql.DB, store *ballots.Store) (string, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ballot`); err != nil {
		return "", fmt.Errorf("failed to clear ballots: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertBallot)
	if err != nil {
		return "", fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range store.Ballots() {
		args := make([]any, 0, 16)
		args = append(args, b.Row)
		for _, s := range b.City {
			args = append(args, nullString(s.Candidate))
		}
		for _, s := range b.City {
			args = append(args, nullString(s.Party))
		}
		for _, s := range b.District {
			args = append(args, nullString(s.Candidate))
		}
		for _, s := range b.District {
			args = append(args, nullString(s.Party))
		}
		var districtNo sql.NullInt64
		if b.DistrictNo != nil {
			districtNo = sql.NullInt64{Int64: int64(*b.DistrictNo), Valid: true}
		}
		args = append(args, districtNo, b.CityValid, b.DistrictValid)

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return "", fmt.Errorf("failed to insert row %d: %w", b.Row, err)
		}
	}

	runID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO import_run (id, source, version, ballots)
		VALUES ($1, $2, $3, $4)
	`, runID, store.Source(), store.Version(), store.Len())
	if err != nil {
		return "", fmt.Errorf("failed to record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit import: %w", err)
	}
	return runID, nil
}

// LoadBallots reads the ballot table into a Store
func LoadBallots(ctx context.Context, db *sql.DB, source string) (*ballots.Store, error) {
	rows, err := db.QueryContext(ctx, selectBallots)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	var out []models.Ballot
	for rows.Next() {
		var (
			row                      int
			candidates, parties      [models.CitySlots]sql.NullString
			dCandidates, dParties    [models.DistrictSlots]sql.NullString
			districtNo               sql.NullInt64
			cityValid, districtValid bool
		)
		err := rows.Scan(&row,
			&candidates[0], &candidates[1], &candidates[2], &candidates[3],
			&parties[0], &parties[1], &parties[2], &parties[3],
			&dCandidates[0], &dCandidates[1],
			&dParties[0], &dParties[1],
			&districtNo, &cityValid, &districtValid,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}

		var city [models.CitySlots]models.Slot
		for i := range city {
			city[i] = models.Slot{Candidate: candidates[i].String, Party: parties[i].String}
		}
		var district [models.DistrictSlots]models.Slot
		for i := range district {
			district[i] = models.Slot{Candidate: dCandidates[i].String, Party: dParties[i].String}
		}
		var no *int
		if districtNo.Valid {
			n := int(districtNo.Int64)
			no = &n
		}

		b := ballots.NewBallot(row, city, district, no)
		b.CityValid = b.CityValid && cityValid
		b.DistrictValid = b.DistrictValid && districtValid
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ballots: %w", err)
	}

	return ballots.NewStore(source, out), nil
}

// ImportCount returns the number of recorded import runs
func ImportCount(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM import_run`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count imports: %w", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Source loads ballots from the database on every Load
type Source struct {
	DB   *sql.DB
	Name string
}

func (s Source) Load(ctx context.Context) (*ballots.Store, error) {
	return LoadBallots(ctx, s.DB, s.Describe())
}

func (s Source) Describe() string { return "db:" + s.Name }
