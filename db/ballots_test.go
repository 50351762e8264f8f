// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/ballot-report/ballots"
)

const sampleCSV = `choice_1,choice_2,choice_3,choice_4,party_1,party_2,party_3,party_4,district_candidate_1,district_candidate_2,district_party_1,district_party_2,district_no
A,B,C,D,X,X,Y,Y,P,Q,X,Y,1
A,E,,,X,Z,,,P,,X,,2
,,,,,,,,R,S,Z,Z,2
F,G,H,I,W,W,W,W,,,,,
`

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, CreateSchema(conn))
	return conn
}

func sampleStore(t *testing.T) *ballots.Store {
	t.Helper()

	store, err := ballots.Load(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)
	return store
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := Open("mysql", "whatever")
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("Open() error = %v, want ErrUnsupportedDriver", err)
	}
}

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := setupDB(t)
	assert.NoError(t, CreateSchema(conn))
}

func TestImportAndLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := setupDB(t)
	store := sampleStore(t)

	runID, err := ImportBallots(ctx, conn, store)
	require.NoError(t, err)
	assert.Len(t, runID, 36)

	loaded, err := LoadBallots(ctx, conn, "db:test")
	require.NoError(t, err)

	if diff := cmp.Diff(store.Ballots(), loaded.Ballots()); diff != "" {
		t.Errorf("loaded ballots mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, store.Version(), loaded.Version())
	assert.Equal(t, store.Skipped(), loaded.Skipped())
	assert.Equal(t, []int{1, 2}, loaded.Districts())
	assert.Equal(t, "db:test", loaded.Source())
}

func TestImportBallots_ReplacesTable(t *testing.T) {
	ctx := context.Background()
	conn := setupDB(t)

	_, err := ImportBallots(ctx, conn, sampleStore(t))
	require.NoError(t, err)

	smaller, err := ballots.Load(strings.NewReader(
		"choice_1,choice_2,choice_3,choice_4,party_1,party_2,party_3,party_4\nA,B,C,D,X,X,X,X\n",
	), "small.csv")
	require.NoError(t, err)

	_, err = ImportBallots(ctx, conn, smaller)
	require.NoError(t, err)

	loaded, err := Source{DB: conn, Name: "test"}.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
	assert.Equal(t, "db:test", loaded.Source())
	// District columns were absent from the CSV
	assert.False(t, loaded.Ballots()[0].DistrictValid)
	assert.True(t, loaded.Ballots()[0].CityValid)

	n, err := ImportCount(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLoadBallots_Empty(t *testing.T) {
	conn := setupDB(t)

	loaded, err := LoadBallots(context.Background(), conn, "db:empty")
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
	assert.Empty(t, loaded.Districts())
}
