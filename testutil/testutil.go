// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/ballot-report/auth"
	"github.com/danielhkuo/ballot-report/ballots"
	"github.com/danielhkuo/ballot-report/cliparse"
	"github.com/danielhkuo/ballot-report/db"
	"github.com/danielhkuo/ballot-report/models"
)

// Test credentials accepted by TestUsers
const (
	TestUsername = "analyst"
	TestPassword = "correct horse battery staple"
	TestSalt     = "test-session-salt"
)

// SampleCSV is a small cleaned ballot table.
//
//	row 1: city A,A,A,B (3-1)      district A,A  no 1
//	row 2: city A,A,B,B (2-2)      district A,B  no 1
//	row 3: city A,B,C,D (1-1-1-1)  district E,B  no 2 (written "2.0")
//	row 4: city A,A,A,A (4)        district A,A  no 2
//	row 5: city B,B,C,A (2-1-1)    district C,B  no 2
//	row 6: no city choices         district C,B  no 3
//	row 7: nothing usable
const SampleCSV = `choice_1,choice_2,choice_3,choice_4,party_1,party_2,party_3,party_4,district_candidate_1,district_candidate_2,district_party_1,district_party_2,district_no
Alice Adams,Bob Brown,Carl Clark,Dana Diaz,A,A,A,B,Eve Evans,Finn Ford,A,A,1
Alice Adams,Bob Brown,Gina Green,Hank Hill,A,A,B,B,Eve Evans,Ivy Irwin,A,B,1
Alice Adams,Gina Green,Jon Jones,Kim King,A,B,C,D,Nora North,Ivy Irwin,E,B,2.0
Alice Adams,Bob Brown,Carl Clark,Lou Lane,A,A,A,A,Eve Evans,Finn Ford,A,A,2
Gina Green,Hank Hill,Jon Jones,Alice Adams,B,B,C,A,Moe Mills,Ivy Irwin,C,B,2
,,,,,,,,Moe Mills,Ivy Irwin,C,B,3
NaN,,,,,,,,,,,,
`

// SetupTestDB opens an in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DataPath:     "testdata/ballots.csv",
		DatabaseType: "sqlite",
		UsersFile:    "users.yaml",
		SessionSalt:  TestSalt,
		SessionTTL:   time.Hour,
		TopK:         cliparse.DefaultTopK,
		LogLevel:     "debug",
		LogEncoding:  "console",
	}
}

// TestUsers returns a users table holding TestUsername
func TestUsers(t *testing.T) *auth.Users {
	t.Helper()

	users, err := auth.NewUsers(map[string]string{TestUsername: auth.HashPassword(TestPassword)})
	if err != nil {
		t.Fatalf("Failed to build users: %v", err)
	}
	return users
}

// SampleStore parses SampleCSV
func SampleStore(t *testing.T) *ballots.Store {
	t.Helper()
	return LoadCSV(t, SampleCSV)
}

// LoadCSV parses an inline ballot table
func LoadCSV(t *testing.T, csv string) *ballots.Store {
	t.Helper()

	store, err := ballots.Load(strings.NewReader(csv), "test.csv")
	if err != nil {
		t.Fatalf("Failed to load ballots: %v", err)
	}
	return store
}

// S builds a slot
func S(candidate, party string) models.Slot {
	return models.Slot{Candidate: candidate, Party: party}
}

// IntPtr returns a pointer to n
func IntPtr(n int) *int { return &n }

// MakeBallot builds a ballot from up to four city and two district slots.
// Validity follows the same rule as loaded ballots.
func MakeBallot(row int, city []models.Slot, district []models.Slot, districtNo *int) models.Ballot {
	var c [models.CitySlots]models.Slot
	copy(c[:], city)
	var d [models.DistrictSlots]models.Slot
	copy(d[:], district)
	return ballots.NewBallot(row, c, d, districtNo)
}

// CityParties builds a city-only ballot whose candidates are named after
// their slot and party
func CityParties(row int, parties ...string) models.Ballot {
	slots := make([]models.Slot, 0, len(parties))
	for i, p := range parties {
		name := ""
		if p != "" {
			name = "Cand" + string(rune('A'+i)) + " " + p
		}
		slots = append(slots, S(name, p))
	}
	return MakeBallot(row, slots, nil, nil)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AuthHeaders returns a bearer header for a fresh TestUsername session
func AuthHeaders() map[string]string {
	token, _ := auth.IssueSessionToken(TestUsername, TestSalt, time.Hour, time.Now())
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
