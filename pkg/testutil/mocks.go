package testutil

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/gemflow/gemflow-backend/pkg/database"
	"github.com/gemflow/gemflow-backend/pkg/logger"
	"github.com/gemflow/gemflow-backend/pkg/messaging"
)

// MockDB wraps sqlmock for easier testing
type MockDB struct {
	DB   *database.DB
	Mock sqlmock.Sqlmock
}

// NewMockDB creates a new mock database for unit testing.
// Use this when you want to test repository or service logic without a
// real database.
//
// Usage:
//
//	mockDB := testutil.NewMockDB(t)
//	defer mockDB.Close()
//
//	mockDB.ExpectSnapshot()
//	mockDB.ExpectQuery("SELECT").WillReturnRows(...)
//	mockDB.Mock.ExpectCommit()
func NewMockDB(t *testing.T) *MockDB {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	sqlxDB := sqlx.NewDb(db, "postgres")
	log := logger.New("test", "test")

	return &MockDB{
		DB:   database.NewFromSqlx(sqlxDB, log),
		Mock: mock,
	}
}

// Close closes the mock database connection
func (m *MockDB) Close() error {
	return m.DB.Close()
}

// ExpectQuery sets up an expected query
func (m *MockDB) ExpectQuery(query string) *sqlmock.ExpectedQuery {
	return m.Mock.ExpectQuery(regexp.QuoteMeta(query))
}

// ExpectExec sets up an expected exec
func (m *MockDB) ExpectExec(query string) *sqlmock.ExpectedExec {
	return m.Mock.ExpectExec(regexp.QuoteMeta(query))
}

// ExpectSnapshot sets up an expected read-only snapshot transaction begin.
// Pair with Mock.ExpectCommit after the queries inside the snapshot.
func (m *MockDB) ExpectSnapshot() *sqlmock.ExpectedBegin {
	return m.Mock.ExpectBegin()
}

// ExpectationsWereMet verifies all expectations were met
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	if err := m.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// MockRows creates a new mock rows object
func MockRows(columns ...string) *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

// AnyUUID is a matcher for any UUID string
type AnyUUID struct{}

// Match satisfies the sqlmock.Argument interface
func (a AnyUUID) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	matched, _ := regexp.MatchString(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, s)
	return matched
}

// MockLowStockPublisher records low-stock events for verification
type MockLowStockPublisher struct {
	Detected []messaging.LowStockEvent
	Cleared  []messaging.LowStockEvent
}

// NewMockLowStockPublisher creates a new mock publisher
func NewMockLowStockPublisher() *MockLowStockPublisher {
	return &MockLowStockPublisher{}
}

// PublishLowStockDetected records a detected event
func (m *MockLowStockPublisher) PublishLowStockDetected(ctx context.Context, ev messaging.LowStockEvent) {
	m.Detected = append(m.Detected, ev)
}

// PublishLowStockCleared records a cleared event
func (m *MockLowStockPublisher) PublishLowStockCleared(ctx context.Context, ev messaging.LowStockEvent) {
	m.Cleared = append(m.Cleared, ev)
}

// Reset clears all recorded events
func (m *MockLowStockPublisher) Reset() {
	m.Detected = nil
	m.Cleared = nil
}
