// internal/workers/infrastructure/check-priority-routing/handler_test.go
package checkpriorityrouting

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"jobboard-workers/internal/common/logger"
	"jobboard-workers/internal/scoring"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		CacheTTL: 30 * time.Minute,
	}
}

func setupRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func createTestInput(companyID string) *Input {
	return &Input{
		CompanyID: companyID,
	}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name             string
		companyID        string
		accountType      string
		setupCache       bool
		cacheValue       string
		setupDB          bool
		expectedPremium  bool
		expectedPriority string
	}{
		{
			name:             "premium account from cache",
			companyID:        "company-001",
			setupCache:       true,
			cacheValue:       AccountTypePremium,
			setupDB:          false,
			expectedPremium:  true,
			expectedPriority: PriorityHigh,
		},
		{
			name:             "premium account from database",
			companyID:        "company-002",
			accountType:      AccountTypePremium,
			setupDB:          true,
			expectedPremium:  true,
			expectedPriority: PriorityHigh,
		},
		{
			name:             "verified account from database",
			companyID:        "company-003",
			accountType:      AccountTypeVerified,
			setupDB:          true,
			expectedPremium:  false,
			expectedPriority: PriorityMedium,
		},
		{
			name:             "standard account from database",
			companyID:        "company-004",
			accountType:      AccountTypeStandard,
			setupDB:          true,
			expectedPremium:  false,
			expectedPriority: PriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb := setupRedis(t)
			db, mock := setupMockDB(t)

			if tt.setupCache {
				err := rdb.Set(context.Background(), "employer:account:"+tt.companyID, tt.cacheValue, 30*time.Minute).Err()
				assert.NoError(t, err)
			}

			if tt.setupDB {
				mock.ExpectQuery("SELECT account_type").
					WithArgs(tt.companyID).
					WillReturnRows(sqlmock.NewRows([]string{"account_type"}).AddRow(tt.accountType))
			}

			handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))
			output, err := handler.Execute(context.Background(), createTestInput(tt.companyID))

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedPremium, output.IsPremiumEmployer)
			assert.Equal(t, tt.expectedPriority, output.RoutingPriority)
			assert.False(t, output.FastTrack)
		})
	}
}

func TestHandler_Execute_FastTrack(t *testing.T) {
	tests := []struct {
		name        string
		accountType string
		band        string
		expected    bool
	}{
		{"premium employer, excellent band", AccountTypePremium, string(scoring.BandExcellent), true},
		{"premium employer, good band", AccountTypePremium, string(scoring.BandGood), false},
		{"verified employer, excellent band", AccountTypeVerified, string(scoring.BandExcellent), false},
		{"premium employer, no band", AccountTypePremium, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb := setupRedis(t)
			db, _ := setupMockDB(t)

			err := rdb.Set(context.Background(), "employer:account:company-ft", tt.accountType, 30*time.Minute).Err()
			assert.NoError(t, err)

			handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))
			input := &Input{CompanyID: "company-ft", AssessmentBand: tt.band}

			output, err := handler.Execute(context.Background(), input)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, output.FastTrack)
		})
	}
}

func TestHandler_Execute_UnknownAccountTypeNormalizes(t *testing.T) {
	rdb := setupRedis(t)
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT account_type").
		WithArgs("company-005").
		WillReturnRows(sqlmock.NewRows([]string{"account_type"}).AddRow("enterprise-legacy"))

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))
	output, err := handler.Execute(context.Background(), createTestInput("company-005"))

	assert.NoError(t, err)
	assert.False(t, output.IsPremiumEmployer)
	assert.Equal(t, PriorityLow, output.RoutingPriority)
}

func TestHandler_Execute_LookupFailureDegradesToStandard(t *testing.T) {
	tests := []struct {
		name    string
		setupDB func(sqlmock.Sqlmock)
	}{
		{
			name: "database error",
			setupDB: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT account_type").
					WithArgs("company-006").
					WillReturnError(sql.ErrConnDone)
			},
		},
		{
			name: "account not found",
			setupDB: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT account_type").
					WithArgs("company-006").
					WillReturnError(sql.ErrNoRows)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb := setupRedis(t)
			db, mock := setupMockDB(t)
			tt.setupDB(mock)

			handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))
			output, err := handler.Execute(context.Background(), createTestInput("company-006"))

			assert.NoError(t, err)
			assert.False(t, output.IsPremiumEmployer)
			assert.Equal(t, PriorityLow, output.RoutingPriority)
			assert.False(t, output.FastTrack)
		})
	}
}

// ==========================
// Unit Tests
// ==========================

func TestHandler_GetEmployerAccountType_CacheMissPopulatesCache(t *testing.T) {
	rdb := setupRedis(t)
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT account_type").
		WithArgs("company-007").
		WillReturnRows(sqlmock.NewRows([]string{"account_type"}).AddRow(AccountTypeVerified))

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	accountType, err := handler.getEmployerAccountType(context.Background(), "company-007")
	assert.NoError(t, err)
	assert.Equal(t, AccountTypeVerified, accountType)

	cached, err := rdb.Get(context.Background(), "employer:account:company-007").Result()
	assert.NoError(t, err)
	assert.Equal(t, AccountTypeVerified, cached)
}

func TestHandler_DeterminePriority(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, nil, newTestLogger(t))

	tests := []struct {
		accountType string
		expected    string
	}{
		{AccountTypePremium, PriorityHigh},
		{AccountTypeVerified, PriorityMedium},
		{AccountTypeStandard, PriorityLow},
		{"anything-else", PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.accountType, func(t *testing.T) {
			assert.Equal(t, tt.expected, handler.determinePriority(tt.accountType))
		})
	}
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandler_Execute_CacheHit(b *testing.B) {
	mr, _ := miniredis.Run()
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rdb.Set(context.Background(), "employer:account:company-bench", AccountTypePremium, 30*time.Minute)

	handler := NewHandler(createTestConfig(), nil, rdb, newTestLogger(&testing.T{}))
	input := createTestInput("company-bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
