package syncvendordirectory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobboard-workers/internal/common/errors"
	"jobboard-workers/internal/common/logger"
	"jobboard-workers/internal/common/vendorapi"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func testConfig() *Config {
	return &Config{
		Enabled:        true,
		MaxJobsActive:  3,
		Timeout:        30 * time.Second,
		APIKey:         "test-key",
		AuthToken:      "test-token",
		RequestTimeout: 5 * time.Second,
	}
}

func registryServer(t *testing.T, status int, body string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestService(t *testing.T, baseURL string, redisClient *redis.Client) (*Service, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	config := testConfig()
	config.BaseURL = baseURL

	service := NewService(ServiceDependencies{
		Logger:   logger.NewTestLogger(t),
		DB:       sqlDB,
		Redis:    redisClient,
		Registry: vendorapi.NewClient(baseURL, config.APIKey, config.AuthToken, config.RequestTimeout),
	}, config)

	return service, mock
}

func expectCurrentVendors(mock sqlmock.Sqlmock, companyID string, names ...string) {
	rows := sqlmock.NewRows([]string{"vendor_name"})
	for _, name := range names {
		rows.AddRow(name)
	}
	mock.ExpectQuery("SELECT vendor_name FROM company_vendors WHERE company_id").
		WithArgs(companyID).
		WillReturnRows(rows)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestService_Execute_SyncsDirectory(t *testing.T) {
	server := registryServer(t, http.StatusOK,
		`{"data":[{"id":"org-1","name":"Globex"},{"id":"org-2","name":"Initech"}]}`)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, mr.Set("job:profile:job-1", "cached"))

	service, mock := newTestService(t, server.URL, redisClient)

	expectCurrentVendors(mock, "company-1", "Acme Corp", "Globex")
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM company_vendors WHERE company_id").
		WithArgs("company-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO company_vendors").
		WithArgs("company-1", "Globex", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO company_vendors").
		WithArgs("company-1", "Initech", 1).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT id FROM jobs WHERE company_id").
		WithArgs("company-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("job-1"))

	output, err := service.Execute(context.Background(), &Input{CompanyID: "company-1"})
	require.NoError(t, err)

	assert.True(t, output.Success)
	assert.Equal(t, 2, output.VendorCount)
	assert.Equal(t, []string{"Initech"}, output.Added)
	assert.Equal(t, []string{"Acme Corp"}, output.Removed)

	// The cached job profile for the company must be gone.
	assert.False(t, mr.Exists("job:profile:job-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Execute_DryRunLeavesDirectoryUntouched(t *testing.T) {
	server := registryServer(t, http.StatusOK,
		`{"data":[{"name":"Globex"},{"name":"Initech"}]}`)

	service, mock := newTestService(t, server.URL, nil)

	expectCurrentVendors(mock, "company-1", "Acme Corp")

	output, err := service.Execute(context.Background(), &Input{CompanyID: "company-1", DryRun: true})
	require.NoError(t, err)

	assert.True(t, output.Success)
	assert.Contains(t, output.Message, "Dry run")
	assert.Equal(t, []string{"Globex", "Initech"}, output.Added)
	assert.Equal(t, []string{"Acme Corp"}, output.Removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Execute_AlreadyUpToDate(t *testing.T) {
	server := registryServer(t, http.StatusOK,
		`{"data":[{"name":"Globex"},{"name":"Initech"}]}`)

	service, mock := newTestService(t, server.URL, nil)

	expectCurrentVendors(mock, "company-1", "Globex", "Initech")

	output, err := service.Execute(context.Background(), &Input{CompanyID: "company-1"})
	require.NoError(t, err)

	assert.True(t, output.Success)
	assert.Contains(t, output.Message, "up to date")
	assert.Empty(t, output.Added)
	assert.Empty(t, output.Removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Execute_ReorderTriggersRewrite(t *testing.T) {
	server := registryServer(t, http.StatusOK,
		`{"data":[{"name":"Initech"},{"name":"Globex"}]}`)

	service, mock := newTestService(t, server.URL, nil)

	expectCurrentVendors(mock, "company-1", "Globex", "Initech")
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM company_vendors WHERE company_id").
		WithArgs("company-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO company_vendors").
		WithArgs("company-1", "Initech", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO company_vendors").
		WithArgs("company-1", "Globex", 1).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	output, err := service.Execute(context.Background(), &Input{CompanyID: "company-1"})
	require.NoError(t, err)

	assert.True(t, output.Success)
	assert.Empty(t, output.Added)
	assert.Empty(t, output.Removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Execute_DuplicateRegistryEntriesCollapsed(t *testing.T) {
	server := registryServer(t, http.StatusOK,
		`{"data":[{"name":"Globex"},{"name":"Globex"},{"name":"  "},{"name":"Initech"}]}`)

	service, mock := newTestService(t, server.URL, nil)

	expectCurrentVendors(mock, "company-1")

	output, err := service.Execute(context.Background(), &Input{CompanyID: "company-1", DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 2, output.VendorCount)
	assert.Equal(t, []string{"Globex", "Initech"}, output.Added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestService_Execute_RegistryFailure(t *testing.T) {
	server := registryServer(t, http.StatusInternalServerError, `{"error":"boom"}`)

	service, _ := newTestService(t, server.URL, nil)

	output, err := service.Execute(context.Background(), &Input{CompanyID: "company-1"})
	require.Error(t, err)
	assert.Nil(t, output)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, "VENDOR_API_ERROR", string(stdErr.Code))
	assert.True(t, stdErr.Retryable)
}

func TestService_Execute_NotConfigured(t *testing.T) {
	config := testConfig()
	config.APIKey = ""
	config.AuthToken = ""
	service := NewService(ServiceDependencies{Logger: logger.NewTestLogger(t)}, config)

	output, err := service.Execute(context.Background(), &Input{CompanyID: "company-1"})
	require.Error(t, err)
	assert.Nil(t, output)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, "VENDOR_API_NOT_CONFIGURED", string(stdErr.Code))
	assert.False(t, stdErr.Retryable)
}

func TestService_Execute_EmptyCompanyID(t *testing.T) {
	server := registryServer(t, http.StatusOK, `{"data":[]}`)
	service, _ := newTestService(t, server.URL, nil)

	output, err := service.Execute(context.Background(), &Input{CompanyID: "   "})
	require.Error(t, err)
	assert.Nil(t, output)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_FAILED", string(stdErr.Code))
	assert.False(t, stdErr.Retryable)
}

func TestService_Execute_DatabaseFailure(t *testing.T) {
	server := registryServer(t, http.StatusOK, `{"data":[{"name":"Globex"}]}`)

	service, mock := newTestService(t, server.URL, nil)

	mock.ExpectQuery("SELECT vendor_name FROM company_vendors WHERE company_id").
		WithArgs("company-1").
		WillReturnError(context.DeadlineExceeded)

	output, err := service.Execute(context.Background(), &Input{CompanyID: "company-1"})
	require.Error(t, err)
	assert.Nil(t, output)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, "SYNC_FAILED", string(stdErr.Code))
	assert.True(t, stdErr.Retryable)
}

// ==========================
// Unit Tests
// ==========================

func TestDiffVendors(t *testing.T) {
	added, removed := diffVendors(
		[]string{"Acme Corp", "Globex"},
		[]string{"Globex", "Initech", "Umbrella"},
	)
	assert.Equal(t, []string{"Initech", "Umbrella"}, added)
	assert.Equal(t, []string{"Acme Corp"}, removed)

	added, removed = diffVendors(nil, nil)
	assert.Empty(t, added)
	assert.Empty(t, removed)
}

// ==========================
// Configuration Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "missing api key", mutate: func(c *Config) { c.APIKey = "" }, wantErr: true},
		{name: "missing auth token", mutate: func(c *Config) { c.AuthToken = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: true},
		{name: "zero max jobs", mutate: func(c *Config) { c.MaxJobsActive = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewHandler_RejectsInvalidConfig(t *testing.T) {
	config := testConfig()
	config.APIKey = ""

	handler, err := NewHandler(HandlerOptions{
		CustomConfig: config,
		Logger:       logger.NewTestLogger(t),
	})
	assert.Error(t, err)
	assert.Nil(t, handler)
}

func TestNewHandler_CustomConfig(t *testing.T) {
	handler, err := NewHandler(HandlerOptions{
		CustomConfig: testConfig(),
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)

	assert.Equal(t, TaskType, handler.GetTaskType())
	assert.True(t, handler.IsEnabled())
}

func TestNewHandler_WiresErrorHandler(t *testing.T) {
	handler, err := NewHandler(HandlerOptions{
		CustomConfig: testConfig(),
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	assert.NotNil(t, handler.errorHandler)
}

func TestConvertToStandardError_DefaultIsRetryable(t *testing.T) {
	stdErr := convertToStandardError(assert.AnError)

	assert.Equal(t, errors.ErrCodeVendorAPIError, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Greater(t, errors.GetRetryCount(stdErr.Code), 0)

	// StandardErrors pass through untouched.
	apiErr := errors.NewVendorAPITimeoutError()
	assert.Same(t, apiErr, convertToStandardError(apiErr))
}
