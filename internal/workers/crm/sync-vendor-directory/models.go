package syncvendordirectory

import (
	"context"
	"database/sql"
	"time"

	"jobboard-workers/internal/common/logger"
	"jobboard-workers/internal/common/vendorapi"

	"github.com/redis/go-redis/v9"
)

type Input struct {
	CompanyID string                 `json:"companyId"`
	DryRun    bool                   `json:"dryRun,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	VendorCount int       `json:"vendorCount"`
	Added       []string  `json:"added,omitempty"`
	Removed     []string  `json:"removed,omitempty"`
	SyncedAt    time.Time `json:"syncedAt,omitempty"`
}

// RegistryClient is the slice of the vendor-registry API the sync needs.
type RegistryClient interface {
	GetCompanyVendors(ctx context.Context, companyID string) ([]vendorapi.Organization, error)
}

type ServiceDependencies struct {
	Logger   logger.Logger
	DB       *sql.DB
	Redis    *redis.Client
	Registry RegistryClient
}
