package ingestion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/commerce"
	"github.com/shopsight/backend/internal/domain/identity"
	"github.com/shopsight/backend/internal/domain/ingestion"
	"github.com/stretchr/testify/mock"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByStoreDomain(ctx context.Context, domain string) (*identity.Tenant, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindActiveByStoreDomain(ctx context.Context, domain string) (*identity.Tenant, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context) ([]identity.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

type MockProcessingLogRepository struct {
	mock.Mock
}

func (m *MockProcessingLogRepository) Create(ctx context.Context, entry *ingestion.ProcessingLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockProcessingLogRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status ingestion.LogStatus, errorMessage *string, at time.Time) error {
	args := m.Called(ctx, id, status, errorMessage, at)
	return args.Error(0)
}

func (m *MockProcessingLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*ingestion.ProcessingLogEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ingestion.ProcessingLogEntry), args.Error(1)
}

func (m *MockProcessingLogRepository) FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]ingestion.ProcessingLogEntry, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ingestion.ProcessingLogEntry), args.Error(1)
}

func (m *MockProcessingLogRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

type MockUpserter struct {
	mock.Mock
}

func (m *MockUpserter) UpsertCustomer(ctx context.Context, tenantID uuid.UUID, u commerce.CustomerUpdate) (UpsertResult, error) {
	args := m.Called(ctx, tenantID, u)
	return args.Get(0).(UpsertResult), args.Error(1)
}

func (m *MockUpserter) UpsertProduct(ctx context.Context, tenantID uuid.UUID, u commerce.ProductUpdate) (UpsertResult, error) {
	args := m.Called(ctx, tenantID, u)
	return args.Get(0).(UpsertResult), args.Error(1)
}

func (m *MockUpserter) UpsertOrder(ctx context.Context, tenantID uuid.UUID, u commerce.OrderUpdate) (OrderResult, error) {
	args := m.Called(ctx, tenantID, u)
	return args.Get(0).(OrderResult), args.Error(1)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, deliveryID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, deliveryID string) (bool, error) {
	args := m.Called(ctx, deliveryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

type MockPayloadArchive struct {
	mock.Mock
}

func (m *MockPayloadArchive) Store(ctx context.Context, entry *ingestion.ProcessingLogEntry, body []byte) (string, error) {
	args := m.Called(ctx, entry, body)
	return args.String(0), args.Error(1)
}
