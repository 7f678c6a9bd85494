package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/commerce"
	"github.com/shopsight/backend/internal/domain/ingestion"
	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM postgres connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormTenantRepository_FindActiveByStoreDomain(t *testing.T) {
	t.Run("finds active tenant", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantRepository(db)

		tenantID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "name", "store_domain", "active"}).
			AddRow(tenantID, "Acme", "acme.myshopify.com", true)

		mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE store_domain = \$1 AND active = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("acme.myshopify.com", true, 1).
			WillReturnRows(rows)

		found, err := repo.FindActiveByStoreDomain(context.Background(), "acme.myshopify.com")
		require.NoError(t, err)
		assert.Equal(t, tenantID, found.ID)
		assert.True(t, found.IsActive())
		assert.Equal(t, "acme.myshopify.com", found.Domain())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing tenant maps to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "tenants"`).
			WillReturnError(gorm.ErrRecordNotFound)

		found, err := repo.FindActiveByStoreDomain(context.Background(), "ghost.example.com")
		assert.Nil(t, found)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("empty domain never queries", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantRepository(db)

		_, err := repo.FindActiveByStoreDomain(context.Background(), "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_Create(t *testing.T) {
	newCustomer := func() *commerce.Customer {
		c, err := commerce.NewCustomer(uuid.New(), commerce.CustomerUpdate{
			ExternalID: "77",
			Email:      shared.Some("jo@example.com"),
			TotalSpent: shared.Some(decimal.RequireFromString("12.50")),
		})
		require.NoError(t, err)
		return c
	}

	t.Run("inserted row reports true", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		mock.ExpectExec(`INSERT INTO "customers" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		created, err := repo.Create(context.Background(), newCustomer())
		require.NoError(t, err)
		assert.True(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict reports false", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		mock.ExpectExec(`INSERT INTO "customers" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		created, err := repo.Create(context.Background(), newCustomer())
		require.NoError(t, err)
		assert.False(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error is returned", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		mock.ExpectExec(`INSERT INTO "customers"`).
			WillReturnError(errors.New("connection reset"))

		created, err := repo.Create(context.Background(), newCustomer())
		assert.Error(t, err)
		assert.False(t, created)
	})
}

func TestGormCustomerRepository_Update(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormCustomerRepository(db)

	c, err := commerce.NewCustomer(uuid.New(), commerce.CustomerUpdate{ExternalID: "77"})
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE "customers" SET .* WHERE tenant_id = \$\d+ AND id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCustomerRepository_FindByExternalID_ScopesTenant(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormCustomerRepository(db)

	tenantID := uuid.New()
	// scopes are applied after the statement's own conditions
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE external_customer_id = \$1 AND tenant_id = \$2 ORDER BY .* LIMIT \$3`).
		WithArgs("77", tenantID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByExternalID(context.Background(), tenantID, "77")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProcessingLogRepository_UpdateStatus(t *testing.T) {
	t.Run("updates status and error", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProcessingLogRepository(db)

		id := uuid.New()
		msg := "boom"
		mock.ExpectExec(`UPDATE "processing_logs" SET "error_message"=\$1,"status"=\$2,"updated_at"=\$3 WHERE id = \$4`).
			WithArgs("boom", "FAILED", sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), id, ingestion.LogStatusFailed, &msg, time.Now())
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown entry is not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProcessingLogRepository(db)

		mock.ExpectExec(`UPDATE "processing_logs"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), uuid.New(), ingestion.LogStatusCompleted, nil, time.Now())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	scope := NewGormTransactionScope(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "products" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := scope.Execute(context.Background(), func(ctx context.Context, repos commerce.Repositories) error {
		p, err := commerce.NewProduct(uuid.New(), commerce.ProductUpdate{ExternalID: "p1"})
		require.NoError(t, err)
		if _, err := repos.Products().Create(ctx, p); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
