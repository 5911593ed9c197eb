//go:build integration

package main_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/driveline/service-rental/internal/application"
	"github.com/driveline/service-rental/internal/domain/booking"
	"github.com/driveline/service-rental/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB      *gorm.DB
	Cleanup func()
}

// setupPostgres starts a PostgreSQL testcontainer and returns a connected
// GORM DB with the schema migrated.
func setupPostgres(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_rental",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_rental sslmode=disable",
		host, port.Port())

	var db *gorm.DB
	require.Eventually(t, func() bool {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		return err == nil
	}, 30*time.Second, time.Second)

	require.NoError(t, db.AutoMigrate(
		&repository.CarModel{},
		&repository.CustomerModel{},
		&repository.BookingModel{},
	))

	return &testInfra{
		DB: db,
		Cleanup: func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
			container.Terminate(ctx)
		},
	}
}

// newBookingService wires a BookingService over the real repositories with
// events and cache disabled.
func newBookingService(db *gorm.DB) *application.BookingService {
	return application.NewBookingService(
		repository.NewGormBookingRepository(db),
		repository.NewGormCarRepository(db),
		repository.NewGormCustomerRepository(db),
		booking.NewDailyRatePricing(),
		nil,
		nil,
		zap.NewNop(),
	)
}
