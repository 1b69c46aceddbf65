package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"cleanops_backend/database"
	"cleanops_backend/internal/email"
	"cleanops_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Test site: Dubai Marina. farLatitude is roughly 1.1 km north, well
// past the proximity threshold.
const (
	siteLatitude  = 25.0805
	siteLongitude = 55.1403
	farLatitude   = 25.0905
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A plain ":memory:" DSN gives every pooled connection its own empty
	// database; shared cache keeps the schema visible across connections.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// memStorage is an in-memory blob store for tests.
type memStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{blobs: map[string][]byte{}}
}

func (m *memStorage) Save(ctx context.Context, path string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[path] = data
	return nil
}

func (m *memStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return io.NopCloser(bytes.NewReader(m.blobs[path])), nil
}

func (m *memStorage) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, path)
	return nil
}

func (m *memStorage) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[path]
	return ok, nil
}

func (m *memStorage) GetURL(ctx context.Context, path string) (string, error) {
	return "/files/" + path, nil
}

func (m *memStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

type testEnv struct {
	db       *gorm.DB
	blobs    *memStorage
	services *ServiceContainer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	blobs := newMemStorage()
	return &testEnv{
		db:       db,
		blobs:    blobs,
		services: NewServiceContainer(db, blobs, &email.MockProvider{}),
	}
}

func createCompany(t *testing.T, db *gorm.DB, plan models.CompanyPlan) *models.Company {
	t.Helper()

	company := &models.Company{
		Name:       "Sparkle Cleaning",
		OwnerEmail: "owner@sparkle.test",
		Plan:       plan,
	}
	if plan == models.CompanyPlanTrial {
		now := time.Now()
		expires := now.Add(14 * 24 * time.Hour)
		company.TrialStartedAt = &now
		company.TrialExpiresAt = &expires
	}
	require.NoError(t, db.Create(company).Error)
	return company
}

func createUser(t *testing.T, db *gorm.DB, companyID string, role models.UserRole, email string) *models.User {
	t.Helper()

	user := &models.User{
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: "x",
		FullName:     "Test User",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createLocation(t *testing.T, db *gorm.DB, companyID string, lat, lon *float64) *models.Location {
	t.Helper()

	location := &models.Location{
		CompanyID: companyID,
		Name:      "Marina Tower",
		Address:   "Dubai Marina",
		Latitude:  lat,
		Longitude: lon,
	}
	require.NoError(t, db.Create(location).Error)
	return location
}

func ptr(v float64) *float64 { return &v }

// createScheduledJob persists a job directly in scheduled state.
func createScheduledJob(t *testing.T, db *gorm.DB, company *models.Company, location *models.Location, worker *models.User) *models.Job {
	t.Helper()

	job := &models.Job{
		CompanyID:          company.ID,
		LocationID:         location.ID,
		WorkerID:           worker.ID,
		Status:             models.JobStatusScheduled,
		ScheduledDate:      time.Now().Truncate(24 * time.Hour),
		ScheduledStartTime: "09:00",
		ScheduledEndTime:   "11:00",
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

func createChecklistItem(t *testing.T, db *gorm.DB, jobID string, position int, text string, required, completed bool) *models.JobChecklistItem {
	t.Helper()

	item := &models.JobChecklistItem{
		JobID:     jobID,
		Position:  position,
		Text:      text,
		Required:  required,
		Completed: completed,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}
