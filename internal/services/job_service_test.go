package services

import (
	"context"
	"testing"
	"time"

	"cleanops_backend/internal/apperrors"
	"cleanops_backend/internal/models"
	"cleanops_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func createTemplate(t *testing.T, env *testEnv, companyID string) *models.ChecklistTemplate {
	t.Helper()

	template, err := env.services.CatalogService.CreateTemplate(context.Background(), companyID, &dto.CreateTemplateRequest{
		Name: "Standard Clean",
		Items: []dto.CreateTemplateItem{
			{Text: "Vacuum floors", Required: true},
			{Text: "Wipe windows", Required: false},
		},
	})
	require.NoError(t, err)
	return template
}

func TestCreateJob_SnapshotsTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	template := createTemplate(t, env, company.ID)

	job, err := env.services.JobService.CreateJob(ctx, &dto.CreateJobRequest{
		CompanyID:           company.ID,
		LocationID:          location.ID,
		WorkerID:            worker.ID,
		ScheduledDate:       time.Now().AddDate(0, 0, 1),
		ScheduledStartTime:  "09:00",
		ScheduledEndTime:    "11:00",
		ChecklistTemplateID: template.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusScheduled, job.Status)
	require.Len(t, job.ChecklistItems, 2)
	assert.Equal(t, "Vacuum floors", job.ChecklistItems[0].Text)
	assert.True(t, job.ChecklistItems[0].Required)
	assert.False(t, job.ChecklistItems[0].Completed)

	// Later template edits never reach the snapshot.
	require.NoError(t, env.db.Model(&models.ChecklistTemplateItem{}).
		Where("template_id = ?", template.ID).
		Update("text", "Changed").Error)

	reloaded, err := env.services.JobService.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vacuum floors", reloaded.ChecklistItems[0].Text)
}

func TestCreateJob_RejectsInactiveWorker(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	worker.IsActive = false
	require.NoError(t, env.db.Save(worker).Error)

	_, err := env.services.JobService.CreateJob(ctx, &dto.CreateJobRequest{
		CompanyID:          company.ID,
		LocationID:         location.ID,
		WorkerID:           worker.ID,
		ScheduledDate:      time.Now(),
		ScheduledStartTime: "09:00",
		ScheduledEndTime:   "11:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrWorkerInactive))
}

func TestCreateJob_RejectsForeignLocation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	other := createCompany(t, env.db, models.CompanyPlanActive)
	foreignLocation := createLocation(t, env.db, other.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")

	_, err := env.services.JobService.CreateJob(ctx, &dto.CreateJobRequest{
		CompanyID:          company.ID,
		LocationID:         foreignLocation.ID,
		WorkerID:           worker.ID,
		ScheduledDate:      time.Now(),
		ScheduledStartTime: "09:00",
		ScheduledEndTime:   "11:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrLocationNotFound))
}

func TestCreateJob_TrialCapApplies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanTrial)
	company.PlanLimits = datatypes.JSON(`{"max_jobs": 1}`)
	require.NoError(t, env.db.Save(company).Error)

	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")

	req := &dto.CreateJobRequest{
		CompanyID:          company.ID,
		LocationID:         location.ID,
		WorkerID:           worker.ID,
		ScheduledDate:      time.Now(),
		ScheduledStartTime: "09:00",
		ScheduledEndTime:   "11:00",
	}

	_, err := env.services.JobService.CreateJob(ctx, req)
	require.NoError(t, err)

	_, err = env.services.JobService.CreateJob(ctx, req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrLimitReached))
}

func TestCheckIn_HappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	result, err := env.services.JobService.CheckIn(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusInProgress, result.Status)

	reloaded, err := env.services.JobService.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.ActualStartTime)

	var events []models.JobCheckEvent
	require.NoError(t, env.db.Where("job_id = ?", job.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, models.CheckEventCheckIn, events[0].Type)
	require.NotNil(t, events[0].DistanceM)
	assert.InDelta(t, 0, *events[0].DistanceM, 0.001)
}

func TestCheckIn_OutOfRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	_, err := env.services.JobService.CheckIn(ctx, job.ID, worker.ID, farLatitude, siteLongitude)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrOutOfRange))

	// The failed attempt must not touch the job.
	reloaded, err := env.services.JobService.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusScheduled, reloaded.Status)
	assert.Nil(t, reloaded.ActualStartTime)

	var count int64
	require.NoError(t, env.db.Model(&models.JobCheckEvent{}).Where("job_id = ?", job.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCheckIn_MissingCoordinates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, nil, nil)
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	_, err := env.services.JobService.CheckIn(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrMissingCoordinates))
}

func TestCheckIn_WrongWorker(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	intruder := createUser(t, env.db, company.ID, models.UserRoleCleaner, "other@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	_, err := env.services.JobService.CheckIn(ctx, job.ID, intruder.ID, siteLatitude, siteLongitude)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotAssignedWorker))
}

func TestCheckIn_DeactivatedWorker(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	worker.IsActive = false
	require.NoError(t, env.db.Save(worker).Error)

	_, err := env.services.JobService.CheckIn(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrWorkerInactive))
}

func TestCheckIn_TwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	_, err := env.services.JobService.CheckIn(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.NoError(t, err)

	_, err = env.services.JobService.CheckIn(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrJobStateConflict))
}

func TestCheckOut_RequiresInProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	_, err := env.services.JobService.CheckOut(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrJobStateConflict))
}

func TestCheckOut_ChecklistGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	required := createChecklistItem(t, env.db, job.ID, 1, "Vacuum floors", true, false)
	createChecklistItem(t, env.db, job.ID, 2, "Wipe windows", false, false)

	_, err := env.services.JobService.CheckIn(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.NoError(t, err)

	_, err = env.services.JobService.CheckOut(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrChecklistIncomplete))

	// Completing only the required item satisfies the gate; the
	// optional item may stay open.
	_, err = env.services.ProofService.ToggleChecklistItem(ctx, job.ID, required.ID, true)
	require.NoError(t, err)

	result, err := env.services.JobService.CheckOut(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, result.Status)
}

func TestCheckOut_AllItemsRequiredWhenNoneMarked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	createChecklistItem(t, env.db, job.ID, 1, "Vacuum floors", false, true)
	createChecklistItem(t, env.db, job.ID, 2, "Wipe windows", false, false)

	_, err := env.services.JobService.CheckIn(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.NoError(t, err)

	_, err = env.services.JobService.CheckOut(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrChecklistIncomplete))
}

func TestCheckOut_FinalizesExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	_, err := env.services.JobService.CheckIn(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.NoError(t, err)

	_, err = env.services.JobService.CheckOut(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.NoError(t, err)

	_, err = env.services.JobService.CheckOut(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrJobAlreadyFinalized))
}

func TestForceComplete_RequiresReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	manager := createUser(t, env.db, company.ID, models.UserRoleManager, "manager@sparkle.test")

	_, err := env.services.JobService.ForceComplete(ctx, "any", manager.ID, "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrOverrideReasonEmpty))
}

func TestForceComplete_CleanerForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	_, err := env.services.JobService.ForceComplete(ctx, job.ID, worker.ID, "customer left early")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestForceComplete_RequiresPriorCheckIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	manager := createUser(t, env.db, company.ID, models.UserRoleManager, "manager@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	_, err := env.services.JobService.ForceComplete(ctx, job.ID, manager.ID, "worker phone died")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrJobStateConflict))
}

func TestForceComplete_ClosesUnverified(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	manager := createUser(t, env.db, company.ID, models.UserRoleManager, "manager@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	_, err := env.services.JobService.CheckIn(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.NoError(t, err)

	result, err := env.services.JobService.ForceComplete(ctx, job.ID, manager.ID, "worker phone died")
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusCompletedUnverified, result.Status)
	assert.Equal(t, manager.ID, result.Override.By)
	assert.Equal(t, "worker phone died", result.Override.Reason)

	reloaded, err := env.services.JobService.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Override)
	assert.Equal(t, []string{"manager_override"}, reloaded.OverrideReasons())
	assert.NotNil(t, reloaded.ActualEndTime)

	// A second override hits the finalized guard.
	_, err = env.services.JobService.ForceComplete(ctx, job.ID, manager.ID, "again")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrJobAlreadyFinalized))
}

func TestCancel_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := createCompany(t, env.db, models.CompanyPlanActive)
	location := createLocation(t, env.db, company.ID, ptr(siteLatitude), ptr(siteLongitude))
	worker := createUser(t, env.db, company.ID, models.UserRoleCleaner, "cleaner@sparkle.test")
	job := createScheduledJob(t, env.db, company, location, worker)

	result, err := env.services.JobService.Cancel(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCancelled, result.Status)

	// Cancelled is terminal.
	_, err = env.services.JobService.Cancel(ctx, job.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrJobAlreadyFinalized))

	_, err = env.services.JobService.CheckIn(ctx, job.ID, worker.ID, siteLatitude, siteLongitude)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrJobAlreadyFinalized))
}
