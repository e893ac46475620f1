package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"hostelhub/internal/database"
	"hostelhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type gormTransactor struct {
	db *gorm.DB
}

func (g gormTransactor) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, tx)
	})
}

func setupStore(t *testing.T) (ServiceRequestStore, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewServiceRequestStore(database.DB{SQL: gormDB}, gormTransactor{db: gormDB}), mock
}

var requestColumns = []string{
	"id", "category", "requester_id", "provider_id", "hostel_id", "facility_id",
	"requested_date", "preferred_time_slot", "status", "feedback_rating", "created_at",
}

func requestRow(id uuid.UUID, status models.RequestStatus, rating any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(requestColumns).AddRow(
		id, "washing", uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		now.AddDate(0, 0, 1), "morning", string(status), rating, now,
	)
}

func TestServiceRequestStore_Insert(t *testing.T) {
	store, mock := setupStore(t)
	id := uuid.New()

	mock.ExpectQuery(`INSERT INTO "service_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))

	request := &models.ServiceRequest{
		Category:          models.CategoryWashing,
		RequesterID:       uuid.New(),
		ProviderID:        uuid.New(),
		HostelID:          uuid.New(),
		FacilityID:        uuid.New(),
		RequestedDate:     time.Now().AddDate(0, 0, 1),
		PreferredTimeSlot: models.TimeSlotMorning,
	}
	require.NoError(t, request.SetAttributes(models.WashingAttributes{ItemsCount: 3}))

	err := store.Insert(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, id, request.ID)
	assert.Equal(t, models.StatusPending, request.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRequestStore_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store, mock := setupStore(t)
		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "service_requests" WHERE id = \$1`).
			WillReturnRows(requestRow(id, models.StatusPending, nil))

		request, err := store.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, request.ID)
		assert.Equal(t, models.StatusPending, request.Status)
		assert.False(t, request.HasFeedback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrRecordNotFound", func(t *testing.T) {
		store, mock := setupStore(t)

		mock.ExpectQuery(`SELECT \* FROM "service_requests" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows(requestColumns))

		request, err := store.FindByID(context.Background(), uuid.New())

		assert.Nil(t, request)
		assert.ErrorIs(t, err, ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestServiceRequestStore_Find(t *testing.T) {
	store, mock := setupStore(t)
	requesterID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "service_requests" WHERE requester_id = \$1 AND category = \$2 ORDER BY created_at DESC`).
		WillReturnRows(requestRow(uuid.New(), models.StatusPending, nil))

	requests, err := store.Find(context.Background(), RequestFilter{
		RequesterID: &requesterID,
		Category:    models.CategoryWashing,
		OrderBy:     []string{"created_at DESC"},
		Limit:       10,
	})

	require.NoError(t, err)
	assert.Len(t, requests, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRequestStore_CompareAndSetStatus(t *testing.T) {
	t.Run("applies when status matches", func(t *testing.T) {
		store, mock := setupStore(t)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "service_requests" SET "status"=\$1`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "service_requests" WHERE id = \$1`).
			WillReturnRows(requestRow(id, models.StatusInProgress, nil))
		mock.ExpectCommit()

		updated, err := store.CompareAndSetStatus(
			context.Background(),
			id,
			models.StatusPending,
			models.StatusInProgress,
		)

		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, updated.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports condition failure when no row matched", func(t *testing.T) {
		store, mock := setupStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "service_requests" SET "status"=\$1`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		updated, err := store.CompareAndSetStatus(
			context.Background(),
			uuid.New(),
			models.StatusPending,
			models.StatusInProgress,
		)

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, ErrConditionFailed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database errors are returned", func(t *testing.T) {
		store, mock := setupStore(t)
		dbErr := errors.New("connection reset")

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "service_requests" SET "status"=\$1`).WillReturnError(dbErr)
		mock.ExpectRollback()

		_, err := store.CompareAndSetStatus(
			context.Background(),
			uuid.New(),
			models.StatusPending,
			models.StatusCancelled,
		)

		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrConditionFailed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestServiceRequestStore_SetFeedbackIfAbsent(t *testing.T) {
	t.Run("stores feedback once", func(t *testing.T) {
		store, mock := setupStore(t)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "service_requests" SET .*feedback_rating IS NULL`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "service_requests" WHERE id = \$1`).
			WillReturnRows(requestRow(id, models.StatusCompleted, 4))
		mock.ExpectCommit()

		updated, err := store.SetFeedbackIfAbsent(context.Background(), id, models.Feedback{
			Rating:      4,
			SubmittedAt: time.Now(),
		})

		require.NoError(t, err)
		require.NotNil(t, updated.FeedbackRating)
		assert.Equal(t, 4, *updated.FeedbackRating)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing feedback fails the condition", func(t *testing.T) {
		store, mock := setupStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "service_requests" SET .*feedback_rating IS NULL`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		updated, err := store.SetFeedbackIfAbsent(context.Background(), uuid.New(), models.Feedback{
			Rating:      5,
			SubmittedAt: time.Now(),
		})

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, ErrConditionFailed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
