package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/aanand-mishra/tutor-manager/internal/config"
	"github.com/aanand-mishra/tutor-manager/internal/storage/sqlite"
	"github.com/aanand-mishra/tutor-manager/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newStore(t *testing.T) *sqlite.SQLite {
	t.Helper()

	store, err := sqlite.New(&config.Config{StoragePath: ":memory:", EchoSQL: true})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func seed(t *testing.T, db bun.IDB) (*types.Student, *types.HourlyRate, *types.Course) {
	t.Helper()
	ctx := context.Background()

	student := &types.Student{
		FirstName:    "Marie",
		LastName:     "Curie",
		PhoneNumber:  "+33612345678",
		EmailAddress: "marie@example.com",
		Address:      "Paris",
	}
	_, err := db.NewInsert().Model(student).Exec(ctx)
	require.NoError(t, err)

	rate := &types.HourlyRate{Name: "Physics", Price: types.MustAmount("30")}
	_, err = db.NewInsert().Model(rate).Exec(ctx)
	require.NoError(t, err)

	course := &types.Course{
		Date:         time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		Duration:     types.MustAmount("1.5"),
		StudentID:    student.ID,
		HourlyRateID: rate.ID,
	}
	_, err = db.NewInsert().Model(course).Exec(ctx)
	require.NoError(t, err)

	return student, rate, course
}

func TestNew_CreatesSchema(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for _, table := range []string{"student", "hourly_rate", "course"} {
		var name string
		err := store.Db.NewRaw(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(ctx, &name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	// Running the migrations again is a no-op.
	require.NoError(t, sqlite.RunMigrations(ctx, store.Db))
}

func TestCourses_LoadsRelations(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	student, rate, course := seed(t, store.Db)
	assert.NotZero(t, student.ID)
	assert.NotZero(t, course.ID)

	courses, err := store.Courses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)

	got := courses[0]
	assert.Equal(t, course.ID, got.ID)
	assert.True(t, got.Date.Equal(course.Date))
	assert.Equal(t, "1.50", got.Duration.String())
	assert.False(t, got.Paid)
	require.NotNil(t, got.Student)
	assert.Equal(t, "Marie", got.Student.FirstName)
	require.NotNil(t, got.HourlyRate)
	assert.Equal(t, rate.ID, got.HourlyRate.ID)
	assert.Equal(t, "30.00", got.HourlyRate.Price.String())
	assert.Equal(t, "45.00", got.Cost().String())
}

func TestStudents_InsertionOrder(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for _, name := range []string{"Zoé", "Adam", "Mila"} {
		s := &types.Student{
			FirstName:    name,
			LastName:     "Test",
			PhoneNumber:  "+33612345678",
			EmailAddress: "t@example.com",
		}
		_, err := store.Db.NewInsert().Model(s).Exec(ctx)
		require.NoError(t, err)
	}

	students, err := store.Students(ctx)
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, "Zoé", students[0].FirstName)
	assert.Equal(t, "Adam", students[1].FirstName)
	assert.Equal(t, "Mila", students[2].FirstName)
}

func TestForeignKeys_CascadeOnDelete(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	student, _, _ := seed(t, store.Db)

	_, err := store.Db.NewDelete().Model(student).WherePK().Exec(ctx)
	require.NoError(t, err)

	courses, err := store.Courses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestForeignKeys_RejectDanglingCourse(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	course := &types.Course{
		Date:     time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		Duration: types.MustAmount("1"),
	}
	_, err := store.Db.NewInsert().Model(course).Exec(ctx)
	assert.Error(t, err)
}

func TestTx_RollsBackOnError(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	err := store.Tx(ctx, func(ctx context.Context, tx bun.Tx) error {
		seed(t, tx)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	students, err := store.Students(ctx)
	require.NoError(t, err)
	assert.Empty(t, students)
}
