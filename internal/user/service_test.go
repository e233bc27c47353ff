package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/auth"
	"github.com/saulo-duarte/scent-quiz/internal/config"
	"github.com/saulo-duarte/scent-quiz/internal/gateway"
	"github.com/saulo-duarte/scent-quiz/internal/testutil"
	"github.com/saulo-duarte/scent-quiz/internal/user"
	"github.com/saulo-duarte/scent-quiz/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*gorm.DB, user.UserService) {
	t.Helper()
	auth.Init("user-service-test-secret")

	db := testutil.DB(t)
	svc := user.NewService(user.NewRepository(db), gateway.New(db), validation.New(), config.AuthSettings{
		TokenTTL:    time.Hour,
		AdminEmails: "admin@example.com",
	})
	return db, svc
}

func validEntry() user.EntryDTO {
	return user.EntryDTO{
		Name:   "Iris",
		Email:  "iris@example.com",
		Age:    29,
		Gender: user.GenderFemale,
	}
}

func TestEnter(t *testing.T) {
	ctx := context.Background()

	t.Run("FindOrCreate", func(t *testing.T) {
		_, svc := newService(t)

		first, err := svc.Enter(ctx, validEntry())
		require.NoError(t, err)
		assert.True(t, first.Created)
		assert.NotEmpty(t, first.Token)

		claims, err := auth.ValidateJWT(first.Token)
		require.NoError(t, err)
		assert.Equal(t, first.User.ID.String(), claims.UserID)
		assert.Equal(t, auth.RoleUser, claims.Role)

		again := validEntry()
		again.Email = "  IRIS@example.com "
		again.Name = "Someone Else"
		second, err := svc.Enter(ctx, again)
		require.NoError(t, err)
		assert.False(t, second.Created)
		assert.Equal(t, first.User.ID, second.User.ID)
		assert.Equal(t, "Iris", second.User.Name, "existing user keeps stored details")
	})

	t.Run("AdminRole", func(t *testing.T) {
		_, svc := newService(t)
		dto := validEntry()
		dto.Email = "admin@example.com"

		resp, err := svc.Enter(ctx, dto)
		require.NoError(t, err)

		claims, err := auth.ValidateJWT(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, auth.RoleAdmin, claims.Role)
	})

	t.Run("Validation", func(t *testing.T) {
		_, svc := newService(t)

		tests := map[string]func(*user.EntryDTO){
			"MissingName":   func(d *user.EntryDTO) { d.Name = "  " },
			"BadEmail":      func(d *user.EntryDTO) { d.Email = "iris-at-example" },
			"TooYoung":      func(d *user.EntryDTO) { d.Age = 12 },
			"TooOld":        func(d *user.EntryDTO) { d.Age = 101 },
			"UnknownGender": func(d *user.EntryDTO) { d.Gender = "Unknown" },
		}
		for name, mutate := range tests {
			t.Run(name, func(t *testing.T) {
				dto := validEntry()
				mutate(&dto)
				_, err := svc.Enter(ctx, dto)
				assert.ErrorIs(t, err, apperr.ErrValidation)
			})
		}

		for _, age := range []int{13, 100} {
			dto := validEntry()
			dto.Email = uuid.NewString() + "@example.com"
			dto.Age = age
			_, err := svc.Enter(ctx, dto)
			assert.NoError(t, err, "age %d is allowed", age)
		}
	})
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	db, svc := newService(t)
	gw := gateway.New(db)

	u := testutil.User(t, db, "Joana")
	testutil.User(t, db, "Kleber")
	for i := 0; i < 2; i++ {
		_, err := gw.CreateSession(ctx, u.ID, time.Now())
		require.NoError(t, err)
	}

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	counts := map[string]int64{}
	for _, s := range users {
		counts[s.Name] = s.SessionCount
	}
	assert.Equal(t, map[string]int64{"Joana": 2, "Kleber": 0}, counts)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("SelfDeleteRefused", func(t *testing.T) {
		db, svc := newService(t)
		u := testutil.User(t, db, "Lia")

		_, err := svc.DeleteUser(ctx, u.ID, u.ID, false)
		assert.ErrorIs(t, err, user.ErrSelfDelete)

		report, err := svc.DeleteUser(ctx, u.ID, u.ID, true)
		require.NoError(t, err, "clearing your own data is allowed")
		assert.Zero(t, report.Users)
	})

	t.Run("ByOperator", func(t *testing.T) {
		db, svc := newService(t)
		u := testutil.User(t, db, "Marcos")
		_, err := gateway.New(db).CreateSession(ctx, u.ID, time.Now())
		require.NoError(t, err)

		report, err := svc.DeleteUser(ctx, uuid.Nil, u.ID, false)
		require.NoError(t, err)
		assert.Equal(t, int64(1), report.Sessions)
		assert.Equal(t, int64(1), report.Users)

		_, err = svc.GetUser(ctx, u.ID)
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		_, err = svc.DeleteUser(ctx, uuid.Nil, u.ID, false)
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}
