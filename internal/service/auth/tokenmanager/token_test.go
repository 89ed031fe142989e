package tokenmanager

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramavtar-nagar/videotube/internal/apperrors"
	"github.com/ramavtar-nagar/videotube/internal/repository"
	"github.com/ramavtar-nagar/videotube/internal/repository/postgres"
	"github.com/ramavtar-nagar/videotube/internal/testutil"
)

func Test_TokenManager(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withTx := func(dbpool *pgxpool.Pool, t *testing.T, accessTTL time.Duration, refreshTTL time.Duration, fn func(m *TokenManager, userRepo repository.UserRepo)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			userRepo := &postgres.UserRepo{DB: tx}

			tokenManager, err := New(
				Config{
					AccessSecret:  "test-access-secret",
					RefreshSecret: "test-refresh-secret",
					AccessTTL:     accessTTL,
					RefreshTTL:    refreshTTL,
				},
				userRepo,
			)
			require.NoError(t, err, "token manager should be created without errors")

			fn(tokenManager, userRepo)
		})
	}

	createUser := func(t *testing.T, userRepo repository.UserRepo) uuid.UUID {
		user, err := userRepo.CreateUser(t.Context(), repository.CreateUserParams{
			FullName:       "A B",
			Email:          "a@x.com",
			Username:       "ab",
			HashedPassword: "hashed",
			AvatarURL:      "http://media.local/m/avatars/a.png",
		})
		require.NoError(t, err)
		return user.ID
	}

	t.Run("new defaults", func(t *testing.T) {
		m, err := New(Config{AccessSecret: "a", RefreshSecret: "r"}, nil)
		require.NoError(t, err, "token manager should be created without errors")

		require.Equal(t, defaultAccessTokenTTL, m.accessTTL, "default access token TTL should be set")
		require.Equal(t, defaultRefreshTokenTTL, m.refreshTTL, "default refresh token TTL should be set")
		require.Equal(t, defaultSigningMethod, m.alg.Alg(), "default signing method should be set")
	})

	t.Run("new fails without secrets", func(t *testing.T) {
		_, err := New(Config{AccessSecret: "a"}, nil)
		require.Error(t, err)

		_, err = New(Config{RefreshSecret: "r"}, nil)
		require.Error(t, err)
	})

	t.Run("IssuePair", func(t *testing.T) {
		t.Run("returns pair and persists refresh", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, userRepo repository.UserRepo) {
				userID := createUser(t, userRepo)

				pair, err := m.IssuePair(t.Context(), userID)

				require.NoError(t, err)
				require.NotEmpty(t, pair.Access.Value, "access token should not be empty")
				require.NotEmpty(t, pair.Refresh.Value, "refresh token should not be empty")
				assert.WithinDuration(t, time.Now().Add(15*time.Minute), pair.Access.ExpiresAt, 5*time.Second)
				assert.WithinDuration(t, time.Now().Add(24*time.Hour), pair.Refresh.ExpiresAt, 5*time.Second)

				// Refresh token is persisted on the user record
				user, err := userRepo.GetUserByID(t.Context(), userID)
				require.NoError(t, err)
				require.NotNil(t, user.RefreshToken)
				assert.Equal(t, pair.Refresh.Value, *user.RefreshToken)
			})
		})

		t.Run("access token carries user claims", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, userRepo repository.UserRepo) {
				userID := createUser(t, userRepo)

				pair, err := m.IssuePair(t.Context(), userID)
				require.NoError(t, err)

				claims := &AccessTokenClaims{}
				_, err = jwt.ParseWithClaims(pair.Access.Value, claims, func(t *jwt.Token) (any, error) {
					return []byte("test-access-secret"), nil
				})
				require.NoError(t, err)
				assert.Equal(t, userID, claims.UserID)
				assert.Equal(t, "ab", claims.Username)
				assert.Equal(t, "a@x.com", claims.Email)
				assert.Equal(t, "A B", claims.FullName)
			})
		})

		t.Run("rotation overwrites stored refresh", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, userRepo repository.UserRepo) {
				userID := createUser(t, userRepo)

				first, err := m.IssuePair(t.Context(), userID)
				require.NoError(t, err)
				second, err := m.IssuePair(t.Context(), userID)
				require.NoError(t, err)

				user, err := userRepo.GetUserByID(t.Context(), userID)
				require.NoError(t, err)
				require.NotNil(t, user.RefreshToken)
				assert.Equal(t, second.Refresh.Value, *user.RefreshToken)
				assert.NotEqual(t, first.Refresh.Value, *user.RefreshToken, "old refresh token must be superseded")
			})
		})

		t.Run("fails if user absent", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, userRepo repository.UserRepo) {
				_, err := m.IssuePair(t.Context(), uuid.New())

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})
	})

	t.Run("ParseAccess", func(t *testing.T) {
		t.Run("roundtrip ok", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, userRepo repository.UserRepo) {
				userID := createUser(t, userRepo)
				pair, err := m.IssuePair(t.Context(), userID)
				require.NoError(t, err)

				got, err := m.ParseAccess(pair.Access.Value)

				require.NoError(t, err)
				assert.Equal(t, userID, got)
			})
		})

		t.Run("refresh token is not an access token", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, userRepo repository.UserRepo) {
				userID := createUser(t, userRepo)
				pair, err := m.IssuePair(t.Context(), userID)
				require.NoError(t, err)

				_, err = m.ParseAccess(pair.Refresh.Value)

				require.Error(t, err, "tokens signed with the refresh secret must not validate as access tokens")
			})
		})

		t.Run("expired fails", func(t *testing.T) {
			withTx(pg.Pool, t, time.Second, 24*time.Hour, func(m *TokenManager, userRepo repository.UserRepo) {
				userID := createUser(t, userRepo)
				pair, err := m.IssuePair(t.Context(), userID)
				require.NoError(t, err)

				time.Sleep(time.Second + 100*time.Millisecond)

				_, err = m.ParseAccess(pair.Access.Value)
				require.Error(t, err)
			})
		})
	})

	t.Run("ParseRefresh", func(t *testing.T) {
		t.Run("roundtrip ok", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, userRepo repository.UserRepo) {
				userID := createUser(t, userRepo)
				pair, err := m.IssuePair(t.Context(), userID)
				require.NoError(t, err)

				got, err := m.ParseRefresh(pair.Refresh.Value)

				require.NoError(t, err)
				assert.Equal(t, userID, got)
			})
		})

		t.Run("garbage surfaces as invalid token", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, _ repository.UserRepo) {
				_, err := m.ParseRefresh("not-a-jwt-at-all")

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrRefreshTokenInvalid)
			})
		})

		t.Run("expired surfaces as invalid token", func(t *testing.T) {
			withTx(pg.Pool, t, 15*time.Minute, time.Second, func(m *TokenManager, userRepo repository.UserRepo) {
				userID := createUser(t, userRepo)
				pair, err := m.IssuePair(t.Context(), userID)
				require.NoError(t, err)

				time.Sleep(time.Second + 100*time.Millisecond)

				_, err = m.ParseRefresh(pair.Refresh.Value)
				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrRefreshTokenInvalid)
			})
		})
	})
}
