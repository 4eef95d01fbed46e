package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	carapp "github.com/xmartin/vehicle-registry/internal/application/car"
	"github.com/xmartin/vehicle-registry/internal/domain/car"
	"github.com/xmartin/vehicle-registry/internal/domain/shared"
	"github.com/xmartin/vehicle-registry/internal/infrastructure/auth"
	"github.com/xmartin/vehicle-registry/internal/infrastructure/config"
	"github.com/xmartin/vehicle-registry/internal/infrastructure/persistence"
	"github.com/xmartin/vehicle-registry/internal/interfaces/http/handler"
	"github.com/xmartin/vehicle-registry/internal/interfaces/http/router"
)

func signServiceToken(t *testing.T, secret string) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "vehicle-registry",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:   "user-1",
		Username: "alex",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestCarClient_DeleteCarsForBrand(t *testing.T) {
	t.Run("issues the purge request", func(t *testing.T) {
		var gotMethod, gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"success":true,"data":{"deleted":2}}`))
		}))
		defer server.Close()

		client := NewCarClient(server.URL, time.Second)
		err := client.DeleteCarsForBrand(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, gotMethod)
		assert.Equal(t, "/cars/brand/7", gotPath)
	})

	t.Run("error status means the registry is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewCarClient(server.URL, time.Second)
		err := client.DeleteCarsForBrand(context.Background(), 7)

		assert.ErrorIs(t, err, shared.ErrRemoteUnavailable)
	})

	t.Run("transport failure means the registry is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := NewCarClient(server.URL, time.Second)
		err := client.DeleteCarsForBrand(context.Background(), 7)

		assert.ErrorIs(t, err, shared.ErrRemoteUnavailable)
	})

	t.Run("relays the caller's bearer token", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"success":true,"data":{"deleted":0}}`))
		}))
		defer server.Close()

		client := NewCarClient(server.URL, time.Second)
		ctx := auth.WithToken(context.Background(), "caller-token")
		err := client.DeleteCarsForBrand(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, "Bearer caller-token", gotAuth)
	})

	t.Run("sends no authorization header without a caller token", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"success":true,"data":{"deleted":0}}`))
		}))
		defer server.Close()

		client := NewCarClient(server.URL, time.Second)
		err := client.DeleteCarsForBrand(context.Background(), 7)

		require.NoError(t, err)
		assert.Empty(t, gotAuth)
	})
}

// The purge endpoint sits behind the registry's JWT middleware; the brand
// service can only cascade a delete when the client relays the token the
// caller presented.
func TestCarClient_DeleteCarsForBrand_AuthenticatedRegistry(t *testing.T) {
	const secret = "shared-secret"

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&car.Car{}))

	service := carapp.NewService(persistence.NewGormCarRepository(db), nil)
	validator := auth.NewTokenValidator(config.JWTConfig{Secret: secret, Issuer: "vehicle-registry"})
	engine := router.NewCarRouter(router.Options{
		Logger:    zap.NewNop(),
		Validator: validator,
	}, handler.NewCarHandler(service), handler.NewSystemHandler(nil))

	server := httptest.NewServer(engine)
	defer server.Close()

	client := NewCarClient(server.URL, time.Second)

	t.Run("purge succeeds with the caller's token", func(t *testing.T) {
		ctx := auth.WithToken(context.Background(), signServiceToken(t, secret))

		assert.NoError(t, client.DeleteCarsForBrand(ctx, 7))
	})

	t.Run("purge is rejected without a token", func(t *testing.T) {
		err := client.DeleteCarsForBrand(context.Background(), 7)

		assert.ErrorIs(t, err, shared.ErrRemoteUnavailable)
	})
}
