package utils

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JDanielFV/erp/config"
)

func TestMain(m *testing.M) {
	Logger = zap.NewNop()
	Sugar = Logger.Sugar()
	os.Exit(m.Run())
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

// subscriptionKeys returns a valid browser-style key pair: an uncompressed
// P-256 public point and a 16-byte auth secret, both base64url. The payload
// encryption in webpush-go rejects anything less.
func subscriptionKeys(t *testing.T) (string, string) {
	t.Helper()
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(priv.PublicKey().Bytes()),
		base64.RawURLEncoding.EncodeToString(auth)
}

func testEngineConfig(t *testing.T) config.AppConfig {
	t.Helper()
	priv, pub, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	return config.AppConfig{
		VAPIDPublicKey:     pub,
		VAPIDPrivateKey:    priv,
		VAPIDSubscriber:    "mailto:soporte@ayg.com",
		PushTimeoutSeconds: 3,
		PushIconPath:       "/logo.svg",
	}
}

func subscriptionRows(endpoints map[int64]string, p256dh, auth string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "user_id", "endpoint", "p256dh", "auth", "user_agent", "created_at"})
	for id, ep := range endpoints {
		rows.AddRow(id, "u-1", ep, p256dh, auth, "test-agent", time.Now())
	}
	return rows
}

func TestDeliverFansOutAndPrunesGoneEndpoints(t *testing.T) {
	var mu sync.Mutex
	hits := map[string]int{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	p256dh, auth := subscriptionKeys(t)
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `push_subscriptions`").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "endpoint", "p256dh", "auth", "user_agent", "created_at"}).
			AddRow(1, "u-1", ts.URL+"/ok-a", p256dh, auth, "ua", time.Now()).
			AddRow(2, "u-1", ts.URL+"/gone", p256dh, auth, "ua", time.Now()).
			AddRow(3, "u-1", ts.URL+"/ok-b", p256dh, auth, "ua", time.Now()))
	mock.ExpectExec("DELETE FROM `push_subscriptions`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	engine := NewPushEngine(db, testEngineConfig(t))
	err := engine.Deliver(context.Background(), "u-1", "Nueva tarea", "Revisar pedido 42")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hits["/ok-a"])
	assert.Equal(t, 1, hits["/ok-b"])
	assert.Equal(t, 1, hits["/gone"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliverTransientFailureKeepsSubscription(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	p256dh, auth := subscriptionKeys(t)
	db, mock := newMockDB(t)

	// A 429 is logged and skipped: no DELETE must be issued.
	mock.ExpectQuery("SELECT \\* FROM `push_subscriptions`").
		WithArgs("u-1").
		WillReturnRows(subscriptionRows(map[int64]string{1: ts.URL + "/busy"}, p256dh, auth))

	engine := NewPushEngine(db, testEngineConfig(t))
	err := engine.Deliver(context.Background(), "u-1", "t", "m")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliverZeroSubscriptionsIsSuccess(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `push_subscriptions`").
		WithArgs("u-quiet").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "endpoint", "p256dh", "auth", "user_agent", "created_at"}))

	engine := NewPushEngine(db, testEngineConfig(t))
	err := engine.Deliver(context.Background(), "u-quiet", "t", "m")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliverDisabledWithoutVAPIDKeys(t *testing.T) {
	db, mock := newMockDB(t)

	// No expectations: a disabled engine must not touch the database.
	engine := NewPushEngine(db, config.AppConfig{})
	err := engine.Deliver(context.Background(), "u-1", "t", "m")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliverSubscriptionFetchErrorSurfaces(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `push_subscriptions`").
		WillReturnError(assert.AnError)

	engine := NewPushEngine(db, testEngineConfig(t))
	err := engine.Deliver(context.Background(), "u-1", "t", "m")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
