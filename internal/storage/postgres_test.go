package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"
	"voltabot/internal/order"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newMockStorage(t *testing.T, ttl time.Duration) (*PostgresStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := NewWithDB(sqlx.NewDb(db, "sqlmock"), ttl, zap.NewNop())
	s.now = func() time.Time { return testNow }
	return s, mock
}

func TestLoadDraft(t *testing.T) {
	s, mock := newMockStorage(t, time.Hour)

	rows := sqlmock.NewRows([]string{"user_id", "draft", "updated_at"}).
		AddRow(int64(7), []byte(`{"sensor_type":"PT100","quantity":3,"pending_input":"wire_length","channel_notified":true}`), testNow.Add(-time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, draft, updated_at FROM order_drafts WHERE user_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	d, err := s.Load(context.Background(), 7)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if d.SensorType == nil || *d.SensorType != "PT100" || d.Quantity == nil || *d.Quantity != 3 {
		t.Errorf("unexpected draft %+v", d)
	}
	if d.Pending != order.PendingWireLength || !d.ChannelNotified {
		t.Errorf("flags lost: %+v", d)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLoadMissingDraft(t *testing.T) {
	s, mock := newMockStorage(t, time.Hour)
	mock.ExpectQuery("SELECT user_id, draft, updated_at").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "draft", "updated_at"}))

	d, err := s.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if d.SensorType != nil {
		t.Errorf("expected fresh draft, got %+v", d)
	}
}

func TestLoadExpiredDraft(t *testing.T) {
	s, mock := newMockStorage(t, time.Hour)
	rows := sqlmock.NewRows([]string{"user_id", "draft", "updated_at"}).
		AddRow(int64(2), []byte(`{"receipt_submitted":true}`), testNow.Add(-2*time.Hour))
	mock.ExpectQuery("SELECT user_id, draft, updated_at").WithArgs(int64(2)).WillReturnRows(rows)

	d, err := s.Load(context.Background(), 2)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if d.ReceiptSubmitted {
		t.Error("expired draft returned")
	}
}

func TestLoadQueryError(t *testing.T) {
	s, mock := newMockStorage(t, time.Hour)
	mock.ExpectQuery("SELECT user_id, draft, updated_at").WillReturnError(errors.New("connection reset"))

	if _, err := s.Load(context.Background(), 3); err == nil {
		t.Error("expected error")
	}
}

func TestSaveDraft(t *testing.T) {
	s, mock := newMockStorage(t, time.Hour)

	d := order.New()
	d.Await(order.PendingQuantity)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_drafts (user_id, draft, updated_at)`)).
		WithArgs(int64(5), `{"pending_input":"quantity"}`, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Save(context.Background(), 5, d); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPurgeExpired(t *testing.T) {
	s, mock := newMockStorage(t, time.Hour)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM order_drafts WHERE updated_at < $1`)).
		WithArgs(testNow.Add(-time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.PurgeExpired(context.Background())
	if err != nil {
		t.Fatalf("PurgeExpired error: %v", err)
	}
	if n != 4 {
		t.Errorf("purged %d, want 4", n)
	}
}

func TestPurgeDisabledWithoutTTL(t *testing.T) {
	s, mock := newMockStorage(t, 0)
	if n, err := s.PurgeExpired(context.Background()); err != nil || n != 0 {
		t.Errorf("PurgeExpired = %d, %v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
