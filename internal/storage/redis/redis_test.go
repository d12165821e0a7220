package redis

import (
	"context"
	"testing"
	"time"
	"voltabot/internal/catalog"
	"voltabot/internal/order"
	redisclient "voltabot/pkg/redis"

	"github.com/alicebob/miniredis/v2"
)

func newTestStorage(t *testing.T, ttl time.Duration) (*Storage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisclient.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return New(client, ttl), mr
}

func TestLoadMissing(t *testing.T) {
	s, _ := newTestStorage(t, time.Hour)
	d, err := s.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if d.SensorType != nil || d.Pending != order.PendingNone {
		t.Errorf("expected fresh draft, got %+v", d)
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStorage(t, time.Hour)
	cat := catalog.Default()

	d := order.New()
	if err := d.Set(cat, order.FieldSensorType, "PT100"); err != nil {
		t.Fatal(err)
	}
	if err := d.Set(cat, order.FieldWireLength, "120"); err != nil {
		t.Fatal(err)
	}
	d.Await(order.PendingQuantity)
	d.ChannelNotified = true

	if err := s.Save(ctx, 5, d); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if !mr.Exists("draft:5") {
		t.Fatal("expected key draft:5")
	}
	if ttl := mr.TTL("draft:5"); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}

	got, err := s.Load(ctx, 5)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.SensorType == nil || *got.SensorType != "PT100" {
		t.Errorf("SensorType = %v", got.SensorType)
	}
	if got.WireLengthCM == nil || *got.WireLengthCM != 120 {
		t.Errorf("WireLengthCM = %v", got.WireLengthCM)
	}
	if got.Pending != order.PendingQuantity || !got.ChannelNotified {
		t.Errorf("flags lost: %+v", got)
	}
}

func TestDraftExpires(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStorage(t, time.Minute)

	d := order.New()
	d.ReceiptSubmitted = true
	_ = s.Save(ctx, 9, d)

	mr.FastForward(2 * time.Minute)
	got, err := s.Load(ctx, 9)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.ReceiptSubmitted {
		t.Error("expected expired draft to be gone")
	}
}

func TestLoadCorrupted(t *testing.T) {
	s, mr := newTestStorage(t, time.Hour)
	_ = mr.Set("draft:3", "{not json")

	if _, err := s.Load(context.Background(), 3); err == nil {
		t.Error("expected unmarshal error")
	}
}
