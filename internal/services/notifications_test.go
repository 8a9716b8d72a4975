package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/harentsoaR/docbid-api/internal/models"
)

func TestNotifyNewBidSendsSMS(t *testing.T) {
	var (
		mu  sync.Mutex
		got map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	svc := NewNotificationService("key-123", srv.URL)
	poster := &models.User{ID: 1, Phone: "+15555550100"}
	apt := &models.Appointment{ID: 7, Title: "Cleaning", UserID: 1}
	bid := &models.Bid{ID: 3, Amount: 80, AppointmentID: 7, UserID: 2}

	svc.NotifyNewBid(poster, apt, bid)
	svc.Wait()

	mu.Lock()
	defer mu.Unlock()
	if got == nil {
		t.Fatal("no request received")
	}
	if got["phone"] != poster.Phone || got["key"] != "key-123" {
		t.Fatalf("unexpected payload: %v", got)
	}
	if !strings.Contains(got["message"], "Cleaning") || !strings.Contains(got["message"], "80.00") {
		t.Fatalf("message missing details: %q", got["message"])
	}
}

func TestNotifyNewBidSkips(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	apt := &models.Appointment{ID: 7, Title: "Cleaning"}
	bid := &models.Bid{ID: 3, Amount: 80}

	NewNotificationService("", srv.URL).NotifyNewBid(&models.User{Phone: "+1555"}, apt, bid)

	noPhone := NewNotificationService("key", srv.URL)
	noPhone.NotifyNewBid(&models.User{}, apt, bid)
	noPhone.NotifyNewBid(nil, apt, bid)
	noPhone.Wait()

	var nilSvc *NotificationService
	nilSvc.NotifyNewBid(&models.User{Phone: "+1555"}, apt, bid)
	nilSvc.Wait()

	if calls != 0 {
		t.Fatalf("want no requests, got %d", calls)
	}
}

func TestNewNotificationServiceDefaultURL(t *testing.T) {
	if svc := NewNotificationService("k", ""); svc.endpoint != DefaultTextbeltURL {
		t.Fatalf("want %s, got %s", DefaultTextbeltURL, svc.endpoint)
	}
}
