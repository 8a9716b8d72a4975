package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/harentsoaR/docbid-api/internal/models"
)

const DefaultTextbeltURL = "https://textbelt.com/text"

// NotificationService texts appointment posters through Textbelt.
// With no API key configured every send is skipped.
type NotificationService struct {
	apiKey   string
	endpoint string
	client   *http.Client
	wg       sync.WaitGroup
}

func NewNotificationService(apiKey, endpoint string) *NotificationService {
	if endpoint == "" {
		endpoint = DefaultTextbeltURL
	}
	return &NotificationService{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifyNewBid tells the poster of apt that bid was placed on it.
// The SMS goes out in the background so it never delays the API response.
func (s *NotificationService) NotifyNewBid(poster *models.User, apt *models.Appointment, bid *models.Bid) {
	if s == nil || s.apiKey == "" {
		return
	}
	if poster == nil || poster.Phone == "" {
		log.Printf("SMS not sent: poster of appointment %d has no phone number.", apt.ID)
		return
	}

	smsBody := fmt.Sprintf(
		"New bid on %q: %.2f (bid #%d).",
		apt.Title,
		bid.Amount,
		bid.ID,
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sendSMS(poster.Phone, smsBody)
	}()
}

// Wait blocks until in-flight messages are done.
func (s *NotificationService) Wait() {
	if s != nil {
		s.wg.Wait()
	}
}

func (s *NotificationService) sendSMS(phone, message string) {
	postBody, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})

	resp, err := s.client.Post(s.endpoint, "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		log.Printf("Failed to send Textbelt request for number %s: %v", phone, err)
		return
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("Failed to decode Textbelt response for %s: %v", phone, err)
		return
	}

	if !result.Success {
		log.Printf("Failed to send SMS via Textbelt to %s. Reason: %s", phone, result.Error)
	} else {
		log.Printf("Successfully sent SMS via Textbelt to %s", phone)
	}
}
