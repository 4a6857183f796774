package notifications

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/mwangikaris/plotcheck/configs"
)

type SMSGateway struct {
	APIKey   string
	Username string
	SenderID string
}

var SMSClient *SMSGateway

func InitSMSService() {
	apiKey := config.Config("AT_API_KEY")
	username := config.Config("AT_USERNAME")
	senderID := config.Config("SMS_SENDER_ID")

	if apiKey == "" || username == "" {
		log.Println("⚠️ SMS service not configured. Missing API Key or Username.")
		SMSClient = nil
		return
	}

	SMSClient = &SMSGateway{
		APIKey:   apiKey,
		Username: username,
		SenderID: senderID,
	}
	log.Println("✅ SMS service initialized successfully.")
}

func (s *SMSGateway) send(phoneNumber, message string) error {
	endpoint := "https://api.africastalking.com/version1/messaging"

	if !strings.HasPrefix(phoneNumber, "+") {
		return fmt.Errorf("invalid recipient number: %s", phoneNumber)
	}

	form := url.Values{}
	form.Set("username", s.Username)
	form.Set("to", phoneNumber)
	form.Set("message", message)
	if s.SenderID != "" {
		form.Set("from", s.SenderID)
	}

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("apiKey", s.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{
		Timeout: 10 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		log.Printf("SMS gateway error: Status %d, Body: %s", resp.StatusCode, string(bodyBytes))
		return fmt.Errorf("failed to send SMS: %s", string(bodyBytes))
	}

	return nil
}

// SendSMS delivers one message. Errors are logged, not returned; SMS is a
// best-effort channel.
func SendSMS(phoneNumber, message string) {
	if SMSClient == nil {
		log.Println("SMS client not initialized, skipping send.")
		return
	}

	if err := SMSClient.send(phoneNumber, message); err != nil {
		log.Printf("🔥 Failed to send SMS to %s: %v", phoneNumber, err)
		return
	}

	log.Printf("✅ SMS sent successfully to %s", phoneNumber)
}
