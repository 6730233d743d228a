package utils

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"gradus/config"

	"github.com/google/uuid"
)

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano())) // Create a new random number generator
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10)) // Generate a random digit (0-9) and append to OTP string
	}
	return otp
}

func SendOTPToMobile(mobile, otp string) error {
	apiKey := config.AppConfig.LocalTextApi
	senderID := "GRADUS"
	messageID := "197302" // DLT Template ID
	flash := "0"

	// Variables (OTP and validity time in minutes)
	variables := fmt.Sprintf("%s|10", otp)

	// Build request URL
	url := fmt.Sprintf(
		"%s?authorization=%s&route=dlt&sender_id=%s&message=%s&variables_values=%s&flash=%s&numbers=%s",
		config.AppConfig.LocalTextApiUrl, apiKey, senderID, messageID, variables, flash, mobile,
	)

	// Make GET request
	resp, err := http.Get(url)
	if err != nil {
		log.Printf("Error while sending OTP: %v", err)
		return err
	}
	defer resp.Body.Close()

	// Check if response is OK
	if resp.StatusCode != http.StatusOK {
		log.Printf("Failed to send OTP, response code: %d", resp.StatusCode)
		return fmt.Errorf("failed to send OTP, code: %d", resp.StatusCode)
	}

	log.Println("OTP sent successfully to", mobile)
	return nil
}

// Slugify turns a title into a URL safe slug
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// GenerateReferenceCode returns a short uppercase code shown on receipts
// and registration confirmations, e.g. ENR-9F2C61A0D4
func GenerateReferenceCode(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return fmt.Sprintf("%s-%s", prefix, id[:10])
}

// GenerateTempPassword returns a random password for freshly created
// admin accounts. It is emailed, never returned in a response.
func GenerateTempPassword() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return id[:12]
}
