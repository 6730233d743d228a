package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gradus/config"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ProviderRecording is one finished recording asset reported by the
// conferencing provider for a room
type ProviderRecording struct {
	AssetID     string
	Duration    int // seconds
	PlaybackURL string
}

// managementToken signs a short lived token for the provider's server API
func managementToken() (string, error) {
	cfg := config.AppConfig
	if cfg.VideoAccessKey == "" || cfg.VideoSecret == "" {
		return "", fmt.Errorf("video provider credentials are not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"access_key": cfg.VideoAccessKey,
		"type":       "management",
		"version":    2,
		"jti":        uuid.New().String(),
		"iat":        now.Unix(),
		"nbf":        now.Unix(),
		"exp":        now.Add(time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.VideoSecret))
}

// CreateVideoRoom creates a room at the provider and returns its id
func CreateVideoRoom(name, description string) (string, error) {
	authToken, err := managementToken()
	if err != nil {
		return "", err
	}

	body := map[string]interface{}{
		"name":        name,
		"description": description,
	}
	if config.AppConfig.VideoTemplateID != "" {
		body["template_id"] = config.AppConfig.VideoTemplateID
	}

	client := resty.New()
	resp, err := client.R().
		SetAuthToken(authToken).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(config.AppConfig.VideoApiURL + "/rooms")
	if err != nil {
		log.Printf("Error creating video room: %v", err)
		return "", fmt.Errorf("failed to create video room: %v", err)
	}
	if resp.StatusCode() != 200 {
		log.Printf("Video room creation failed, status %d: %s", resp.StatusCode(), resp.String())
		return "", fmt.Errorf("video room creation failed with status %d", resp.StatusCode())
	}

	var response struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return "", fmt.Errorf("failed to parse room response: %v", err)
	}
	if response.ID == "" {
		return "", fmt.Errorf("room id is missing in the response")
	}

	return response.ID, nil
}

// CreateRoomCode asks the provider for join codes and returns the guest
// code the SPA hands to the room SDK
func CreateRoomCode(roomID string) (string, error) {
	authToken, err := managementToken()
	if err != nil {
		return "", err
	}

	client := resty.New()
	resp, err := client.R().
		SetAuthToken(authToken).
		Post(config.AppConfig.VideoApiURL + "/room-codes/room/" + roomID)
	if err != nil {
		log.Printf("Error creating room code: %v", err)
		return "", fmt.Errorf("failed to create room code: %v", err)
	}
	if resp.StatusCode() != 200 {
		log.Printf("Room code creation failed, status %d: %s", resp.StatusCode(), resp.String())
		return "", fmt.Errorf("room code creation failed with status %d", resp.StatusCode())
	}

	var response struct {
		Data []struct {
			Code    string `json:"code"`
			Role    string `json:"role"`
			Enabled bool   `json:"enabled"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return "", fmt.Errorf("failed to parse room code response: %v", err)
	}

	for _, rc := range response.Data {
		if rc.Enabled && rc.Role == "guest" {
			return rc.Code, nil
		}
	}
	for _, rc := range response.Data {
		if rc.Enabled {
			return rc.Code, nil
		}
	}
	return "", fmt.Errorf("no enabled room code in the response")
}

// GenerateJoinToken signs an app token that lets one user join one room.
// The provider verifies it with the same app secret, no API call needed.
func GenerateJoinToken(roomID string, userID uint, role string) (string, error) {
	cfg := config.AppConfig
	if cfg.VideoAccessKey == "" || cfg.VideoSecret == "" {
		return "", fmt.Errorf("video provider credentials are not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"access_key": cfg.VideoAccessKey,
		"room_id":    roomID,
		"user_id":    fmt.Sprintf("%d", userID),
		"role":       role,
		"type":       "app",
		"version":    2,
		"jti":        uuid.New().String(),
		"iat":        now.Unix(),
		"nbf":        now.Unix(),
		"exp":        now.Add(time.Duration(cfg.VideoTokenValidity) * time.Minute).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.VideoSecret))
}

// EndVideoRoom tells the provider to end the active room so stragglers
// are disconnected once the session is over
func EndVideoRoom(roomID string) error {
	authToken, err := managementToken()
	if err != nil {
		return err
	}

	client := resty.New()
	resp, err := client.R().
		SetAuthToken(authToken).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{"reason": "Class ended", "lock": false}).
		Post(config.AppConfig.VideoApiURL + "/active-rooms/" + roomID + "/end-room")
	if err != nil {
		log.Printf("Error ending video room: %v", err)
		return fmt.Errorf("failed to end video room: %v", err)
	}
	// The provider answers 404 when nobody ever joined. Not an error for us.
	if resp.StatusCode() != 200 && resp.StatusCode() != 404 {
		log.Printf("Ending video room failed, status %d: %s", resp.StatusCode(), resp.String())
		return fmt.Errorf("ending video room failed with status %d", resp.StatusCode())
	}
	return nil
}

// FetchRecordings lists finished recording assets for a room and resolves
// a playback URL for each
func FetchRecordings(roomID string) ([]ProviderRecording, error) {
	authToken, err := managementToken()
	if err != nil {
		return nil, err
	}

	client := resty.New()
	resp, err := client.R().
		SetAuthToken(authToken).
		SetQueryParam("room_id", roomID).
		Get(config.AppConfig.VideoApiURL + "/recording-assets")
	if err != nil {
		log.Printf("Error fetching recordings: %v", err)
		return nil, fmt.Errorf("failed to fetch recordings: %v", err)
	}
	if resp.StatusCode() != 200 {
		log.Printf("Fetching recordings failed, status %d: %s", resp.StatusCode(), resp.String())
		return nil, fmt.Errorf("fetching recordings failed with status %d", resp.StatusCode())
	}

	var response struct {
		Data []struct {
			ID       string  `json:"id"`
			Type     string  `json:"type"`
			Status   string  `json:"status"`
			Duration float64 `json:"duration"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse recordings response: %v", err)
	}

	recordings := make([]ProviderRecording, 0, len(response.Data))
	for _, asset := range response.Data {
		if asset.Type != "room-composite" || asset.Status != "completed" {
			continue
		}

		playbackURL, err := presignRecordingURL(client, authToken, asset.ID)
		if err != nil {
			log.Printf("Skipping recording %s: %v", asset.ID, err)
			continue
		}

		recordings = append(recordings, ProviderRecording{
			AssetID:     asset.ID,
			Duration:    int(asset.Duration),
			PlaybackURL: playbackURL,
		})
	}
	return recordings, nil
}

func presignRecordingURL(client *resty.Client, authToken, assetID string) (string, error) {
	resp, err := client.R().
		SetAuthToken(authToken).
		Get(config.AppConfig.VideoApiURL + "/recording-assets/" + assetID + "/presigned-url")
	if err != nil {
		return "", fmt.Errorf("failed to presign recording url: %v", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("presigning recording url failed with status %d", resp.StatusCode())
	}

	var response struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return "", fmt.Errorf("failed to parse presign response: %v", err)
	}
	if response.URL == "" {
		return "", fmt.Errorf("presigned url is missing in the response")
	}
	return response.URL, nil
}
