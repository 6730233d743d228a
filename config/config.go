package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	SendGridApiKey string
	EmailSender    string
	EmailFromName  string

	LocalTextApi    string
	LocalTextApiUrl string

	// Object storage (OSS) for images and recordings
	OSSEndpoint        string
	OSSAccessKeyID     string
	OSSAccessKeySecret string
	OSSBucket          string
	OSSPrefix          string
	OSSUploadExpiry    int // seconds a signed upload URL stays valid

	// Video conferencing provider (rooms, join tokens, recordings)
	VideoApiURL        string
	VideoAccessKey     string
	VideoSecret        string
	VideoTemplateID    string
	VideoTokenValidity int // minutes a join token stays valid

	GoogleClientID string

	// Google Sheets sync
	SheetsCredentialsFile string
	SheetsSpreadsheetID   string
	SheetsMaxAttempts     int
	SheetsBatchSize       int
}

// AppConfig is a global variable to access configuration
var AppConfig = &Config{}

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		SendGridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@gradus.in"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Gradus"),

		LocalTextApi:    getEnv("LOCAL_SMS_API_KEY", "defaultSecret"),
		LocalTextApiUrl: getEnv("LOCAL_SMS_API_URL", "defaultSecret"),

		OSSEndpoint:        getEnv("OSS_ENDPOINT", ""),
		OSSAccessKeyID:     getEnv("OSS_ACCESS_KEY_ID", ""),
		OSSAccessKeySecret: getEnv("OSS_ACCESS_KEY_SECRET", ""),
		OSSBucket:          getEnv("OSS_BUCKET", ""),
		OSSPrefix:          getEnv("OSS_PREFIX", "gradus"),
		OSSUploadExpiry:    getEnvInt("OSS_UPLOAD_EXPIRY", 900),

		VideoApiURL:        getEnv("VIDEO_API_URL", "https://api.100ms.live/v2"),
		VideoAccessKey:     getEnv("VIDEO_ACCESS_KEY", ""),
		VideoSecret:        getEnv("VIDEO_SECRET", ""),
		VideoTemplateID:    getEnv("VIDEO_TEMPLATE_ID", ""),
		VideoTokenValidity: getEnvInt("VIDEO_TOKEN_VALIDITY", 120),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		SheetsCredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", ""),
		SheetsSpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsMaxAttempts:     getEnvInt("SHEETS_SYNC_MAX_ATTEMPTS", 3),
		SheetsBatchSize:       getEnvInt("SHEETS_SYNC_BATCH_SIZE", 10),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendGridApiKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Outgoing email is disabled.")
	}
	if AppConfig.VideoAccessKey == "" || AppConfig.VideoSecret == "" {
		log.Println("Warning: video provider credentials not set. Live classes are disabled.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
