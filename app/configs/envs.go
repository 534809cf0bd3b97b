package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBHost              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBPort              string
	Port                string
	JWTSecret           string
	EmailHost           string
	EmailPort           string
	EmailUsername       string
	EmailPassword       string
	EmailFrom           string
	RedisAddr           string
	RedisPassword       string
	PaymobBaseURL       string
	PaymobAPIKey        string
	PaymobIntegrationID string
	PaymobHMACSecret    string
	PaymobIframeID      string
	APP_URL             string
	APP_ENV             string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBHost:              os.Getenv("DB_HOST"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		DBPort:              os.Getenv("DB_PORT"),
		Port:                os.Getenv("APP_PORT"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		EmailHost:           os.Getenv("EMAIL_HOST"),
		EmailPort:           os.Getenv("EMAIL_PORT"),
		EmailUsername:       os.Getenv("EMAIL_USERNAME"),
		EmailPassword:       os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:           os.Getenv("EMAIL_USERNAME"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		PaymobBaseURL:       os.Getenv("PAYMOB_BASE_URL"),
		PaymobAPIKey:        os.Getenv("PAYMOB_API_KEY"),
		PaymobIntegrationID: os.Getenv("PAYMOB_INTEGRATION_ID"),
		PaymobHMACSecret:    os.Getenv("PAYMOB_HMAC_SECRET"),
		PaymobIframeID:      os.Getenv("PAYMOB_IFRAME_ID"),
		APP_URL:             os.Getenv("APP_URL"),
		APP_ENV:             os.Getenv("APP_ENV"),
	}

}

var LoadENV = LoadEnv()
