// file: internals/configs/config.go
package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	JWTSecret           string
	StripeSecretKey     string
	StripeWebhookSecret string

	AWSRegion        string
	DynamoDBEndpoint string // kosong = endpoint AWS asli; isi utk dynamodb-local

	TableFundraisers string
	TableDonations   string
	TablePayments    string
	TableAuditLogs   string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	StripeSecretKey = GetEnv("STRIPE_SECRET_KEY")
	StripeWebhookSecret = GetEnv("STRIPE_WEBHOOK_SECRET")

	AWSRegion = GetEnv("AWS_REGION", "eu-west-1")
	DynamoDBEndpoint = GetEnv("DYNAMODB_ENDPOINT")

	TableFundraisers = GetEnv("TABLE_FUNDRAISERS", "fundraisers")
	TableDonations = GetEnv("TABLE_DONATIONS", "donations")
	TablePayments = GetEnv("TABLE_PAYMENTS", "payments")
	TableAuditLogs = GetEnv("TABLE_AUDIT_LOGS", "audit_logs")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}

	if StripeSecretKey == "" {
		log.Println("❌ STRIPE_SECRET_KEY belum diset!")
	} else {
		log.Println("✅ STRIPE_SECRET_KEY berhasil dimuat.")
	}

	if StripeWebhookSecret == "" {
		log.Println("❌ STRIPE_WEBHOOK_SECRET belum diset!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
