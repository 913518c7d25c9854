package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret string

	// eSewa (redirect gateway)
	EsewaSecretKey   string
	EsewaProductCode string
	EsewaPaymentURL  string
	EsewaStatusURL   string
	EsewaSuccessURL  string
	EsewaFailureURL  string

	// Midtrans (hosted checkout)
	MidtransServerKey string
	MidtransUseProd   bool

	// Platform fee in basis points (PLATFORM_FEE_PERCENT=5 → 500 bps)
	PlatformFeeBps int64
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running on Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")

	EsewaSecretKey = GetEnv("ESEWA_SECRET_KEY")
	EsewaProductCode = GetEnv("ESEWA_PRODUCT_CODE", "EPAYTEST")
	EsewaPaymentURL = GetEnv("ESEWA_PAYMENT_URL", "https://rc-epay.esewa.com.np/api/epay/main/v2/form")
	EsewaStatusURL = GetEnv("ESEWA_STATUS_URL", "https://rc.esewa.com.np/api/epay/transaction/status/")
	EsewaSuccessURL = GetEnv("ESEWA_SUCCESS_URL", "http://localhost:3000/payment/success")
	EsewaFailureURL = GetEnv("ESEWA_FAILURE_URL", "http://localhost:3000/payment/failure")

	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")
	MidtransUseProd = parseBool(GetEnv("MIDTRANS_USE_PROD", "false"))

	PlatformFeeBps = loadFeeBps()

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	}
	if EsewaSecretKey == "" {
		log.Println("❌ ESEWA_SECRET_KEY is not set, redirect payments will be rejected!")
	}
	if MidtransServerKey == "" {
		log.Println("❌ MIDTRANS_SERVER_KEY is not set, hosted checkout will be rejected!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

// loadFeeBps reads PLATFORM_FEE_PERCENT (whole percent, 0..100) and converts
// it to basis points. Out-of-range values fall back to 5%.
func loadFeeBps() int64 {
	raw := GetEnv("PLATFORM_FEE_PERCENT", "5")
	pct, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || pct < 0 || pct > 100 {
		log.Printf("⚠️ Invalid PLATFORM_FEE_PERCENT=%q, falling back to 5", raw)
		pct = 5
	}
	return pct * 100
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[INFO] "+msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[WARN] "+msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[ERROR] "+msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	if err != nil {
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	} else if elapsed > l.SlowThreshold {
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
