package config

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the application.
type Config struct {
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	JWTSecret          string
	LogLevel           string
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	FrontendURL        string
	BackendURL         string
	StorageBackend     string // local | s3 | gcs
	S3Region           string
	S3Bucket           string
	GCSBucketName      string
	GCSCredentialsFile string
	LocalStoragePath   string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	UploadURLTTL       int // minutes a presigned upload URL stays valid
	ServerPort         string
	Debug              bool
}

// AppConfig is the global configuration instance.
var AppConfig Config

// Init loads configuration from the environment (and .env, if present).
func Init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	AppConfig = Config{
		DBHost:             getEnv("DB_HOST", ""),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBUser:             getEnv("DB_USER", ""),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "momento"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SMTPHost:           getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getEnvAsInt("SMTP_PORT", 465),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:19006"),
		BackendURL:         getEnv("BACKEND_URL", "http://localhost:8080"),
		StorageBackend:     getEnv("STORAGE_BACKEND", "local"),
		S3Region:           getEnv("S3_REGION", "us-west-2"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		GCSBucketName:      getEnv("GCS_BUCKET_NAME", ""),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		LocalStoragePath:   getEnv("LOCAL_STORAGE_PATH", "./uploads"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		UploadURLTTL:       getEnvAsInt("UPLOAD_URL_TTL", 15),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		Debug:              getEnvAsBool("DEBUG", true),
	}

	validateConfig()

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("running in debug mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("running in release mode")
	}

	log.Printf("config loaded, database %s:%s, storage backend %s", AppConfig.DBHost, AppConfig.DBPort, AppConfig.StorageBackend)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func validateConfig() {
	if AppConfig.DBHost == "" || AppConfig.DBUser == "" || AppConfig.DBPassword == "" || AppConfig.DBName == "" {
		log.Fatal("error: incomplete database configuration")
	}
	if AppConfig.JWTSecret == "" {
		log.Fatal("error: JWT secret is not set")
	}
	switch AppConfig.StorageBackend {
	case "local":
	case "s3":
		if AppConfig.S3Bucket == "" {
			log.Fatal("error: STORAGE_BACKEND=s3 requires S3_BUCKET")
		}
	case "gcs":
		if AppConfig.GCSBucketName == "" {
			log.Fatal("error: STORAGE_BACKEND=gcs requires GCS_BUCKET_NAME")
		}
	default:
		log.Fatalf("error: unknown storage backend %q", AppConfig.StorageBackend)
	}
	if AppConfig.SMTPUsername == "" || AppConfig.SMTPPassword == "" {
		log.Println("warning: SMTP is not configured, emails will not be sent")
	}
}
