package main

import (
	"os"
	"strings"
)

type Config struct {
	Port     string
	MongoURI string
	MongoDB  string

	// AMQPURI empty disables event publishing entirely.
	AMQPURI string

	// Transitions is "permissive", "strict", or a path to a JSON table.
	Transitions string

	// AuthDisabled restores the historical open admin routes for local dev.
	AuthDisabled bool

	// ContactEnc seals reporter email/phone at rest.
	ContactEnc bool

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	CORSOrigins []string
}

func mustConfig() Config {
	return Config{
		Port:           getenv("PORT", "8082"),
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getenv("MONGO_DB", "safety_hub"),
		AMQPURI:        os.Getenv("AMQP_URI"),
		Transitions:    getenv("REPORT_TRANSITIONS", "permissive"),
		AuthDisabled:   getenv("AUTH_DISABLED", "false") == "true",
		ContactEnc:     getenv("CONTACT_ENC", "false") == "true",
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getenv("MINIO_BUCKET", "evidence"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
		CORSOrigins:    splitCSV(getenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
