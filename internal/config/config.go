package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// Content directories.
	BankDir        string
	BankFilePrefix string
	TopicsDir      string
	GuidesDir      string

	// Anthropic tutor. Empty API key disables AI features; the engines fall
	// back to canned strings and individual concept groups.
	AnthropicAPIKey string
	TutorModel      string

	AuthHMACSecret string

	StudentUser     string
	StudentPassHash string // bcrypt
	AdminUser       string
	AdminPassHash   string // bcrypt

	CORSOrigins []string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:       addr,
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		BankDir:        envOr("BANK_DIR", "./data/banks"),
		BankFilePrefix: envOr("BANK_FILE_PREFIX", "BANK_"),
		TopicsDir:      envOr("TOPICS_DIR", "./data/topics"),
		GuidesDir:      envOr("GUIDES_DIR", "./data/guides"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		TutorModel:      envOr("TUTOR_MODEL", ""),

		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "dev-insecure-secret"),

		StudentUser:     envOr("STUDENT_USER", "student"),
		StudentPassHash: envOr("STUDENT_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		AdminUser:       envOr("ADMIN_USER", "admin"),
		AdminPassHash:   envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}
}
func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
