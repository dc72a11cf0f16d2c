package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	BlobBasePath string

	// HS256 secret for session tokens.
	AuthSecret string

	// Single-teacher deployment: one email + bcrypt hash.
	TeacherEmail    string
	TeacherPassHash string

	CORSOrigins []string

	// TTF with CJK coverage for the printable review sheet. Empty
	// falls back to the built-in Latin font.
	SheetFontPath string
	SheetFontName string
}

func FromEnv() Config {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:        addr,
		PublicURL:       os.Getenv("PUBLIC_URL"),
		DBDriver:        envOr("DB_DRIVER", "sqlite"),
		DBDSN:           envOr("DB_DSN", ""),
		BlobBasePath:    envOr("BLOB_BASE_PATH", "./data"),
		AuthSecret:      envOr("AUTH_SECRET", "dev-secret-change-me"),
		TeacherEmail:    envOr("TEACHER_EMAIL", "teacher@example.com"),
		TeacherPassHash: envOr("TEACHER_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		CORSOrigins:     csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		SheetFontPath:   os.Getenv("SHEET_FONT_PATH"),
		SheetFontName:   envOr("SHEET_FONT_NAME", "NotoSansTC"),
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
