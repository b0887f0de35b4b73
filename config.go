package main

import "os"

type Config struct {
	DatabaseURL  string
	JWTSecret    string
	CookieName   string
	CookieSecure bool
	CORSOrigin   string
	Port         string

	MailServer   string
	MailPort     string
	MailUsername string
	MailPassword string
	MailSender   string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	Debug bool
}

func loadConfig() Config {
	return Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		CookieName:   getenv("COOKIE_NAME", "estudantes_auth"),
		CookieSecure: os.Getenv("COOKIE_SECURE") == "true",
		CORSOrigin:   getenv("CORS_ORIGIN", "http://localhost:5000"),
		Port:         getenv("PORT", "5000"),

		MailServer:   getenv("MAIL_SERVER", "smtp.gmail.com"),
		MailPort:     getenv("MAIL_PORT", "587"),
		MailUsername: os.Getenv("MAIL_USERNAME"),
		MailPassword: os.Getenv("MAIL_PASSWORD"),
		MailSender:   getenv("MAIL_USERNAME", "noreply@bnstudy.com"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL: getenv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),

		Debug: os.Getenv("DEBUG") == "true",
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
