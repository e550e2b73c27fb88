package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Token         string
	AllowedOrigin string
	DatabasePath  string
	Transport     string // "bluetooth" or "serial"
	PaperWidth    int    // fallback when no paper_width setting is stored
	ScanSeconds   int
}

func Load() Config {
	// A missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	width, err := strconv.Atoi(getEnv("PAPER_WIDTH", "32"))
	if err != nil || (width != 32 && width != 48) {
		width = 32
	}
	scanSeconds, err := strconv.Atoi(getEnv("SCAN_SECONDS", "15"))
	if err != nil || scanSeconds < 1 {
		scanSeconds = 15
	}

	return Config{
		Port:          getEnv("PORT", "3491"),
		Token:         getEnv("AGENT_TOKEN", ""),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
		DatabasePath:  getEnv("DATABASE_PATH", "printerd.db"),
		Transport:     getEnv("PRINTER_TRANSPORT", "bluetooth"),
		PaperWidth:    width,
		ScanSeconds:   scanSeconds,
	}
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
