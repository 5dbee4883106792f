package app

import (
	"strings"

	"github.com/brightfold/content-backend/internal/pkg/logger"
	"github.com/brightfold/content-backend/internal/utils"
)

type Config struct {
	JWTSecretKey       string
	DefaultLocale      string
	SelectorConfigPath string
	AllowedOrigins     []string
	Port               string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	defaultLocale := utils.GetEnv("DEFAULT_LOCALE", "en", log)
	selectorConfigPath := utils.GetEnv("SELECTOR_CONFIG_PATH", "", log)
	origins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)
	port := utils.GetEnv("PORT", "8080", log)

	var allowed []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}

	return Config{
		JWTSecretKey:       jwtSecretKey,
		DefaultLocale:      defaultLocale,
		SelectorConfigPath: selectorConfigPath,
		AllowedOrigins:     allowed,
		Port:               port,
	}
}
