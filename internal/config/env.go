package config

import (
	"fmt"
	"strings"
)

// Validate reports every required setting that is missing so the process
// can fail once at startup instead of on the first request.
func (c Config) Validate() error {
	missing := make([]string, 0)
	if c.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Storage.Driver == "minio" {
		if c.Storage.MinioAccessKey == "" {
			missing = append(missing, "MINIO_ACCESS_KEY")
		}
		if c.Storage.MinioSecretKey == "" {
			missing = append(missing, "MINIO_SECRET_KEY")
		}
	}
	// Reset codes must be delivered in production, not logged.
	if c.IsProduction() {
		if c.SMTP.Host == "" {
			missing = append(missing, "SMTP_HOST")
		}
		if c.SMTP.From == "" {
			missing = append(missing, "SMTP_FROM")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("ENV %s is required", strings.Join(missing, ", "))
	}
	if c.Storage.Driver != "local" && c.Storage.Driver != "minio" {
		return fmt.Errorf("STORAGE_DRIVER must be local or minio, got %q", c.Storage.Driver)
	}
	return nil
}
