// internal/workers/planning/deliver-package-proposals/config.go
package deliverpackageproposals

import (
	"time"

	"event-package-workers/internal/common/config"
)

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	Subject      string
	SenderID     string
	Timeout      time.Duration
}

func LoadConfig(wcfg config.WorkerConfig, notif config.NotificationConfig) *Config {
	cfg := &Config{
		EmailEnabled: notif.Email.Enabled,
		SMSEnabled:   notif.SMS.Enabled,
		FromEmail:    notif.Email.FromEmail,
		Subject:      notif.Email.Subject,
		SenderID:     notif.SMS.SenderID,
		Timeout:      config.GetDuration(wcfg.Timeout),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Subject == "" {
		cfg.Subject = "Your event package proposals"
	}
	return cfg
}
