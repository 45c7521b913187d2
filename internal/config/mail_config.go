package config

// MailConfig holds SMTP transport configuration
type MailConfig struct {
	Host      string
	Port      int
	User      string
	Pass      string
	FromName  string
	FromEmail string
	SSL       bool
	DryRun    bool
}

// GetMailConfig returns SMTP configuration from environment variables.
// SMTP_USER and SMTP_PASS fall back to the older GMAIL_USER and GMAIL_PASS.
func GetMailConfig() *MailConfig {
	user := getEnv("SMTP_USER", getEnv("GMAIL_USER", ""))
	port := getEnvAsInt("SMTP_PORT", 587)

	return &MailConfig{
		Host:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port:      port,
		User:      user,
		Pass:      getEnv("SMTP_PASS", getEnv("GMAIL_PASS", "")),
		FromName:  getEnv("MAIL_FROM_NAME", ""),
		FromEmail: getEnv("MAIL_FROM_EMAIL", user),
		SSL:       getEnvAsBool("SMTP_SSL", port == 465),
		DryRun:    getEnvAsBool("MAIL_DRY_RUN", false),
	}
}

// HasCredentials reports whether an authenticated SMTP session can be attempted
func (c *MailConfig) HasCredentials() bool {
	return c.User != "" && c.Pass != ""
}
