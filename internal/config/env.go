// AngelaMos | 2026
// env.go

package config

// Only these variables are read. Anything else in the environment is
// ignored rather than guessed into a config path.
var envKeys = map[string]string{
	"ENVIRONMENT": "app.environment",
	"HOST":        "server.host",
	"PORT":        "server.port",

	"DATABASE_URL":           "database.url",
	"DATABASE_QUERY_TIMEOUT": "database.query_timeout",
	"REDIS_URL":              "redis.url",
	"REDIS_OP_TIMEOUT":       "redis.op_timeout",

	"JWT_PRIVATE_KEY_PATH":     "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":      "jwt.public_key_path",
	"JWT_ACCESS_TOKEN_EXPIRE":  "jwt.access_token_expire",
	"JWT_REFRESH_TOKEN_EXPIRE": "jwt.refresh_token_expire",
	"JWT_ISSUER":               "jwt.issuer",
	"JWT_AUDIENCE":             "jwt.audience",

	"AUTH_DEFAULT_ROLE":         "auth.default_role",
	"AUTH_UNIFORM_LOGIN_ERRORS": "auth.uniform_login_errors",
	"AUTH_LOGIN_RATE_LIMIT":     "auth.login_rate_limit",
	"AUTH_LOGIN_RATE_BURST":     "auth.login_rate_burst",

	"AUDIT_WRITE_TIMEOUT": "audit.write_timeout",
	"AUDIT_LIST_LIMIT":    "audit.list_limit",

	"RATE_LIMIT_REQUESTS": "rate_limit.requests",
	"RATE_LIMIT_WINDOW":   "rate_limit.window",
	"RATE_LIMIT_BURST":    "rate_limit.burst",

	"LOG_LEVEL":  "log.level",
	"LOG_FORMAT": "log.format",

	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",

	"METRICS_ENABLED": "metrics.enabled",
	"METRICS_PATH":    "metrics.path",
}

func envKey(name string) string {
	return envKeys[name]
}
