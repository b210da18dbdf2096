// AngelaMos | 2026
// defaults.go

package config

func defaults() map[string]any {
	return map[string]any{
		"app.name":        "Quiz Platform",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "15s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.query_timeout":      "5s",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 2,
		"redis.op_timeout":     "3s",

		"jwt.private_key_path":     "keys/private.pem",
		"jwt.public_key_path":      "keys/public.pem",
		"jwt.access_token_expire":  "15m",
		"jwt.refresh_token_expire": "168h",
		"jwt.issuer":               "quiz-platform",
		"jwt.audience":             "quiz-platform-api",

		"auth.default_role":         "player",
		"auth.uniform_login_errors": true,
		"auth.login_rate_limit":     10,
		"auth.login_rate_burst":     5,

		"audit.write_timeout": "2s",
		"audit.list_limit":    1000,

		"rate_limit.requests": 120,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    30,

		"cors.allowed_origins":    []string{"http://localhost:3000"},
		"cors.allowed_methods":    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		"cors.allowed_headers":    []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		"cors.allow_credentials":  true,
		"cors.max_age":            300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     false,
		"otel.sample_rate":  0.1,
		"otel.service_name": "quiz-platform",

		"metrics.enabled": true,
		"metrics.path":    "/metrics",
	}
}
