package config

const EnvPrefix = "doceria"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced by tests and tooling.
const (
	EnvAppEnv         = "DOCERIA_APP_ENV"
	EnvPort           = "DOCERIA_APP_PORT"
	EnvBackendBaseURL = "DOCERIA_BACKEND_BASE_URL"
	EnvRedisURL       = "DOCERIA_REDIS_URL"
	EnvSessionSecret  = "DOCERIA_SESSION_SECRET"
	EnvSessionIssuer  = "DOCERIA_SESSION_ISSUER"
)
