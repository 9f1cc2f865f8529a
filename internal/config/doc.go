// Package config provides configuration management for the Analysis API.
//
// Configuration is loaded from environment variables using the env package,
// after an optional .env file has been applied with godotenv.
// All configuration values have sensible defaults for development use;
// Redis stays disabled until REDIS_ADDR is set.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
