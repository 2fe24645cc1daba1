// Package config loads typed configuration from the environment.
//
// Structs describe their settings with caarlos0/env tags. Load optionally
// reads dotenv files with godotenv first; real environment variables always
// win over file values, and the process environment is never modified.
//
//	var cfg cashier.Config
//	if err := config.Load(&cfg, config.WithEnvFiles(".env", ".env.local")); err != nil {
//		log.Fatal(err)
//	}
//
// Without WithEnvFiles, a .env file in the working directory is used when
// present.
package config
