// Package config provides configuration loading and validation for
// onionkit applications.
//
// It uses Viper to load configuration from YAML files and environment
// variables, with .env file support via godotenv. ServiceConfig carries
// the fields every service needs (logging, tracing, metrics, pipeline
// definition directories); projects embed it in their own config structs.
//
// # Usage
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	}
//
//	var cfg MyConfig
//	err := config.LoadConfig("checkout-svc", &cfg)
//	cfg.ApplyDefaults()
//	err = cfg.Validate()
//
// Environment variables override file values; AUTH_JWT_SECRET binds to
// auth.jwt.secret and related nested keys.
package config
