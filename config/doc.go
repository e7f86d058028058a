// Package config loads process configuration from a YAML file, a .env file
// and prefixed environment variables using Viper.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("gorunnable", &cfg, config.WithConfigFile("config.yml"))
//
// Structs embed ServiceConfig for the shared name, environment and logging
// fields, and implement ApplyDefaults and Validate to have LoadConfig run them.
package config
