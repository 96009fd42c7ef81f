// Package config handles configuration loading for calorie-gateway.
//
// # Configuration File
//
// The path comes from the CALORIE_CONFIG environment variable, falling back
// to $XDG_CONFIG_HOME/calorie/gateway.yaml. Files ending in .toml are read as
// TOML; everything else is YAML.
//
// # Environment
//
// A .env file next to the config file (and one in the working directory) is
// loaded before parsing. Variables already present in the environment are not
// overridden. Values can then reference variables:
//
//	sessions:
//	  secret: "${CALORIE_SESSION_SECRET}"
//
// Unset variables expand to the empty string.
//
// # Sections
//
//	server:
//	  http_addr: ":8080"
//	  allowed_origins: ["https://app.example.com"]
//	  shutdown_timeout: "5s"
//	tailscale:
//	  enabled: false
//	  hostname: "calorie"
//	database:
//	  path: "./calorie.db"
//	sessions:
//	  backend: signed        # or redis
//	  secret: "${CALORIE_SESSION_SECRET}"
//	  ttl: "24h"
//	  redis: {addr: "localhost:6379", password: "", db: 0}
//	events:
//	  amqp_url: ""           # empty disables publishing
//	  queue: "calorie.events"
//	tracking:
//	  timezone: "UTC"
//	logging:
//	  level: info
//	  format: text
//
// Durations use time.ParseDuration syntax.
package config
