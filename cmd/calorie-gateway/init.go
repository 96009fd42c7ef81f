// ABOUTME: Interactive config generation for the init command
// ABOUTME: Renders a commented YAML config with a freshly generated session secret

package main

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389/calorie-gateway/internal/config"
)

// configAnswers are the choices written into a generated config file.
type configAnswers struct {
	HTTPAddr string
	DBPath   string

	SessionBackend string
	SessionSecret  string
	RedisAddr      string

	AMQPURL  string
	Timezone string

	TailscaleEnabled   bool
	TailscaleHostname  string
	TailscaleAuthKey   string
	TailscaleEphemeral bool
	TailscaleFunnel    bool

	LogLevel  string
	LogFormat string
}

func defaultAnswers() (configAnswers, error) {
	secret, err := generateSecret()
	if err != nil {
		return configAnswers{}, err
	}
	return configAnswers{
		HTTPAddr:       "localhost:8080",
		DBPath:         filepath.Join(getDataPath(), "gateway.db"),
		SessionBackend: config.SessionBackendSigned,
		SessionSecret:  secret,
		Timezone:       config.DefaultTimezone,
		LogLevel:       "info",
		LogFormat:      "text",
	}, nil
}

func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func renderConfig(a configAnswers, generatedBy string) string {
	var cfg strings.Builder
	cfg.WriteString("# calorie-gateway configuration\n")
	fmt.Fprintf(&cfg, "# Generated by calorie-gateway %s\n\n", generatedBy)

	cfg.WriteString("server:\n")
	if !a.TailscaleEnabled {
		fmt.Fprintf(&cfg, "  http_addr: %q\n", a.HTTPAddr)
	}
	cfg.WriteString("  shutdown_timeout: \"5s\"\n\n")

	cfg.WriteString("database:\n")
	fmt.Fprintf(&cfg, "  path: %q\n\n", a.DBPath)

	cfg.WriteString("sessions:\n")
	fmt.Fprintf(&cfg, "  backend: %q\n", a.SessionBackend)
	if a.SessionBackend == config.SessionBackendRedis {
		cfg.WriteString("  redis:\n")
		fmt.Fprintf(&cfg, "    addr: %q\n", a.RedisAddr)
	} else {
		fmt.Fprintf(&cfg, "  secret: %q\n", a.SessionSecret)
	}
	cfg.WriteString("  ttl: \"24h\"\n\n")

	if a.AMQPURL != "" {
		cfg.WriteString("events:\n")
		fmt.Fprintf(&cfg, "  amqp_url: %q\n", a.AMQPURL)
		fmt.Fprintf(&cfg, "  queue: %q\n\n", config.DefaultEventsQueue)
	}

	cfg.WriteString("tracking:\n")
	fmt.Fprintf(&cfg, "  timezone: %q\n\n", a.Timezone)

	cfg.WriteString("tailscale:\n")
	fmt.Fprintf(&cfg, "  enabled: %t\n", a.TailscaleEnabled)
	if a.TailscaleEnabled {
		fmt.Fprintf(&cfg, "  hostname: %q\n", a.TailscaleHostname)
		if a.TailscaleAuthKey != "" {
			fmt.Fprintf(&cfg, "  auth_key: %q\n", a.TailscaleAuthKey)
		}
		fmt.Fprintf(&cfg, "  ephemeral: %t\n", a.TailscaleEphemeral)
		fmt.Fprintf(&cfg, "  funnel: %t\n", a.TailscaleFunnel)
	}
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	fmt.Fprintf(&cfg, "  level: %q\n", a.LogLevel)
	fmt.Fprintf(&cfg, "  format: %q\n", a.LogFormat)

	return cfg.String()
}

// writeConfig writes content to path, creating parent directories. The file
// holds secrets so it is only readable by the owner.
func writeConfig(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func yes(s string) bool {
	s = strings.ToLower(s)
	return s == "yes" || s == "y"
}

func runInit(in io.Reader) error {
	reader := bufio.NewReader(in)

	fmt.Println("calorie-gateway configuration setup")
	fmt.Println("===================================")
	fmt.Println()

	a, err := defaultAnswers()
	if err != nil {
		return err
	}

	outputFile := prompt(reader, "Config file path", config.DefaultPath())
	if _, err := os.Stat(outputFile); err == nil {
		if !yes(prompt(reader, "File exists. Overwrite?", "no")) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println("\n--- Tailscale Configuration ---")
	a.TailscaleEnabled = yes(prompt(reader, "Enable Tailscale?", "no"))
	if a.TailscaleEnabled {
		a.TailscaleHostname = prompt(reader, "Tailscale hostname", "calorie-gateway")
		a.TailscaleAuthKey = prompt(reader, "Tailscale auth key (leave empty to use TS_AUTHKEY)", "")
		a.TailscaleEphemeral = yes(prompt(reader, "Ephemeral node?", "no"))
		a.TailscaleFunnel = yes(prompt(reader, "Enable Funnel (public HTTPS)?", "no"))
	} else {
		fmt.Println("\n--- Server Configuration ---")
		a.HTTPAddr = prompt(reader, "HTTP address", a.HTTPAddr)
	}

	fmt.Println("\n--- Database Configuration ---")
	a.DBPath = prompt(reader, "SQLite database path", a.DBPath)

	fmt.Println("\n--- MCP Sessions ---")
	a.SessionBackend = prompt(reader, "Session backend (signed/redis)", a.SessionBackend)
	if a.SessionBackend == config.SessionBackendRedis {
		a.RedisAddr = prompt(reader, "Redis address", "localhost:6379")
	}

	fmt.Println("\n--- Events & Tracking ---")
	a.AMQPURL = prompt(reader, "RabbitMQ URL (leave empty to disable events)", "")
	a.Timezone = prompt(reader, "Timezone for daily tracking", a.Timezone)

	fmt.Println("\n--- Logging Configuration ---")
	a.LogLevel = prompt(reader, "Log level (debug/info/warn/error)", a.LogLevel)
	a.LogFormat = prompt(reader, "Log format (text/json)", a.LogFormat)

	if err := writeConfig(outputFile, renderConfig(a, "init")); err != nil {
		return err
	}

	dataDir := filepath.Dir(a.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Printf("Data directory: %s\n", dataDir)
	fmt.Println("\nNext steps:")
	fmt.Println("  calorie-gateway bootstrap --name \"Your Name\" --email you@example.com")
	fmt.Println("  calorie-gateway serve")

	return nil
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
