// ABOUTME: First-run setup: writes a config if missing and creates the first admin user
// ABOUTME: The admin's raw API key is printed once and never stored

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/2389/calorie-gateway/internal/config"
	"github.com/2389/calorie-gateway/internal/store"
	"github.com/2389/calorie-gateway/internal/tracker"
)

type bootstrapArgs struct {
	Name   string
	Email  string
	APIKey string
}

// parseBootstrapArgs supports both "--flag value" and "--flag=value".
func parseBootstrapArgs(args []string) (bootstrapArgs, error) {
	var out bootstrapArgs
	targets := map[string]*string{
		"--name":    &out.Name,
		"-n":        &out.Name,
		"--email":   &out.Email,
		"-e":        &out.Email,
		"--api-key": &out.APIKey,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return out, fmt.Errorf("unexpected argument: %s", arg)
		}
		flag, value, hasValue := strings.Cut(arg, "=")
		dst, ok := targets[flag]
		if !ok {
			return out, fmt.Errorf("unknown flag: %s", flag)
		}
		if !hasValue {
			if i+1 >= len(args) {
				return out, fmt.Errorf("%s requires a value", flag)
			}
			value = args[i+1]
			i++
		}
		*dst = value
	}

	out.Name = strings.TrimSpace(out.Name)
	out.Email = strings.TrimSpace(out.Email)
	if out.Name == "" {
		return out, errors.New("--name flag is required")
	}
	if out.Email == "" {
		return out, errors.New("--email flag is required")
	}
	return out, nil
}

// bootstrapAdmin creates the first admin in s. It refuses to run once any user exists.
func bootstrapAdmin(ctx context.Context, s store.Store, args bootstrapArgs, logger *slog.Logger) (*tracker.Registration, error) {
	count, err := s.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking users: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("bootstrap already complete: %d user(s) exist", count)
	}

	svc := tracker.New(tracker.Config{Store: s, Logger: logger})
	reg, err := svc.BootstrapAdmin(ctx, tracker.RegisterInput{
		Name:   args.Name,
		Email:  args.Email,
		APIKey: args.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating admin: %w", err)
	}
	return reg, nil
}

func runBootstrap(ctx context.Context, rawArgs []string) error {
	args, err := parseBootstrapArgs(rawArgs)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	configPath := config.DefaultPath()
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		answers, err := defaultAnswers()
		if err != nil {
			return err
		}
		if err := writeConfig(configPath, renderConfig(answers, "bootstrap")); err != nil {
			return err
		}
		green.Printf("  ✓ Created config: %s\n", configPath)
	} else {
		cyan.Printf("  Using existing config: %s\n", configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := setupLogger(cfg.Logging)

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	green.Printf("  ✓ Database: %s\n", cfg.Database.Path)

	reg, err := bootstrapAdmin(ctx, s, args, logger)
	if err != nil {
		return err
	}

	green.Printf("  ✓ Created admin user: %s\n", reg.User.Name)

	fmt.Println()
	green.Println("  Bootstrap complete!")
	fmt.Println()
	cyan.Println("  Admin User")
	cyan.Println("  ----------")
	fmt.Printf("  ID:      %s\n", reg.User.ID)
	fmt.Printf("  Name:    %s\n", reg.User.Name)
	fmt.Printf("  Email:   %s\n", reg.User.Email)
	fmt.Printf("  API Key: %s\n", reg.APIKey)
	fmt.Println()
	yellow.Println("  Store the API key now. It cannot be shown again.")
	fmt.Println()
	fmt.Println("  Ready to go:")
	fmt.Println("    calorie-gateway serve")
	fmt.Println()

	return nil
}
