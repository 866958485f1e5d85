package system

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/focusday/internal/cli"
	"github.com/julianstephens/focusday/internal/keyring"
	"github.com/julianstephens/focusday/internal/storage/postgres"
)

type ConfigCmd struct {
	Show       ConfigShowCmd       `cmd:"" default:"1" help:"Print the effective configuration."`
	Connection ConfigConnectionCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	cfg.Storage.DSN = maskPassword(cfg.Storage.DSN)
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if ctx.ConfigPath != "" {
		fmt.Printf("# %s\n", ctx.ConfigPath)
	}
	fmt.Print(string(out))
	return nil
}

// ConfigConnectionCmd shows the keyring status unless --set or --delete is given.
type ConfigConnectionCmd struct {
	Set    string `help:"PostgreSQL connection string to store." placeholder:"DSN"`
	Delete bool   `help:"Remove the stored connection string."`
}

func (c *ConfigConnectionCmd) Run(ctx *cli.Context) error {
	switch {
	case c.Set != "" && c.Delete:
		return errors.New("--set and --delete cannot be combined")
	case c.Set != "":
		return setConnection(c.Set)
	case c.Delete:
		if err := keyring.Delete(); err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return errors.New("no connection string found in keyring")
			}
			return err
		}
		fmt.Println("✓ Connection string deleted from OS keyring")
		return nil
	default:
		return connectionStatus()
	}
}

func setConnection(connStr string) error {
	if !strings.HasPrefix(connStr, "postgres://") &&
		!strings.HasPrefix(connStr, "postgresql://") &&
		!strings.Contains(connStr, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so a password is tolerated here.
		fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.Set(connStr); err != nil {
		return err
	}
	fmt.Println("✓ Connection string stored in OS keyring")
	return nil
}

func connectionStatus() error {
	if !keyring.Available() {
		fmt.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println("✓ OS keyring is available")

	connStr, source, err := keyring.Resolve()
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("ℹ No connection string stored")
	case err != nil:
		return err
	default:
		fmt.Printf("✓ Connection string from %s: %s\n", source, maskPassword(connStr))
	}
	return nil
}

// maskPassword masks passwords in connection strings for display.
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}

	return connStr
}
