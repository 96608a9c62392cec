package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursegrid/coursegrid/internal/config"
	"github.com/coursegrid/coursegrid/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Environment variables prefixed with COURSEGRID_ override the file.`,
		Example: `  coursegrid config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(path, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&path, "path", config.DefaultConfigPath(), "Config file to view or edit")
	return cmd
}

func runConfigInteractive(path string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Config file: %s\n\n", path)

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(path)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", path)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	p := prompter{r: reader, w: out}
	cfg.Calendar.Granularity = p.number("Minutes per row", cfg.Calendar.Granularity)
	cfg.Calendar.DayStart = p.value("Day start", cfg.Calendar.DayStart)
	cfg.Calendar.DayEnd = p.value("Day end", cfg.Calendar.DayEnd)
	cfg.Storage.Driver = p.value("Storage driver (sqlite, mongo)", cfg.Storage.Driver)
	if cfg.Storage.Driver == "mongo" {
		cfg.Storage.MongoURI = p.value("MongoDB URI", cfg.Storage.MongoURI)
		cfg.Storage.MongoDatabase = p.value("MongoDB database", cfg.Storage.MongoDatabase)
	} else {
		cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	}
	cfg.Server.Addr = p.value("API address", cfg.Server.Addr)
	cfg.Server.CORSOrigins = p.slice("Allowed origins (comma-separated)", cfg.Server.CORSOrigins)
	cfg.Cache.Enabled = p.yesNo("Cache responses in Redis", cfg.Cache.Enabled)
	if cfg.Cache.Enabled {
		cfg.Cache.Addr = p.value("Redis address", cfg.Cache.Addr)
	}
	cfg.Events.Enabled = p.yesNo("Publish changes to RabbitMQ", cfg.Events.Enabled)
	if cfg.Events.Enabled {
		cfg.Events.URL = p.value("AMQP URL", cfg.Events.URL)
	}
	cfg.Archive.Enabled = p.yesNo("Archive uploads in object storage", cfg.Archive.Enabled)
	if cfg.Archive.Enabled {
		cfg.Archive.Endpoint = p.value("Object storage endpoint", cfg.Archive.Endpoint)
		cfg.Archive.Bucket = p.value("Bucket", cfg.Archive.Bucket)
	}
	cfg.Log.Level = p.value("Log level", cfg.Log.Level)
	cfg.UI.Theme = p.theme(cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[calendar]")
	fmt.Fprintf(w, "  granularity      = %d\n", cfg.Calendar.Granularity)
	fmt.Fprintf(w, "  day_start        = %s\n", cfg.Calendar.DayStart)
	fmt.Fprintf(w, "  day_end          = %s\n", cfg.Calendar.DayEnd)
	fmt.Fprintf(w, "  default_start    = %s\n", cfg.Calendar.DefaultStart)
	fmt.Fprintf(w, "  default_end      = %s\n", cfg.Calendar.DefaultEnd)
	fmt.Fprintf(w, "  default_days     = %s\n", cfg.Calendar.DefaultDays)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  driver           = %s\n", cfg.Storage.Driver)
	if cfg.Storage.Driver == "mongo" {
		fmt.Fprintf(w, "  mongo_uri        = %s\n", cfg.Storage.MongoURI)
		fmt.Fprintf(w, "  mongo_database   = %s\n", cfg.Storage.MongoDatabase)
	} else {
		fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	}
	fmt.Fprintln(w, "\n[server]")
	fmt.Fprintf(w, "  addr             = %s\n", cfg.Server.Addr)
	fmt.Fprintf(w, "  cors_origins     = %s\n", strings.Join(cfg.Server.CORSOrigins, ", "))
	fmt.Fprintf(w, "  rate_limit       = %d\n", cfg.Server.RateLimit)
	fmt.Fprintf(w, "  max_upload_mb    = %d\n", cfg.Server.MaxUploadMB)
	fmt.Fprintln(w, "\n[cache]")
	fmt.Fprintf(w, "  enabled          = %t\n", cfg.Cache.Enabled)
	if cfg.Cache.Enabled {
		fmt.Fprintf(w, "  addr             = %s\n", cfg.Cache.Addr)
		fmt.Fprintf(w, "  ttl              = %d\n", cfg.Cache.TTL)
	}
	fmt.Fprintln(w, "\n[events]")
	fmt.Fprintf(w, "  enabled          = %t\n", cfg.Events.Enabled)
	if cfg.Events.Enabled {
		fmt.Fprintf(w, "  queue            = %s\n", cfg.Events.Queue)
	}
	fmt.Fprintln(w, "\n[archive]")
	fmt.Fprintf(w, "  enabled          = %t\n", cfg.Archive.Enabled)
	if cfg.Archive.Enabled {
		fmt.Fprintf(w, "  endpoint         = %s\n", cfg.Archive.Endpoint)
		fmt.Fprintf(w, "  bucket           = %s\n", cfg.Archive.Bucket)
	}
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level            = %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  encoding         = %s\n", cfg.Log.Encoding)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
}

func promptYesNo(reader *bufio.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

// prompter asks for one setting at a time. An empty answer keeps the current
// value.
type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.w, "  %s: ", label)
	} else {
		fmt.Fprintf(p.w, "  %s [%s]: ", label, current)
	}
	input, _ := p.r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (p prompter) number(label string, current int) int {
	for {
		v := p.value(label, strconv.Itoa(current))
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		fmt.Fprintf(p.w, "  %q is not a number\n", v)
	}
}

func (p prompter) yesNo(label string, current bool) bool {
	def := "n"
	if current {
		def = "y"
	}
	switch strings.ToLower(p.value(label+" (y/n)", def)) {
	case "y", "yes", "true":
		return true
	default:
		return false
	}
}

func (p prompter) slice(label string, current []string) []string {
	input := p.value(label, strings.Join(current, ", "))
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func (p prompter) theme(current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(p.value(label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(p.w, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
