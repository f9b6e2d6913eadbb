package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"duty-reports/internal/auth"
	"duty-reports/internal/config"
	reporting "duty-reports/internal/reporting/domain"
	"duty-reports/internal/reporting/interfaces"
	schedule "duty-reports/internal/schedule/domain"
)

type cliConfig struct {
	inPath       string
	outPath      string
	format       string
	profilePath  string
	title        string
	breakMinutes int
	tokenRole    string
	tokenTenant  string
	tokenSubject string
	tokenTTL     time.Duration
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	if cfg.tokenRole != "" {
		if err := printToken(cfg); err != nil {
			fmt.Fprintln(os.Stderr, "sign token:", err)
			os.Exit(2)
		}
		return
	}

	profile, err := buildProfile(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "report profile:", err)
		os.Exit(2)
	}
	policy, err := profile.BreakPolicy()
	if err != nil {
		fmt.Fprintln(os.Stderr, "break policy:", err)
		os.Exit(2)
	}
	format, err := reporting.ParseFormat(cfg.format, formatFromPath(cfg.outPath))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	data, err := os.ReadFile(cfg.inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read schedule:", err)
		os.Exit(2)
	}
	var doc schedule.Schedule
	if err := json.Unmarshal(data, &doc); err != nil {
		fmt.Fprintln(os.Stderr, "decode schedule:", err)
		os.Exit(2)
	}

	report, err := reporting.NewAssembler(profile.Title, policy).Assemble(&doc)
	if err != nil {
		var located *schedule.DutyEventError
		if errors.As(err, &located) {
			logrus.WithFields(logrus.Fields{"duty_id": located.DutyID, "event_index": located.Index}).Error("resolution failed")
		}
		fmt.Fprintln(os.Stderr, "resolve schedule:", err)
		os.Exit(1)
	}
	content, err := interfaces.NewExporter(interfaces.ExportOptions{
		ClockLayout: profile.ClockLayout,
		PageSize:    profile.PageSize,
		Orientation: profile.Orientation,
	}).Render(report, format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "render report:", err)
		os.Exit(1)
	}

	outPath := cfg.outPath
	if outPath == "" {
		outPath = format.FileName()
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintln(os.Stderr, "create out dir:", err)
			os.Exit(2)
		}
	}
	if err := os.WriteFile(outPath, content, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "write report:", err)
		os.Exit(2)
	}
	fmt.Printf("Report with %d duties and %d breaks written to %s\n", report.DutyCount(), report.BreakCount(), outPath)
}

func parseFlags() (cliConfig, error) {
	var cfg cliConfig
	flag.StringVar(&cfg.inPath, "in", "", "schedule JSON path")
	flag.StringVar(&cfg.outPath, "out", "", "output path (default report.<format>)")
	flag.StringVar(&cfg.format, "format", "", "pdf, xlsx or json (default from -out extension, else pdf)")
	flag.StringVar(&cfg.profilePath, "config", os.Getenv("REPORT_CONFIG"), "yaml report profile (optional)")
	flag.StringVar(&cfg.title, "title", "", "report title")
	flag.IntVar(&cfg.breakMinutes, "break-minutes", unsetBreakMinutes, "break threshold in minutes (default 15)")
	flag.StringVar(&cfg.tokenRole, "token-role", "", "print a signed API token with this role and exit")
	flag.StringVar(&cfg.tokenTenant, "token-tenant", "", "tenant id for -token-role")
	flag.StringVar(&cfg.tokenSubject, "token-subject", "dutyreport", "subject for -token-role")
	flag.DurationVar(&cfg.tokenTTL, "token-ttl", 24*time.Hour, "token lifetime for -token-role")
	flag.Parse()

	if cfg.tokenRole != "" {
		return cfg, nil
	}
	if cfg.inPath == "" {
		return cfg, errors.New("missing -in")
	}
	return cfg, nil
}

// unsetBreakMinutes is the -break-minutes default meaning "use the profile".
const unsetBreakMinutes = -1

// buildProfile loads the optional yaml profile, applies flag overrides and
// validates the result the same way the service does.
func buildProfile(cfg cliConfig) (config.ReportProfile, error) {
	profile := config.ReportProfile{}
	if cfg.profilePath != "" {
		loaded, err := config.LoadProfile(cfg.profilePath)
		if err != nil {
			return profile, err
		}
		profile = loaded
	}
	if cfg.title != "" {
		profile.Title = cfg.title
	}
	switch {
	case cfg.breakMinutes == unsetBreakMinutes:
	case cfg.breakMinutes < 0:
		return profile, fmt.Errorf("-break-minutes must be non-negative, got %d", cfg.breakMinutes)
	default:
		minutes := cfg.breakMinutes
		profile.BreakThresholdMinutes = &minutes
	}
	profile = profile.WithDefaults()
	if err := profile.Validate(); err != nil {
		return profile, err
	}
	return profile, nil
}

func formatFromPath(path string) reporting.Format {
	switch filepath.Ext(path) {
	case ".xlsx":
		return reporting.FormatXLSX
	case ".json":
		return reporting.FormatJSON
	default:
		return reporting.FormatPDF
	}
}

func printToken(cfg cliConfig) error {
	role, ok := auth.NormalizeRole(cfg.tokenRole)
	if !ok {
		return fmt.Errorf("unknown role %q", cfg.tokenRole)
	}
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}
	token, err := auth.SignToken([]byte(secret), cfg.tokenTenant, role, cfg.tokenSubject, cfg.tokenTTL)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
