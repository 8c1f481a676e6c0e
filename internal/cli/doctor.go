package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"purgeall/internal/audit"
	"purgeall/internal/safety"
	"purgeall/internal/store"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and diagnose setup issues",
	RunE:  runDoctor,
}

type checkResult struct {
	label  string
	ok     bool
	detail string
	fix    string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	var checks []checkResult

	// 1. Config file detection.
	confPath := configPath()
	if confPath != "" {
		checks = append(checks, checkResult{
			label:  "config file",
			ok:     true,
			detail: confPath,
		})
	} else {
		checks = append(checks, checkResult{
			label:  "config file",
			ok:     false,
			detail: "not found (using built-in defaults)",
			fix:    "purgeall init",
		})
	}

	// 2. Config parses and loads.
	cfg, err := safety.Load(confPath, safety.LoadOptions{})
	if err != nil {
		checks = append(checks, checkResult{
			label:  "config load",
			ok:     false,
			detail: err.Error(),
		})
		printChecks(cmd.OutOrStdout(), checks)
		return fmt.Errorf("doctor found issues")
	}
	checks = append(checks, checkResult{
		label: "config load",
		ok:    true,
		detail: fmt.Sprintf("enabled=%t max=%d confirm_above=%d",
			cfg.Enabled, cfg.MaxObjectsWithoutConfirmation, cfg.RequireConfirmationAbove),
	})

	// 3. Deployment environment.
	if env := os.Getenv(safety.EnvDeployEnv); env != "" {
		checks = append(checks, checkResult{
			label:  "environment",
			ok:     true,
			detail: fmt.Sprintf("%s=%s", safety.EnvDeployEnv, env),
		})
	}
	if v := os.Getenv(safety.EnvDisabled); v != "" {
		checks = append(checks, checkResult{
			label:  "disable flag",
			ok:     true,
			detail: fmt.Sprintf("%s=%s", safety.EnvDisabled, v),
		})
	}

	// 4. Database reachable.
	if cfg.Database == "" {
		checks = append(checks, checkResult{
			label:  "database",
			ok:     false,
			detail: "no database configured",
			fix:    "set 'database' in purgeall.yaml",
		})
	} else if db, err := store.Open(cfg.Database); err != nil {
		checks = append(checks, checkResult{
			label:  "database",
			ok:     false,
			detail: err.Error(),
		})
	} else {
		tables, err := db.Tables(cmd.Context())
		db.Close()
		if err != nil {
			checks = append(checks, checkResult{
				label:  "database",
				ok:     false,
				detail: err.Error(),
			})
		} else {
			checks = append(checks, checkResult{
				label:  "database",
				ok:     true,
				detail: fmt.Sprintf("%s (%d tables)", cfg.Database, len(tables)),
			})
		}
	}

	// 5. Audit log chain.
	switch {
	case !cfg.AuditDeletions:
		checks = append(checks, checkResult{
			label:  "audit log",
			ok:     true,
			detail: "disabled (audit_deletions: false)",
		})
	case cfg.AuditLog == "":
		checks = append(checks, checkResult{
			label:  "audit log",
			ok:     false,
			detail: "audit_deletions is on but no audit_log path is set",
			fix:    "set 'audit_log' in purgeall.yaml",
		})
	default:
		if _, err := os.Stat(cfg.AuditLog); err != nil {
			checks = append(checks, checkResult{
				label:  "audit log",
				ok:     true,
				detail: fmt.Sprintf("%s (will be created on first deletion)", cfg.AuditLog),
			})
		} else if result := audit.Verify(cfg.AuditLog); result.Valid {
			checks = append(checks, checkResult{
				label:  "audit log",
				ok:     true,
				detail: fmt.Sprintf("%s (%d entries, chain intact)", cfg.AuditLog, result.Lines),
			})
		} else {
			checks = append(checks, checkResult{
				label:  "audit log",
				ok:     false,
				detail: fmt.Sprintf("chain broken at line %d: %s", result.ErrorLine, result.Error),
			})
		}
	}

	return printChecks(cmd.OutOrStdout(), checks)
}

func printChecks(w io.Writer, checks []checkResult) error {
	hasFailures := false
	for _, c := range checks {
		mark := "\u2713" // ✓
		if !c.ok {
			mark = "\u2717" // ✗
			hasFailures = true
		}
		line := fmt.Sprintf("%s %-14s %s", mark, c.label+":", c.detail)
		if !c.ok && c.fix != "" {
			line += fmt.Sprintf("  ->  %s", c.fix)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w)
	if hasFailures {
		fmt.Fprintln(w, "Some checks failed. Run the suggested commands to fix.")
		return fmt.Errorf("doctor found issues")
	}
	fmt.Fprintln(w, "All checks passed.")
	return nil
}
