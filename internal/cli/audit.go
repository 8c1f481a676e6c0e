package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"purgeall/internal/audit"
	"purgeall/internal/safety"
)

var showLines int

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditShowCmd)
	auditShowCmd.Flags().IntVarP(&showLines, "lines", "n", 20, "Number of recent entries to show")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log operations",
	Long:  "Commands for verifying and inspecting the hash-chained audit log.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify [<path>]",
	Short: "Verify hash chain integrity of the audit log",
	Long: "Walks the JSONL audit log and validates that every entry's prev_hash\n" +
		"matches the SHA-256 of the previous entry. Exits 0 if valid, 1 if tampered.\n" +
		"Defaults to the audit log named in the detected configuration.",
	Args: cobra.MaximumNArgs(1),
	RunE: runAuditVerify,
}

var auditShowCmd = &cobra.Command{
	Use:   "show [<path>]",
	Short: "Show recent audit log entries",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAuditShow,
}

func auditPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	confPath := configPath()
	cfg, err := safety.Load(confPath, safety.LoadOptions{})
	if err != nil {
		return "", err
	}
	if cfg.AuditLog == "" {
		return "", fmt.Errorf("no audit_log configured; pass a path explicitly")
	}
	return cfg.AuditLog, nil
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	path, err := auditPath(args)
	if err != nil {
		return err
	}
	result := audit.Verify(path)
	if result.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d entries verified\n", result.Lines)
		return nil
	}
	fmt.Fprintf(os.Stderr, "FAILED at line %d: %s\n", result.ErrorLine, result.Error)
	os.Exit(1)
	return nil
}

func runAuditShow(cmd *cobra.Command, args []string) error {
	path, err := auditPath(args)
	if err != nil {
		return err
	}
	entries, err := audit.ReadEntries(path, showLines)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), audit.FormatEntries(entries))
	return nil
}
