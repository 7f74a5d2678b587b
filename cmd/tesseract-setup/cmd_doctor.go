package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tesseract-olap/tesseract-setup/internal/account"
	"github.com/tesseract-olap/tesseract-setup/internal/config"
	"github.com/tesseract-olap/tesseract-setup/internal/exitcodes"
	"github.com/tesseract-olap/tesseract-setup/internal/system"
	ui "github.com/tesseract-olap/tesseract-setup/internal/ui"
	"github.com/tesseract-olap/tesseract-setup/internal/unitfile"
)

// Environment keys the tesseract server reads from its unit.
const (
	envDatabaseURL = "TESSERACT_DATABASE_URL"
	envSchemaPath  = "TESSERACT_SCHEMA_FILEPATH"
)

// minFreeBytes is the free space below which doctor warns. The rewrite
// needs only the unit's size; this is a margin, not a hard limit.
const minFreeBytes = 1 << 20

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run preflight checks for tesseract-setup",
	Long: `Checks the host before or after configuring:
- Privileges to create accounts and edit the unit
- Unit file presence and writability
- Service account existence
- Database address and schema path currently in the unit
- Whether tesseract-olap is already running`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCfg()
		if err != nil {
			return err
		}
		return runDoctor(cfg, doctorProbes{
			isRoot:         system.IsRoot,
			accountExists:  account.New(account.ExecRunner{}).Exists,
			serviceRunning: system.ServiceRunning,
			freeBytes:      system.FreeBytes,
		}, getPrinter())
	},
}

// doctorProbes are the host queries doctor makes; tests swap them out.
type doctorProbes struct {
	isRoot         func() bool
	accountExists  func(name string) (bool, error)
	serviceRunning func(name string) (bool, error)
	freeBytes      func(path string) (uint64, error)
}

type checkResult struct {
	Name    string   `json:"name" yaml:"name"`
	Status  string   `json:"status" yaml:"status"` // "pass", "warn", "fail"
	Message string   `json:"message" yaml:"message"`
	Details []string `json:"details,omitempty" yaml:"details,omitempty"`
}

func runDoctor(cfg config.Config, probes doctorProbes, p ui.Printer) error {
	results := []checkResult{
		checkPrivileges(probes),
		checkUnitFile(cfg),
		checkAccount(cfg, probes),
	}
	results = append(results, checkUnitValues(cfg)...)
	results = append(results, checkService(cfg, probes), checkDiskSpace(cfg, probes))

	passed, warned, failed := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case "pass":
			passed++
		case "warn":
			warned++
		case "fail":
			failed++
		}
	}

	if p.Structured() {
		if err := p.Emit(results); err != nil {
			return err
		}
	} else {
		p.Header("TESSERACT SETUP CHECK")
		fmt.Fprintln(p.W)
		for _, r := range results {
			printCheck(p.W, r, p.Colors)
		}
		fmt.Fprintln(p.W)
		p.Separator(60)

		summary := fmt.Sprintf("Checks: %d passed, %d warnings, %d failed", passed, warned, failed)
		switch {
		case failed > 0:
			p.Error(summary)
		case warned > 0:
			p.Warn(summary)
		default:
			p.Success(summary)
		}
	}

	if failed > 0 {
		return silentErr{exitcodes.PreconditionErrorf("%d checks failed", failed)}
	}
	return nil
}

func checkPrivileges(probes doctorProbes) checkResult {
	r := checkResult{Name: "Privileges"}
	if probes.isRoot() {
		r.Status = "pass"
		r.Message = "Running as root"
	} else {
		r.Status = "warn"
		r.Message = "Not running as root"
		r.Details = []string{"useradd and writes under /etc/systemd usually need sudo"}
	}
	return r
}

func checkUnitFile(cfg config.Config) checkResult {
	r := checkResult{Name: "Unit File"}

	st, err := os.Stat(cfg.UnitPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		r.Status = "fail"
		r.Message = fmt.Sprintf("%s not found", cfg.UnitPath)
		r.Details = []string{"Install tesseract-olap before running tesseract-setup", "Or point --unit-file at the installed unit"}
		return r
	case err != nil:
		r.Status = "fail"
		r.Message = err.Error()
		return r
	case st.IsDir():
		r.Status = "fail"
		r.Message = fmt.Sprintf("%s is a directory", cfg.UnitPath)
		return r
	}

	// Open for writing without truncating to test permissions
	f, err := os.OpenFile(cfg.UnitPath, os.O_WRONLY, 0)
	if err != nil {
		r.Status = "fail"
		r.Message = fmt.Sprintf("%s is not writable", cfg.UnitPath)
		r.Details = []string{err.Error()}
		return r
	}
	f.Close()

	r.Status = "pass"
	r.Message = fmt.Sprintf("%s is present and writable (mode %o)", cfg.UnitPath, st.Mode().Perm())
	return r
}

func checkAccount(cfg config.Config, probes doctorProbes) checkResult {
	r := checkResult{Name: "Service Account"}
	ok, err := probes.accountExists(cfg.ServiceUser)
	switch {
	case err != nil:
		r.Status = "warn"
		r.Message = fmt.Sprintf("Could not look up %q", cfg.ServiceUser)
		r.Details = []string{err.Error()}
	case ok:
		r.Status = "pass"
		r.Message = fmt.Sprintf("Account %q exists", cfg.ServiceUser)
	default:
		r.Status = "warn"
		r.Message = fmt.Sprintf("Account %q does not exist yet", cfg.ServiceUser)
		r.Details = []string{"tesseract-setup will create it"}
	}
	return r
}

// checkUnitValues reports what the server will receive from the unit. A
// missing unit is already reported by checkUnitFile.
func checkUnitValues(cfg config.Config) []checkResult {
	b, err := unitfile.New(cfg.UnitPath).Read()
	if err != nil {
		return nil
	}
	contents := string(b)

	db := checkResult{Name: "Database Address"}
	if v, ok := unitfile.EnvValue(contents, envDatabaseURL); !ok {
		db.Status = "warn"
		db.Message = fmt.Sprintf("%s is not set in the unit", envDatabaseURL)
	} else if v == cfg.DefaultAddress {
		db.Status = "pass"
		db.Message = fmt.Sprintf("%s (default)", v)
	} else {
		db.Status = "pass"
		db.Message = v
	}

	schema := checkResult{Name: "Schema Path"}
	v, ok := unitfile.EnvValue(contents, envSchemaPath)
	switch {
	case !ok:
		schema.Status = "warn"
		schema.Message = fmt.Sprintf("%s is not set in the unit", envSchemaPath)
	case v == cfg.SchemaToken:
		schema.Status = "warn"
		schema.Message = fmt.Sprintf("Still the relative placeholder %q", v)
		schema.Details = []string{"Run tesseract-setup to set an absolute path"}
	default:
		if _, err := os.Stat(v); err != nil {
			schema.Status = "warn"
			schema.Message = fmt.Sprintf("%s does not exist yet", v)
			schema.Details = []string{"The server fails to start until the schema file is in place"}
		} else {
			schema.Status = "pass"
			schema.Message = v
		}
	}

	return []checkResult{db, schema}
}

func checkService(cfg config.Config, probes doctorProbes) checkResult {
	r := checkResult{Name: "Service Process", Status: "pass"}
	running, err := probes.serviceRunning(cfg.ServiceName)
	switch {
	case err != nil:
		r.Status = "warn"
		r.Message = "Could not list processes"
		r.Details = []string{err.Error()}
	case running:
		r.Message = fmt.Sprintf("%s is running; restart it after configuring", cfg.ServiceName)
	default:
		r.Message = fmt.Sprintf("%s is not running", cfg.ServiceName)
	}
	return r
}

func checkDiskSpace(cfg config.Config, probes doctorProbes) checkResult {
	r := checkResult{Name: "Disk Space"}
	free, err := probes.freeBytes(cfg.UnitPath)
	switch {
	case err != nil:
		r.Status = "warn"
		r.Message = "Could not check disk space"
		r.Details = []string{err.Error()}
	case free < minFreeBytes:
		r.Status = "warn"
		r.Message = fmt.Sprintf("Only %d bytes free next to the unit file", free)
		r.Details = []string{"Free some space before reloading systemd"}
	default:
		r.Status = "pass"
		r.Message = fmt.Sprintf("%d MiB free", free>>20)
	}
	return r
}

func printCheck(w io.Writer, r checkResult, c *ui.ColorConfig) {
	var msg string
	switch r.Status {
	case "pass":
		msg = c.Success(r.Message)
	case "warn":
		msg = c.Warning(r.Message)
	case "fail":
		msg = c.Error(r.Message)
	}

	fmt.Fprintf(w, "%s %s: %s\n", c.StatusIcon(r.Status), c.Header(r.Name), msg)
	for _, detail := range r.Details {
		fmt.Fprintf(w, "  %s %s\n", c.Description("→"), detail)
	}
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
