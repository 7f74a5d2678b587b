package installer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tesseract-olap/tesseract-setup/internal/exitcodes"
	"github.com/tesseract-olap/tesseract-setup/internal/ui"
	"github.com/tesseract-olap/tesseract-setup/internal/unitfile"
)

// EnsureAccount creates the service account if it does not exist yet.
func EnsureAccount(d *Deps) Step {
	return NewStep("ensure-account", func(ctx context.Context, st *State) error {
		name := d.Cfg.ServiceUser
		created, err := d.Accounts.Ensure(ctx, name)
		if err != nil {
			return exitcodes.AccountErr(err)
		}
		st.AccountCreated = created
		if created {
			d.Printer.Success(fmt.Sprintf("Created service account %q", name))
		} else {
			d.Printer.Info(fmt.Sprintf("Service account %q already exists", name))
		}
		return nil
	})
}

// Confirm asks before touching the unit file.
func Confirm(d *Deps) Step {
	return NewStep("confirm", func(ctx context.Context, st *State) error {
		ok, err := askYesNo(d.Prompter, fmt.Sprintf("Configure %s now?", d.Unit.Path()))
		if err != nil {
			return err
		}
		if !ok {
			d.Printer.Info("Unit file left unchanged.")
			return ErrDeclined
		}
		return nil
	})
}

// Address offers to replace the default ClickHouse address.
func Address(d *Deps) Step {
	return NewStep("address", func(ctx context.Context, st *State) error {
		def := d.Cfg.DefaultAddress
		keep, err := askYesNo(d.Prompter, fmt.Sprintf("Use the default ClickHouse address %s?", def))
		if err != nil {
			return err
		}
		if keep {
			d.Printer.Info(fmt.Sprintf("Using default ClickHouse address %s", def))
			return nil
		}

		addr, err := askValue(d.Prompter, "ClickHouse address (host:port)")
		if err != nil {
			return err
		}
		res, err := unitfile.ReplaceAll(d.Unit, def, addr)
		if err != nil {
			return exitcodes.FileErr(err)
		}
		st.Address = &res
		d.Printer.Success(fmt.Sprintf("ClickHouse address set to %s (%d replaced)", addr, res.Occurrences))
		return nil
	})
}

// SchemaPath sets the schema location. Keeping the default still rewrites
// the file, pointing the schema token at <home>/tesseract-schema.
func SchemaPath(d *Deps) Step {
	return NewStep("schema-path", func(ctx context.Context, st *State) error {
		def, err := d.Cfg.DefaultSchemaPath()
		if err != nil {
			return exitcodes.WrapError(exitcodes.PreconditionFailed, "default schema path", err)
		}
		keep, err := askYesNo(d.Prompter, fmt.Sprintf("Use the default schema path %s?", def))
		if err != nil {
			return err
		}

		var res unitfile.Result
		path := def
		if keep {
			// The default path ends in the token; re-runs must not nest it.
			res, err = unitfile.ReplaceAllIdempotent(d.Unit, d.Cfg.SchemaToken, path)
		} else {
			if path, err = askValue(d.Prompter, "Schema file path"); err != nil {
				return err
			}
			res, err = unitfile.ReplaceAll(d.Unit, d.Cfg.SchemaToken, path)
		}
		if err != nil {
			return exitcodes.FileErr(err)
		}
		st.Schema = &res
		d.Printer.Success(fmt.Sprintf("Schema path set to %s", path))
		return nil
	})
}

// Completion tells the operator how to bring the service up.
func Completion(d *Deps) Step {
	return NewStep("completion", func(ctx context.Context, st *State) error {
		st.ServiceRunning = d.serviceRunning()
		st.NextSteps = d.guidance(st.ServiceRunning)

		title := fmt.Sprintf("%s is configured. Start it with:", d.Cfg.ServiceName)
		if st.ServiceRunning {
			title = fmt.Sprintf("%s is already running. Apply the new settings with:", d.Cfg.ServiceName)
		}
		fmt.Fprintln(d.Printer.W)
		d.Printer.KeyValueLine("Unit file", d.Unit.Path(), "blue")
		if st.AccountCreated {
			d.Printer.KeyValueLine("Account", d.Cfg.ServiceUser+" (created)", "green")
		} else {
			d.Printer.KeyValueLine("Account", d.Cfg.ServiceUser, "dim")
		}
		if rows := changeRows(st); len(rows) > 0 {
			fmt.Fprintln(d.Printer.W)
			fmt.Fprint(d.Printer.W, ui.Table(d.Printer.Colors, []string{"TOKEN", "REPLACEMENT", "COUNT", "CHANGED"}, rows))
		}
		fmt.Fprintln(d.Printer.W)
		fmt.Fprint(d.Printer.W, ui.GuidanceBox(d.Printer.Colors, title, st.NextSteps))
		return nil
	})
}

func changeRows(st *State) [][]string {
	var rows [][]string
	for _, r := range []*unitfile.Result{st.Address, st.Schema} {
		if r == nil {
			continue
		}
		changed := "no"
		if r.Changed() {
			changed = "yes"
		}
		rows = append(rows, []string{r.Token, r.Replacement, strconv.Itoa(r.Occurrences), changed})
	}
	return rows
}
