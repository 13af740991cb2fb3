// invensoctl is the terminal client of the invenso admin dashboard: it
// lists and filters issues, changes their status, seeds the admin token
// into the configured token store, and runs the interactive dashboard.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	intconfig "invenso/internal/config"
	"invenso/internal/domain"
	"invenso/internal/domain/models"
	"invenso/internal/repositories"
	"invenso/internal/services"
	"invenso/internal/tokenstore"
	"invenso/internal/tui"
	"invenso/internal/utils"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stdout)
		return nil
	}

	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Printf("warning: %v", err)
	}

	switch args[0] {
	case "list":
		return runList(env, args[1:], stdout)
	case "set-status":
		return runSetStatus(env, args[1:], stdout)
	case "token":
		return runToken(env, args[1:], stdout)
	case "tui":
		return runTUI(env, args[1:])
	}
	return fmt.Errorf("perintah tidak dikenal: %s (lihat invensoctl --help)", args[0])
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `invensoctl - invenso admin dashboard in the terminal

Usage:
  invensoctl list [--location X] [--condition X] [--status X] [--type X] [--page N] [--json]
  invensoctl set-status <issue-id> <INPROGRESS|COMPLETE>
  invensoctl token set <token>
  invensoctl token show
  invensoctl tui [--log-output FILE]

Configuration comes from INVENSO_CONFIG (YAML) and environment variables
such as INVENSO_BACKEND_URL, TOKEN_STORE and ADMIN_TOKEN.
`)
}

func openService(env intconfig.Env) (*services.IssueService, tokenstore.Store, error) {
	store, err := tokenstore.New(tokenstore.OptionsFromEnv(env))
	if err != nil {
		return nil, nil, err
	}
	repo := repositories.NewIssueRepository(env.BackendURL, env.BackendTimeout, store)
	return services.NewIssueService(repo), store, nil
}

func runList(env intconfig.Env, args []string, stdout io.Writer) error {
	var criteria domain.FilterCriteria
	var page int
	var asJSON bool

	flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
	flagSet.StringVar(&criteria.Location, "location", "", "location contains (case-insensitive)")
	flagSet.StringVar(&criteria.Condition, "condition", "", "condition contains")
	flagSet.StringVar(&criteria.Status, "status", "", "status contains")
	flagSet.StringVar(&criteria.EquipmentType, "type", "", "equipment type contains")
	flagSet.IntVar(&page, "page", 1, "page number (10 issues per page)")
	flagSet.BoolVar(&asJSON, "json", false, "print the view as JSON")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	svc, store, err := openService(env)
	if err != nil {
		return err
	}
	defer store.Close()
	defer intconfig.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), env.BackendTimeout)
	defer cancel()
	if err := svc.Load(ctx); err != nil && !domain.IsMalformedResponse(err) {
		return err
	}
	view := svc.View(criteria, page)

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return printView(stdout, view)
}

func printView(w io.Writer, view services.IssueView) error {
	if len(view.Rows) == 0 {
		_, err := fmt.Fprintln(w, view.EmptyMessage)
		return err
	}
	t := table.New().Headers("ID", "Username", "EnrollmentNo", "Equipment Type", "Issue History", "Condition", "Location", "Status", "Actions")
	for _, row := range view.Rows {
		r := row.Record
		t.Row(
			r.IssueID.String(),
			r.Username.Value,
			r.EnrollmentNo.Value,
			r.EquipmentType.Value,
			utils.Truncate(utils.NormalizeSpace(r.IssueHistory.Value), 40),
			r.Condition.Value,
			r.Location.Value,
			r.Status.Value,
			actionsLabel(row.Actions),
		)
	}
	p := view.Pagination
	_, err := fmt.Fprintf(w, "%s\npage %d of %d, %d of %d issues\n", t.Render(), p.Page, max(p.PageCount, 1), p.Total, view.TotalRecords)
	return err
}

func actionsLabel(a services.ActionState) string {
	var out []string
	if a.InProgress {
		out = append(out, string(models.StatusInProgress))
	}
	if a.Complete {
		out = append(out, string(models.StatusComplete))
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ",")
}

func runSetStatus(env intconfig.Env, args []string, stdout io.Writer) error {
	flagSet := pflag.NewFlagSet("set-status", pflag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 2 {
		return errors.New("usage: invensoctl set-status <issue-id> <INPROGRESS|COMPLETE>")
	}
	id := models.NewIssueID(utils.TrimOrEmpty(flagSet.Arg(0)))
	status := models.Status(strings.ToUpper(utils.TrimOrEmpty(flagSet.Arg(1))))

	svc, store, err := openService(env)
	if err != nil {
		return err
	}
	defer store.Close()
	defer intconfig.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), 2*env.BackendTimeout)
	defer cancel()
	res, err := svc.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "issue %s set to %s\n", res.IssueID, res.Status)
	if res.ReloadError != "" {
		fmt.Fprintf(stdout, "warning: reload failed: %s\n", res.ReloadError)
	}
	return nil
}

func runToken(env intconfig.Env, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: invensoctl token set <token> | token show")
	}
	store, err := tokenstore.New(tokenstore.OptionsFromEnv(env))
	if err != nil {
		return err
	}
	defer store.Close()
	defer intconfig.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch args[0] {
	case "set":
		if len(args) != 2 || utils.TrimOrEmpty(args[1]) == "" {
			return errors.New("usage: invensoctl token set <token>")
		}
		w, ok := store.(tokenstore.Writer)
		if !ok {
			return fmt.Errorf("token store %q is read-only", env.TokenStore)
		}
		if err := w.SetToken(ctx, utils.TrimOrEmpty(args[1])); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "token stored in %s store\n", env.TokenStore)
		return nil
	case "show":
		token, err := store.Token(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, tokenstore.Inspect(token, time.Now()).Label())
		return nil
	}
	return fmt.Errorf("token: subperintah tidak dikenal: %s", args[0])
}

func runTUI(env intconfig.Env, args []string) error {
	var logOutput string
	flagSet := pflag.NewFlagSet("tui", pflag.ContinueOnError)
	flagSet.StringVar(&logOutput, "log-output", "", "write log lines to this file (they are discarded otherwise)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	// stderr output would corrupt the alt screen
	log.SetOutput(io.Discard)
	if logOutput != "" {
		f, err := os.OpenFile(logOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("log output: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	svc, store, err := openService(env)
	if err != nil {
		return err
	}
	defer store.Close()
	defer intconfig.CloseDB()

	program := tea.NewProgram(tui.NewModel(svc, env.BackendTimeout), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
