// Command tourctl administers a running tour catalog: it lists and edits
// tours over the HTTP API, issues development tokens and tails change events.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"tourdesk/client"
	"tourdesk/config"
	"tourdesk/middleware"
	"tourdesk/models"
	"tourdesk/mq"
	"tourdesk/rdx"

	tea "github.com/charmbracelet/bubbletea"
)

const usage = `usage: tourctl [-api URL] [-token JWT] <command> [args]

commands:
  list [-page N] [-search TERM]   print a page of tours
  browse                          interactive tour browser
  show ID                         print one tour as JSON
  create FILE                     create a tour from a JSON file
  update ID FILE                  update a tour from a JSON file
  delete ID                       delete a tour
  token [-user ID] [-admin]       issue a development token
  events                          print catalog change events
`

func main() {
	cfg := config.Load()

	fs := flag.NewFlagSet("tourctl", flag.ExitOnError)
	api := fs.String("api", envOr("TOURDESK_API", "http://localhost"+cfg.Port), "API base URL")
	token := fs.String("token", os.Getenv("TOURDESK_TOKEN"), "bearer token for admin commands")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	fs.Parse(os.Args[1:])

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.New(*api, client.WithToken(*token))
	if err := run(ctx, cfg, c, fs.Arg(0), fs.Args()[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, c *client.Client, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		page := fs.Int("page", 0, "page number")
		search := fs.String("search", "", "title or city substring")
		if err := fs.Parse(args); err != nil {
			return err
		}
		var tours []models.Tour
		var err error
		if *search != "" {
			tours, err = c.Search(ctx, client.Criteria{Term: *search})
		} else {
			tours, err = c.Tours(ctx, *page)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, renderTours(tours))
		return nil

	case "browse":
		_, err := tea.NewProgram(newBrowser(ctx, c), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err

	case "show":
		if len(args) != 1 {
			return fmt.Errorf("show needs a tour id")
		}
		d, err := c.Tour(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(out, d.Tour)

	case "create":
		if len(args) != 1 {
			return fmt.Errorf("create needs a JSON file")
		}
		f, err := readFields(args[0])
		if err != nil {
			return err
		}
		t, err := c.CreateTour(ctx, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created %s %q\n", t.ID.Hex(), t.Title)
		return nil

	case "update":
		if len(args) != 2 {
			return fmt.Errorf("update needs a tour id and a JSON file")
		}
		f, err := readFields(args[1])
		if err != nil {
			return err
		}
		t, err := c.UpdateTour(ctx, args[0], f)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "updated %s %q\n", t.ID.Hex(), t.Title)
		return nil

	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("delete needs a tour id")
		}
		if err := c.DeleteTour(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %s\n", args[0])
		return nil

	case "token":
		fs := flag.NewFlagSet("token", flag.ContinueOnError)
		user := fs.String("user", "admin", "user id")
		name := fs.String("name", "", "username (defaults to the user id)")
		admin := fs.Bool("admin", false, "grant the admin role")
		ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *name == "" {
			*name = *user
		}
		roles := []string{"user"}
		if *admin {
			roles = append(roles, middleware.RoleAdmin)
		}
		tok, err := middleware.NewAuth(cfg.JwtSecret).IssueToken(*user, *name, roles, *ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, tok)
		return nil

	case "events":
		if cfg.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is not set")
		}
		conn, err := rdx.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer conn.Close()
		err = mq.Subscribe(ctx, conn, func(ev mq.Index) {
			fmt.Fprintln(out, renderEvent(ev))
		})
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func readFields(path string) (models.TourFields, error) {
	var f models.TourFields
	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := json.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
