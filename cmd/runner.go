package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/atlas/internal/client"
	"github.com/desertthunder/atlas/internal/repositories"
	"github.com/desertthunder/atlas/internal/services"
	"github.com/desertthunder/atlas/internal/session"
	"github.com/desertthunder/atlas/internal/shared"
	"github.com/desertthunder/atlas/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	client   *client.Client
	jar      *repositories.PersistentJar
	api      *services.APIService
	fixtures *services.FixturesService
	metrics  *services.MetricsService
	users    *services.UserService
	session  *session.Store
	engine   *tasks.ExportEngine
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	Jar       *repositories.PersistentJar // Persists the session; an in-memory jar is used when nil
	Transport http.RoundTripper
	Logger    *log.Logger
	Output    io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// The session store is initialized from the jar before returning.
func NewRunner(opts RunnerOpts) (*Runner, error) {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cfg := client.Config{
		BaseURL:   opts.Config.API.BaseURL,
		Timeout:   opts.Config.API.Timeout,
		Transport: opts.Transport,
		Logger:    shared.WithLogger(opts.Logger, "component", "client"),
	}
	if opts.Jar != nil {
		cfg.Jar = opts.Jar
	}

	c, err := client.New(cfg)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		config: opts.Config,
		client: c,
		jar:    opts.Jar,
		logger: opts.Logger,
		output: opts.Output,
	}
	r.api = services.NewAPIService(c)
	r.fixtures = services.NewFixturesService(c, opts.Config.Cache.FixturesTTL, shared.WithLogger(opts.Logger, "component", "fixtures"))
	r.metrics = services.NewMetricsService(c, opts.Config.Metrics, shared.WithLogger(opts.Logger, "component", "metrics"))
	r.users = services.NewUserService(c, opts.Logger)
	r.engine = tasks.NewExportEngine(r.fixtures, time.Local)
	r.session = session.NewStore(c.Cookies(), session.RemoverFunc(r.removeCookie), r.users, shared.WithLogger(opts.Logger, "component", "session"))

	r.metrics.SetUserSource(r.session.UserID)
	r.session.Init()

	return r, nil
}

// removeCookie drops a credential cookie from the jar the client sends from.
func (r *Runner) removeCookie(name string) error {
	if r.jar != nil {
		return r.jar.Remove(r.client.BaseURL(), name)
	}
	r.client.Jar().SetCookies(r.client.BaseURL(), []*http.Cookie{{Name: name, Path: "/", MaxAge: -1}})
	return nil
}

// Close waits for outstanding metric beacons.
func (r *Runner) Close() {
	r.metrics.Wait()
}

// SetLogger swaps the logger used by command actions.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, fixturesCommand, profileCommand, metricsCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
