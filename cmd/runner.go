package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/auth"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/recommend"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/spotify"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/store"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/tasks"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config         *shared.Config
	store          store.Store
	session        *auth.Session
	spotifySession *spotify.Session
	spotify        tasks.ProfileService
	recommender    tasks.Recommender
	engine         tasks.RecommendEngine
	httpClient     *http.Client
	logger         *log.Logger
	output         io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config         *shared.Config
	Store          store.Store
	Session        *auth.Session
	SpotifySession *spotify.Session
	Spotify        tasks.ProfileService
	Recommender    tasks.Recommender
	Engine         tasks.RecommendEngine
	HTTPClient     *http.Client
	Logger         *log.Logger
	Output         io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Session == nil {
		opts.Session = auth.NewSession(opts.Config.Backend.URL, opts.HTTPClient, opts.Store, opts.Logger)
	}
	if opts.SpotifySession == nil {
		opts.SpotifySession = spotify.NewSession(opts.Config.Spotify.ClientID, opts.Config.Spotify.RedirectURI, opts.Store, opts.Logger)
	}
	if opts.Spotify == nil {
		opts.Spotify = spotify.NewClient(opts.SpotifySession, opts.Logger)
	}
	if opts.Recommender == nil {
		opts.Recommender = recommend.NewClient(opts.Session, opts.Logger)
	}
	if opts.Engine == nil {
		opts.Engine = tasks.NewPipelineEngine(opts.Spotify, opts.Recommender)
	}

	return &Runner{
		config:         opts.Config,
		store:          opts.Store,
		session:        opts.Session,
		spotifySession: opts.SpotifySession,
		spotify:        opts.Spotify,
		recommender:    opts.Recommender,
		engine:         opts.Engine,
		httpClient:     opts.HTTPClient,
		logger:         opts.Logger,
		output:         opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, accountCommand, spotifyCommand, recommendCommand, apiCommand, tuiCommand,
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
