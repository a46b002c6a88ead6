// Package nextlevel is the public entry point. Open wires the remote client,
// the account-scoped repositories, and the domain services from a Config.
//
// Example:
//
//	app, err := nextlevel.Open(types.Config{
//	    DatabaseURL: "libsql://todo-example.turso.io",
//	    AuthToken:   token,
//	    AccountID:   types.DefaultAccountID,
//	})
//	if err != nil {
//	    return err
//	}
//	missions, err := app.Missions.List(ctx, types.Page{Take: 20})
package nextlevel

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mesh-intelligence/nextlevel/internal/remote"
	"github.com/mesh-intelligence/nextlevel/internal/service"
	"github.com/mesh-intelligence/nextlevel/internal/store"
	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

// Version is the release version reported by the CLI.
const Version = "0.1.0"

// App holds the services of one configured account.
type App struct {
	Missions *service.MissionService
	Projects *service.ProjectService
	Tasks    *service.TaskService

	client *remote.Client
}

type options struct {
	logger     *slog.Logger
	httpClient *http.Client
	delays     []time.Duration
	setDelays  bool
	account    types.AccountContext
}

// Option customizes Open.
type Option func(*options)

// WithLogger sets the logger shared by the client and the services.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHTTPClient replaces the HTTP client used to reach the endpoint.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithRetryDelays overrides the retry backoff. No delays disables retries.
func WithRetryDelays(delays ...time.Duration) Option {
	return func(o *options) {
		o.delays = delays
		o.setDelays = true
	}
}

// WithAccount scopes the app to a custom account source instead of
// Config.AccountID.
func WithAccount(a types.AccountContext) Option {
	return func(o *options) { o.account = a }
}

// Open validates cfg and wires the application. No request is made.
func Open(cfg types.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{
		logger:  slog.New(slog.DiscardHandler),
		account: types.StaticAccount(cfg.AccountID),
	}
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []remote.Option{remote.WithLogger(o.logger)}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, remote.WithHTTPClient(o.httpClient))
	}
	if o.setDelays {
		clientOpts = append(clientOpts, remote.WithRetryDelays(o.delays...))
	}
	client, err := remote.New(cfg.DatabaseURL, cfg.AuthToken, clientOpts...)
	if err != nil {
		return nil, err
	}

	missions := store.NewMissionRepository(client, o.account)
	projects := store.NewProjectRepository(client, o.account)
	tasks := store.NewTaskRepository(client, o.account)

	return &App{
		Missions: service.NewMissionService(missions, projects, o.logger),
		Projects: service.NewProjectService(projects, missions, tasks, o.logger),
		Tasks:    service.NewTaskService(tasks, projects, o.logger),
		client:   client,
	}, nil
}

// InitSchema creates any missing tables and indexes.
func (a *App) InitSchema(ctx context.Context) error {
	return store.InitSchema(ctx, a.client)
}

// Endpoint returns the pipeline URL the app talks to.
func (a *App) Endpoint() string {
	return a.client.Endpoint()
}
