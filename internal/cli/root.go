package cli

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"edulearn-cli/internal/api"
	"edulearn-cli/internal/catalog"
	"edulearn-cli/internal/config"
	"edulearn-cli/internal/kv"
	"edulearn-cli/internal/kv/file"
	redisstore "edulearn-cli/internal/kv/redis"
	"edulearn-cli/internal/notify"
	"edulearn-cli/internal/session"
)

var (
	serverURL  string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envServer := os.Getenv("EDULEARN_API_URL")
	if envServer == "" {
		envServer = "http://127.0.0.1:8000"
	}
	envConfig := os.Getenv("EDULEARN_CONFIG")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "edulearn",
		Short: "Terminal client for the EduLearn e-learning platform",
	}

	cmd.PersistentFlags().StringVar(&serverURL, "server", envServer, "backend API base URL")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")

	cmd.AddCommand(newLoginCmd(), newLogoutCmd(), newRegisterCmd())
	cmd.AddCommand(newVerifyEmailCmd(), newForgotPasswordCmd(), newResetPasswordCmd())
	cmd.AddCommand(newCoursesCmd(), newCourseCmd(), newLanguagesCmd(), newTagsCmd())
	cmd.AddCommand(newQuizCmd(), newSubmissionsCmd())
	cmd.AddCommand(newContestsCmd(), newLeaderboardCmd())
	cmd.AddCommand(newAdminCmd())
	return cmd
}

// app bundles everything a command needs: config, the local store, the
// API client, the session, and the notifier.
type app struct {
	cfg      config.Config
	store    kv.Store
	client   *api.Client
	session  *session.Store
	catalog  *catalog.Cache
	notifier notify.Notifier
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = serverURL
	}

	var store kv.Store
	if cfg.Redis.Addr != "" {
		store = redisstore.NewStore(goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	} else {
		statePath := cfg.State.Path
		if statePath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			statePath = filepath.Join(home, ".edulearn", "state.db")
		}
		if err := os.MkdirAll(filepath.Dir(statePath), 0o700); err != nil {
			return nil, err
		}
		store, err = file.Open(ctx, statePath)
		if err != nil {
			return nil, err
		}
	}

	httpClient := &http.Client{Timeout: config.Duration(cfg.API.Timeout, 10*time.Second)}
	client := api.NewClient(cfg.API.BaseURL, httpClient, store)

	sess := session.NewStore(store, client)
	sess.Load(ctx)

	return &app{
		cfg:      cfg,
		store:    store,
		client:   client,
		session:  sess,
		catalog:  catalog.New(client, config.Duration(cfg.Cache.TTL, 5*time.Minute)),
		notifier: notify.NewTerminal(os.Stdin, os.Stdout),
	}, nil
}

func (a *app) Close() {
	_ = a.store.Close()
}

// requireAuth is the gate consulted before protected commands run. It
// translates the gate's outcome into terminal behavior: login redirect
// and fallback become messages, denial renders inline.
func (a *app) requireAuth(cmd *cobra.Command, req session.Requirement) bool {
	outcome := a.session.Authorize(req)
	switch outcome.Decision {
	case session.DecisionAllowed:
		if exp, ok := a.session.AccessTokenExpiry(cmd.Context()); ok && time.Now().After(exp) {
			a.notifier.Warning("your access token has expired; run `edulearn login` if calls fail")
		}
		return true
	case session.DecisionLoginRedirect:
		cmd.PrintErrln("You are not logged in. Run `edulearn login` first.")
	case session.DecisionFallbackRedirect:
		cmd.PrintErrf("Access denied; try `edulearn %s` instead.\n", outcome.Fallback)
	default:
		cmd.PrintErrln("Access denied: you do not have the required permissions. Use `edulearn courses` to go back.")
	}
	return false
}
