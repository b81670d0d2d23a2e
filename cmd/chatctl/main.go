// Command chatctl drives the chat core from a terminal against the configured database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"ChatBuddy/pkg/config"
	"ChatBuddy/pkg/database"
	"ChatBuddy/pkg/logger"
	"ChatBuddy/pkg/services"

	"github.com/spf13/cobra"
)

func main() {
	a := &app{open: openFromConfig}
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}

// app lazily opens the core so that --help works without a database.
type app struct {
	open func(ctx context.Context) (*services.Orchestrator, error)
	orch *services.Orchestrator

	username string
	password string
}

func (a *app) orchestrator(ctx context.Context) (*services.Orchestrator, error) {
	if a.orch == nil {
		o, err := a.open(ctx)
		if err != nil {
			return nil, err
		}
		a.orch = o
	}
	return a.orch, nil
}

// session authenticates the --username/--password pair and scopes it to personaID.
func (a *app) session(ctx context.Context, personaID uint) (*services.Orchestrator, services.Session, error) {
	o, err := a.orchestrator(ctx)
	if err != nil {
		return nil, services.Session{}, err
	}
	user, err := o.Authenticate(ctx, a.username, a.password)
	if err != nil {
		return nil, services.Session{}, err
	}
	return o, services.Session{UserID: user.ID, PersonaID: personaID}, nil
}

func openFromConfig(ctx context.Context) (*services.Orchestrator, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	slog.SetDefault(logger.New(os.Stderr, config.LogLevel))

	db, err := database.Open(config.DBDriver, config.DatabaseURL)
	if err != nil {
		return nil, err
	}
	gen, err := services.NewGenerator(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewOrchestrator(db, gen, time.Duration(config.ProviderTimeoutSeconds)*time.Second), nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "chatctl",
		Short:        "Talk to ChatBuddy personas from the command line",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&a.username, "username", "u", os.Getenv("CHATBUDDY_USERNAME"), "account username")
	root.PersistentFlags().StringVarP(&a.password, "password", "p", os.Getenv("CHATBUDDY_PASSWORD"), "account password")

	root.AddCommand(
		registerCmd(a),
		loginCmd(a),
		personasCmd(a),
		chatCmd(a),
		postCmd(a),
		storyCmd(a),
		historyCmd(a),
	)
	return root
}

func requireCredentials(a *app) error {
	if a.username == "" || a.password == "" {
		return fmt.Errorf("--username and --password are required")
	}
	return nil
}
