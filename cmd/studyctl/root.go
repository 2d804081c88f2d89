package main

import (
	"context"
	"errors"
	"os"

	"studyboard/internal/client"
	"studyboard/internal/tasks"

	"github.com/spf13/cobra"
)

type options struct {
	server    string
	tokenFile string
	json      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "studyctl",
		Short:         "studyctl - manage your study tasks from the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv("STUDYBOARD_URL")
	if server == "" {
		server = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&opts.server, "server", server, "API base URL (env STUDYBOARD_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.tokenFile, "token-file", "", "Session token file (default ~/.config/studyboard/token)")
	rootCmd.PersistentFlags().BoolVarP(&opts.json, "json", "j", false, "Output as JSON")

	rootCmd.AddCommand(registerCmd(opts))
	rootCmd.AddCommand(loginCmd(opts))
	rootCmd.AddCommand(logoutCmd(opts))
	rootCmd.AddCommand(listCmd(opts))
	rootCmd.AddCommand(addCmd(opts))
	rootCmd.AddCommand(editCmd(opts))
	rootCmd.AddCommand(moveCmd(opts))
	rootCmd.AddCommand(rmCmd(opts))
	rootCmd.AddCommand(statsCmd(opts))

	return rootCmd
}

// workspace is a logged-in client with a task store bound to its user.
type workspace struct {
	client *client.Client
	store  *tasks.Store
	owner  string
}

func (o *options) newClient() (*client.Client, error) {
	path, err := o.tokenPath()
	if err != nil {
		return nil, err
	}
	token, err := readToken(path)
	if err != nil {
		return nil, err
	}
	return client.New(o.server, client.WithToken(token)), nil
}

// open resolves the current user and loads their tasks.
func (o *options) open(ctx context.Context) (*workspace, error) {
	c, err := o.newClient()
	if err != nil {
		return nil, err
	}
	if c.Token() == "" {
		return nil, errors.New("not logged in, run: studyctl login")
	}

	owner, err := c.Me(ctx)
	if err != nil {
		return nil, err
	}

	store := tasks.NewStore(c)
	if _, err := store.Load(ctx, owner); err != nil {
		return nil, err
	}
	return &workspace{client: c, store: store, owner: owner}, nil
}
