package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"studyboard/internal/client"

	"github.com/spf13/cobra"
)

func registerCmd(opts *options) *cobra.Command {
	var email, password, confirm string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			// a password passed non-interactively confirms itself
			if confirm == "" && password != "" {
				confirm = password
			}
			password, err := promptIfEmpty(cmd, in, password, "Password: ")
			if err != nil {
				return err
			}
			confirm, err := promptIfEmpty(cmd, in, confirm, "Confirm password: ")
			if err != nil {
				return err
			}

			c := client.New(opts.server)
			sess, err := c.Register(cmd.Context(), email, password, confirm)
			if err != nil {
				return err
			}
			return saveSession(cmd, opts, sess)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", os.Getenv("STUDYBOARD_PASSWORD"), "Password (env STUDYBOARD_PASSWORD, prompted when empty)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Password confirmation (defaults to --password)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func loginCmd(opts *options) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptIfEmpty(cmd, bufio.NewReader(cmd.InOrStdin()), password, "Password: ")
			if err != nil {
				return err
			}

			c := client.New(opts.server)
			sess, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return saveSession(cmd, opts, sess)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", os.Getenv("STUDYBOARD_PASSWORD"), "Password (env STUDYBOARD_PASSWORD, prompted when empty)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func logoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session token and forget it",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.tokenPath()
			if err != nil {
				return err
			}
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			if c.Token() != "" {
				// the local token is dropped even when the server refuses it
				if err := c.Logout(cmd.Context()); err != nil && !errors.Is(err, client.ErrUnauthorized) {
					return err
				}
			}
			if err := removeToken(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func saveSession(cmd *cobra.Command, opts *options, sess client.Session) error {
	path, err := opts.tokenPath()
	if err != nil {
		return err
	}
	if err := writeToken(path, sess.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", sess.User.Email)
	return nil
}

func promptIfEmpty(cmd *cobra.Command, in *bufio.Reader, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
