package main

import (
	"fmt"

	"studyboard/internal/domain"
	"studyboard/internal/tasks"
	"studyboard/internal/view"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func listCmd(opts *options) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the task board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			board := view.Board(ws.store.Snapshot().Tasks, query)
			if opts.json {
				return printJSON(cmd.OutOrStdout(), board)
			}
			printBoard(cmd.OutOrStdout(), board)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Search title, description or type")

	return cmd
}

// draftFlags binds one flag per editable field.
type draftFlags struct {
	title, description, taskType, due, priority, status string
}

func (f *draftFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.title, "title", "t", "", "Title")
	fs.StringVarP(&f.description, "desc", "d", "", "Description")
	fs.StringVar(&f.taskType, "type", "", "assignment, exam, lecture or project")
	fs.StringVar(&f.due, "due", "", "Due date YYYY-MM-DD (empty clears it)")
	fs.StringVarP(&f.priority, "priority", "p", "", "low, medium or high")
	fs.StringVarP(&f.status, "status", "s", "", "pending, in-progress or completed")
}

// apply copies the flags that were set on the command line into the session.
func (f *draftFlags) apply(fs *pflag.FlagSet, s *tasks.Session) error {
	fields := []struct {
		flag  string
		field tasks.Field
		value string
	}{
		{"title", tasks.FieldTitle, f.title},
		{"desc", tasks.FieldDescription, f.description},
		{"type", tasks.FieldType, f.taskType},
		{"due", tasks.FieldDueDate, f.due},
		{"priority", tasks.FieldPriority, f.priority},
		{"status", tasks.FieldStatus, f.status},
	}
	for _, fl := range fields {
		if !fs.Changed(fl.flag) {
			continue
		}
		if err := s.SetField(fl.field, fl.value); err != nil {
			return err
		}
	}
	return nil
}

func addCmd(opts *options) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}

			session := tasks.NewSession(ws.owner)
			session.Start()
			if err := flags.apply(cmd.Flags(), session); err != nil {
				return err
			}
			snap, err := session.Commit(cmd.Context(), ws.store)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %q (%d tasks)\n", flags.title, len(snap.Tasks))
			return nil
		},
	}

	flags.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func editCmd(opts *options) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			return commitEdit(cmd, ws, args[0], func(s *tasks.Session) error {
				return flags.apply(cmd.Flags(), s)
			})
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

func moveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			return commitEdit(cmd, ws, args[0], func(s *tasks.Session) error {
				return s.SetField(tasks.FieldStatus, args[1])
			})
		},
	}
}

func commitEdit(cmd *cobra.Command, ws *workspace, id string, change func(*tasks.Session) error) error {
	task, ok := ws.store.Find(id)
	if !ok {
		return fmt.Errorf("task %s: %w", id, domain.ErrTaskNotFound)
	}

	session := tasks.NewSession(ws.owner)
	session.StartFrom(task)
	if err := change(session); err != nil {
		return err
	}
	draft := session.Draft()
	if _, err := session.Commit(cmd.Context(), ws.store); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %q [%s]\n", draft.Title, draft.Status.Label())
	return nil
}

func rmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			snap, err := ws.store.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted (%d tasks left)\n", len(snap.Tasks))
			return nil
		},
	}
}

func statsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			stats, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}
