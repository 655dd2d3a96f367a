package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) newListCommand() *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderList(a.opts.Out, a.store.All(), group, a.opts.Now())
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func (a *app) newAddCommand() *cobra.Command {
	var due, notes string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		Example: `  tada add Buy milk
  tada add "Call the dentist" --due "2026-11-02 09:00" --notes "ask about cleaning"
  tada add Water the plants --due +6h`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return errors.New("add: empty title")
			}
			if err := checkText("add", title, notes); err != nil {
				return err
			}
			now := a.opts.Now()
			td := model.NewReminder(now)
			td.Title = title
			if cmd.Flags().Changed("due") {
				d, err := model.ParseDue(due, now)
				if err != nil {
					return fmt.Errorf("add: %w", err)
				}
				td.DueDate = d
			}
			td.Notes = model.WithNotes(notes)

			a.store.AddNew(td)
			if err := a.save(); err != nil {
				return err
			}
			ui.OK(a.opts.Out, "added")
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD HH:MM, YYYY-MM-DD, RFC 3339 or +duration); default in 24h")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	return cmd
}

func (a *app) newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <index>",
		Short: "Show every field of one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			td, err := a.lookup("show", args[0])
			if err != nil {
				return err
			}
			renderDetail(a.opts.Out, td, a.opts.Now())
			return nil
		},
	}
}

func (a *app) newEditCommand() *cobra.Command {
	var title, due, notes string
	var clearNotes bool
	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Change the title, due date or notes of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			td, err := a.lookup("edit", args[0])
			if err != nil {
				return err
			}
			if err := checkText("edit", title, notes); err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				title = strings.TrimSpace(title)
				if title == "" {
					return errors.New("edit: empty title")
				}
				td.Title = title
			}
			if flags.Changed("due") {
				d, err := model.ParseDue(due, a.opts.Now())
				if err != nil {
					return fmt.Errorf("edit: %w", err)
				}
				td.DueDate = d
			}
			if flags.Changed("notes") {
				td.Notes = model.WithNotes(notes)
			}
			if clearNotes {
				td.Notes = nil
			}

			a.store.ReplaceOrAppend(td)
			if err := a.save(); err != nil {
				return err
			}
			ui.OK(a.opts.Out, "updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&due, "due", "", "new due date")
	cmd.Flags().StringVar(&notes, "notes", "", "replace the notes")
	cmd.Flags().BoolVar(&clearNotes, "clear-notes", false, "remove the notes")
	cmd.MarkFlagsMutuallyExclusive("notes", "clear-notes")
	return cmd
}

func (a *app) newDoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for item at 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			td, err := a.lookup("done", args[0])
			if err != nil {
				return err
			}
			a.store.Update(td.ID(), func(t *model.ToDo) { t.IsComplete = !t.IsComplete })
			if err := a.save(); err != nil {
				return err
			}
			ui.OK(a.opts.Out, "toggled")
			return nil
		},
	}
}

func (a *app) newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"remove"},
		Short:   "Remove item at 1-based index",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			td, err := a.lookup("rm", args[0])
			if err != nil {
				return err
			}
			a.store.Remove(td)
			if err := a.save(); err != nil {
				return err
			}
			ui.OK(a.opts.Out, "removed")
			return nil
		},
	}
}

func (a *app) newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the data and config file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgFile := a.cfg.File
			if cfgFile == "" {
				cfgFile = "(none)"
			}
			fmt.Fprintf(a.opts.Out, "data:   %s\nconfig: %s\n", a.store.Path(), cfgFile)
			return nil
		},
	}
}

func (a *app) newTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list",
		Args:  cobra.NoArgs,
		RunE:  a.runTUI,
	}
}

// runTUI hands the terminal to the interactive views. Logs go to a file
// meanwhile so they do not tear the screen.
func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	f, err := logging.OpenFile(a.cfg.LogFile())
	if err == nil {
		defer f.Close()
		a.logger.SetOutput(f)
		defer a.logger.SetOutput(a.opts.Err)
	} else {
		a.logger.Warn("tui logs will be dropped", "err", err)
		a.logger.SetOutput(io.Discard)
		defer a.logger.SetOutput(a.opts.Err)
	}

	err = a.opts.RunTUI(cmd.Context(), a.store, tui.Options{
		Now:    a.opts.Now,
		Logger: a.logger,
	})
	if err != nil {
		return failure(fmt.Errorf("tui: %w", err))
	}
	return nil
}

// checkText refuses title or notes input that could not be stored as is.
func checkText(verb, title, notes string) error {
	if err := model.CheckText("title", title); err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}
	if err := model.CheckText("notes", notes); err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}
	return nil
}

// lookup resolves a 1-based index argument.
func (a *app) lookup(verb, arg string) (model.ToDo, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return model.ToDo{}, fmt.Errorf("%s: not a number: %s", verb, arg)
	}
	if n < 1 || n > a.store.Len() {
		return model.ToDo{}, fmt.Errorf("index out of range: have %d, got %d\n%s",
			a.store.Len(), n, ui.C(ui.Current().Muted, "Hint: run `tada ls` to see valid indexes"))
	}
	return a.store.At(n - 1)
}
