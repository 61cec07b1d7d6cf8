// ABOUTME: Todo commands for the signed-in user
// ABOUTME: Every change re-fetches and prints the full list

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/markalston/todoctl/internal/controller"
	"github.com/markalston/todoctl/internal/models"
	"github.com/spf13/cobra"
)

var (
	todoTitle       string
	todoDescription string
	todoCompleted   bool
)

// todoUpdate carries the fields given on the command line; nil means keep
type todoUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage your todos",
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your todos",
	Args:  cobra.NoArgs,
	Run: withSignals(func(ctx context.Context, cmd *cobra.Command, args []string) int {
		return runTodoList(ctx, os.Stdout)
	}),
}

var todoGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one todo",
	Args:  cobra.ExactArgs(1),
	Run: withSignals(func(ctx context.Context, cmd *cobra.Command, args []string) int {
		return runTodoGet(ctx, os.Stdout, args[0])
	}),
}

var todoAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a todo",
	Args:  cobra.MinimumNArgs(1),
	Run: withSignals(func(ctx context.Context, cmd *cobra.Command, args []string) int {
		return runTodoAdd(ctx, os.Stdout, strings.Join(args, " "), todoDescription)
	}),
}

var todoUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a todo's fields",
	Long: `Replace a todo's title, description and completed flag.

Fields not given on the command line keep their current values; the full
field set is always sent.`,
	Args: cobra.ExactArgs(1),
	Run: withSignals(func(ctx context.Context, cmd *cobra.Command, args []string) int {
		var upd todoUpdate
		if cmd.Flags().Changed("title") {
			upd.Title = &todoTitle
		}
		if cmd.Flags().Changed("description") {
			upd.Description = &todoDescription
		}
		if cmd.Flags().Changed("completed") {
			upd.Completed = &todoCompleted
		}
		return runTodoUpdate(ctx, os.Stdout, args[0], upd)
	}),
}

var todoToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a todo between open and done",
	Args:  cobra.ExactArgs(1),
	Run: withSignals(func(ctx context.Context, cmd *cobra.Command, args []string) int {
		return runTodoToggle(ctx, os.Stdout, args[0])
	}),
}

var todoDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a todo (asks for confirmation unless --yes)",
	Args:  cobra.ExactArgs(1),
	Run: withSignals(func(ctx context.Context, cmd *cobra.Command, args []string) int {
		return runTodoDelete(ctx, os.Stdout, args[0], confirmer())
	}),
}

func init() {
	todoAddCmd.Flags().StringVarP(&todoDescription, "description", "d", "", "Todo description")
	todoUpdateCmd.Flags().StringVar(&todoTitle, "title", "", "New title")
	todoUpdateCmd.Flags().StringVarP(&todoDescription, "description", "d", "", "New description")
	todoUpdateCmd.Flags().BoolVar(&todoCompleted, "completed", false, "Mark done (--completed=false to reopen)")

	todoCmd.AddCommand(todoListCmd, todoGetCmd, todoAddCmd, todoUpdateCmd, todoToggleCmd, todoDeleteCmd)
	rootCmd.AddCommand(todoCmd)
}

// withSignals adapts a run function returning an exit code to cobra,
// cancelling its context on SIGINT/SIGTERM
func withSignals(run func(ctx context.Context, cmd *cobra.Command, args []string) int) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := run(ctx, cmd, args); exitCode != 0 {
			os.Exit(exitCode)
		}
	}
}

// openTodos wires the app and activates the todo list view
func openTodos(ctx context.Context) (*controller.TodoList, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	list := controller.NewTodoList(a.client.Todos, a.guard)
	if err := list.Activate(ctx); err != nil {
		return nil, err
	}
	return list, nil
}

func runTodoList(ctx context.Context, w io.Writer) int {
	list, err := openTodos(ctx)
	if err != nil {
		return fail(w, err)
	}
	printTodos(w, list.Items)
	return exitOK
}

func runTodoGet(ctx context.Context, w io.Writer, arg string) int {
	id, err := parseID(arg)
	if err != nil {
		return fail(w, err)
	}
	a, err := newApp()
	if err != nil {
		return fail(w, err)
	}
	if err := a.guard.RequireAuthenticated(); err != nil {
		return fail(w, &controller.RedirectError{To: controller.RouteLogin, Reason: err})
	}

	todo, err := a.client.Todos.Get(ctx, id)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, todo)
	} else {
		fmt.Fprintln(w, formatTodoHuman(todo))
	}
	return exitOK
}

func runTodoAdd(ctx context.Context, w io.Writer, title, description string) int {
	list, err := openTodos(ctx)
	if err != nil {
		return fail(w, err)
	}
	if err := list.Add(ctx, title, description); err != nil {
		return fail(w, err)
	}
	printTodos(w, list.Items)
	return exitOK
}

func runTodoUpdate(ctx context.Context, w io.Writer, arg string, upd todoUpdate) int {
	id, err := parseID(arg)
	if err != nil {
		return fail(w, err)
	}
	list, err := openTodos(ctx)
	if err != nil {
		return fail(w, err)
	}
	current, ok := list.Find(id)
	if !ok {
		return fail(w, &controller.ValidationError{Field: "id", Message: fmt.Sprintf("no todo with id %d", id)})
	}

	in := current.Input()
	if upd.Title != nil {
		in.Title = *upd.Title
	}
	if upd.Description != nil {
		in.Description = *upd.Description
	}
	if upd.Completed != nil {
		in.Completed = *upd.Completed
	}

	if err := list.Edit(ctx, id, in); err != nil {
		return fail(w, err)
	}
	printTodos(w, list.Items)
	return exitOK
}

func runTodoToggle(ctx context.Context, w io.Writer, arg string) int {
	id, err := parseID(arg)
	if err != nil {
		return fail(w, err)
	}
	list, err := openTodos(ctx)
	if err != nil {
		return fail(w, err)
	}
	todo, ok := list.Find(id)
	if !ok {
		return fail(w, &controller.ValidationError{Field: "id", Message: fmt.Sprintf("no todo with id %d", id)})
	}

	if err := list.Toggle(ctx, todo); err != nil {
		return fail(w, err)
	}
	printTodos(w, list.Items)
	return exitOK
}

func runTodoDelete(ctx context.Context, w io.Writer, arg string, confirm controller.ConfirmFunc) int {
	id, err := parseID(arg)
	if err != nil {
		return fail(w, err)
	}
	a, err := newApp()
	if err != nil {
		return fail(w, err)
	}
	list := controller.NewTodoList(a.client.Todos, a.guard)
	if err := a.guard.RequireAuthenticated(); err != nil {
		return fail(w, &controller.RedirectError{To: controller.RouteLogin, Reason: err})
	}

	deleted, err := list.Delete(ctx, id, confirm)
	if err != nil {
		return fail(w, err)
	}
	if !deleted {
		if !IsJSONOutput() {
			fmt.Fprintln(w, "Cancelled")
		}
		return exitOK
	}
	printTodos(w, list.Items)
	return exitOK
}

// printTodos writes the list as JSON or a table
func printTodos(w io.Writer, todos []models.Todo) {
	if IsJSONOutput() {
		writeJSON(w, todos)
		return
	}
	if len(todos) == 0 {
		fmt.Fprintln(w, "No todos yet. Add one with 'todoctl todo add <title>'.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tTITLE\tDESCRIPTION")
	for _, t := range todos {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, checkbox(t.Completed), t.Title, t.Description)
	}
	tw.Flush()
}

// formatTodoHuman formats a single todo for human readability
func formatTodoHuman(t *models.Todo) string {
	return fmt.Sprintf(`ID:          %d
Title:       %s
Description: %s
Done:        %t
Created:     %s
Updated:     %s`, t.ID, t.Title, t.Description, t.Completed, formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
