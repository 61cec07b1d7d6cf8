// ABOUTME: Admin commands for user management
// ABOUTME: Refuses to act on the signed-in account before contacting the backend

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/markalston/todoctl/internal/controller"
	"github.com/markalston/todoctl/internal/models"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage users (admin only)",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List all users",
	Args:  cobra.NoArgs,
	Run: withSignals(func(ctx context.Context, cmd *cobra.Command, args []string) int {
		return runAdminUsers(ctx, os.Stdout)
	}),
}

var adminUserCmd = &cobra.Command{
	Use:   "user <id>",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	Run: withSignals(func(ctx context.Context, cmd *cobra.Command, args []string) int {
		return runAdminUser(ctx, os.Stdout, args[0])
	}),
}

var adminTodosCmd = &cobra.Command{
	Use:   "todos <id>",
	Short: "List a user's todos",
	Args:  cobra.ExactArgs(1),
	Run: withSignals(func(ctx context.Context, cmd *cobra.Command, args []string) int {
		return runAdminTodos(ctx, os.Stdout, args[0])
	}),
}

var adminSetRoleCmd = &cobra.Command{
	Use:   "set-role <id> <admin|user>",
	Short: "Grant or revoke admin on another account",
	Args:  cobra.ExactArgs(2),
	Run: withSignals(func(ctx context.Context, cmd *cobra.Command, args []string) int {
		return runAdminSetRole(ctx, os.Stdout, args[0], args[1])
	}),
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete another account (asks for confirmation unless --yes)",
	Args:  cobra.ExactArgs(1),
	Run: withSignals(func(ctx context.Context, cmd *cobra.Command, args []string) int {
		return runAdminDelete(ctx, os.Stdout, args[0], confirmer())
	}),
}

func init() {
	adminCmd.AddCommand(adminUsersCmd, adminUserCmd, adminTodosCmd, adminSetRoleCmd, adminDeleteCmd)
	rootCmd.AddCommand(adminCmd)
}

// adminView wires the app and returns the admin controller without loading
func adminView() (*controller.UserList, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	return controller.NewUserList(a.client.Admin, a.guard), nil
}

func runAdminUsers(ctx context.Context, w io.Writer) int {
	list, err := adminView()
	if err != nil {
		return fail(w, err)
	}
	if err := list.Activate(ctx); err != nil {
		return fail(w, err)
	}
	printUsers(w, list)
	return exitOK
}

func runAdminUser(ctx context.Context, w io.Writer, arg string) int {
	id, err := parseID(arg)
	if err != nil {
		return fail(w, err)
	}
	list, err := adminView()
	if err != nil {
		return fail(w, err)
	}

	user, err := list.User(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		writeJSON(w, user)
	} else {
		fmt.Fprintln(w, formatUserHuman(user))
	}
	return exitOK
}

func runAdminTodos(ctx context.Context, w io.Writer, arg string) int {
	id, err := parseID(arg)
	if err != nil {
		return fail(w, err)
	}
	list, err := adminView()
	if err != nil {
		return fail(w, err)
	}

	todos, err := list.UserTodos(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	printTodos(w, todos)
	return exitOK
}

func runAdminSetRole(ctx context.Context, w io.Writer, idArg, roleArg string) int {
	id, err := parseID(idArg)
	if err != nil {
		return fail(w, err)
	}
	isAdmin, err := parseRole(roleArg)
	if err != nil {
		return fail(w, err)
	}
	list, err := adminView()
	if err != nil {
		return fail(w, err)
	}
	if err := list.Authorize(); err != nil {
		return fail(w, err)
	}

	if _, err := list.SetRole(ctx, id, isAdmin); err != nil {
		return fail(w, err)
	}
	if err := list.Refresh(ctx); err != nil {
		return fail(w, err)
	}
	printUsers(w, list)
	return exitOK
}

func runAdminDelete(ctx context.Context, w io.Writer, arg string, confirm controller.ConfirmFunc) int {
	id, err := parseID(arg)
	if err != nil {
		return fail(w, err)
	}
	list, err := adminView()
	if err != nil {
		return fail(w, err)
	}

	if err := list.Authorize(); err != nil {
		return fail(w, err)
	}

	deleted, err := list.DeleteUser(ctx, id, confirm)
	if err != nil {
		return fail(w, err)
	}
	if !deleted {
		if !IsJSONOutput() {
			fmt.Fprintln(w, "Cancelled")
		}
		return exitOK
	}
	printUsers(w, list)
	return exitOK
}

// parseRole accepts admin/user or a boolean
func parseRole(arg string) (bool, error) {
	switch arg {
	case "admin":
		return true, nil
	case "user":
		return false, nil
	}
	if b, err := strconv.ParseBool(arg); err == nil {
		return b, nil
	}
	return false, &controller.ValidationError{Field: "role", Message: fmt.Sprintf("role must be admin or user, got %q", arg)}
}

// printUsers writes the user list as JSON or a table, marking the caller
func printUsers(w io.Writer, list *controller.UserList) {
	if IsJSONOutput() {
		writeJSON(w, list.Users)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tROLE\tCREATED\t")
	for _, u := range list.Users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Role(), formatTime(u.CreatedAt), selfMarker(list, u))
	}
	tw.Flush()
}

func selfMarker(list *controller.UserList, u models.User) string {
	if list.IsSelf(u.ID) {
		return "(you)"
	}
	return ""
}
