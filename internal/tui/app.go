// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/todoctl/internal/authz"
	"github.com/markalston/todoctl/internal/client"
	"github.com/markalston/todoctl/internal/controller"
	"github.com/markalston/todoctl/internal/models"
	"github.com/markalston/todoctl/internal/recent"
	"github.com/markalston/todoctl/internal/session"
	"github.com/markalston/todoctl/internal/tui/authform"
	"github.com/markalston/todoctl/internal/tui/todolist"
	"github.com/markalston/todoctl/internal/tui/userlist"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenTodos
	ScreenAdmin
	ScreenUserTodos
)

// Layout constants
const (
	minTerminalWidth = 80 // Frame never renders narrower than this
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

// bannerLevel picks the banner color
type bannerLevel int

const (
	bannerNone bannerLevel = iota
	bannerNotice
	bannerError
)

// Deps are the shared pieces the TUI drives
type Deps struct {
	Client *client.Client
	Store  session.Store
	Recent *recent.Accounts
}

// App is the root model for the TUI
type App struct {
	guard  *authz.Guard
	recent *recent.Accounts

	auth  *controller.Auth
	todos *controller.TodoList
	users *controller.UserList

	// mu serializes controller access from commands
	mu sync.Mutex

	screen      Screen
	width       int
	height      int
	loading     bool
	deferred    controller.Route // screen to load once the pending request resolves
	banner      string
	bannerLevel bannerLevel
	lastUpdate  time.Time
	viewedUser  models.User // owner of the todos on ScreenUserTodos

	// Child models
	form      *authform.Form
	todoList  *todolist.List
	userList  *userlist.List
	userTodos *todolist.List
}

// New creates a new TUI application
func New(deps Deps) *App {
	store := deps.Store
	if store == nil {
		store = session.NewMemoryStore()
	}
	guard := authz.New(store)

	a := &App{
		guard:    guard,
		recent:   deps.Recent,
		todoList: todolist.New("My Todos"),
	}
	if deps.Client != nil {
		a.auth = controller.NewAuth(deps.Client.Auth, store)
		a.todos = controller.NewTodoList(deps.Client.Todos, guard)
		a.users = controller.NewUserList(deps.Client.Admin, guard)
	}
	a.userList = userlist.New(a.isSelf)
	a.screen = screenFor(controller.Home(guard))
	if a.screen == ScreenLogin {
		a.form = authform.New(authform.ModeLogin, "", a.suggestions())
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.navigate(routeFor(a.screen))
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.todoList.SetSize(a.contentWidth(), a.contentHeight())
		a.userList.SetWidth(a.contentWidth())
		if a.userTodos != nil {
			a.userTodos.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Route to current screen
		switch a.screen {
		case ScreenLogin, ScreenRegister:
			return a.updateForm(msg)
		case ScreenTodos:
			return a.updateTodos(msg)
		case ScreenAdmin:
			return a.updateAdmin(msg)
		case ScreenUserTodos:
			return a.updateUserTodos(msg)
		}

	// Credential forms
	case authform.SubmittedMsg:
		return a.handleSubmitted(msg)

	case authform.SwitchMsg:
		if msg.To == authform.ModeRegister {
			return a, a.navigate(controller.RouteRegister)
		}
		return a, a.navigate(controller.RouteLogin)

	case authform.CancelledMsg:
		if msg.Mode == authform.ModeRegister {
			return a, a.navigate(controller.RouteLogin)
		}
		return a, tea.Quit

	case authDoneMsg:
		return a.handleAuthDone(msg)

	// Todo list intents
	case todolist.AddMsg:
		return a, a.run(a.addTodo(msg.Title, msg.Description))

	case todolist.ToggleMsg:
		return a, a.run(a.toggleTodo(msg.Todo))

	case todolist.DeleteMsg:
		return a, a.run(a.deleteTodo(msg.Todo))

	case todolist.RefreshMsg:
		if a.screen == ScreenUserTodos {
			return a, a.run(a.loadUserTodos(a.viewedUser))
		}
		return a, a.run(a.refreshTodos())

	case todosLoadedMsg:
		return a.handleTodosLoaded(msg)

	// Admin intents
	case userlist.OpenTodosMsg:
		return a, a.openUserTodos(msg.User)

	case userlist.ToggleRoleMsg:
		return a, a.run(a.toggleRole(msg.User))

	case userlist.DeleteMsg:
		return a, a.run(a.deleteUser(msg.User))

	case userlist.RejectedMsg:
		a.setError(msg.Err)
		return a, nil

	case userlist.RefreshMsg:
		return a, a.run(a.refreshUsers())

	case usersLoadedMsg:
		return a.handleUsersLoaded(msg)

	case userTodosLoadedMsg:
		return a.handleUserTodosLoaded(msg)

	default:
		// Forward unknown messages to the form when active (needed for huh internals)
		if a.form != nil && (a.screen == ScreenLogin || a.screen == ScreenRegister) {
			return a.updateForm(msg)
		}
		if a.screen == ScreenTodos && a.todoList.Capturing() {
			_, cmd := a.todoList.Update(msg)
			return a, cmd
		}
	}

	return a, nil
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.form == nil || a.loading {
		return a, nil
	}
	_, cmd := a.form.Update(msg)
	return a, cmd
}

func (a *App) updateTodos(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !a.todoList.Capturing() {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "u":
			return a, a.navigate(controller.RouteAdmin)
		case "o":
			return a, a.logout()
		}
		a.clearBanner()
	}
	_, cmd := a.todoList.Update(msg)
	return a, cmd
}

func (a *App) updateAdmin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !a.userList.Capturing() {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "b", "esc":
			return a, a.navigate(controller.RouteTodos)
		case "o":
			return a, a.logout()
		}
		a.clearBanner()
	}
	_, cmd := a.userList.Update(msg)
	return a, cmd
}

func (a *App) updateUserTodos(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "b", "esc":
		return a, a.navigate(controller.RouteAdmin)
	}
	if a.userTodos == nil {
		return a, nil
	}
	_, cmd := a.userTodos.Update(msg)
	return a, cmd
}

// navigate switches to route after consulting the guard for it. A screen
// that needs data while another request is pending is loaded afterwards.
func (a *App) navigate(route controller.Route) tea.Cmd {
	a.deferred = ""

	switch route {
	case controller.RouteLogin, controller.RouteRegister:
		if a.auth != nil {
			if err := a.auth.Activate(); err != nil {
				if to, ok := controller.RedirectTarget(err); ok {
					return a.navigate(to)
				}
			}
		}
		mode := authform.ModeLogin
		a.screen = ScreenLogin
		if route == controller.RouteRegister {
			mode = authform.ModeRegister
			a.screen = ScreenRegister
		}
		email := ""
		if a.form != nil {
			email = a.form.Email()
		}
		a.form = authform.New(mode, email, a.suggestions())
		a.lastUpdate = time.Time{}
		return a.form.Init()

	case controller.RouteTodos:
		a.screen = ScreenTodos
		a.form = nil
		return a.load(route)

	case controller.RouteAdmin:
		if a.users != nil {
			if err := a.users.Authorize(); err != nil {
				a.setError(err)
				if to, ok := controller.RedirectTarget(err); ok {
					return a.navigate(to)
				}
			}
		}
		a.screen = ScreenAdmin
		a.form = nil
		return a.load(route)
	}

	return nil
}

// load starts the request behind route, or defers it while another
// request is outstanding
func (a *App) load(route controller.Route) tea.Cmd {
	if a.loading {
		a.deferred = route
		return nil
	}
	switch route {
	case controller.RouteTodos:
		return a.run(a.activateTodos())
	case controller.RouteAdmin:
		return a.run(a.activateUsers())
	case controller.RouteUserTodos:
		return a.run(a.loadUserTodos(a.viewedUser))
	}
	return nil
}

// finish clears the busy flag after a response. cmd, when set, came from
// handling the response and replaces any deferred load.
func (a *App) finish(cmd tea.Cmd) tea.Cmd {
	a.loading = false
	route := a.deferred
	a.deferred = ""
	if cmd != nil || route == "" || screenFor(route) != a.screen {
		return cmd
	}
	return a.load(route)
}

// openUserTodos shows another user's todos, read-only
func (a *App) openUserTodos(user models.User) tea.Cmd {
	if a.users != nil {
		if err := a.users.Authorize(); err != nil {
			a.setError(err)
			if to, ok := controller.RedirectTarget(err); ok {
				return a.navigate(to)
			}
		}
	}
	a.viewedUser = user
	a.userTodos = todolist.NewReadOnly("Todos for " + user.Email)
	a.userTodos.SetSize(a.contentWidth(), a.contentHeight())
	a.screen = ScreenUserTodos
	a.clearBanner()
	a.deferred = ""
	return a.load(controller.RouteUserTodos)
}

func (a *App) logout() tea.Cmd {
	if a.auth != nil {
		if err := a.auth.Logout(); err != nil {
			a.setError(err)
			return nil
		}
	}
	a.todoList.SetItems(nil)
	a.userList.SetUsers(nil)
	cmd := a.navigate(controller.RouteLogin)
	a.setNotice("Logged out")
	return cmd
}

func (a *App) handleSubmitted(msg authform.SubmittedMsg) (tea.Model, tea.Cmd) {
	if a.loading {
		return a, nil
	}
	a.clearBanner()
	if msg.Mode == authform.ModeRegister {
		return a, a.run(a.register(msg))
	}
	return a, a.run(a.login(msg.Email, msg.Password))
}

func (a *App) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	a.deferred = ""

	if msg.err != nil {
		if to, ok := controller.RedirectTarget(msg.err); ok {
			return a, a.navigate(to)
		}
		a.setError(msg.err)
		if a.form != nil {
			return a, a.form.Reset()
		}
		return a, nil
	}

	if msg.mode == authform.ModeRegister {
		// Registration does not sign in; the user logs in next
		cmd := a.navigate(controller.RouteLogin)
		a.setNotice("Account created for " + msg.user.Email + ", please sign in")
		return a, cmd
	}

	if a.recent != nil {
		if err := a.recent.Add(msg.user.Email); err != nil {
			slog.Warn("Failed to save recent account", "error", err)
		}
	}
	return a, a.navigate(controller.RouteTodos)
}

func (a *App) handleTodosLoaded(msg todosLoadedMsg) (tea.Model, tea.Cmd) {
	// A response that lands after logout must not repopulate the list
	if a.guard.IsAuthenticated() && (msg.items != nil || msg.err == nil) {
		a.todoList.SetItems(msg.items)
		if !msg.updated.IsZero() {
			a.lastUpdate = msg.updated
		}
	}
	if msg.err != nil {
		return a, a.finish(a.applyError(msg.err, ScreenTodos))
	}
	if msg.notice != "" && a.screen == ScreenTodos {
		a.setNotice(msg.notice)
	}
	return a, a.finish(nil)
}

func (a *App) handleUsersLoaded(msg usersLoadedMsg) (tea.Model, tea.Cmd) {
	if a.guard.IsAuthenticated() && (msg.users != nil || msg.err == nil) {
		a.userList.SetUsers(msg.users)
		if !msg.updated.IsZero() {
			a.lastUpdate = msg.updated
		}
	}
	if msg.err != nil {
		return a, a.finish(a.applyError(msg.err, ScreenAdmin))
	}
	if msg.notice != "" && a.screen == ScreenAdmin {
		a.setNotice(msg.notice)
	}
	return a, a.finish(nil)
}

func (a *App) handleUserTodosLoaded(msg userTodosLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a, a.finish(a.applyError(msg.err, ScreenUserTodos))
	}
	if a.userTodos != nil && msg.user.ID == a.viewedUser.ID {
		a.userTodos.SetItems(msg.items)
		a.lastUpdate = msg.updated
	}
	return a, a.finish(nil)
}

// applyError shows err and follows a guard redirect when the response
// belongs to the screen still on display
func (a *App) applyError(err error, from Screen) tea.Cmd {
	if to, ok := controller.RedirectTarget(err); ok {
		if a.screen != from {
			return nil
		}
		a.setError(err)
		return a.navigate(to)
	}
	a.setError(err)
	return nil
}

// run marks the app busy and returns cmd. Nothing is started while a
// previous request is still outstanding.
func (a *App) run(cmd tea.Cmd) tea.Cmd {
	if cmd == nil || a.loading {
		return nil
	}
	a.loading = true
	return cmd
}

func (a *App) setError(err error) {
	var redirect *controller.RedirectError
	if errors.As(err, &redirect) {
		if redirect.Reason == nil {
			return
		}
		err = redirect.Reason
	}
	a.banner = controller.Banner(err)
	a.bannerLevel = bannerError
}

func (a *App) setNotice(text string) {
	a.banner = text
	a.bannerLevel = bannerNotice
}

func (a *App) clearBanner() {
	a.banner = ""
	a.bannerLevel = bannerNone
}

// isSelf reports whether id is the signed-in account
func (a *App) isSelf(id int) bool {
	return a.guard.CheckNotSelf(id) != nil
}

func (a *App) suggestions() []string {
	if a.recent == nil {
		return nil
	}
	return a.recent.List()
}

func screenFor(route controller.Route) Screen {
	switch route {
	case controller.RouteRegister:
		return ScreenRegister
	case controller.RouteTodos:
		return ScreenTodos
	case controller.RouteAdmin:
		return ScreenAdmin
	case controller.RouteUserTodos:
		return ScreenUserTodos
	default:
		return ScreenLogin
	}
}

func routeFor(screen Screen) controller.Route {
	switch screen {
	case ScreenRegister:
		return controller.RouteRegister
	case ScreenTodos:
		return controller.RouteTodos
	case ScreenAdmin:
		return controller.RouteAdmin
	case ScreenUserTodos:
		return controller.RouteUserTodos
	default:
		return controller.RouteLogin
	}
}

// Run starts the TUI
func Run(deps Deps) error {
	app := New(deps)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
