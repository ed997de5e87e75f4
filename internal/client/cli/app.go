package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/clubhub/internal/client/auth"
	"github.com/dmitrijs2005/clubhub/internal/client/browse"
	"github.com/dmitrijs2005/clubhub/internal/client/client"
	"github.com/dmitrijs2005/clubhub/internal/client/config"
	"github.com/dmitrijs2005/clubhub/internal/client/loading"
	"github.com/dmitrijs2005/clubhub/internal/client/models"
	"github.com/dmitrijs2005/clubhub/internal/logging"
)

// Authenticator is the part of auth.Controller the App drives.
type Authenticator interface {
	Bootstrap(ctx context.Context) auth.State
	State() auth.State
	User() *models.User
	Login(ctx context.Context, user *models.User, token string) error
	Logout(ctx context.Context) error
}

// Navigator is the part of browse.Navigator the App drives.
type Navigator interface {
	Open(ctx context.Context) error
	SelectDepartment(ctx context.Context, id models.ID) error
	SelectSpecialty(ctx context.Context, id models.ID) error
	SelectMember(ctx context.Context, id models.ID) error
	Back(ctx context.Context) error
	JumpTo(ctx context.Context, depth int) error
	Reset(ctx context.Context) error
	SetQuery(q string)
	Query() string
	State() browse.State
	Breadcrumbs() []browse.Crumb
	VisibleDepartments() []models.Department
	VisibleSpecialties() []models.Specialty
	VisibleMembers() []models.User
	VisibleLinks() []models.Link
	Loading() bool
}

// Preferences is the persisted per-device state besides the session.
type Preferences interface {
	Token(ctx context.Context) (string, error)
	Language(ctx context.Context, fallback string) (string, error)
	SetLanguage(ctx context.Context, lang string) error
}

type Deps struct {
	Config    *config.Config
	API       client.Client
	Auth      Authenticator
	Navigator Navigator
	Loading   *loading.Orchestrator
	Prefs     Preferences
	Logger    logging.Logger

	// In and Out default to the process stdin and stdout.
	In  io.Reader
	Out io.Writer
}

type App struct {
	config  *config.Config
	api     client.Client
	auth    Authenticator
	nav     Navigator
	loading *loading.Orchestrator
	prefs   Preferences
	log     logging.Logger

	reader *bufio.Reader
	out    io.Writer

	opened  bool
	retry   func(ctx context.Context) error
	pending []models.User
}

func NewApp(d Deps) *App {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	if d.Loading == nil {
		d.Loading = loading.New()
	}
	if d.Config == nil {
		d.Config = &config.Config{}
		d.Config.LoadDefaults()
	}
	return &App{
		config:  d.Config,
		api:     d.API,
		auth:    d.Auth,
		nav:     d.Navigator,
		loading: d.Loading,
		prefs:   d.Prefs,
		log:     d.Logger.With("component", "cli"),
		reader:  bufio.NewReader(d.In),
		out:     &lockedWriter{w: d.Out},
	}
}

// Run restores the session, then serves commands until EOF or "exit".
// Nothing but the restore placeholder is printed while bootstrapping.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Restoring session...")
	st := a.auth.Bootstrap(ctx)

	unsubscribe := a.loading.Subscribe(a.renderLoading)
	defer unsubscribe()

	fmt.Fprintln(a.out, "Club directory (type 'help' for commands)")
	if st == auth.Authenticated {
		fmt.Fprintf(a.out, "Welcome back, %s.\n", a.auth.User().Name)
	} else {
		fmt.Fprintln(a.out, "Not signed in. Use 'login' or 'register'.")
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool { return a.auth.State() == auth.Authenticated }

func (a *App) isAdmin() bool { return a.isLoggedIn() && a.auth.User().IsAdmin() }

// status renders the prompt prefix: who is signed in and where they are.
func (a *App) status() string {
	if !a.isLoggedIn() {
		return "(anonymous)"
	}
	u := a.auth.User()
	s := fmt.Sprintf("(%s %s)", u.Name, u.Role)
	if a.opened {
		labels := make([]string, 0, 4)
		for _, c := range a.nav.Breadcrumbs()[1:] {
			labels = append(labels, c.Label)
		}
		s += " /" + strings.Join(labels, "/")
	}
	return s
}

// renderLoading draws the global indicator; stop is silent.
func (a *App) renderLoading(st loading.State) {
	if !st.Active {
		return
	}
	fmt.Fprintf(a.out, "[%3d%%] %s\n", st.Progress, st.Message)
}

// resetSessionView drops the browse and admin state that belongs to one
// session. Any change of signed-in user goes through it.
func (a *App) resetSessionView() {
	a.opened = false
	a.retry = nil
	a.pending = nil
}

// forgetIfUnauthorized resets the session view when err means the session
// is gone, and returns err unchanged.
func (a *App) forgetIfUnauthorized(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		a.resetSessionView()
	}
	return err
}

// lockedWriter serializes output from loading listeners and fetch goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
