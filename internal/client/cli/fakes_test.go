package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/clubhub/internal/client/auth"
	"github.com/dmitrijs2005/clubhub/internal/client/browse"
	"github.com/dmitrijs2005/clubhub/internal/client/client"
	"github.com/dmitrijs2005/clubhub/internal/client/loading"
	"github.com/dmitrijs2005/clubhub/internal/client/models"
	"github.com/dmitrijs2005/clubhub/internal/logging"
)

// ------------ gateway fake ------------

type fakeAPI struct {
	mu sync.Mutex

	loginUser  *models.User
	loginToken string
	loginErr   error

	registered []client.RegisterRequest
	logouts    int
	logoutErr  error

	departments []models.Department
	specialties map[models.ID][]models.Specialty
	users       map[models.ID][]models.User
	links       map[models.ID][]models.Link
	events      []models.Event
	fetchErr    error
	block       chan struct{}

	pending   []models.User
	validated []models.ID
	rejected  []models.ID
	adminErr  error
}

var _ client.Client = (*fakeAPI)(nil)

func (f *fakeAPI) Login(context.Context, string, string) (*models.User, string, error) {
	return f.loginUser, f.loginToken, f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, req client.RegisterRequest) error {
	f.registered = append(f.registered, req)
	return nil
}

func (f *fakeAPI) Logout(context.Context) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeAPI) err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchErr
}

func (f *fakeAPI) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

func (f *fakeAPI) Departments(context.Context) ([]models.Department, error) {
	if f.block != nil {
		<-f.block
	}
	return f.departments, f.err()
}

func (f *fakeAPI) Specialties(_ context.Context, id models.ID) ([]models.Specialty, error) {
	return f.specialties[id], f.err()
}

func (f *fakeAPI) SpecialtyUsers(_ context.Context, id models.ID) ([]models.User, error) {
	return f.users[id], f.err()
}

func (f *fakeAPI) Links(_ context.Context, id models.ID) ([]models.Link, error) {
	return f.links[id], f.err()
}

func (f *fakeAPI) Events(context.Context) ([]models.Event, error) {
	return f.events, f.err()
}

func (f *fakeAPI) PendingUsers(context.Context) ([]models.User, error) {
	return f.pending, f.adminErr
}

func (f *fakeAPI) ValidateUser(_ context.Context, id models.ID) error {
	if f.adminErr != nil {
		return f.adminErr
	}
	f.validated = append(f.validated, id)
	return nil
}

func (f *fakeAPI) RejectUser(_ context.Context, id models.ID) error {
	if f.adminErr != nil {
		return f.adminErr
	}
	f.rejected = append(f.rejected, id)
	return nil
}

func newDirectoryAPI() *fakeAPI {
	return &fakeAPI{
		departments: []models.Department{
			{ID: "1", Name: "CS", Description: "Computing"},
			{ID: "2", Name: "Econ"},
		},
		specialties: map[models.ID][]models.Specialty{
			"1": {{ID: "s1", Name: "AI", DepartmentID: "1"}},
		},
		users: map[models.ID][]models.User{
			"s1": {
				{ID: "u1", Name: "Ada", Email: "ada@club.org", Role: models.RoleMember, Status: models.StatusValid},
				{ID: "u2", Name: "Bob", Email: "bob@club.org", Role: models.RoleMember, Status: models.StatusPending},
			},
		},
		links: map[models.ID][]models.Link{
			"u1": {{ID: "l1", Title: "GitHub", URL: "https://github.com/ada"}},
		},
	}
}

// ------------ auth fake ------------

type fakeAuth struct {
	bootState auth.State
	state     auth.State
	user      *models.User
	loginErr  error
	logoutErr error
	logins    int
}

func (f *fakeAuth) Bootstrap(context.Context) auth.State {
	f.state = f.bootState
	return f.state
}

func (f *fakeAuth) State() auth.State  { return f.state }
func (f *fakeAuth) User() *models.User { return f.user }

func (f *fakeAuth) Login(_ context.Context, u *models.User, _ string) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.logins++
	f.state, f.user = auth.Authenticated, u
	return nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.state, f.user = auth.Anonymous, nil
	return f.logoutErr
}

// ------------ prefs fake ------------

type fakePrefs struct {
	token string
	lang  string
}

func (f *fakePrefs) Token(context.Context) (string, error) { return f.token, nil }

func (f *fakePrefs) Language(_ context.Context, fallback string) (string, error) {
	if f.lang == "" {
		return fallback, nil
	}
	return f.lang, nil
}

func (f *fakePrefs) SetLanguage(_ context.Context, lang string) error {
	if strings.TrimSpace(lang) == "" {
		return errors.New("empty language")
	}
	f.lang = strings.ToLower(lang)
	return nil
}

// ------------ helpers ------------

var (
	member = &models.User{ID: "u1", Name: "Ada", Email: "ada@club.org", Role: models.RoleMember, Status: models.StatusValid}
	admin  = &models.User{ID: "a1", Name: "Root", Email: "root@club.org", Role: models.RoleAdmin, Status: models.StatusValid}
)

type testApp struct {
	*App
	api   *fakeAPI
	auth  *fakeAuth
	prefs *fakePrefs
	out   *bytes.Buffer
}

func newTestApp(t *testing.T, api *fakeAPI, user *models.User) *testApp {
	t.Helper()

	fa := &fakeAuth{bootState: auth.Anonymous, state: auth.Anonymous}
	if user != nil {
		fa.bootState, fa.state, fa.user = auth.Authenticated, auth.Authenticated, user
	}
	prefs := &fakePrefs{}
	out := &bytes.Buffer{}

	app := NewApp(Deps{
		API:       api,
		Auth:      fa,
		Navigator: browse.New(api, logging.Nop()),
		Loading:   loading.New(),
		Prefs:     prefs,
		Logger:    logging.Nop(),
		In:        strings.NewReader(""),
		Out:       out,
	})
	return &testApp{App: app, api: api, auth: fa, prefs: prefs, out: out}
}

// stubInput replaces the prompt helpers with scripted answers.
func stubInput(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	origText, origPw := askLine, askSecret
	t.Cleanup(func() { askLine, askSecret = origText, origPw })

	askLine = func(*bufio.Reader, string, io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", errors.New("no more input")
		}
		s := texts[0]
		texts = texts[1:]
		return s, nil
	}
	askSecret = func(string, io.Writer) (string, error) {
		if len(passwords) == 0 {
			return "", errors.New("no more input")
		}
		s := passwords[0]
		passwords = passwords[1:]
		return s, nil
	}
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = fmt.Sprint(v)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}
