package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) isLoggedIn() bool                        { return s.loggedIn }
func (s *stubExec) Register(ctx context.Context) error      { return s.record("register") }
func (s *stubExec) Login(ctx context.Context) error         { return s.record("login") }
func (s *stubExec) Logout(ctx context.Context) error        { return s.record("logout") }
func (s *stubExec) List(ctx context.Context, args []string) error {
	return s.record(strings.TrimSpace("list " + strings.Join(args, " ")))
}
func (s *stubExec) NextPage(ctx context.Context) error      { return s.record("next") }
func (s *stubExec) PrevPage(ctx context.Context) error      { return s.record("prev") }
func (s *stubExec) ToggleArchived(ctx context.Context) error { return s.record("archived") }
func (s *stubExec) New(ctx context.Context) error           { return s.record("new") }
func (s *stubExec) Notices(ctx context.Context) error       { return s.record("notices") }

func (s *stubExec) Open(ctx context.Context, args []string) error {
	return s.record("open " + strings.Join(args, " "))
}

func (s *stubExec) Delete(ctx context.Context, args []string) error {
	return s.record("delete " + strings.Join(args, " "))
}

func (s *stubExec) Share(ctx context.Context, args []string) error {
	return s.record("share " + strings.Join(args, " "))
}

func runScript(t *testing.T, a *stubExec, script string) string {
	t.Helper()
	var out bytes.Buffer
	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), a, func() string { return "" }, scanner, &out)
	return out.String()
}

func TestREPL_Dispatch(t *testing.T) {
	a := &stubExec{loggedIn: true}
	runScript(t, a, "login\nlist\nopen 2\nshare n1\nnotices\nlogout\nexit\n")

	assert.Equal(t, []string{"login", "list", "open 2", "share n1", "notices", "logout"}, a.calls)
}

func TestREPL_Aliases(t *testing.T) {
	a := &stubExec{loggedIn: true}
	runScript(t, a, "l\nn\np\no 1\nrm 1\nadd\nquit\n")

	assert.Equal(t, []string{"list", "next", "prev", "open 1", "delete 1", "new"}, a.calls)
}

func TestREPL_UnknownCommand(t *testing.T) {
	a := &stubExec{}
	out := runScript(t, a, "frobnicate\nexit\n")

	assert.Contains(t, out, "Unknown command: frobnicate")
	assert.Empty(t, a.calls)
}

func TestREPL_HelpDependsOnLogin(t *testing.T) {
	out := runScript(t, &stubExec{}, "help\nexit\n")
	assert.Contains(t, out, "register, login, exit")

	out = runScript(t, &stubExec{loggedIn: true}, "help\nexit\n")
	assert.Contains(t, out, "share")
	assert.Contains(t, out, "logout")
}

func TestREPL_BlankLinesAndEOF(t *testing.T) {
	a := &stubExec{}
	out := runScript(t, a, "\n\n")

	assert.Empty(t, a.calls)
	assert.NotContains(t, out, "Unknown command")
}
