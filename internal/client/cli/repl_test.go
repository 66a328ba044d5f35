package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	fail     map[string]error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.fail[name]
}

func (f *fakeExec) isLoggedIn() bool                   { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error { return f.record("register", nil) }
func (f *fakeExec) WhoAmI(ctx context.Context) error   { return f.record("whoami", nil) }
func (f *fakeExec) List(ctx context.Context) error     { return f.record("list", nil) }
func (f *fakeExec) Add(ctx context.Context) error      { return f.record("add", nil) }

func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}

func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}

func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	return f.record("delete", args)
}
func (f *fakeExec) SetStatus(ctx context.Context, args []string) error {
	return f.record("status", args)
}
func (f *fakeExec) AddMaintenance(ctx context.Context, args []string) error {
	return f.record("maint", args)
}
func (f *fakeExec) Logs(ctx context.Context, args []string) error {
	return f.record("logs", args)
}
func (f *fakeExec) Attach(ctx context.Context, args []string) error {
	return f.record("attach", args)
}
func (f *fakeExec) Files(ctx context.Context, args []string) error {
	return f.record("files", args)
}
func (f *fakeExec) Download(ctx context.Context, args []string) error {
	return f.record("download", args)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{}

	input := "help\nlogin\nhelp\nl\nlist\nadd\ndelete 3\nstatus 3\nmaint 3\nlogs 3\nattach 3\nfiles 3\ndownload 3 9\nwhoami\n\nbogus\nlogout\nregister\nexit\nlist\n"
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login", "list", "list", "add", "delete 3", "status 3", "maint 3", "logs 3",
		"attach 3", "files 3", "download 3 9", "whoami", "logout", "register",
	}, f.calls, "nothing runs after exit")

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Available commands: register, login, exit")
	assert.Contains(t, joined, "Available commands: whoami")
	assert.Contains(t, joined, "Unknown command:bogus")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{fail: map[string]error{"list": errors.New("boom")}}

	runREPL(context.Background(), f, func() string { return "(alice)" }, bufio.NewReader(strings.NewReader("list\nwhoami")))

	assert.Equal(t, []string{"list", "whoami"}, f.calls, "last line without newline still runs")
	assert.Contains(t, *out, "Error:boom")
	assert.Contains(t, *out, "at(alice)> ")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	captureOutput(t)
	f := &fakeExec{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runREPL(ctx, f, func() string { return "" }, bufio.NewReader(strings.NewReader("list\n")))

	assert.Empty(t, f.calls)
}
