package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	actions map[string]bool
	calls   []string
}

func (f *fakeExec) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return nil
}

func (f *fakeExec) Navigate(_ context.Context, path string) error { return f.record("go %s", path) }
func (f *fakeExec) Back(context.Context) error                    { return f.record("back") }
func (f *fakeExec) Reload(context.Context) error                  { return f.record("reload") }
func (f *fakeExec) Logout(context.Context) error                  { return f.record("logout") }
func (f *fakeExec) Whoami(context.Context) error                  { return f.record("whoami") }
func (f *fakeExec) Help() []string                                { return []string{"help line"} }

func (f *fakeExec) Invoke(_ context.Context, name string, args []string) (bool, error) {
	if !f.actions[name] {
		return false, nil
	}
	return true, f.record("%s %s", name, strings.Join(args, ","))
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

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"go /documents",
		"/document/7",
		"",
		"approve 7",
		"back",
		"reload",
		"whoami",
		"login",
		"logout",
		"foobar",
		"exit",
		"go /never",
	}, "\n")

	exec := &fakeExec{actions: map[string]bool{"approve": true}}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	assert.Equal(t, []string{
		"go /documents",
		"go /document/7",
		"approve 7",
		"back",
		"reload",
		"whoami",
		"go /login",
		"logout",
	}, exec.calls)
	assert.Contains(t, *out, "  help line")
	assert.Contains(t, *out, "Unknown command:foobar")
	assert.Contains(t, *out, "Bye!")
	assert.Contains(t, *out, "isoko status> ")
}

func TestRunREPL_PageActionShadowsBuiltinShortcut(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{actions: map[string]bool{"register": true}}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("register\ngo\n"))

	assert.Equal(t, []string{"register "}, exec.calls)
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("reload"))

	assert.Equal(t, []string{"reload"}, exec.calls)
}
