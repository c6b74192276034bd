package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

// onTerminal pretends stdin is a terminal for the duration of the test.
func onTerminal(t *testing.T, read func(int) ([]byte, error)) {
	t.Helper()
	oldIs, oldRead := isTerminal, readPassword
	isTerminal = func(int) bool { return true }
	readPassword = read
	t.Cleanup(func() { isTerminal, readPassword = oldIs, oldRead })
}

func offTerminal(t *testing.T) {
	t.Helper()
	old := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = old })
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.Error(t, err)
}

func TestGetPassword_Terminal(t *testing.T) {
	onTerminal(t, func(int) ([]byte, error) { return []byte("s3cret"), nil })

	var out bytes.Buffer
	pw, err := GetPassword(rdr("ignored\n"), "Password", &out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", string(pw))
	assert.Equal(t, "Password: \n", out.String())
}

func TestGetPassword_TerminalError(t *testing.T) {
	onTerminal(t, func(int) ([]byte, error) { return nil, errors.New("boom") })

	var out bytes.Buffer
	_, err := GetPassword(rdr(""), "Password", &out)
	assert.Error(t, err)
}

func TestGetPassword_PipedInput(t *testing.T) {
	offTerminal(t)

	var out bytes.Buffer
	pw, err := GetPassword(rdr("piped-pw\n"), "Password", &out)
	require.NoError(t, err)
	assert.Equal(t, "piped-pw", string(pw))
}

func TestLinePrompter(t *testing.T) {
	offTerminal(t)

	var out bytes.Buffer
	p := &linePrompter{reader: rdr("alice\nhunter22\n"), out: &out}

	name, err := p.Ask("Username")
	require.NoError(t, err)
	pw, err := p.AskSecret("Password")
	require.NoError(t, err)

	assert.Equal(t, "alice", name)
	assert.Equal(t, "hunter22", pw)
	assert.Contains(t, out.String(), "Username\n> ")
}
