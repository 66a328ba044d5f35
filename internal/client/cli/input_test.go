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

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  alice  \nbob"))

	s, err := GetSimpleText(r, "Enter username", &out)
	require.NoError(t, err)
	assert.Equal(t, "alice", s)
	assert.Equal(t, "Enter username\n> ", out.String())

	s, err = GetSimpleText(r, "again", &out)
	require.NoError(t, err, "partial line at EOF is returned")
	assert.Equal(t, "bob", s)

	_, err = GetSimpleText(r, "empty", &out)
	assert.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(fd int) ([]byte, error) { return []byte("pw123"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("pw123"), pw)
	assert.Contains(t, out.String(), "Enter password: ")

	readPassword = func(fd int) ([]byte, error) { return nil, errors.New("no tty") }
	_, err = GetPassword(&out)
	assert.Error(t, err)
}

func TestGetID(t *testing.T) {
	var out bytes.Buffer

	id, err := GetID(bufio.NewReader(strings.NewReader("")), []string{"12"}, "Asset id", &out)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	id, err = GetID(bufio.NewReader(strings.NewReader("7\n")), nil, "Asset id", &out)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	for _, raw := range []string{"abc", "0", "-3"} {
		_, err := GetID(bufio.NewReader(strings.NewReader("")), []string{raw}, "Asset id", &out)
		assert.Error(t, err, raw)
	}
}
