package ircconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePort(t *testing.T) {
	p, err := ResolvePort("6667", "")
	require.NoError(t, err)
	require.Equal(t, 6667, p)

	p, err = ResolvePort("", "6668")
	require.NoError(t, err)
	require.Equal(t, 6668, p)

	_, err = ResolvePort("", "")
	require.Error(t, err)

	_, err = ResolvePort("notanumber", "")
	require.Error(t, err)

	_, err = ResolvePort("0", "")
	require.Error(t, err)

	_, err = ResolvePort("70000", "")
	require.Error(t, err)
}

func TestResolvePassword(t *testing.T) {
	pw, err := ResolvePassword("secret", true, "", false)
	require.NoError(t, err)
	require.Equal(t, "secret", pw)

	pw, err = ResolvePassword("", true, "", false)
	require.NoError(t, err)
	require.Equal(t, "", pw, "explicit empty password via CLI is valid")

	pw, err = ResolvePassword("", false, "envpw", true)
	require.NoError(t, err)
	require.Equal(t, "envpw", pw)

	_, err = ResolvePassword("", false, "", false)
	require.Error(t, err)
}
