package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/pimstore/internal/config"
	"github.com/calvinalkan/pimstore/pkg/store/header"
)

func parseTOML(t *testing.T, src string) *config.Config {
	t.Helper()

	cfg, err := config.Parse("config.toml", []byte(src))
	require.NoError(t, err)

	return cfg
}

func Test_Override_Fails_And_KeepsValue_When_ValueNotCoercible(t *testing.T) {
	t.Parallel()

	cfg := parseTOML(t, "verbose = false\n")

	err := cfg.Override([]string{"verbose=notabool"})
	require.ErrorIs(t, err, config.ErrOverride)

	var oerr *config.OverrideError
	require.True(t, errors.As(err, &oerr))
	require.Equal(t, "verbose", oerr.Key)
	require.Equal(t, config.ReasonTypeMismatch, oerr.Reason)
	require.Contains(t, err.Error(), "key=verbose")

	v, found, err := header.ReadBool(cfg.Doc(), "verbose")
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, v)
}

func Test_Override_Leaves_Document_Unchanged_When_NoPairs(t *testing.T) {
	t.Parallel()

	cfg := parseTOML(t, config.DefaultTOML)
	before := cfg.Doc().Clone()

	require.NoError(t, cfg.Override(nil))
	require.NoError(t, cfg.Override([]string{}))
	require.True(t, cfg.Doc().Equal(before))
}

func Test_Override_Coerces_Value_Into_ExistingKind(t *testing.T) {
	t.Parallel()

	cfg := parseTOML(t, `
verbose = false
editor = "vi"
retries = 3
ratio = 0.5
since = 2024-01-02T03:04:05Z

[store]
path = ""
`)

	err := cfg.Override([]string{
		"verbose=true",
		"editor=nvim -p",
		"retries=10",
		"ratio=1.25",
		"since=2025-06-07T08:09:10Z",
		"store.path=/tmp/x=y",
	})
	require.NoError(t, err)

	require.True(t, cfg.Verbose())
	require.Equal(t, "nvim -p", cfg.Editor())
	require.Equal(t, "/tmp/x=y", cfg.StorePath())

	n, _, err := header.ReadInteger(cfg.Doc(), "retries")
	require.NoError(t, err)
	require.EqualValues(t, 10, n)

	f, _, err := header.ReadFloat(cfg.Doc(), "ratio")
	require.NoError(t, err)
	require.InDelta(t, 1.25, f, 1e-9)

	ts, _, err := header.ReadDatetime(cfg.Doc(), "since")
	require.NoError(t, err)
	require.Equal(t, 2025, ts.Year())
}

func Test_Override_Rejects_Pair_When_KeyMissingOrMalformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pair   string
		reason config.OverrideReason
	}{
		{pair: "nosuchkey=1", reason: config.ReasonKeyNotFound},
		{pair: "store.nothing=1", reason: config.ReasonKeyNotFound},
		{pair: "verbose.deeper=1", reason: config.ReasonKeyNotFound},
		{pair: "verbose", reason: config.ReasonMalformed},
		{pair: "=true", reason: config.ReasonMalformed},
		{pair: "log.logs=x", reason: config.ReasonTypeMismatch},
		{pair: "store=x", reason: config.ReasonTypeMismatch},
		{pair: "verbose=True", reason: config.ReasonTypeMismatch},
	}

	for _, tc := range cases {
		cfg := parseTOML(t, config.DefaultTOML)

		err := cfg.Override([]string{tc.pair})

		var oerr *config.OverrideError
		require.ErrorAs(t, err, &oerr, tc.pair)
		require.Equal(t, tc.reason, oerr.Reason, tc.pair)
	}
}

func Test_Override_Keeps_EarlierPairs_When_LaterPairFails(t *testing.T) {
	t.Parallel()

	cfg := parseTOML(t, config.DefaultTOML)

	err := cfg.Override([]string{"editor=emacs", "verbose=maybe", "editor-opts=-nw"})
	require.ErrorIs(t, err, config.ErrOverride)

	require.Equal(t, "emacs", cfg.Editor())
	require.False(t, cfg.Verbose())
	require.Equal(t, "", cfg.EditorOpts())
}

func Test_Parse_Accepts_JSONC_When_ExtensionIsJSON(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse("pimrc.json", []byte(`{
		// comments are fine
		"verbose": true,
		"editor": "nano",
		"log": {"logs": ["work", "home"], "default": "work",},
		"limit": 5,
	}`))
	require.NoError(t, err)

	require.True(t, cfg.Verbose())
	require.Equal(t, "nano", cfg.Editor())
	require.Equal(t, []string{"work", "home"}, cfg.Logs())
	require.Equal(t, "work", cfg.DefaultLog())

	n, _, err := header.ReadInteger(cfg.Doc(), "limit")
	require.NoError(t, err)
	require.EqualValues(t, 5, n)
}

func Test_Parse_Fails_With_ErrInvalid_When_Malformed(t *testing.T) {
	t.Parallel()

	_, err := config.Parse("config.toml", []byte("verbose = = 1"))
	require.ErrorIs(t, err, config.ErrInvalid)

	_, err = config.Parse("config.json", []byte(`{"a": null}`))
	require.ErrorIs(t, err, config.ErrInvalid)

	_, err = config.Parse("config.json", []byte(`[1, 2]`))
	require.ErrorIs(t, err, config.ErrInvalid)
}

func Test_Load_Uses_FirstExistingVariant_In_SearchOrder(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	rtp := filepath.Join(home, ".pim")
	require.NoError(t, os.MkdirAll(rtp, 0o755))

	env := map[string]string{"HOME": home}

	// Without any file the defaults apply.
	cfg, err := config.Load(config.LoadInput{Env: env})
	require.NoError(t, err)
	require.Equal(t, "", cfg.Source)
	require.Equal(t, "vi", cfg.Editor())

	homeFile := filepath.Join(home, "pimrc.json")
	require.NoError(t, os.WriteFile(homeFile, []byte(`{"editor": "home"}`), 0o644))

	cfg, err = config.Load(config.LoadInput{Env: env})
	require.NoError(t, err)
	require.Equal(t, homeFile, cfg.Source)

	rtpFile := filepath.Join(rtp, "config.toml")
	require.NoError(t, os.WriteFile(rtpFile, []byte(`editor = "rtp"`), 0o644))

	cfg, err = config.Load(config.LoadInput{Env: env})
	require.NoError(t, err)
	require.Equal(t, rtpFile, cfg.Source)
	require.Equal(t, "rtp", cfg.Editor())
}

func Test_Load_Fails_When_ExplicitPathMissing(t *testing.T) {
	t.Parallel()

	_, err := config.Load(config.LoadInput{ConfigPath: filepath.Join(t.TempDir(), "nope.toml")})
	require.ErrorIs(t, err, config.ErrNotFound)
}

func Test_RuntimePath_Prefers_Flag_Then_Env_Then_Home(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/flag", config.RuntimePath("/flag", map[string]string{"PIM_RTP": "/env"}))
	require.Equal(t, "/env", config.RuntimePath("", map[string]string{"PIM_RTP": "/env", "HOME": "/h"}))
	require.Equal(t, filepath.Join("/h", ".pim"), config.RuntimePath("", map[string]string{"HOME": "/h"}))
	require.Equal(t, "", config.RuntimePath("", nil))
}
