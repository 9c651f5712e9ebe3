package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/pimstore/internal/cli"
)

func Test_Create_Then_Get_Prints_Entry(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	id := c.MustRun("create", "notes/groceries", "--content", "milk\n")
	require.Equal(t, "notes/groceries", id)

	want := "---\n[store]\nmodule = \"notes\"\nversion = \"0.1.0\"\n---\nmilk\n"

	if diff := cmp.Diff(want, c.ReadEntry("notes/groceries")); diff != "" {
		t.Fatalf("file (-want +got):\n%s", diff)
	}

	out := c.MustRun("get", "notes/groceries")
	require.Equal(t, strings.TrimSpace(want), out)

	out = c.MustRun("retrieve", "notes/groceries")
	require.Equal(t, strings.TrimSpace(want), out)
}

func Test_Create_Fails_When_EntryExists(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	c.MustRun("create", "notes/a")

	stderr := c.MustFail("create", "notes/a")
	cli.AssertContains(t, stderr, "entry already exists")
	cli.AssertContains(t, stderr, "entry_id=notes/a")
}

func Test_Create_Fails_When_IDInvalid(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	for _, id := range []string{"onlymodule", "notes/../escape", "/abs/path", "notes/.hidden"} {
		stderr := c.MustFail("create", id)
		cli.AssertContains(t, stderr, "error:")
	}

	stderr := c.MustFail("create")
	cli.AssertContains(t, stderr, "id is required")
}

func Test_Get_Prints_NoEntryFound_When_Missing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	out := c.MustRun("get", "notes/missing")
	require.Equal(t, "No entry found", out)

	stderr := c.MustFail("retrieve", "notes/missing")
	cli.AssertContains(t, stderr, "entry not found")
}

func Test_Get_Fails_When_FileIsNotAnEntry(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	c.WriteEntry("notes/broken", "just text, no header\n")

	stderr := c.MustFail("get", "notes/broken")
	cli.AssertContains(t, stderr, "parse entry")
	cli.AssertContains(t, stderr, "entry_id=notes/broken")
}

func Test_Delete_Asks_For_Confirmation_When_NoYesFlag(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", "notes/a")

	stdout, _, code := c.RunWithInput("no\n", "delete", "notes/a")
	require.Equal(t, 0, code)
	cli.AssertContains(t, stdout, "Delete notes/a? (yes/no)")
	cli.AssertContains(t, stdout, "Not deleted: notes/a")

	_, err := os.Stat(filepath.Join(c.StoreDir(), "notes", "a"))
	require.NoError(t, err)

	// EOF counts as no.
	stdout, _, code = c.RunWithInput("", "delete", "notes/a")
	require.Equal(t, 0, code)
	cli.AssertContains(t, stdout, "Not deleted")

	stdout, _, code = c.RunWithInput("yes\n", "delete", "notes/a")
	require.Equal(t, 0, code)
	cli.AssertContains(t, stdout, "Deleted notes/a")

	_, err = os.Stat(filepath.Join(c.StoreDir(), "notes", "a"))
	require.True(t, os.IsNotExist(err))
}

func Test_Delete_Fails_When_Missing_Or_ArgsConflict(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("delete", "--yes", "notes/missing")
	cli.AssertContains(t, stderr, "entry not found")

	stderr = c.MustFail("delete")
	cli.AssertContains(t, stderr, "either <id> or --hash is required")

	stderr = c.MustFail("delete", "--hash", "ab", "notes/x")
	cli.AssertContains(t, stderr, "mutually exclusive")
}

func Test_Delete_Removes_Entry_When_SelectedByHash(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", "notes/a", "--content", "a")
	c.MustRun("create", "notes/b", "--content", "b")

	sum := c.MustRun("hash", "notes/b")
	require.Len(t, sum, 64)

	require.Equal(t, "notes/b", c.MustRun("find", strings.ToUpper(sum[:12])))

	out := c.MustRun("delete", "--yes", "--hash", sum)
	require.Equal(t, "Deleted notes/b", out)

	stderr := c.MustFail("find", sum)
	cli.AssertContains(t, stderr, "no entry matches hash")
}

func Test_Find_Lists_Candidates_When_PrefixAmbiguous(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	// 17 entries guarantee two hashes share their first hex digit.
	byDigit := map[byte][]string{}

	for i := range 17 {
		id := "notes/n" + strings.Repeat("x", i)
		c.MustRun("create", id, "--content", id)

		sum := c.MustRun("hash", id)
		byDigit[sum[0]] = append(byDigit[sum[0]], id)
	}

	var (
		prefix string
		want   []string
	)

	for d, ids := range byDigit {
		if len(ids) > 1 {
			prefix, want = string(d), ids

			break
		}
	}

	require.NotEmpty(t, prefix)

	stderr := c.MustFail("find", prefix)
	cli.AssertContains(t, stderr, "ambiguous hash")

	for _, id := range want {
		cli.AssertContains(t, stderr, "  candidate: "+id)
	}

	stderr = c.MustFail("find", "xyz")
	cli.AssertContains(t, stderr, "invalid hash prefix")
}

func Test_Ls_Lists_Module_Or_Store(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", "notes/b")
	c.MustRun("create", "notes/a/nested")
	c.MustRun("create", "todo/x")

	require.Equal(t, "notes/a/nested\nnotes/b", c.MustRun("ls", "notes"))
	require.Equal(t, "notes/a/nested\nnotes/b\ntodo/x", c.MustRun("ls"))
	require.Empty(t, c.MustRun("ls", "nothing"))

	sum := c.MustRun("hash", "todo/x")
	require.Equal(t, sum+" todo/x", c.MustRun("ls", "--hash", "todo"))
}

func Test_Ls_Filters_By_Version_And_Warns_On_Broken(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", "notes/current")
	c.WriteEntry("notes/old", "---\n[store]\nmodule = \"notes\"\nversion = \"0.0.4\"\n---\n")
	c.WriteEntry("notes/broken", "no header\n")

	stdout, stderr, code := c.Run("ls", "notes", "--version-lt", "0.1.0")
	require.Equal(t, 1, code)
	require.Equal(t, "notes/old\n", stdout)
	cli.AssertContains(t, stderr, "warning: parse entry")
	cli.AssertContains(t, stderr, "entry_id=notes/broken")
}
