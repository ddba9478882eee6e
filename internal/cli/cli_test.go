package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/tutord/internal/app"
)

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func emptyWorkspace(t *testing.T) string {
	return writeConfig(t, "timezone = \"UTC\"\nskip_seed = true\n")
}

// run executes one command against the config at path and returns stdout.
func run(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	return runAt(t, testNow, path, args...)
}

func runAt(t *testing.T, now time.Time, path string, args ...string) (string, error) {
	t.Helper()
	opts := &rootOptions{newApp: func(ctx context.Context, o app.Options) (*app.App, error) {
		o.Now = func() time.Time { return now }
		o.LogWriter = io.Discard
		return app.New(ctx, o)
	}}
	root := newRootCmd(opts)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", path}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, path string, args ...string) string {
	t.Helper()
	out, err := run(t, path, args...)
	require.NoError(t, err, "tutord %s", strings.Join(args, " "))
	return out
}

// addBlock creates a block and returns its short id from the command output.
func addBlock(t *testing.T, path, name string) string {
	t.Helper()
	out := mustRun(t, path, "add", name)
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 2, out)
	return fields[1]
}

func TestVersionDoesNotNeedWorkspace(t *testing.T) {
	SetVersion("1.2.3", "abc", "today")
	t.Cleanup(func() { SetVersion("dev", "none", "unknown") })

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "tutord 1.2.3 (commit abc, built today)\n", out.String())
}

func TestAddAndList(t *testing.T) {
	path := emptyWorkspace(t)

	out := mustRun(t, path, "list")
	assert.Equal(t, "No matching blocks.\n", out)

	addBlock(t, path, "Plan algebra unit")
	addBlock(t, path, "Call Jin's parents")

	out = mustRun(t, path, "list")
	assert.Contains(t, out, "Plan algebra unit")
	assert.Contains(t, out, "Call Jin's parents")
	assert.Contains(t, out, "CATEGORY")
}

func TestListRejectsUnknownView(t *testing.T) {
	path := emptyWorkspace(t)
	_, err := run(t, path, "list", "--view", "kanban")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown view")
}

func TestCheckTogglesCheckbox(t *testing.T) {
	path := emptyWorkspace(t)
	id := addBlock(t, path, "Grade quizzes")

	out := mustRun(t, path, "check", id)
	assert.Equal(t, "[x] Grade quizzes\n", out)

	out = mustRun(t, path, "check", id)
	assert.Equal(t, "[ ] Grade quizzes\n", out)
}

func TestCheckUnknownID(t *testing.T) {
	path := emptyWorkspace(t)
	_, err := run(t, path, "check", "nope")
	require.Error(t, err)
}

func TestTop3AddListRemove(t *testing.T) {
	path := emptyWorkspace(t)
	a := addBlock(t, path, "Mock exam")
	b := addBlock(t, path, "Print worksheets")

	out := mustRun(t, path, "top3", "add", a)
	assert.Contains(t, out, "Added Mock exam to TOP-3")

	out = mustRun(t, path, "top3", "add", b, "--slot", "3")
	assert.Contains(t, out, "3. [ ] Print worksheets")

	out = mustRun(t, path, "top3", "list")
	assert.Contains(t, out, "1. [ ] Mock exam")
	assert.Contains(t, out, "2. (empty)")
	assert.Contains(t, out, "3. [ ] Print worksheets")

	out = mustRun(t, path, "top3", "add", a)
	assert.Contains(t, out, "TOP-3 unchanged")

	out = mustRun(t, path, "top3", "remove", a)
	assert.Contains(t, out, "Removed Mock exam")
	out = mustRun(t, path, "top3", "list")
	assert.Contains(t, out, "1. (empty)")

	_, err := run(t, path, "top3", "add", b, "--slot", "4")
	require.Error(t, err)
}

func TestArchiveNothingPending(t *testing.T) {
	path := emptyWorkspace(t)
	out := mustRun(t, path, "archive")
	assert.Equal(t, "Nothing to archive.\n", out)

	out = mustRun(t, path, "history")
	assert.Equal(t, "No archived TOP-3 yet.\n", out)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := emptyWorkspace(t)
	addBlock(t, src, "Review essays")
	addBlock(t, src, "Order textbooks")

	file := filepath.Join(t.TempDir(), "export.json")
	mustRun(t, src, "export", "--all", "-o", file)

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"customViews"`)

	dst := emptyWorkspace(t)
	out := mustRun(t, dst, "import", file)
	assert.Contains(t, out, "Imported 2 block(s)")

	out = mustRun(t, dst, "list")
	assert.Contains(t, out, "Review essays")
	assert.Contains(t, out, "Order textbooks")
}

func TestExportBlocksToStdout(t *testing.T) {
	path := emptyWorkspace(t)
	addBlock(t, path, "Lesson notes")

	out := mustRun(t, path, "export")
	assert.True(t, strings.HasPrefix(out, "["), out)
	assert.Contains(t, out, "Lesson notes")

	_, err := run(t, path, "export", "--all", "--history")
	require.Error(t, err)
}

func TestImportBareArrayKeepsOtherCollections(t *testing.T) {
	path := emptyWorkspace(t)
	addBlock(t, path, "Old block")

	file := filepath.Join(t.TempDir(), "blocks.json")
	require.NoError(t, os.WriteFile(file, []byte("[]"), 0o644))

	out := mustRun(t, path, "import", file)
	assert.Contains(t, out, "Imported 0 block(s)")
	assert.Equal(t, "No matching blocks.\n", mustRun(t, path, "list"))
}

func TestSeedRefusesWithoutForce(t *testing.T) {
	path := emptyWorkspace(t)

	out := mustRun(t, path, "seed")
	assert.Contains(t, out, "Seeded")

	_, err := run(t, path, "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	mustRun(t, path, "seed", "--force")
}

func TestTodayAndWeek(t *testing.T) {
	path := emptyWorkspace(t)

	out := mustRun(t, path, "today")
	assert.Contains(t, out, "Today: 2024-03-10 (Sunday)")
	assert.Contains(t, out, "1. (empty)")
	assert.Contains(t, out, "no lessons today")

	out = mustRun(t, path, "week", "2024-03-13")
	assert.Contains(t, out, "Week of 2024-03-10")
	assert.Contains(t, out, "Sat 2024-03-16")

	_, err := run(t, path, "week", "13/03/2024")
	require.Error(t, err)
}

func TestClassifyListsEveryCategory(t *testing.T) {
	path := emptyWorkspace(t)
	addBlock(t, path, "Loose note")

	out := mustRun(t, path, "classify")
	assert.Contains(t, out, "Loose note")
	assert.Contains(t, out, "(1)")
}

func TestEditKeepsUnchangedFields(t *testing.T) {
	path := emptyWorkspace(t)
	id := addBlock(t, path, "Draft")

	_, err := run(t, path, "edit", id)
	require.Error(t, err)

	out := mustRun(t, path, "edit", id, "--name", "Essay feedback")
	assert.Contains(t, out, "Updated")
	assert.Contains(t, out, "Essay feedback")

	out = mustRun(t, path, "export")
	assert.Contains(t, out, "Essay feedback")
}

func TestPinDeleteRestore(t *testing.T) {
	path := emptyWorkspace(t)
	id := addBlock(t, path, "Weekly report")

	assert.Equal(t, "* Weekly report\n", mustRun(t, path, "pin", id))
	assert.Equal(t, "Weekly report\n", mustRun(t, path, "pin", id, "--off"))

	out := mustRun(t, path, "rm", id)
	assert.Contains(t, out, "Deleted Weekly report")
	assert.Equal(t, "No matching blocks.\n", mustRun(t, path, "list"))

	mustRun(t, path, "restore", id)
	assert.Contains(t, mustRun(t, path, "list"), "Weekly report")
}

func TestDateMakesBlockALessonOrDeadline(t *testing.T) {
	path := emptyWorkspace(t)
	id := addBlock(t, path, "Physics with Ana")

	out := mustRun(t, path, "date", id, "2024-03-10", "16:00-17:00")
	assert.Contains(t, out, "2024-03-10 16:00-17:00")

	out = mustRun(t, path, "list", "--view", "calendar", "--date", "2024-03-10")
	assert.Contains(t, out, "Physics with Ana")

	_, err := run(t, path, "date", id, "2024-03-10", "25:00")
	require.Error(t, err)

	out = mustRun(t, path, "next", id, "--days", "7")
	assert.Equal(t, "Sun 2024-03-10\n", out)
}

func TestPropAddAndRemove(t *testing.T) {
	path := emptyWorkspace(t)
	id := addBlock(t, path, "Mina")

	out := mustRun(t, path, "prop", "add", id, "priority")
	assert.Contains(t, out, "Added priority property")

	out = mustRun(t, path, "prop", "add", id, "priority")
	assert.Contains(t, out, "already has a priority property")

	_, err := run(t, path, "prop", "add", id, "colour")
	require.Error(t, err)

	out = mustRun(t, path, "prop", "rm", id, "priority")
	assert.Contains(t, out, "Removed")

	_, err = run(t, path, "prop", "rm", id, "priority")
	require.Error(t, err)
}

func TestTagsAndCustomViews(t *testing.T) {
	path := emptyWorkspace(t)
	id := addBlock(t, path, "Chemistry set")

	assert.Equal(t, "No tags.\n", mustRun(t, path, "tag", "ls"))
	mustRun(t, path, "tag", "add", "exam", "--color", "#ff8800")
	_, err := run(t, path, "tag", "add", "EXAM")
	require.Error(t, err)

	out := mustRun(t, path, "tag", "set", id, "#exam")
	assert.Contains(t, out, "#exam")
	assert.Contains(t, mustRun(t, path, "list", "--view", "tag", "--tag", "exam"), "Chemistry set")

	mustRun(t, path, "tag", "rm", "exam")
	assert.Equal(t, "No matching blocks.\n", mustRun(t, path, "list", "--view", "tag", "--tag", "exam"))

	mustRun(t, path, "view", "add", "Tagged", "tag")
	assert.Contains(t, mustRun(t, path, "view", "ls"), "Tagged")
	assert.Contains(t, mustRun(t, path, "list", "--view", "custom", "--custom", "tagged"), "Chemistry set")

	mustRun(t, path, "view", "rm", "Tagged")
	assert.Equal(t, "No custom views.\n", mustRun(t, path, "view", "ls"))
}

func TestHistoryAfterRollover(t *testing.T) {
	path := emptyWorkspace(t)
	id := addBlock(t, path, "Mock exam")
	mustRun(t, path, "top3", "add", id)
	mustRun(t, path, "check", id)

	tomorrow := testNow.Add(24 * time.Hour)
	out, err := runAt(t, tomorrow, path, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-10  1/1 done")
	assert.Contains(t, out, "[x] Mock exam")

	out, err = runAt(t, tomorrow, path, "history", "--date", "2024-03-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Mock exam")

	out, err = runAt(t, tomorrow, path, "top3", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1. (empty)")
}
