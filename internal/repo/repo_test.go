package repo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ftt/internal/config"
	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/fs"
	"github.com/keshon/ftt/internal/progress"
	"github.com/keshon/ftt/internal/repo"
	"github.com/keshon/ftt/internal/repo/store/file"
	"github.com/keshon/ftt/internal/util"
)

var ctx = context.Background()

// clock advances one hour per reading.
type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Hour)
	return c.t
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func newRepo(t *testing.T) (*repo.Repository, string) {
	t.Helper()
	root := t.TempDir()
	r, created, err := repo.InitAt(ctx, root, &repo.Options{Now: newClock().now})
	require.NoError(t, err)
	require.True(t, created)
	t.Cleanup(func() { r.Close() })
	return r, root
}

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func save(t *testing.T, r *repo.Repository) *repo.SaveResult {
	t.Helper()
	res, err := r.Save(ctx)
	require.NoError(t, err)
	return res
}

func TestInitAt_IsIdempotent(t *testing.T) {
	r, root := newRepo(t)
	write(t, root, "a.txt", "hello")
	save(t, r)

	again, created, err := repo.InitAt(ctx, root, nil)
	require.NoError(t, err)
	defer again.Close()
	assert.False(t, created)

	idx, err := again.Store.SnapshotCtx.LoadIndex()
	require.NoError(t, err)
	assert.Len(t, idx, 1, "re-init keeps history")

	for _, p := range []string{config.IndexFile, config.TagsFile, config.ConfigFile} {
		assert.FileExists(t, filepath.Join(root, config.MetaDir, p), p)
	}
	for _, p := range []string{config.BlobsDir, config.SnapshotsDir} {
		assert.DirExists(t, filepath.Join(root, config.MetaDir, p), p)
	}
}

func TestInitAt_RejectsMissingRoot(t *testing.T) {
	_, _, err := repo.InitAt(ctx, filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
}

func TestOpenAt_NotInitialized(t *testing.T) {
	_, err := repo.OpenAt(ctx, t.TempDir(), nil)
	require.ErrorIs(t, err, errs.ErrNotInitialized)
}

func TestSave_SequentialIDsAndDedup(t *testing.T) {
	r, root := newRepo(t)
	write(t, root, "a.txt", "same")
	write(t, root, "dir/b.txt", "same")
	write(t, root, "c.txt", "other")

	first := save(t, r)
	assert.Equal(t, uint64(1), first.Snapshot.ID)
	assert.Len(t, first.Snapshot.Files, 3)
	assert.Equal(t, 2, first.NewBlobs, "identical content is stored once")
	assert.Equal(t, int64(len("same")+len("other")), first.StoredBytes)
	assert.Equal(t, []string{"a.txt", "c.txt", "dir/b.txt"}, first.Changes.Added)

	second := save(t, r)
	assert.Equal(t, uint64(2), second.Snapshot.ID)
	assert.Zero(t, second.NewBlobs)
	assert.True(t, second.Changes.Empty())
	assert.Equal(t, first.Snapshot.Digest, second.Snapshot.Digest)

	blobs, err := r.Store.BlobCtx.List()
	require.NoError(t, err)
	assert.Len(t, blobs, 2)

	desc, err := r.Store.SnapshotCtx.LoadDescriptor(2)
	require.NoError(t, err)
	assert.Equal(t, second.Snapshot.Files, desc.Files)
}

func TestSave_EmptyTree(t *testing.T) {
	r, _ := newRepo(t)
	res := save(t, r)
	assert.Equal(t, uint64(1), res.Snapshot.ID)
	assert.Empty(t, res.Snapshot.Files)
}

func TestSave_RemovesStaleTempBlobs(t *testing.T) {
	r, root := newRepo(t)
	stale := filepath.Join(root, config.MetaDir, config.BlobsDir, ".tmp-12345")
	require.NoError(t, os.WriteFile(stale, []byte("partial"), 0o644))

	save(t, r)
	assert.NoFileExists(t, stale)
}

func TestSave_HonoursIgnoreFile(t *testing.T) {
	r, root := newRepo(t)
	write(t, root, config.IgnoreFile, "# build output\n*.log\nbuild/\n\n")
	write(t, root, "build/out.log", "x")
	write(t, root, "build/app", "bin")
	write(t, root, "notes.log", "y")
	write(t, root, "src/main.go", "package main")

	res := save(t, r)
	assert.Equal(t, []string{"src/main.go"}, util.SortedKeys(res.Snapshot.Files))
}

func TestScenario_SaveDiffRewind(t *testing.T) {
	r, root := newRepo(t)
	write(t, root, "a.txt", "hello")
	write(t, root, "b.txt", "world")
	require.Equal(t, uint64(1), save(t, r).Snapshot.ID)

	write(t, root, "a.txt", "goodbye")
	write(t, root, "c.txt", "new")
	require.Equal(t, uint64(2), save(t, r).Snapshot.ID)

	d, err := r.Diff(ctx, repo.ByID(1), repo.ByID(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, d.Modified)
	assert.Equal(t, []string{"c.txt"}, d.Added)
	assert.Empty(t, d.Deleted)

	res, err := r.Rewind(ctx, repo.ByID(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Target.ID)
	assert.Equal(t, "hello", read(t, root, "a.txt"))
	assert.NoFileExists(t, filepath.Join(root, "c.txt"))

	live, err := r.Store.FileCtx.Scan()
	require.NoError(t, err)
	assert.Equal(t, res.Target.Files, live)

	// status still compares against the latest snapshot, id 2
	st, err := r.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), st.Base.ID)
	assert.Equal(t, []string{"a.txt"}, st.Modified)
	assert.Equal(t, []string{"c.txt"}, st.Deleted)
}

func TestScenario_TagThenDiffIsEmpty(t *testing.T) {
	r, root := newRepo(t)
	write(t, root, "a.txt", "1")
	save(t, r)
	write(t, root, "a.txt", "2")
	save(t, r)

	tr, err := r.Tag(ctx, "v1", 2)
	require.NoError(t, err)
	assert.False(t, tr.Moved)

	d, err := r.Diff(ctx, repo.ByTag("v1"), repo.ByID(2))
	require.NoError(t, err)
	assert.True(t, d.Empty())
}

func TestTag_MoveAndList(t *testing.T) {
	r, root := newRepo(t)
	write(t, root, "a.txt", "1")
	save(t, r)
	save(t, r)

	_, err := r.Tag(ctx, "release", 1)
	require.NoError(t, err)
	moved, err := r.Tag(ctx, "release", 2)
	require.NoError(t, err)
	assert.True(t, moved.Moved)
	assert.Equal(t, uint64(1), moved.Previous)
	_, err = r.Tag(ctx, "alpha", 1)
	require.NoError(t, err)

	tags, err := r.Tags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "alpha", tags[0].Label)
	assert.Equal(t, uint64(2), tags[1].SnapshotID)
}

func TestTag_UnknownSnapshot(t *testing.T) {
	r, root := newRepo(t)
	write(t, root, "a.txt", "1")
	save(t, r)

	_, err := r.Tag(ctx, "v9", 9)
	require.ErrorIs(t, err, errs.ErrUnknownSnapshot)

	tags, err := r.Tags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestStatus(t *testing.T) {
	r, root := newRepo(t)

	_, err := r.Status(ctx)
	require.ErrorIs(t, err, errs.ErrNoSnapshots)

	write(t, root, "a.txt", "1")
	write(t, root, "b.txt", "2")
	save(t, r)

	st, err := r.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.Clean())
	assert.Equal(t, 2, st.Unchanged)

	write(t, root, "a.txt", "changed")
	write(t, root, "n.txt", "new")
	require.NoError(t, os.Remove(filepath.Join(root, "b.txt")))

	st, err = r.Status(ctx)
	require.NoError(t, err)
	assert.False(t, st.Clean())
	assert.Equal(t, []string{"n.txt"}, st.Added)
	assert.Equal(t, []string{"a.txt"}, st.Modified)
	assert.Equal(t, []string{"b.txt"}, st.Deleted)

	idx, err := r.Store.SnapshotCtx.LoadIndex()
	require.NoError(t, err)
	assert.Len(t, idx, 1, "status never records a snapshot")
}

func TestLog(t *testing.T) {
	r, root := newRepo(t)

	_, err := r.Log(ctx, repo.LogOptions{})
	require.ErrorIs(t, err, errs.ErrNoSnapshots)

	for _, c := range []string{"1", "2", "3"} {
		write(t, root, "a.txt", c)
		save(t, r)
	}
	_, err = r.Tag(ctx, "first", 1)
	require.NoError(t, err)
	_, err = r.Tag(ctx, "one", 1)
	require.NoError(t, err)

	entries, err := r.Log(ctx, repo.LogOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []uint64{3, 2, 1}, ids(entries))
	assert.Equal(t, []string{"first", "one"}, entries[2].Tags)
	assert.Empty(t, entries[0].Tags)

	entries, err = r.Log(ctx, repo.LogOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 2}, ids(entries))

	// snapshots were taken at +1h, +2h, +3h; this reading is +4h
	entries, err = r.Log(ctx, repo.LogOptions{Since: 90 * time.Minute})
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, ids(entries))
}

func TestParseSince(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"1d", 24 * time.Hour, false},
		{"5h", 5 * time.Hour, false},
		{"30m", 30 * time.Minute, false},
		{"0m", 0, false},
		{"", 0, true},
		{"d", 0, true},
		{"5s", 0, true},
		{"-1h", 0, true},
		{"1.5h", 0, true},
		{"106751d", 106751 * 24 * time.Hour, false},
		{"106752d", 0, true},
		{"4294967295d", 0, true},
		{"2562047h", 2562047 * time.Hour, false},
		{"2562048h", 0, true},
		{"99999999999999999999m", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := repo.ParseSince(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewind_SelectorErrorsTouchNothing(t *testing.T) {
	r, root := newRepo(t)
	write(t, root, "a.txt", "1")
	save(t, r)
	write(t, root, "a.txt", "local")
	write(t, root, "extra.txt", "x")

	for _, sel := range []repo.Selector{repo.ByBack(1), repo.ByID(7), repo.ByTag("nope"), {}} {
		_, err := r.Rewind(ctx, sel)
		require.Error(t, err, sel.String())
		assert.True(t, errs.IsSelector(err), "%s: %v", sel, err)
	}
	assert.Equal(t, "local", read(t, root, "a.txt"))
	assert.FileExists(t, filepath.Join(root, "extra.txt"))
}

func TestRewind_BackOffsets(t *testing.T) {
	r, root := newRepo(t)
	write(t, root, "v.txt", "one")
	save(t, r)
	write(t, root, "v.txt", "two")
	write(t, root, "sub/dir/w.txt", "w")
	save(t, r)

	_, err := r.Rewind(ctx, repo.ByBack(1))
	require.NoError(t, err)
	assert.Equal(t, "one", read(t, root, "v.txt"))
	assert.NoDirExists(t, filepath.Join(root, "sub"))

	_, err = r.Rewind(ctx, repo.ByBack(0))
	require.NoError(t, err)
	assert.Equal(t, "two", read(t, root, "v.txt"))
	assert.Equal(t, "w", read(t, root, "sub/dir/w.txt"))
}

func TestRewind_MissingBlobIsPartial(t *testing.T) {
	r, root := newRepo(t)
	write(t, root, "a.txt", "hello")
	write(t, root, "b.txt", "world")
	s := save(t, r).Snapshot

	require.NoError(t, os.Remove(filepath.Join(root, config.MetaDir, config.BlobsDir, s.Files["a.txt"])))
	require.NoError(t, os.Remove(filepath.Join(root, "a.txt")))
	write(t, root, "b.txt", "edited")

	res, err := r.Rewind(ctx, repo.ByID(1))
	require.ErrorIs(t, err, errs.ErrPartialRewind)
	require.ErrorIs(t, err, errs.ErrMissingBlob)
	require.NotNil(t, res)
	assert.Equal(t, []string{"a.txt"}, res.Missing)
	assert.Equal(t, []string{"b.txt"}, res.Restored)
	assert.Equal(t, "world", read(t, root, "b.txt"))
}

func TestVerify(t *testing.T) {
	r, root := newRepo(t)
	write(t, root, "a.txt", "hello")
	write(t, root, "b.txt", "world")
	s := save(t, r).Snapshot
	_, err := r.Tag(ctx, "v1", 1)
	require.NoError(t, err)

	res, err := r.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.NoError(t, res.Err())
	assert.Equal(t, 1, res.Snapshots)
	assert.Equal(t, 2, res.BlobsChecked)
	assert.Empty(t, res.Orphans)

	blobs := filepath.Join(root, config.MetaDir, config.BlobsDir)
	require.NoError(t, os.Remove(filepath.Join(blobs, s.Files["a.txt"])))
	require.NoError(t, os.WriteFile(filepath.Join(blobs, s.Files["b.txt"]), []byte("tampered"), 0o644))
	orphan := file.Fingerprint([]byte("orphan"))
	require.NoError(t, os.WriteFile(filepath.Join(blobs, orphan), []byte("orphan"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(blobs, ".tmp-1"), []byte("partial"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(root, config.MetaDir, config.SnapshotsDir, "1.json")))

	res, err = r.Verify(ctx)
	require.NoError(t, err)
	assert.False(t, res.OK())
	require.ErrorIs(t, res.Err(), errs.ErrMissingBlob)
	require.Len(t, res.Problems, 2)
	statuses := map[string]string{}
	for _, p := range res.Problems {
		statuses[p.Fingerprint] = p.Status.String()
		assert.Equal(t, []uint64{1}, p.Snapshots)
	}
	assert.Equal(t, "missing", statuses[s.Files["a.txt"]])
	assert.Equal(t, "damaged", statuses[s.Files["b.txt"]])
	assert.Equal(t, []string{orphan}, res.Orphans)
	assert.Equal(t, 1, res.TempRemoved)
	assert.Equal(t, []uint64{1}, res.MissingDescriptors)
}

func TestVerify_DetectsEditedIndex(t *testing.T) {
	r, root := newRepo(t)
	write(t, root, "a.txt", "hello")
	save(t, r)

	idx, err := r.Store.SnapshotCtx.LoadIndex()
	require.NoError(t, err)
	idx[0].Files["ghost.txt"] = idx[0].Files["a.txt"]
	require.NoError(t, r.Store.SnapshotCtx.SaveIndex(idx))

	res, err := r.Verify(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, res.BadDigests)
	require.ErrorIs(t, res.Err(), errs.ErrCorruptIndex)
}

func TestOpenAt_CorruptIndex(t *testing.T) {
	r, root := newRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, config.MetaDir, config.IndexFile), []byte("{not json"), 0o644))

	_, err := r.Save(ctx)
	require.ErrorIs(t, err, errs.ErrCorruptIndex)
}

func TestScanCache(t *testing.T) {
	root := t.TempDir()
	r, _, err := repo.InitAt(ctx, root, nil)
	require.NoError(t, err)
	s := r.Settings
	require.NoError(t, r.Close())

	s.ScanCache = true
	require.NoError(t, config.WriteSettings(fs.NewOSFS(), r.Config, s))

	r, err = repo.OpenAt(ctx, root, nil)
	require.NoError(t, err)
	defer r.Close()
	require.True(t, r.Settings.ScanCache)
	require.NotNil(t, r.Store.FileCtx.Cache)

	write(t, root, "a.txt", "hello")
	write(t, root, "b.txt", "world")
	first := save(t, r)

	require.NoError(t, os.Remove(filepath.Join(root, "b.txt")))
	second := save(t, r)
	assert.Equal(t, first.Snapshot.Files["a.txt"], second.Snapshot.Files["a.txt"])
	assert.Len(t, second.Snapshot.Files, 1)
	assert.FileExists(t, filepath.Join(root, config.MetaDir, config.CacheFile))
}

func ids(entries []repo.LogEntry) []uint64 {
	out := make([]uint64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Snapshot.ID)
	}
	return out
}

type countingBar struct {
	label     string
	total     int
	increment int
	finished  bool
}

func (b *countingBar) Increment() { b.increment++ }
func (b *countingBar) Finish()    { b.finished = true }

func TestProgressReporting(t *testing.T) {
	var bars []*countingBar
	factory := func(total int, label string) progress.Reporter {
		b := &countingBar{label: label, total: total}
		bars = append(bars, b)
		return b
	}

	root := t.TempDir()
	r, _, err := repo.InitAt(ctx, root, &repo.Options{Progress: factory})
	require.NoError(t, err)
	defer r.Close()

	write(t, root, "a.txt", "1")
	write(t, root, "b.txt", "2")
	write(t, root, "c.txt", "2")
	save(t, r)
	_, err = r.Verify(ctx)
	require.NoError(t, err)

	require.Len(t, bars, 2)
	assert.Equal(t, "Storing files", bars[0].label)
	assert.Equal(t, 3, bars[0].increment)
	assert.Equal(t, "Checking blobs", bars[1].label)
	assert.Equal(t, 2, bars[1].total)
	for _, b := range bars {
		assert.True(t, b.finished, b.label)
	}
}
