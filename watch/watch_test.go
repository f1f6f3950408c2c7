package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 10; i++ {
		d.Trigger()
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()
	time.Sleep(50 * time.Millisecond)
	require.Zero(t, calls.Load())

	// Stopping an idle debouncer is a no-op.
	d.Stop()
}

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"/repo/.jj/repo/op_heads/heads/abc", false},
		{"/repo/.jj/repo/op_heads/heads/abc.lock", true},
		{"/repo/.jj/repo/op_heads/heads/ABC.LOCK", true},
		{"/repo/.jj/repo/store/git.ipc", true},
		{"lock", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ShouldIgnore(tt.name))
		})
	}
}

func TestPaths(t *testing.T) {
	t.Run("not a workspace", func(t *testing.T) {
		_, err := Paths(t.TempDir())
		require.ErrorContains(t, err, "not a jj workspace")
	})

	t.Run("op heads", func(t *testing.T) {
		root := t.TempDir()
		heads := filepath.Join(root, ".jj", "repo", "op_heads", "heads")
		require.NoError(t, os.MkdirAll(heads, 0o755))

		paths, err := Paths(root)
		require.NoError(t, err)
		require.Equal(t, []string{heads}, paths)
	})

	t.Run("falls back to repo dir", func(t *testing.T) {
		root := t.TempDir()
		repo := filepath.Join(root, ".jj", "repo")
		require.NoError(t, os.MkdirAll(repo, 0o755))

		paths, err := Paths(root)
		require.NoError(t, err)
		require.Equal(t, []string{repo}, paths)
	})

	t.Run("secondary workspace", func(t *testing.T) {
		main := t.TempDir()
		heads := filepath.Join(main, ".jj", "repo", "op_heads", "heads")
		require.NoError(t, os.MkdirAll(heads, 0o755))

		second := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(second, ".jj"), 0o755))
		pointer := filepath.Join(second, ".jj", "repo")
		require.NoError(t, os.WriteFile(pointer, []byte(filepath.Join(main, ".jj", "repo")), 0o644))

		paths, err := Paths(second)
		require.NoError(t, err)
		require.Equal(t, []string{heads}, paths)
	})
}

func TestWatcher_ReportsChanges(t *testing.T) {
	root := t.TempDir()
	heads := filepath.Join(root, ".jj", "repo", "op_heads", "heads")
	require.NoError(t, os.MkdirAll(heads, 0o755))

	w, err := New(root, 20*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	// Lock files alone do not count as a change.
	require.NoError(t, os.WriteFile(filepath.Join(heads, "x.lock"), nil, 0o644))
	select {
	case <-w.Changes():
		t.Fatal("unexpected change for lock file")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(filepath.Join(heads, "op1"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(heads, "op2"), nil, 0o644))
	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("watch loop did not stop")
	}
}
