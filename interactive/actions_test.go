package interactive

import (
	"context"
	"testing"

	"github.com/gerunddev/jjgraph/jj/jjtest"
	"github.com/gerunddev/jjgraph/session"
	"github.com/gerunddev/jjgraph/tree"
	"github.com/gerunddev/jjgraph/tree/treetest"
)

func TestBuildRevisionOptions(t *testing.T) {
	tests := []struct {
		name       string
		nodes      []tree.Node
		wantLen    int
		wantLabels []string
		wantValues []string
	}{
		{
			name:    "empty nodes",
			nodes:   []tree.Node{},
			wantLen: 0,
		},
		{
			name: "single commit not head",
			nodes: []tree.Node{
				{ID: "deadbeef", ChangeID: "abcd1234"},
			},
			wantLen:    1,
			wantLabels: []string{"abcd1234 (no description)"},
			wantValues: []string{"deadbeef"},
		},
		{
			name: "single commit is head",
			nodes: []tree.Node{
				{ID: "cafebabe", ChangeID: "wxyz9876", IsHead: true},
			},
			wantLen:    1,
			wantLabels: []string{"wxyz9876 @ (no description)"},
			wantValues: []string{"cafebabe"},
		},
		{
			name: "long change id is shortened",
			nodes: []tree.Node{
				{ID: "11111111", ChangeID: "kpqxywonksrl"},
			},
			wantLen:    1,
			wantLabels: []string{"kpqxywon (no description)"},
			wantValues: []string{"11111111"},
		},
		{
			name: "commit with title",
			nodes: []tree.Node{
				{ID: "abcd1234", ChangeID: "desctest", Title: "Fix the bug"},
			},
			wantLen:    1,
			wantLabels: []string{"desctest Fix the bug"},
			wantValues: []string{"abcd1234"},
		},
		{
			name: "commit with bookmarks",
			nodes: []tree.Node{
				{ID: "aaaa1111", ChangeID: "bookmark", Bookmarks: []string{"main", "feature"}},
			},
			wantLen:    1,
			wantLabels: []string{"bookmark [main, feature] (no description)"},
			wantValues: []string{"aaaa1111"},
		},
		{
			name: "commit with title and bookmarks",
			nodes: []tree.Node{
				{ID: "bbbb2222", ChangeID: "fullinfo", Title: "Add feature", Bookmarks: []string{"dev"}, IsHead: true},
			},
			wantLen:    1,
			wantLabels: []string{"fullinfo @ [dev] Add feature"},
			wantValues: []string{"bbbb2222"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := buildRevisionOptions(tt.nodes)

			if len(options) != tt.wantLen {
				t.Errorf("buildRevisionOptions() returned %d options, want %d", len(options), tt.wantLen)
				return
			}

			for i, opt := range options {
				if i < len(tt.wantLabels) && opt.Key != tt.wantLabels[i] {
					t.Errorf("option[%d] label = %q, want %q", i, opt.Key, tt.wantLabels[i])
				}

				if i < len(tt.wantValues) && opt.Value != tt.wantValues[i] {
					t.Errorf("option[%d] value = %q, want %q", i, opt.Value, tt.wantValues[i])
				}
			}
		})
	}
}

func openSession(t *testing.T, nodes ...tree.Node) *session.Session {
	t.Helper()

	s, err := session.Open(context.Background(), jjtest.New(nodes...), "")
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return s
}

func ids(nodes []tree.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRevisionsInGraphOrder(t *testing.T) {
	s := openSession(t, treetest.Chain("main", "A", "B")...)

	want := []string{"B", "A", "main"}
	if got := ids(revisions(s)); !equal(got, want) {
		t.Errorf("revisions() = %v, want %v (newest first)", got, want)
	}
}

func TestRevisionsSkipsOldRebasePosition(t *testing.T) {
	s := openSession(t, treetest.Chain("main", "A", "B")...)
	if _, err := s.ProposeRebase("B", "main"); err != nil {
		t.Fatalf("propose rebase: %v", err)
	}

	count := 0
	for _, n := range revisions(s) {
		if n.ID == "B" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("B listed %d times, want 1", count)
	}
}

func TestRebaseSourcesExcludeTrunk(t *testing.T) {
	s := openSession(t, treetest.Chain("main", "A", "B")...)

	want := []string{"B", "A"}
	if got := ids(rebaseSources(s)); !equal(got, want) {
		t.Errorf("rebaseSources() = %v, want %v", got, want)
	}
}

func TestRebaseDestinations(t *testing.T) {
	nodes := []tree.Node{
		treetest.Node("main", nil, treetest.Public()),
		treetest.Node("A", []string{"main"}),
		treetest.Node("B", []string{"A"}, treetest.Head()),
		treetest.Node("C", []string{"main"}),
	}
	s := openSession(t, nodes...)

	dests, err := rebaseDestinations(s, "A")
	if err != nil {
		t.Fatalf("rebaseDestinations: %v", err)
	}
	// B is a descendant and main is already the parent.
	if got := ids(dests); !equal(got, []string{"C"}) {
		t.Errorf("rebaseDestinations(A) = %v, want [C]", got)
	}

	if _, ok := s.Runner.Preview(); ok {
		t.Error("checking destinations must not leave a preview")
	}
}

func TestRebaseDestinationsDirty(t *testing.T) {
	repo := jjtest.New(treetest.Chain("main", "A", "B")...)
	repo.SetDirty(true)
	s, err := session.Open(context.Background(), repo, "")
	if err != nil {
		t.Fatalf("open session: %v", err)
	}

	if _, err := rebaseDestinations(s, "B"); err == nil {
		t.Error("expected an error while the working copy is dirty")
	}
}
