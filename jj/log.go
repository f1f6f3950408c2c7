package jj

import (
	"fmt"
	"strings"
	"time"

	"github.com/gerunddev/jjgraph/tree"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// logFields is the order of the fields emitted by logTemplate.
var logFields = []string{
	"commit_id",
	"change_id",
	`parents.map(|p| p.commit_id()).join(",")`,
	"description.first_line()",
	"description",
	`author.timestamp().format("%Y-%m-%dT%H:%M:%S%:z")`,
	"current_working_copy",
	"immutable",
	"empty",
	`local_bookmarks.map(|b| b.name()).join(",")`,
}

// logTemplate renders one record per commit. The separators are raw control
// characters inside jj string literals.
var logTemplate = strings.Join(logFields, ` ++ "`+fieldSep+`" ++ `) + ` ++ "` + recordSep + `"`

type record struct {
	node       tree.Node
	isWC       bool
	empty      bool
	immutable  bool
	rawParents []string
}

// ParseLog turns the output of a templated jj log into a Snapshot. The
// working-copy commit is left out; its first parent becomes the head.
func ParseLog(out string) (*Snapshot, error) {
	var records []record
	for i, raw := range strings.Split(out, recordSep) {
		raw = strings.TrimLeft(raw, "\r\n")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		rec, err := parseRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("parse jj log record %d: %w", i, err)
		}
		records = append(records, rec)
	}

	snap := &Snapshot{}
	present := make(map[string]bool, len(records))
	var wc *record
	for i := range records {
		present[records[i].node.ID] = true
		if records[i].isWC {
			wc = &records[i]
		}
	}

	// Commits stacked on @ hang off its parents instead.
	var wcParents []string
	if wc != nil {
		snap.WorkingCopy = wc.node.ID
		snap.HasUncommittedChanges = !wc.empty
		wcParents = wc.rawParents
	}

	head := ""
	if len(wcParents) > 0 && present[wcParents[0]] {
		head = wcParents[0]
	}

	for _, rec := range records {
		if rec.isWC {
			continue
		}
		n := rec.node
		n.Parents = replaceParent(rec.rawParents, snap.WorkingCopy, wcParents)
		if rec.immutable && !anyPresent(n.Parents, present) {
			n.Parents = nil
		}
		n.IsHead = n.ID == head
		snap.Nodes = append(snap.Nodes, n)
	}
	return snap, nil
}

func parseRecord(raw string) (record, error) {
	fields := strings.Split(raw, fieldSep)
	if len(fields) != len(logFields) {
		return record{}, fmt.Errorf("expected %d fields, got %d", len(logFields), len(fields))
	}

	var date time.Time
	if fields[5] != "" {
		var err error
		date, err = time.Parse(time.RFC3339, fields[5])
		if err != nil {
			return record{}, fmt.Errorf("author date: %w", err)
		}
	}

	title, body := splitDescription(fields[4])
	if title == "" {
		title = strings.TrimSpace(fields[3])
	}

	return record{
		node: tree.Node{
			ID:          fields[0],
			ChangeID:    fields[1],
			Title:       title,
			Description: body,
			Date:        date,
			PartOfTrunk: fields[7] == "true",
			Bookmarks:   splitList(fields[9]),
		},
		rawParents: splitList(fields[2]),
		isWC:       fields[6] == "true",
		immutable:  fields[7] == "true",
		empty:      fields[8] == "true",
	}, nil
}

func splitDescription(desc string) (string, string) {
	desc = strings.TrimSpace(desc)
	title, body, _ := strings.Cut(desc, "\n")
	return strings.TrimSpace(title), strings.TrimSpace(body)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func replaceParent(parents []string, old string, with []string) []string {
	if old == "" {
		return parents
	}
	var out []string
	for _, p := range parents {
		if p == old {
			out = append(out, with...)
			continue
		}
		out = append(out, p)
	}
	return out
}

func anyPresent(ids []string, present map[string]bool) bool {
	for _, id := range ids {
		if present[id] {
			return true
		}
	}
	return false
}
