package commands

import (
	"github.com/gerunddev/jjgraph/session"
)

// resolve turns a user-supplied revision into a commit id of the loaded
// graph.
func resolve(s *session.Session, ref string) (string, error) {
	return s.Runner.TreeMap().Resolve(ref)
}
