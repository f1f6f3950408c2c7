package operation

import (
	"fmt"
	"strings"

	"github.com/gerunddev/jjgraph/preview"
)

// Message is an edited commit message.
type Message struct {
	Title       string
	Description string
}

// String joins the title and description the way jj stores them.
func (m Message) String() string {
	title := strings.TrimSpace(m.Title)
	body := strings.TrimSpace(m.Description)
	if body == "" {
		return title
	}
	return title + "\n\n" + body
}

// ParseMessage splits a full commit message into title and description.
func ParseMessage(s string) Message {
	s = strings.TrimSpace(s)
	title, body, _ := strings.Cut(s, "\n")
	return Message{Title: strings.TrimSpace(title), Description: strings.TrimSpace(body)}
}

// AmendMessage replaces the message of a commit.
type AmendMessage struct {
	ID      string
	Message Message
}

// NewAmendMessage builds an AmendMessage of id.
func NewAmendMessage(id string, msg Message) (*AmendMessage, error) {
	if id == "" {
		return nil, constructionErr(KindAmendMessage, "no commit")
	}
	return &AmendMessage{ID: id, Message: msg}, nil
}

func (o *AmendMessage) Kind() Kind { return KindAmendMessage }

func (o *AmendMessage) Args() []string {
	return []string{"describe", o.ID, "-m", o.Message.String()}
}

func (o *AmendMessage) Key() string { return key(o.Kind(), o.Args()) }

func (o *AmendMessage) Describe() string {
	return fmt.Sprintf("amend %s", Short(o.ID))
}

// MakeOptimisticApplier retires once the original commit id no longer
// resolves. jj describe always rewrites the commit, so the id changes.
func (o *AmendMessage) MakeOptimisticApplier(ctx preview.Context) (preview.Applier, error) {
	if _, ok := ctx.TreeMap[o.ID]; !ok {
		return nil, nil
	}

	return func(t *preview.Tree, _ preview.Tag) preview.Result {
		if t.Info.ID != o.ID {
			return preview.Unchanged(t)
		}
		info := t.Info
		info.Title = strings.TrimSpace(o.Message.Title)
		info.Description = strings.TrimSpace(o.Message.Description)
		return preview.Result{Info: info, Children: t.Children}
	}, nil
}
