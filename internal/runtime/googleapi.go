// internal/runtime/googleapi.go — adapts *gmail.Service to our small interface
package runtime

import (
	"context"
	"fmt"

	"google.golang.org/api/gmail/v1"

	gc "github.com/Addarsh/Email-Integration/internal/gmail"
)

type googleClient struct{ svc *gmail.Service }

func NewGoogleAPIClient(svc *gmail.Service) *googleClient { return &googleClient{svc} }

func (g *googleClient) List(ctx context.Context, q gc.Query, pageToken string, pageSize int) (gc.ListPage, error) {
	call := g.svc.Users.Messages.List("me").MaxResults(int64(pageSize))
	if q.Raw != "" {
		call = call.Q(q.Raw)
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	res, err := call.Context(ctx).Do()
	if err != nil {
		return gc.ListPage{}, fmt.Errorf("list messages: %w", err)
	}
	page := gc.ListPage{NextPageToken: res.NextPageToken}
	for _, m := range res.Messages {
		page.IDs = append(page.IDs, gc.MessageID(m.Id))
	}
	return page, nil
}

func (g *googleClient) Get(ctx context.Context, id gc.MessageID) (gc.Message, error) {
	msg, err := g.svc.Users.Messages.Get("me", string(id)).Format("raw").Context(ctx).Do()
	if err != nil {
		return gc.Message{}, fmt.Errorf("get message %s: %w", id, err)
	}
	return decodeMessage(msg)
}

func (g *googleClient) BatchModify(ctx context.Context, ids []gc.MessageID, mut gc.Mutation) error {
	req := &gmail.BatchModifyMessagesRequest{Ids: toStrings(ids)}
	if len(mut.Add) > 0 {
		req.AddLabelIds = toStringsL(mut.Add)
	}
	if len(mut.Remove) > 0 {
		req.RemoveLabelIds = toStringsL(mut.Remove)
	}
	if err := g.svc.Users.Messages.BatchModify("me", req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("batch modify %d messages: %w", len(ids), err)
	}
	return nil
}

func toStrings(ids []gc.MessageID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func toStringsL(labels []gc.LabelID) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = string(l)
	}
	return out
}
