package gmail

import "context"

// Client is the narrow Gmail surface the indexer and the rule processor
// need. The production implementation lives in internal/runtime.
type Client interface {
	List(ctx context.Context, q Query, pageToken string, pageSize int) (ListPage, error)
	Get(ctx context.Context, id MessageID) (Message, error)
	BatchModify(ctx context.Context, ids []MessageID, mut Mutation) error
}
