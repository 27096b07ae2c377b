package title

import "context"

// Service is the catalog write/read path consumed by the HTTP handlers.
type Service interface {
	Create(ctx context.Context, req CreateTitleRequest) (*TitleResponse, error)
	Replace(ctx context.Context, showID string, req ReplaceTitleRequest) (*TitleResponse, error)
	Patch(ctx context.Context, showID string, req PatchTitleRequest) (*TitleResponse, error)
	GetByShowID(ctx context.Context, showID string) (*TitleResponse, error)
	List(ctx context.Context, filter Filter) ([]TitleResponse, error)
}
