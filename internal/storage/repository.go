package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/tutord/internal/model"
)

var (
	ErrNotFound  = errors.New("storage: not found")
	ErrMalformed = errors.New("storage: malformed persisted data")
)

type Repository interface {
	SaveBlock(ctx context.Context, in model.Block) error
	GetBlock(ctx context.Context, id string) (model.Block, error)
	DeleteBlock(ctx context.Context, id string) error
	ListBlocks(ctx context.Context, filter BlockListFilter) ([]model.Block, error)
	ReplaceBlocks(ctx context.Context, blocks []model.Block) error

	SaveTag(ctx context.Context, in model.Tag) error
	GetTag(ctx context.Context, id string) (model.Tag, error)
	DeleteTag(ctx context.Context, id string) error
	ListTags(ctx context.Context, filter TagListFilter) ([]model.Tag, error)

	SaveCustomView(ctx context.Context, in model.CustomView) error
	DeleteCustomView(ctx context.Context, id string) error
	ListCustomViews(ctx context.Context) ([]model.CustomView, error)

	SaveHistory(ctx context.Context, in model.Top3History) error
	ListHistory(ctx context.Context, filter HistoryListFilter) ([]model.Top3History, error)

	SaveWorkspace(ctx context.Context, w model.Workspace) error
	LoadWorkspace(ctx context.Context) (model.Workspace, error)
}
