package storage

type BlockListFilter struct {
	IncludeDeleted bool
	Limit          int
	Offset         int
}

type TagListFilter struct {
	Limit  int
	Offset int
}

type HistoryListFilter struct {
	Since  string
	Limit  int
	Offset int
}
