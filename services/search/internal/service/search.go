package service

import (
	"context"
	"strings"

	"github.com/mkravets/socialnet/services/search/internal/index"
	"github.com/mkravets/socialnet/services/search/internal/transport"
)

type SearchService struct {
	Indexer index.Indexer
}

func (s *SearchService) Search(ctx context.Context, rawQuery string, page, size int) (*transport.SearchResponse, error) {
	query := strings.TrimSpace(rawQuery)

	resp := &transport.SearchResponse{
		Results:     []index.Document{},
		CurrentPage: page,
	}
	if query == "" {
		return resp, nil
	}

	from := (page - 1) * size
	total, docs, err := s.Indexer.Search(ctx, query, from, size)
	if err != nil {
		return nil, err
	}

	resp.Results = docs
	resp.TotalHits = total
	return resp, nil
}
