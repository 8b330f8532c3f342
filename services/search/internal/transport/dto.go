package transport

import "github.com/mkravets/socialnet/services/search/internal/index"

type SearchResponse struct {
	Results     []index.Document `json:"results"`
	TotalHits   int64            `json:"totalHits"`
	CurrentPage int              `json:"currentPage"`
}
