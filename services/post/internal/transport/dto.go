package transport

import "time"

type CreatePostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	MediaIDs []string `json:"mediaIds"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type PostResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	MediaIDs  []string  `json:"mediaIds"`
	LikeCount int64     `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListingResponse struct {
	Posts       []PostResponse `json:"posts"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	TotalPosts  int64          `json:"totalPosts"`
}

type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
