package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	pkgcache "github.com/mkravets/socialnet/pkg/cache"
	"github.com/mkravets/socialnet/pkg/events"
	"github.com/mkravets/socialnet/pkg/logging"
	"github.com/mkravets/socialnet/services/post/internal/cache"
	"github.com/mkravets/socialnet/services/post/internal/models"
	"github.com/mkravets/socialnet/services/post/internal/repo"
	"github.com/mkravets/socialnet/services/post/internal/transport"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("post not found")
	ErrForbidden  = errors.New("not the owner")
)

type PostService struct {
	Repo  *repo.GormRepo
	Cache *cache.Manager
	Bus   events.Publisher
}

// CreatePost stores the post, wipes the listing cache and announces the event.
// The broker publish is fire-and-forget: a broker outage must not fail the
// write that already happened.
func (s *PostService) CreatePost(ctx context.Context, userID string, req transport.CreatePostRequest) (*transport.PostResponse, error) {
	l := logging.FromContext(ctx).With("svc", "post.create")

	if req.Title == "" || req.Content == "" {
		return nil, ErrValidation
	}

	post := models.Post{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := s.Repo.Create(ctx, &post, req.MediaIDs); err != nil {
		l.Error("create failed", "error", err)
		return nil, err
	}

	if err := s.Cache.InvalidateListings(ctx); err != nil {
		// A listing page serving the pre-create state would break read-your-write
		// for the author, so the request fails even though the row exists.
		l.Error("listing cache invalidation failed", "error", err)
		return nil, err
	}

	if err := s.Bus.Publish(ctx, events.TopicPostCreated, post.ID.String(), events.PostCreated{
		PostID:    post.ID.String(),
		UserID:    post.UserID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	}); err != nil {
		l.Error("publish post.created failed", "post_id", post.ID, "error", err)
	}

	return toResponse(&post, req.MediaIDs), nil
}

// GetPost serves the cached rendering when present and falls back to the
// database on a miss. Cache failures other than a miss degrade to a database
// read instead of failing the request.
func (s *PostService) GetPost(ctx context.Context, id string) (json.RawMessage, error) {
	l := logging.FromContext(ctx).With("svc", "post.get")

	if cached, err := s.Cache.GetItem(ctx, id); err == nil {
		return cached, nil
	} else if !errors.Is(err, pkgcache.ErrMiss) {
		l.Warn("cache read failed", "post_id", id, "error", err)
	}

	postID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	post, mediaIDs, err := s.Repo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repo.ErrPostNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	body, err := json.Marshal(toResponse(post, mediaIDs))
	if err != nil {
		return nil, err
	}
	if err := s.Cache.SetItem(ctx, id, body); err != nil {
		l.Warn("cache write failed", "post_id", id, "error", err)
	}
	return body, nil
}

func (s *PostService) ListPosts(ctx context.Context, page, limit, offset int) (json.RawMessage, error) {
	l := logging.FromContext(ctx).With("svc", "post.list")

	if cached, err := s.Cache.GetListing(ctx, page, limit); err == nil {
		return cached, nil
	} else if !errors.Is(err, pkgcache.ErrMiss) {
		l.Warn("cache read failed", "page", page, "error", err)
	}

	total, posts, media, err := s.Repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	listing := transport.ListingResponse{
		Posts:       make([]transport.PostResponse, 0, len(posts)),
		CurrentPage: page,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		TotalPosts:  total,
	}
	for i := range posts {
		listing.Posts = append(listing.Posts, *toResponse(&posts[i], media[posts[i].ID]))
	}

	body, err := json.Marshal(listing)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.SetListing(ctx, page, limit, body); err != nil {
		l.Warn("cache write failed", "page", page, "error", err)
	}
	return body, nil
}

func (s *PostService) UpdatePost(ctx context.Context, userID, id string, req transport.UpdatePostRequest) (*transport.PostResponse, error) {
	l := logging.FromContext(ctx).With("svc", "post.update")

	post, mediaIDs, err := s.ownedPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if post.Title == "" || post.Content == "" {
		return nil, ErrValidation
	}

	if err := s.Repo.Update(ctx, post); err != nil {
		l.Error("update failed", "post_id", id, "error", err)
		return nil, err
	}
	if err := s.invalidate(ctx, id); err != nil {
		return nil, err
	}

	return toResponse(post, mediaIDs), nil
}

// DeletePost removes the post and announces which media objects became
// orphans. The media service cleans those up asynchronously.
func (s *PostService) DeletePost(ctx context.Context, userID, id string) error {
	l := logging.FromContext(ctx).With("svc", "post.delete")

	post, _, err := s.ownedPost(ctx, userID, id)
	if err != nil {
		return err
	}

	mediaIDs, err := s.Repo.Delete(ctx, post.ID)
	if err != nil {
		if errors.Is(err, repo.ErrPostNotFound) {
			return ErrNotFound
		}
		l.Error("delete failed", "post_id", id, "error", err)
		return err
	}
	if err := s.invalidate(ctx, id); err != nil {
		return err
	}

	if err := s.Bus.Publish(ctx, events.TopicPostDeleted, id, events.PostDeleted{
		PostID:   id,
		MediaIDs: mediaIDs,
	}); err != nil {
		l.Error("publish post.deleted failed", "post_id", id, "error", err)
	}
	return nil
}

func (s *PostService) ToggleLike(ctx context.Context, userID, id string) (*transport.LikeResponse, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	liked, count, err := s.Repo.ToggleLike(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrPostNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.invalidate(ctx, id); err != nil {
		return nil, err
	}

	return &transport.LikeResponse{Liked: liked, LikeCount: count}, nil
}

func (s *PostService) AddComment(ctx context.Context, userID, id, content string) (*transport.CommentResponse, error) {
	if content == "" {
		return nil, ErrValidation
	}
	postID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if _, _, err := s.Repo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repo.ErrPostNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.Repo.AddComment(ctx, &comment); err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, id); err != nil {
		return nil, err
	}

	return &transport.CommentResponse{
		ID:        comment.ID.String(),
		PostID:    id,
		UserID:    userID,
		Content:   content,
		CreatedAt: comment.CreatedAt,
	}, nil
}

// DeleteComment is restricted to the comment author.
func (s *PostService) DeleteComment(ctx context.Context, userID, postID, commentID string) error {
	pid, err := uuid.Parse(postID)
	if err != nil {
		return ErrNotFound
	}
	cid, err := uuid.Parse(commentID)
	if err != nil {
		return ErrNotFound
	}

	comment, err := s.Repo.GetComment(ctx, pid, cid)
	if err != nil {
		if errors.Is(err, repo.ErrCommentNotFound) {
			return ErrNotFound
		}
		return err
	}
	if comment.UserID != userID {
		return ErrForbidden
	}

	if err := s.Repo.DeleteComment(ctx, cid); err != nil {
		return err
	}
	return s.invalidate(ctx, postID)
}

func (s *PostService) ownedPost(ctx context.Context, userID, id string) (*models.Post, []string, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	post, mediaIDs, err := s.Repo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repo.ErrPostNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if post.UserID != userID {
		return nil, nil, ErrForbidden
	}
	return post, mediaIDs, nil
}

// invalidate runs before the response is written, so a reader that follows
// the writer never sees the pre-write rendering. Failing to invalidate fails
// the write: returning success while the cache still serves stale state would
// be worse than a 500.
func (s *PostService) invalidate(ctx context.Context, id string) error {
	if err := s.Cache.InvalidateItem(ctx, id); err != nil {
		logging.FromContext(ctx).Error("cache invalidation failed", "post_id", id, "error", err)
		return err
	}
	return nil
}

func toResponse(post *models.Post, mediaIDs []string) *transport.PostResponse {
	if mediaIDs == nil {
		mediaIDs = []string{}
	}
	return &transport.PostResponse{
		ID:        post.ID.String(),
		UserID:    post.UserID,
		Title:     post.Title,
		Content:   post.Content,
		MediaIDs:  mediaIDs,
		LikeCount: post.LikeCount,
		CreatedAt: post.CreatedAt,
	}
}
