package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkravets/socialnet/services/post/internal/models"
)

func (r *GormRepo) Create(ctx context.Context, post *models.Post, mediaIDs []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		for _, mid := range mediaIDs {
			if mid == "" {
				continue
			}
			if err := tx.Create(&models.PostMedia{PostID: post.ID, MediaID: mid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, []string, error) {
	var post models.Post
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if isNotFound(err) {
			return nil, nil, ErrPostNotFound
		}
		return nil, nil, err
	}

	mediaIDs, err := r.mediaIDs(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return &post, mediaIDs, nil
}

func (r *GormRepo) List(ctx context.Context, offset, limit int) (int64, []models.Post, map[uuid.UUID][]string, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return 0, nil, nil, err
	}

	var posts []models.Post
	if err := r.DB.WithContext(ctx).
		Model(&models.Post{}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return 0, nil, nil, err
	}

	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	media, err := r.mediaIDsFor(ctx, ids)
	if err != nil {
		return 0, nil, nil, err
	}

	return total, posts, media, nil
}

func (r *GormRepo) Update(ctx context.Context, post *models.Post) error {
	return r.DB.WithContext(ctx).Save(post).Error
}

// Delete removes a post and everything hanging off it, returning the attached
// media ids so the caller can announce them to the media service.
func (r *GormRepo) Delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	var mediaIDs []string
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := r.mediaIDsTx(tx, id)
		if err != nil {
			return err
		}
		mediaIDs = ids

		res := tx.Delete(&models.Post{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPostNotFound
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.PostMedia{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error
	})
	if err != nil {
		return nil, err
	}
	return mediaIDs, nil
}

// ToggleLike flips the caller's like on a post and keeps the denormalized
// counter in step, all in one transaction. The counter moves by a relative
// SQL expression so concurrent toggles never lose each other's updates.
func (r *GormRepo) ToggleLike(ctx context.Context, postID uuid.UUID, userID string) (bool, int64, error) {
	var liked bool
	var count int64

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ?", postID).First(&post).Error; err != nil {
			if isNotFound(err) {
				return ErrPostNotFound
			}
			return err
		}

		var delta int
		var like models.Like
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error
		switch {
		case err == nil:
			if err := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			liked = false
			delta = -1
		case isNotFound(err):
			if err := tx.Create(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
				return err
			}
			liked = true
			delta = 1
		default:
			return err
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error; err != nil {
			return err
		}

		var fresh models.Post
		if err := tx.Select("like_count").Where("id = ?", postID).First(&fresh).Error; err != nil {
			return err
		}
		count = fresh.LikeCount
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (r *GormRepo) AddComment(ctx context.Context, comment *models.Comment) error {
	return r.DB.WithContext(ctx).Create(comment).Error
}

func (r *GormRepo) GetComment(ctx context.Context, postID, commentID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&comment).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *GormRepo) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	return r.DB.WithContext(ctx).Delete(&models.Comment{}, "id = ?", commentID).Error
}

func (r *GormRepo) mediaIDs(ctx context.Context, postID uuid.UUID) ([]string, error) {
	var rows []models.PostMedia
	if err := r.DB.WithContext(ctx).Where("post_id = ?", postID).Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.MediaID)
	}
	return ids, nil
}

func (r *GormRepo) mediaIDsTx(tx *gorm.DB, postID uuid.UUID) ([]string, error) {
	var rows []models.PostMedia
	if err := tx.Where("post_id = ?", postID).Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.MediaID)
	}
	return ids, nil
}

func (r *GormRepo) mediaIDsFor(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	out := make(map[uuid.UUID][]string, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	var rows []models.PostMedia
	if err := r.DB.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = append(out[row.PostID], row.MediaID)
	}
	return out, nil
}
