package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Like target kinds. The ledger stores one row per
// (user, target type, target id) triple.
const (
	LikeTargetPost    = "post"
	LikeTargetComment = "comment"
)

// Like is a ledger entry recording that a user currently likes a post or a
// comment. The composite unique index makes the toggle idempotent.
type Like struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:uk_like_user_target,priority:1" json:"user_id"`
	TargetType string    `gorm:"size:16;not null;uniqueIndex:uk_like_user_target,priority:2" json:"target_type"`
	TargetID   uint      `gorm:"not null;uniqueIndex:uk_like_user_target,priority:3;index:idx_like_target" json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToggleLike flips the ledger entry for (userID, targetType, targetID) and
// adjusts the target's like counter inside one transaction. It reports the
// resulting like state and counter value. Returns ErrNotFound when the
// target does not exist (including when it was deleted concurrently: the
// cascade removes ledger entries with their target, so the counter update
// doubles as the existence check).
func ToggleLike(db *gorm.DB, userID uint, targetType string, targetID uint) (liked bool, count int64, err error) {
	if targetType != LikeTargetPost && targetType != LikeTargetComment {
		return false, 0, ErrValidation
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var entry Like
		lookup := tx.Where("user_id = ? AND target_type = ? AND target_id = ?",
			userID, targetType, targetID).First(&entry)

		switch {
		case lookup.Error == nil:
			if err := tx.Delete(&entry).Error; err != nil {
				return err
			}
			if err := adjustLikeCount(tx, targetType, targetID, -1); err != nil {
				return err
			}
			liked = false
		case errors.Is(lookup.Error, gorm.ErrRecordNotFound):
			if err := adjustLikeCount(tx, targetType, targetID, +1); err != nil {
				return err
			}
			entry = Like{UserID: userID, TargetType: targetType, TargetID: targetID}
			if err := tx.Create(&entry).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrConflict
				}
				return err
			}
			liked = true
		default:
			return lookup.Error
		}

		var c int64
		if err := readLikeCount(tx, targetType, targetID, &c); err != nil {
			return err
		}
		count = c
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// HasLiked reports whether the user currently likes the target. Pure
// lookup, no side effects.
func HasLiked(db *gorm.DB, userID uint, targetType string, targetID uint) bool {
	if userID == 0 {
		return false
	}
	var n int64
	if err := db.Model(&Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&n).Error; err != nil {
		return false
	}
	return n > 0
}

// adjustLikeCount applies an atomic counter delta to the target row,
// clamped so the counter never goes negative. Zero affected rows means the
// target does not exist.
func adjustLikeCount(tx *gorm.DB, targetType string, targetID uint, delta int) error {
	expr := gorm.Expr("like_count + ?", delta)
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN like_count + ? < 0 THEN 0 ELSE like_count + ? END", delta, delta)
	}

	var res *gorm.DB
	switch targetType {
	case LikeTargetPost:
		res = tx.Model(&Post{}).Where("id = ?", targetID).UpdateColumn("like_count", expr)
	case LikeTargetComment:
		res = tx.Model(&Comment{}).Where("id = ?", targetID).UpdateColumn("like_count", expr)
	default:
		return ErrValidation
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func readLikeCount(tx *gorm.DB, targetType string, targetID uint, out *int64) error {
	switch targetType {
	case LikeTargetPost:
		return tx.Model(&Post{}).Select("like_count").Where("id = ?", targetID).Scan(out).Error
	case LikeTargetComment:
		return tx.Model(&Comment{}).Select("like_count").Where("id = ?", targetID).Scan(out).Error
	}
	return ErrValidation
}
