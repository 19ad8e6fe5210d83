package social

import "fmt"

// commentLog appends comments. Comments are never edited or removed.
type commentLog struct {
	closedOnDelete bool
}

func (l commentLog) append(sc *txScope, author Address, postID int64, fingerprint string) error {
	post, err := loadPost(sc, postID)
	if err != nil {
		return err
	}
	if l.closedOnDelete && post.Deleted {
		return ErrPostDeleted
	}
	_, err = sc.tx.InsertComment(sc.ctx, &Comment{
		PostID:      postID,
		Author:      author,
		Fingerprint: fingerprint,
		CreatedAt:   sc.now,
	})
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}
