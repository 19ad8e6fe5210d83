package social

import "fmt"

// postLedger owns post records: creation, fingerprint edits and tombstones.
type postLedger struct{}

// loadPost returns the post or ErrPostNotFound.
func loadPost(sc *txScope, id int64) (*Post, error) {
	post, err := sc.tx.GetPost(sc.ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading post %d: %w", id, err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (postLedger) create(sc *txScope, author Address, fingerprint string) (*Post, error) {
	post := &Post{
		Author:      author,
		Fingerprint: fingerprint,
		CreatedAt:   sc.now,
	}
	id, err := sc.tx.InsertPost(sc.ctx, post)
	if err != nil {
		return nil, fmt.Errorf("inserting post: %w", err)
	}
	post.ID = id
	return post, nil
}

func (postLedger) edit(sc *txScope, caller Address, id int64, fingerprint string) error {
	post, err := loadPost(sc, id)
	if err != nil {
		return err
	}
	if post.Author != caller {
		return ErrNotPostEditor
	}
	// A tombstone's fields are frozen.
	if post.Deleted {
		return ErrPostDeleted
	}
	if err := sc.tx.UpdatePostFingerprint(sc.ctx, id, fingerprint); err != nil {
		return fmt.Errorf("updating post %d: %w", id, err)
	}
	return nil
}

func (postLedger) remove(sc *txScope, caller Address, id int64) error {
	post, err := loadPost(sc, id)
	if err != nil {
		return err
	}
	if post.Author != caller {
		return ErrNotPostDeleter
	}
	if post.Deleted {
		return ErrPostDeleted
	}
	if err := sc.tx.MarkPostDeleted(sc.ctx, id); err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}
	return nil
}
