package database

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"social-go/internal/social"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestLedger creates a new in-memory ledger with migrations applied.
func newTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()

	l, err := NewSQLiteLedger(":memory:")
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}

	if err := l.MigrateUp(); err != nil {
		l.Close()
		t.Fatalf("failed to migrate ledger: %v", err)
	}

	t.Cleanup(func() {
		l.Close()
	})

	return l
}

func insertPost(t *testing.T, l *SQLiteLedger, author social.Address, fingerprint string) int64 {
	t.Helper()

	var id int64
	err := l.Update(context.Background(), func(tx social.LedgerTx) error {
		var err error
		id, err = tx.InsertPost(context.Background(), &social.Post{
			Author:      author,
			Fingerprint: fingerprint,
			CreatedAt:   testTime,
		})
		return err
	})
	if err != nil {
		t.Fatalf("InsertPost() error = %v", err)
	}
	return id
}

func getPost(t *testing.T, l *SQLiteLedger, id int64) *social.Post {
	t.Helper()

	var post *social.Post
	err := l.View(context.Background(), func(tx social.LedgerTx) error {
		var err error
		post, err = tx.GetPost(context.Background(), id)
		return err
	})
	if err != nil {
		t.Fatalf("GetPost() error = %v", err)
	}
	return post
}

func TestSQLiteLedger_Posts(t *testing.T) {
	ctx := context.Background()

	t.Run("returns nil when post not found", func(t *testing.T) {
		l := newTestLedger(t)

		if post := getPost(t, l, 1); post != nil {
			t.Errorf("GetPost() = %+v, want nil", post)
		}
	})

	t.Run("assigns dense ids starting at one", func(t *testing.T) {
		l := newTestLedger(t)

		for want := int64(1); want <= 3; want++ {
			if got := insertPost(t, l, "alice", "0x01"); got != want {
				t.Errorf("InsertPost() id = %d, want %d", got, want)
			}
		}
	})

	t.Run("stores every field", func(t *testing.T) {
		l := newTestLedger(t)
		id := insertPost(t, l, "alice", "0xabc")

		post := getPost(t, l, id)
		if post == nil {
			t.Fatal("GetPost() returned nil")
		}
		if post.Author != "alice" || post.Fingerprint != "0xabc" {
			t.Errorf("post = %+v, want author alice and fingerprint 0xabc", post)
		}
		if post.Deleted || post.LikeCount != 0 || post.CommentCount != 0 || post.TipTotal != 0 {
			t.Errorf("post = %+v, want fresh counters", post)
		}
		if !post.CreatedAt.Equal(testTime) {
			t.Errorf("CreatedAt = %v, want %v", post.CreatedAt, testTime)
		}
	})

	t.Run("rolled back insert frees its id", func(t *testing.T) {
		l := newTestLedger(t)
		boom := errors.New("boom")

		err := l.Update(ctx, func(tx social.LedgerTx) error {
			if _, err := tx.InsertPost(ctx, &social.Post{Author: "alice", Fingerprint: "0x01", CreatedAt: testTime}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Update() error = %v, want %v", err, boom)
		}

		if got := insertPost(t, l, "alice", "0x02"); got != 1 {
			t.Errorf("InsertPost() after rollback id = %d, want 1", got)
		}
	})

	t.Run("lists with and without deleted posts", func(t *testing.T) {
		l := newTestLedger(t)
		insertPost(t, l, "alice", "0x01")
		deleted := insertPost(t, l, "alice", "0x02")
		insertPost(t, l, "bob", "0x03")

		err := l.Update(ctx, func(tx social.LedgerTx) error {
			return tx.MarkPostDeleted(ctx, deleted)
		})
		if err != nil {
			t.Fatalf("MarkPostDeleted() error = %v", err)
		}

		tests := []struct {
			includeDeleted bool
			wantIDs        []int64
		}{
			{includeDeleted: false, wantIDs: []int64{1, 3}},
			{includeDeleted: true, wantIDs: []int64{1, 2, 3}},
		}
		for _, tt := range tests {
			var posts []*social.Post
			err := l.View(ctx, func(tx social.LedgerTx) error {
				var err error
				posts, err = tx.ListPosts(ctx, tt.includeDeleted)
				return err
			})
			if err != nil {
				t.Fatalf("ListPosts(%v) error = %v", tt.includeDeleted, err)
			}
			if len(posts) != len(tt.wantIDs) {
				t.Fatalf("ListPosts(%v) returned %d posts, want %d", tt.includeDeleted, len(posts), len(tt.wantIDs))
			}
			for i, p := range posts {
				if p.ID != tt.wantIDs[i] {
					t.Errorf("ListPosts(%v)[%d].ID = %d, want %d", tt.includeDeleted, i, p.ID, tt.wantIDs[i])
				}
			}
		}

		var count int64
		err = l.View(ctx, func(tx social.LedgerTx) error {
			var err error
			count, err = tx.CountPosts(ctx)
			return err
		})
		if err != nil {
			t.Fatalf("CountPosts() error = %v", err)
		}
		if count != 3 {
			t.Errorf("CountPosts() = %d, want 3", count)
		}
	})

	t.Run("updates fingerprint", func(t *testing.T) {
		l := newTestLedger(t)
		id := insertPost(t, l, "alice", "0x01")

		err := l.Update(ctx, func(tx social.LedgerTx) error {
			return tx.UpdatePostFingerprint(ctx, id, "0x02")
		})
		if err != nil {
			t.Fatalf("UpdatePostFingerprint() error = %v", err)
		}
		if got := getPost(t, l, id).Fingerprint; got != "0x02" {
			t.Errorf("Fingerprint = %q, want %q", got, "0x02")
		}
	})

	t.Run("update of missing post fails", func(t *testing.T) {
		l := newTestLedger(t)

		err := l.Update(ctx, func(tx social.LedgerTx) error {
			return tx.UpdatePostFingerprint(ctx, 7, "0x02")
		})
		if err == nil {
			t.Error("UpdatePostFingerprint() on missing post expected error")
		}
	})
}

func TestSQLiteLedger_LikeCount(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	id := insertPost(t, l, "alice", "0x01")

	err := l.Update(ctx, func(tx social.LedgerTx) error {
		if err := tx.AdjustLikeCount(ctx, id, 1); err != nil {
			return err
		}
		return tx.AdjustLikeCount(ctx, id, 1)
	})
	if err != nil {
		t.Fatalf("AdjustLikeCount() error = %v", err)
	}
	if got := getPost(t, l, id).LikeCount; got != 2 {
		t.Errorf("LikeCount = %d, want 2", got)
	}

	err = l.Update(ctx, func(tx social.LedgerTx) error {
		return tx.AdjustLikeCount(ctx, id, -3)
	})
	if err == nil {
		t.Fatal("AdjustLikeCount() below zero expected error")
	}
	if got := getPost(t, l, id).LikeCount; got != 2 {
		t.Errorf("LikeCount after refused decrement = %d, want 2", got)
	}
}

func TestSQLiteLedger_Reactions(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	id := insertPost(t, l, "alice", "0x01")

	read := func() social.Reaction {
		t.Helper()
		var r social.Reaction
		err := l.View(ctx, func(tx social.LedgerTx) error {
			var err error
			r, err = tx.GetReaction(ctx, id, "bob")
			return err
		})
		if err != nil {
			t.Fatalf("GetReaction() error = %v", err)
		}
		return r
	}
	set := func(r social.Reaction) {
		t.Helper()
		err := l.Update(ctx, func(tx social.LedgerTx) error {
			return tx.SetReaction(ctx, id, "bob", r, testTime)
		})
		if err != nil {
			t.Fatalf("SetReaction(%s) error = %v", r, err)
		}
	}

	if got := read(); got != social.ReactionNone {
		t.Errorf("initial reaction = %s, want none", got)
	}

	for _, r := range []social.Reaction{social.ReactionLiked, social.ReactionDisliked, social.ReactionLiked, social.ReactionNone} {
		set(r)
		if got := read(); got != r {
			t.Errorf("reaction after SetReaction(%s) = %s", r, got)
		}
	}
}

func TestSQLiteLedger_CommentsAndTips(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	id := insertPost(t, l, "alice", "0x01")

	err := l.Update(ctx, func(tx social.LedgerTx) error {
		for _, fp := range []string{"0xc1", "0xc2"} {
			if _, err := tx.InsertComment(ctx, &social.Comment{PostID: id, Author: "bob", Fingerprint: fp, CreatedAt: testTime}); err != nil {
				return err
			}
		}
		if err := tx.InsertTip(ctx, &social.Tip{PostID: id, Sender: "bob", Recipient: "alice", Amount: 7, CreatedAt: testTime}); err != nil {
			return err
		}
		return tx.InsertTip(ctx, &social.Tip{PostID: id, Sender: "carol", Recipient: "alice", Amount: 5, CreatedAt: testTime})
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	post := getPost(t, l, id)
	if post.CommentCount != 2 {
		t.Errorf("CommentCount = %d, want 2", post.CommentCount)
	}
	if post.TipTotal != 12 {
		t.Errorf("TipTotal = %d, want 12", post.TipTotal)
	}

	var comments []*social.Comment
	err = l.View(ctx, func(tx social.LedgerTx) error {
		var err error
		comments, err = tx.ListComments(ctx, id)
		return err
	})
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if len(comments) != 2 || comments[0].Fingerprint != "0xc1" || comments[1].Fingerprint != "0xc2" {
		t.Errorf("ListComments() = %+v, want 0xc1 then 0xc2", comments)
	}

	t.Run("comment on missing post fails", func(t *testing.T) {
		err := l.Update(ctx, func(tx social.LedgerTx) error {
			_, err := tx.InsertComment(ctx, &social.Comment{PostID: 99, Author: "bob", Fingerprint: "0x01", CreatedAt: testTime})
			return err
		})
		if err == nil {
			t.Error("InsertComment() on missing post expected error")
		}
	})
}

func TestSQLiteLedger_AmountBounds(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	id := insertPost(t, l, "alice", "0x01")

	tip := func(amount uint64) error {
		return l.Update(ctx, func(tx social.LedgerTx) error {
			return tx.InsertTip(ctx, &social.Tip{PostID: id, Sender: "bob", Recipient: "alice", Amount: amount, CreatedAt: testTime})
		})
	}

	t.Run("amount above MaxInt64 is refused", func(t *testing.T) {
		if err := tip(1 << 63); !errors.Is(err, ErrAmountTooLarge) {
			t.Errorf("InsertTip(1<<63) error = %v, want ErrAmountTooLarge", err)
		}
		err := l.Update(ctx, func(tx social.LedgerTx) error {
			return tx.InsertPayout(ctx, &social.Payout{Account: "alice", Action: social.ActionPost, PostID: id, Amount: math.MaxUint64, CreatedAt: testTime})
		})
		if !errors.Is(err, ErrAmountTooLarge) {
			t.Errorf("InsertPayout(MaxUint64) error = %v, want ErrAmountTooLarge", err)
		}
	})

	t.Run("tip total stays an integer", func(t *testing.T) {
		if err := tip(math.MaxInt64); err != nil {
			t.Fatalf("InsertTip(MaxInt64) error = %v", err)
		}
		if err := tip(10); err == nil {
			t.Error("InsertTip() past MaxInt64 total expected error")
		}

		post := getPost(t, l, id)
		if post.TipTotal != math.MaxInt64 {
			t.Errorf("TipTotal = %d, want %d", post.TipTotal, int64(math.MaxInt64))
		}
	})
}

func TestSQLiteLedger_PayoutsAndEvents(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	id := insertPost(t, l, "alice", "0x01")

	err := l.Update(ctx, func(tx social.LedgerTx) error {
		payouts := []*social.Payout{
			{Account: "alice", Action: social.ActionPost, PostID: id, Amount: 5, CreatedAt: testTime},
			{Account: "bob", Action: social.ActionLike, PostID: id, Amount: 1, CreatedAt: testTime},
		}
		for _, p := range payouts {
			if err := tx.InsertPayout(ctx, p); err != nil {
				return err
			}
		}
		for i, kind := range []social.EventKind{social.EventPostCreated, social.EventPostLiked, social.EventPostTipped} {
			e := &social.Event{
				ID:        string(rune('a' + i)),
				Kind:      kind,
				PostID:    id,
				Account:   "bob",
				Amount:    uint64(i),
				CreatedAt: testTime,
			}
			if err := tx.AppendEvent(ctx, e); err != nil {
				return err
			}
			if e.Seq != int64(i+1) {
				t.Errorf("AppendEvent() Seq = %d, want %d", e.Seq, i+1)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	t.Run("lists payouts by account", func(t *testing.T) {
		var all, bobs []*social.Payout
		err := l.View(ctx, func(tx social.LedgerTx) error {
			var err error
			if all, err = tx.ListPayouts(ctx, ""); err != nil {
				return err
			}
			bobs, err = tx.ListPayouts(ctx, "bob")
			return err
		})
		if err != nil {
			t.Fatalf("ListPayouts() error = %v", err)
		}
		if len(all) != 2 {
			t.Errorf("len(ListPayouts(all)) = %d, want 2", len(all))
		}
		if len(bobs) != 1 || bobs[0].Action != social.ActionLike || bobs[0].Amount != 1 {
			t.Errorf("ListPayouts(bob) = %+v, want one like payout of 1", bobs)
		}
	})

	t.Run("lists events after a sequence", func(t *testing.T) {
		tests := []struct {
			after    int64
			limit    int
			wantSeqs []int64
		}{
			{after: 0, limit: 0, wantSeqs: []int64{1, 2, 3}},
			{after: 1, limit: 0, wantSeqs: []int64{2, 3}},
			{after: 0, limit: 2, wantSeqs: []int64{1, 2}},
			{after: 3, limit: 10, wantSeqs: nil},
		}
		for _, tt := range tests {
			var events []*social.Event
			err := l.View(ctx, func(tx social.LedgerTx) error {
				var err error
				events, err = tx.ListEvents(ctx, tt.after, tt.limit)
				return err
			})
			if err != nil {
				t.Fatalf("ListEvents(%d, %d) error = %v", tt.after, tt.limit, err)
			}
			if len(events) != len(tt.wantSeqs) {
				t.Fatalf("ListEvents(%d, %d) returned %d events, want %d", tt.after, tt.limit, len(events), len(tt.wantSeqs))
			}
			for i, e := range events {
				if e.Seq != tt.wantSeqs[i] {
					t.Errorf("ListEvents(%d, %d)[%d].Seq = %d, want %d", tt.after, tt.limit, i, e.Seq, tt.wantSeqs[i])
				}
			}
		}
	})
}

func TestSQLiteLedger_BackupTo(t *testing.T) {
	l := newTestLedger(t)
	insertPost(t, l, "alice", "0x01")

	dest := filepath.Join(t.TempDir(), "backup.db")
	if err := l.BackupTo(dest); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}

	restored, err := NewSQLiteLedger(dest)
	if err != nil {
		t.Fatalf("opening backup: %v", err)
	}
	defer restored.Close()

	if err := restored.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() on backup error = %v", err)
	}
	if post := getPost(t, restored, 1); post == nil || post.Fingerprint != "0x01" {
		t.Errorf("backup post = %+v, want fingerprint 0x01", post)
	}
}
