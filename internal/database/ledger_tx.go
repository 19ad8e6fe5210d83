package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"social-go/internal/social"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ledgerTx implements social.LedgerTx on top of one SQLite transaction.
type ledgerTx struct {
	q DBTX
}

var _ social.LedgerTx = (*ledgerTx)(nil)

const postColumns = `id, author, fingerprint, deleted, like_count, comment_count, tip_total, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*social.Post, error) {
	var (
		p        social.Post
		author   string
		tipTotal int64
	)
	err := row.Scan(&p.ID, &author, &p.Fingerprint, &p.Deleted, &p.LikeCount, &p.CommentCount, &tipTotal, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Author = social.Address(author)
	p.TipTotal = uint64(tipTotal)
	return &p, nil
}

// ErrAmountTooLarge is returned for amounts SQLite cannot hold as an INTEGER.
var ErrAmountTooLarge = errors.New("amount exceeds the storable maximum")

// storedAmount converts an amount to the signed column type.
func storedAmount(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("storing amount %d: %w", v, ErrAmountTooLarge)
	}
	return int64(v), nil
}

// execOne runs a statement that must touch exactly one row.
func (t *ledgerTx) execOne(ctx context.Context, query string, args ...any) error {
	res, err := t.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("expected 1 row affected, got %d", n)
	}
	return nil
}

// Post operations

func (t *ledgerTx) InsertPost(ctx context.Context, post *social.Post) (int64, error) {
	// INTEGER PRIMARY KEY without AUTOINCREMENT takes MAX(id)+1. Posts are
	// never removed, so IDs stay dense and a rolled back insert frees its ID.
	res, err := t.q.ExecContext(ctx,
		`INSERT INTO posts (author, fingerprint, created_at) VALUES (?, ?, ?)`,
		string(post.Author), post.Fingerprint, post.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading post id: %w", err)
	}
	return id, nil
}

func (t *ledgerTx) GetPost(ctx context.Context, id int64) (*social.Post, error) {
	row := t.q.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding post by id: %w", err)
	}
	return post, nil
}

func (t *ledgerTx) ListPosts(ctx context.Context, includeDeleted bool) ([]*social.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE deleted = 0 ORDER BY id`
	if includeDeleted {
		query = `SELECT ` + postColumns + ` FROM posts ORDER BY id`
	}

	rows, err := t.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []*social.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

func (t *ledgerTx) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	if err := t.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting posts: %w", err)
	}
	return n, nil
}

func (t *ledgerTx) UpdatePostFingerprint(ctx context.Context, id int64, fingerprint string) error {
	if err := t.execOne(ctx, `UPDATE posts SET fingerprint = ? WHERE id = ?`, fingerprint, id); err != nil {
		return fmt.Errorf("updating post fingerprint: %w", err)
	}
	return nil
}

func (t *ledgerTx) MarkPostDeleted(ctx context.Context, id int64) error {
	if err := t.execOne(ctx, `UPDATE posts SET deleted = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("marking post deleted: %w", err)
	}
	return nil
}

func (t *ledgerTx) AdjustLikeCount(ctx context.Context, id int64, delta int64) error {
	// The like_count CHECK constraint refuses a negative result.
	if err := t.execOne(ctx, `UPDATE posts SET like_count = like_count + ? WHERE id = ?`, delta, id); err != nil {
		return fmt.Errorf("adjusting like count: %w", err)
	}
	return nil
}

// Reaction operations

func (t *ledgerTx) GetReaction(ctx context.Context, postID int64, account social.Address) (social.Reaction, error) {
	var state int
	err := t.q.QueryRowContext(ctx,
		`SELECT state FROM reactions WHERE post_id = ? AND account = ?`,
		postID, string(account)).Scan(&state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return social.ReactionNone, nil
		}
		return social.ReactionNone, fmt.Errorf("finding reaction: %w", err)
	}
	return social.Reaction(state), nil
}

func (t *ledgerTx) SetReaction(ctx context.Context, postID int64, account social.Address, r social.Reaction, at time.Time) error {
	if r == social.ReactionNone {
		_, err := t.q.ExecContext(ctx,
			`DELETE FROM reactions WHERE post_id = ? AND account = ?`,
			postID, string(account))
		if err != nil {
			return fmt.Errorf("clearing reaction: %w", err)
		}
		return nil
	}

	_, err := t.q.ExecContext(ctx, `
		INSERT INTO reactions (post_id, account, state, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (post_id, account) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		postID, string(account), int(r), at)
	if err != nil {
		return fmt.Errorf("storing reaction: %w", err)
	}
	return nil
}

// Comment operations

func (t *ledgerTx) InsertComment(ctx context.Context, c *social.Comment) (int64, error) {
	res, err := t.q.ExecContext(ctx,
		`INSERT INTO comments (post_id, author, fingerprint, created_at) VALUES (?, ?, ?, ?)`,
		c.PostID, string(c.Author), c.Fingerprint, c.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading comment id: %w", err)
	}

	if err := t.execOne(ctx, `UPDATE posts SET comment_count = comment_count + 1 WHERE id = ?`, c.PostID); err != nil {
		return 0, fmt.Errorf("incrementing comment count: %w", err)
	}

	c.ID = id
	return id, nil
}

func (t *ledgerTx) ListComments(ctx context.Context, postID int64) ([]*social.Comment, error) {
	rows, err := t.q.QueryContext(ctx,
		`SELECT id, post_id, author, fingerprint, created_at FROM comments WHERE post_id = ? ORDER BY id`,
		postID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*social.Comment
	for rows.Next() {
		var (
			c      social.Comment
			author string
		)
		if err := rows.Scan(&c.ID, &c.PostID, &author, &c.Fingerprint, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		c.Author = social.Address(author)
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	return comments, nil
}

// Tip operations

func (t *ledgerTx) InsertTip(ctx context.Context, tip *social.Tip) error {
	amount, err := storedAmount(tip.Amount)
	if err != nil {
		return err
	}

	_, err = t.q.ExecContext(ctx,
		`INSERT INTO tips (post_id, sender, recipient, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		tip.PostID, string(tip.Sender), string(tip.Recipient), amount, tip.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting tip: %w", err)
	}

	// The bound keeps tip_total an INTEGER; past MaxInt64 SQLite would store a REAL.
	err = t.execOne(ctx,
		`UPDATE posts SET tip_total = tip_total + ? WHERE id = ? AND tip_total <= ? - ?`,
		amount, tip.PostID, int64(math.MaxInt64), amount)
	if err != nil {
		return fmt.Errorf("adding to tip total of post %d: %w", tip.PostID, err)
	}
	return nil
}

// Reward accounting

func (t *ledgerTx) InsertPayout(ctx context.Context, p *social.Payout) error {
	amount, err := storedAmount(p.Amount)
	if err != nil {
		return err
	}

	res, err := t.q.ExecContext(ctx,
		`INSERT INTO payouts (account, action, post_id, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(p.Account), string(p.Action), p.PostID, amount, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting payout: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading payout id: %w", err)
	}
	p.ID = id
	return nil
}

func (t *ledgerTx) ListPayouts(ctx context.Context, account social.Address) ([]*social.Payout, error) {
	query := `SELECT id, account, action, post_id, amount, created_at FROM payouts`
	var args []any
	if account != "" {
		query += ` WHERE account = ?`
		args = append(args, string(account))
	}
	query += ` ORDER BY id`

	rows, err := t.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing payouts: %w", err)
	}
	defer rows.Close()

	var payouts []*social.Payout
	for rows.Next() {
		var (
			p       social.Payout
			account string
			action  string
			amount  int64
		)
		if err := rows.Scan(&p.ID, &account, &action, &p.PostID, &amount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning payout: %w", err)
		}
		p.Account = social.Address(account)
		p.Action = social.Action(action)
		p.Amount = uint64(amount)
		payouts = append(payouts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing payouts: %w", err)
	}
	return payouts, nil
}

// Events

func (t *ledgerTx) AppendEvent(ctx context.Context, e *social.Event) error {
	amount, err := storedAmount(e.Amount)
	if err != nil {
		return err
	}

	res, err := t.q.ExecContext(ctx, `
		INSERT INTO events (id, kind, post_id, account, fingerprint, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.PostID, string(e.Account), e.Fingerprint, amount, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading event seq: %w", err)
	}
	e.Seq = seq
	return nil
}

func (t *ledgerTx) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]*social.Event, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := t.q.QueryContext(ctx, `
		SELECT seq, id, kind, post_id, account, fingerprint, amount, created_at
		FROM events WHERE seq > ? ORDER BY seq LIMIT ?`,
		afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []*social.Event
	for rows.Next() {
		var (
			e       social.Event
			kind    string
			account string
			amount  int64
		)
		if err := rows.Scan(&e.Seq, &e.ID, &kind, &e.PostID, &account, &e.Fingerprint, &amount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Kind = social.EventKind(kind)
		e.Account = social.Address(account)
		e.Amount = uint64(amount)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}
