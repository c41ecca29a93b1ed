package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"WxCrawler/internal/domain"
	"WxCrawler/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	nickname     TEXT NOT NULL,
	handle       TEXT NOT NULL UNIQUE,
	description  TEXT NOT NULL DEFAULT '',
	vname        TEXT NOT NULL DEFAULT '',
	avatar       TEXT NOT NULL DEFAULT '',
	active       INTEGER NOT NULL DEFAULT 1,
	last_publish TIMESTAMP,
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS articles (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER NOT NULL REFERENCES accounts(id),
	msg_id     TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	title      TEXT NOT NULL,
	origin     INTEGER NOT NULL DEFAULT 0,
	pub_date   TIMESTAMP NOT NULL,
	url        TEXT NOT NULL DEFAULT '',
	post_url   TEXT NOT NULL DEFAULT '',
	digest     TEXT NOT NULL DEFAULT '',
	author     TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	UNIQUE (msg_id, seq)
);
`

// Open opens the SQLite database at path and bootstraps the schema.
// The pipeline is a single sequential writer, so one connection is
// enough and keeps in-memory databases coherent.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

// AccountRepository persists accounts into SQLite.
type AccountRepository struct {
	db *sql.DB
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository wires a sql.DB implementation.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByHandle returns the account owning the handle, or nil when none
// exists.
func (r *AccountRepository) FindByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	query, args, err := sq.Select(
		"id", "nickname", "handle", "description", "vname", "avatar",
		"active", "last_publish", "created_at", "updated_at").
		From("accounts").
		Where(sq.Eq{"handle": handle}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var (
		account     domain.Account
		lastPublish sql.NullTime
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&account.ID, &account.Nickname, &account.Handle, &account.Description,
		&account.VerifiedName, &account.Avatar, &account.Active,
		&lastPublish, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	if lastPublish.Valid {
		account.LastPublish = &lastPublish.Time
	}
	return &account, nil
}

// Insert stores a newly discovered account and returns its id.
func (r *AccountRepository) Insert(ctx context.Context, account *domain.Account) (int64, error) {
	query, args, err := sq.Insert("accounts").
		Columns("nickname", "handle", "description", "vname", "avatar",
			"active", "last_publish", "created_at", "updated_at").
		Values(account.Nickname, account.Handle, account.Description,
			account.VerifiedName, account.Avatar, account.Active,
			nullableTime(account.LastPublish), account.CreatedAt, account.UpdatedAt).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert account %s: %w", account.Handle, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// UpdateLastPublish refreshes the mutable discovery fields. Nickname,
// handle and avatar are written once on insert and never again.
func (r *AccountRepository) UpdateLastPublish(ctx context.Context, account *domain.Account) error {
	query, args, err := sq.Update("accounts").
		Set("description", account.Description).
		Set("last_publish", nullableTime(account.LastPublish)).
		Set("updated_at", account.UpdatedAt).
		Where(sq.Eq{"handle": account.Handle}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update account %s: %w", account.Handle, err)
	}
	return nil
}

// Count returns the total number of known accounts.
func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("accounts").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}

// ArticleRepository persists feed articles into SQLite.
type ArticleRepository struct {
	db *sql.DB
}

var _ ports.ArticleRepository = (*ArticleRepository)(nil)

// NewArticleRepository wires a sql.DB implementation.
func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// CountByMsgID reports how many rows exist for a message id, across all
// sequence numbers.
func (r *ArticleRepository) CountByMsgID(ctx context.Context, msgID string) (int, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("articles").
		Where(sq.Eq{"msg_id": msgID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// Insert stores the summary-only stage of an article and returns its id.
func (r *ArticleRepository) Insert(ctx context.Context, article *domain.Article) (int64, error) {
	query, args, err := sq.Insert("articles").
		Columns("account_id", "msg_id", "seq", "title", "origin", "pub_date",
			"url", "post_url", "digest", "author", "content",
			"created_at", "updated_at").
		Values(article.AccountID, article.MsgID, article.Seq, article.Title,
			article.Origin, article.PubDate, article.URL, article.PostURL,
			article.Digest, article.Author, article.Content,
			article.CreatedAt, article.UpdatedAt).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert article %s/%d: %w", article.MsgID, article.Seq, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// UpdateEnrichment fills the second-stage fields of a persisted row.
func (r *ArticleRepository) UpdateEnrichment(ctx context.Context, id int64, author, content string) error {
	query, args, err := sq.Update("articles").
		Set("author", author).
		Set("content", content).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update article %d: %w", id, err)
	}
	return nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
