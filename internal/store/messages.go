package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kingshubham139/university-chat/internal/chat"
)

// Append persists a chat message and returns it with id + timestamp assigned.
func (p *Postgres) Append(ctx context.Context, m chat.Message) (chat.Message, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO messages (text, sender, group_name)
		VALUES ($1, $2, $3)
		RETURNING id::text, text, sender, group_name, created_at
	`, m.Text, m.Sender, m.GroupName)

	var out chat.Message
	if err := row.Scan(&out.ID, &out.Text, &out.Sender, &out.GroupName, &out.CreatedAt); err != nil {
		return chat.Message{}, err
	}
	if p.cache != nil {
		p.cache.Invalidate(ctx, out.GroupName)
	}
	return out, nil
}

// GetByID fetches a single message. A malformed id is treated the same as
// a missing one.
func (p *Postgres) GetByID(ctx context.Context, id string) (chat.Message, error) {
	if _, err := uuid.Parse(id); err != nil {
		return chat.Message{}, chat.ErrMessageNotFound
	}

	row := p.pool.QueryRow(ctx, `
		SELECT id::text, text, sender, group_name, created_at
		FROM messages
		WHERE id = $1
	`, id)

	var m chat.Message
	if err := row.Scan(&m.ID, &m.Text, &m.Sender, &m.GroupName, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return chat.Message{}, chat.ErrMessageNotFound
		}
		return chat.Message{}, err
	}
	return m, nil
}

// DeleteByID removes a message and reports whether it existed.
func (p *Postgres) DeleteByID(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	row := p.pool.QueryRow(ctx, `
		DELETE FROM messages WHERE id = $1 RETURNING group_name
	`, id)

	var groupName string
	if err := row.Scan(&groupName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if p.cache != nil {
		p.cache.Invalidate(ctx, groupName)
	}
	return true, nil
}

// ListRecent returns the latest messages for a group, oldest first, for
// clients catching up after joining. Served from the redis cache when warm.
func (p *Postgres) ListRecent(ctx context.Context, groupName string, limit int) ([]chat.Message, error) {
	if p.cache != nil {
		if msgs, ok := p.cache.Get(ctx, groupName); ok {
			return msgs, nil
		}
	}

	rows, err := p.pool.Query(ctx, `
		SELECT id::text, text, sender, group_name, created_at
		FROM messages
		WHERE group_name = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, groupName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}

	// Flip newest-first query order into chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if p.cache != nil {
		p.cache.Fill(ctx, groupName, out)
	}
	return out, nil
}

// ListAll returns messages across every group, newest first, for the
// admin surface.
func (p *Postgres) ListAll(ctx context.Context, limit int) ([]chat.Message, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id::text, text, sender, group_name, created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]chat.Message, error) {
	var out []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.Text, &m.Sender, &m.GroupName, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
