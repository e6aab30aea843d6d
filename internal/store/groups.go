package store

import "context"

// EnsureGroup creates the group on first registration or bumps its member
// counter. The counter is informational only: live presence is derived
// from actual connections in the room registry, never from this value.
func (p *Postgres) EnsureGroup(ctx context.Context, name, createdBy string) (Group, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO groups (group_name, created_by)
		VALUES ($1, $2)
		ON CONFLICT (group_name)
		DO UPDATE SET members_count = groups.members_count + 1
		RETURNING group_name, created_by, members_count, is_active, created_at
	`, name, createdBy)

	var g Group
	if err := row.Scan(&g.GroupName, &g.CreatedBy, &g.MembersCount, &g.Active, &g.CreatedAt); err != nil {
		return Group{}, err
	}
	return g, nil
}
