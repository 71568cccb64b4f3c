package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"media-catalog/internal/catalog"
)

// Query returns items matching the filter, ordered by path. Zero-value
// filter fields are ignored; virtual items are excluded unless the
// filter asks for them.
func (d *Database) Query(ctx context.Context, f catalog.Filter) ([]*catalog.Item, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("query_items", start, err) }()

	query := `SELECT ` + itemColumns + ` FROM items`

	var clauses []string
	var args []interface{}

	if f.ParentID != "" {
		clauses = append(clauses, "parent_id = ?")
		args = append(args, f.ParentID)
	}
	if f.TopParentID != "" {
		clauses = append(clauses, "top_parent_id = ?")
		args = append(args, f.TopParentID)
	}
	if len(f.Kinds) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.Kinds)), ",")
		clauses = append(clauses, "kind IN ("+placeholders+")")
		for _, k := range f.Kinds {
			args = append(args, string(k))
		}
	}
	if f.Name != "" {
		clauses = append(clauses, "name = ? COLLATE NOCASE")
		args = append(args, f.Name)
	}
	if f.Path != "" {
		clauses = append(clauses, "path = ?")
		args = append(args, f.Path)
	}
	if !f.IncludeVirtual {
		clauses = append(clauses, "is_virtual = 0")
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY path"

	d.mu.RLock()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.mu.RUnlock()

	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var items []*catalog.Item
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			err = fmt.Errorf("scan failed: %w", scanErr)
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if err = d.attachPeople(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// peopleChunkSize keeps grouped people lookups under the SQLite bound
// variable limit.
const peopleChunkSize = 500

// attachPeople fills the People field for a batch of items with grouped
// queries.
func (d *Database) attachPeople(ctx context.Context, items []*catalog.Item) error {
	for len(items) > peopleChunkSize {
		if err := d.attachPeopleChunk(ctx, items[:peopleChunkSize]); err != nil {
			return err
		}
		items = items[peopleChunkSize:]
	}
	return d.attachPeopleChunk(ctx, items)
}

func (d *Database) attachPeopleChunk(ctx context.Context, items []*catalog.Item) error {
	if len(items) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(items)), ",")
	args := make([]interface{}, 0, len(items))
	for _, it := range items {
		args = append(args, it.ID)
	}

	query := `
	SELECT item_id, name, role, person_type
	FROM people WHERE item_id IN (` + placeholders + `)
	ORDER BY item_id, sort_order`

	d.mu.RLock()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.mu.RUnlock()

	if err != nil {
		return fmt.Errorf("querying people: %w", err)
	}
	defer rows.Close()

	byItem := make(map[string][]catalog.PersonRef)
	for rows.Next() {
		var itemID string
		var p catalog.PersonRef
		if err := rows.Scan(&itemID, &p.Name, &p.Role, &p.Type); err != nil {
			return fmt.Errorf("scanning person: %w", err)
		}
		byItem[itemID] = append(byItem[itemID], p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("people rows error: %w", err)
	}

	for _, it := range items {
		if people, ok := byItem[it.ID]; ok {
			it.People = people
		}
	}
	return nil
}
