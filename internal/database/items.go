package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// Compile-time check that Database satisfies the repository contract.
var _ catalog.Repository = (*Database)(nil)

// SaveItems inserts or updates items in one transaction. DateLastSaved
// is stamped on every item as a side effect so the in-memory copy and
// the stored row agree.
func (d *Database) SaveItems(ctx context.Context, items []*catalog.Item) error {
	if len(items) == 0 {
		return nil
	}

	start := time.Now()
	var err error
	defer func() { recordQuery("save_items", start, err) }()

	tx, err := d.BeginBatch()
	if err != nil {
		return fmt.Errorf("beginning save batch: %w", err)
	}

	now := time.Now().UTC()
	for _, item := range items {
		if err = ctx.Err(); err != nil {
			break
		}
		item.DateLastSaved = now
		if err = upsertItem(tx, item); err != nil {
			err = fmt.Errorf("saving %s: %w", item.Path, err)
			break
		}
		if len(item.People) > 0 {
			if err = replacePeople(tx, item.ID, item.People); err != nil {
				err = fmt.Errorf("saving people for %s: %w", item.Path, err)
				break
			}
		}
	}

	err = d.EndBatch(tx, err)
	if err == nil {
		metrics.DBRowsAffected.WithLabelValues("save_items").Observe(float64(len(items)))
	}
	return err
}

// upsertItem inserts or updates one item record within a transaction.
// date_created is the first-seen time and survives later upserts.
func upsertItem(tx *sql.Tx, item *catalog.Item) error {
	partPaths, err := encodeStrings(item.PartPaths)
	if err != nil {
		return fmt.Errorf("encoding part paths: %w", err)
	}
	altPaths, err := encodeStrings(item.AlternatePaths)
	if err != nil {
		return fmt.Errorf("encoding alternate paths: %w", err)
	}
	extraIDs, err := encodeStrings(item.ExtraIDs)
	if err != nil {
		return fmt.Errorf("encoding extra IDs: %w", err)
	}
	childIDs, err := encodeStrings(item.ChildIDs)
	if err != nil {
		return fmt.Errorf("encoding child IDs: %w", err)
	}
	images, err := encodeImages(item.Images)
	if err != nil {
		return fmt.Errorf("encoding images: %w", err)
	}

	query := `
	INSERT INTO items (` + itemColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		kind = excluded.kind,
		name = excluded.name,
		path = excluded.path,
		parent_id = excluded.parent_id,
		top_parent_id = excluded.top_parent_id,
		source = excluded.source,
		collection_type = excluded.collection_type,
		year = excluded.year,
		index_number = excluded.index_number,
		end_index_number = excluded.end_index_number,
		parent_index_number = excluded.parent_index_number,
		absolute_index = excluded.absolute_index,
		premiere_date = excluded.premiere_date,
		extra_kind = excluded.extra_kind,
		owner_id = excluded.owner_id,
		part_paths = excluded.part_paths,
		alternate_paths = excluded.alternate_paths,
		extra_ids = excluded.extra_ids,
		child_ids = excluded.child_ids,
		images = excluded.images,
		is_virtual = excluded.is_virtual,
		size = excluded.size,
		date_created = CASE WHEN items.date_created != 0 THEN items.date_created ELSE excluded.date_created END,
		date_modified = excluded.date_modified,
		date_last_saved = excluded.date_last_saved
	`

	// Use background context since we're within a transaction.
	// The transaction itself controls the operation's lifecycle.
	_, err = tx.ExecContext(context.Background(), query,
		item.ID, string(item.Kind), item.Name, item.Path, item.ParentID, item.TopParentID,
		string(item.Source), item.CollectionType, item.Year, item.IndexNumber, item.EndIndexNumber,
		item.ParentIndexNumber, item.AbsoluteIndex, timeToDB(item.PremiereDate),
		string(item.ExtraKind), item.OwnerID, partPaths, altPaths, extraIDs, childIDs, images,
		item.IsVirtual, item.Size,
		timeToDB(item.DateCreated), timeToDB(item.DateModified), timeToDB(item.DateLastSaved),
	)
	return err
}

// replacePeople swaps the people rows for an item within a transaction.
func replacePeople(tx *sql.Tx, itemID string, people []catalog.PersonRef) error {
	if _, err := tx.ExecContext(context.Background(),
		`DELETE FROM people WHERE item_id = ?`, itemID); err != nil {
		return err
	}
	for n, p := range people {
		if _, err := tx.ExecContext(context.Background(), `
			INSERT INTO people (item_id, name, role, person_type, sort_order)
			VALUES (?, ?, ?, ?, ?)`,
			itemID, p.Name, p.Role, p.Type, n,
		); err != nil {
			return err
		}
	}
	return nil
}

// RetrieveItem fetches one item by ID. A miss returns (nil, nil).
func (d *Database) RetrieveItem(ctx context.Context, id string) (*catalog.Item, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("retrieve_item", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	d.mu.RLock()
	row := d.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	d.mu.RUnlock()

	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving item %s: %w", id, err)
	}

	if err = d.attachPeople(ctx, []*catalog.Item{item}); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item and its people links. Deleting an unknown
// ID is not an error.
func (d *Database) DeleteItem(ctx context.Context, id string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_item", start, err) }()

	tx, err := d.BeginBatch()
	if err != nil {
		return fmt.Errorf("beginning delete batch: %w", err)
	}

	_, err = tx.ExecContext(context.Background(), `DELETE FROM people WHERE item_id = ?`, id)
	if err == nil {
		var result sql.Result
		result, err = tx.ExecContext(context.Background(), `DELETE FROM items WHERE id = ?`, id)
		if err == nil {
			if rows, _ := result.RowsAffected(); rows > 0 {
				metrics.DBRowsAffected.WithLabelValues("delete_item").Observe(float64(rows))
			}
		}
	}

	err = d.EndBatch(tx, err)
	if err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	return nil
}

// UpdatePeople replaces the people linked to an item.
func (d *Database) UpdatePeople(ctx context.Context, itemID string, people []catalog.PersonRef) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("update_people", start, err) }()

	tx, err := d.BeginBatch()
	if err != nil {
		return fmt.Errorf("beginning people batch: %w", err)
	}

	err = replacePeople(tx, itemID, people)
	err = d.EndBatch(tx, err)
	if err != nil {
		return fmt.Errorf("updating people for %s: %w", itemID, err)
	}
	return nil
}

// UpdateInheritedValues recomputes top_parent_id for the whole catalog.
// Items whose parent is the physical root are their own top parents, as
// is the root itself; everything below inherits from its parent. Rows
// the lineage walk cannot reach (orphans) keep their stored value.
func (d *Database) UpdateInheritedValues(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("update_inherited", start, err) }()

	query := `
	WITH RECURSIVE lineage(id, top) AS (
		SELECT id, id FROM items
		 WHERE parent_id = ''
		    OR parent_id IN (SELECT id FROM items WHERE parent_id = '')
		UNION ALL
		SELECT child.id, lineage.top
		  FROM items child
		  JOIN lineage ON child.parent_id = lineage.id
		 WHERE child.parent_id != ''
		   AND child.parent_id NOT IN (SELECT id FROM items WHERE parent_id = '')
	)
	UPDATE items
	   SET top_parent_id = (SELECT top FROM lineage WHERE lineage.id = items.id)
	 WHERE EXISTS (
		SELECT 1 FROM lineage
		 WHERE lineage.id = items.id AND lineage.top != items.top_parent_id
	 )
	`

	d.mu.RLock()
	result, err := d.db.ExecContext(ctx, query)
	d.mu.RUnlock()

	if err != nil {
		return fmt.Errorf("recomputing top parents: %w", err)
	}

	if rows, raErr := result.RowsAffected(); raErr == nil && rows > 0 {
		metrics.DBRowsAffected.WithLabelValues("update_inherited").Observe(float64(rows))
		logging.Debug("Recomputed top parent for %d items", rows)
	}
	return nil
}
