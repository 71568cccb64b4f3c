package database

import (
	"encoding/json"
	"fmt"
	"time"

	"media-catalog/internal/catalog"
)

// itemColumns is the canonical column order shared by every SELECT and
// the upsert. scanItem must stay in sync with it.
const itemColumns = `id, kind, name, path, parent_id, top_parent_id, source, collection_type,
	year, index_number, end_index_number, parent_index_number, absolute_index, premiere_date,
	extra_kind, owner_id, part_paths, alternate_paths, extra_ids, child_ids, images,
	is_virtual, size, date_created, date_modified, date_last_saved`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanItem reads one items row in itemColumns order.
func scanItem(s rowScanner) (*catalog.Item, error) {
	var (
		item      catalog.Item
		kind      string
		source    string
		extraKind string
		partPaths string
		altPaths  string
		extraIDs  string
		childIDs  string
		images    string
		premiere  int64
		created   int64
		modified  int64
		lastSaved int64
	)

	err := s.Scan(
		&item.ID, &kind, &item.Name, &item.Path, &item.ParentID, &item.TopParentID,
		&source, &item.CollectionType, &item.Year, &item.IndexNumber, &item.EndIndexNumber,
		&item.ParentIndexNumber, &item.AbsoluteIndex, &premiere, &extraKind, &item.OwnerID,
		&partPaths, &altPaths, &extraIDs, &childIDs, &images,
		&item.IsVirtual, &item.Size, &created, &modified, &lastSaved,
	)
	if err != nil {
		return nil, err
	}

	item.Kind = catalog.Kind(kind)
	item.Source = catalog.SourceKind(source)
	item.ExtraKind = catalog.ExtraKind(extraKind)
	item.PremiereDate = timeFromDB(premiere)
	item.DateCreated = timeFromDB(created)
	item.DateModified = timeFromDB(modified)
	item.DateLastSaved = timeFromDB(lastSaved)

	if item.PartPaths, err = decodeStrings(partPaths); err != nil {
		return nil, fmt.Errorf("decoding part paths for %s: %w", item.ID, err)
	}
	if item.AlternatePaths, err = decodeStrings(altPaths); err != nil {
		return nil, fmt.Errorf("decoding alternate paths for %s: %w", item.ID, err)
	}
	if item.ExtraIDs, err = decodeStrings(extraIDs); err != nil {
		return nil, fmt.Errorf("decoding extra IDs for %s: %w", item.ID, err)
	}
	if item.ChildIDs, err = decodeStrings(childIDs); err != nil {
		return nil, fmt.Errorf("decoding child IDs for %s: %w", item.ID, err)
	}
	if item.Images, err = decodeImages(images); err != nil {
		return nil, fmt.Errorf("decoding images for %s: %w", item.ID, err)
	}

	return &item, nil
}

// encodeStrings stores a string slice as JSON text. Empty slices are
// stored as the empty string so unset columns stay cheap to compare.
func encodeStrings(vals []string) (string, error) {
	if len(vals) == 0 {
		return "", nil
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeStrings(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var vals []string
	if err := json.Unmarshal([]byte(s), &vals); err != nil {
		return nil, err
	}
	return vals, nil
}

func encodeImages(imgs []catalog.ImageInfo) (string, error) {
	if len(imgs) == 0 {
		return "", nil
	}
	b, err := json.Marshal(imgs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeImages(s string) ([]catalog.ImageInfo, error) {
	if s == "" {
		return nil, nil
	}
	var imgs []catalog.ImageInfo
	if err := json.Unmarshal([]byte(s), &imgs); err != nil {
		return nil, err
	}
	return imgs, nil
}

// timeToDB stores timestamps as Unix nanoseconds. The zero time maps to
// 0; UnixNano is undefined for it.
func timeToDB(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func timeFromDB(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
