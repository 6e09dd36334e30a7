package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/slotmenu/internal/attribute"
)

const attributeColumns = `item_id, namespace, name, kind, text_value, int_value, real_value, blob_value, updated_at`

// attributeRepository implements attribute.Container for one item.
type attributeRepository struct {
	db     *sql.DB
	itemID string
}

func newAttributeRepository(db *sql.DB, itemID string) *attributeRepository {
	return &attributeRepository{db: db, itemID: itemID}
}

// Ensure attributeRepository implements attribute.Container.
var _ attribute.Container = (*attributeRepository)(nil)

func scanAttribute(scanner interface{ Scan(...any) error }) (*AttributeModel, error) {
	var model AttributeModel
	err := scanner.Scan(
		&model.ItemID, &model.Namespace, &model.Name, &model.Kind,
		&model.Text, &model.Int, &model.Real, &model.Blob, &model.UpdatedAt,
	)
	return &model, err
}

// Get reads one attribute. A missing row is reported as ok=false.
func (r *attributeRepository) Get(key attribute.Key) (attribute.Value, bool, error) {
	if err := key.Validate(); err != nil {
		return attribute.Value{}, false, err
	}
	row := r.db.QueryRow(
		`SELECT `+attributeColumns+` FROM attributes WHERE item_id = ? AND namespace = ? AND name = ?`,
		r.itemID, key.Namespace, key.Name,
	)
	model, err := scanAttribute(row)
	if errors.Is(err, sql.ErrNoRows) {
		return attribute.Value{}, false, nil
	}
	if err != nil {
		return attribute.Value{}, false, fmt.Errorf("failed to get attribute %s: %w", key, err)
	}
	v, err := model.toValue()
	if err != nil {
		return attribute.Value{}, false, err
	}
	return v, true, nil
}

// Set inserts or replaces one attribute.
func (r *attributeRepository) Set(key attribute.Key, value attribute.Value) error {
	if err := key.Validate(); err != nil {
		return err
	}
	model, err := toAttributeModel(r.itemID, key, value)
	if err != nil {
		return err
	}
	model.UpdatedAt = time.Now().Unix()

	_, err = r.db.Exec(
		`INSERT INTO attributes (`+attributeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_id, namespace, name) DO UPDATE SET
			kind = excluded.kind, text_value = excluded.text_value, int_value = excluded.int_value,
			real_value = excluded.real_value, blob_value = excluded.blob_value, updated_at = excluded.updated_at`,
		model.ItemID, model.Namespace, model.Name, model.Kind,
		model.Text, model.Int, model.Real, model.Blob, model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to set attribute %s: %w", key, err)
	}
	return nil
}

// Remove deletes one attribute; removing a missing key is not an error.
func (r *attributeRepository) Remove(key attribute.Key) error {
	_, err := r.db.Exec(
		`DELETE FROM attributes WHERE item_id = ? AND namespace = ? AND name = ?`,
		r.itemID, key.Namespace, key.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to remove attribute %s: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys sorted by their string form.
func (r *attributeRepository) Keys() ([]attribute.Key, error) {
	rows, err := r.db.Query(
		`SELECT namespace, name FROM attributes WHERE item_id = ? ORDER BY namespace || ':' || name`,
		r.itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attributes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []attribute.Key
	for rows.Next() {
		var k attribute.Key
		if err := rows.Scan(&k.Namespace, &k.Name); err != nil {
			return nil, fmt.Errorf("failed to scan attribute key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
