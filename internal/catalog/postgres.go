package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aquadex/aquadex/pkg/postgres"
)

// PostgresSource loads the corpus from a species table. Rows are returned in
// primary-key order so document ids are stable across loads of an unchanged
// table.
type PostgresSource struct {
	Client *postgres.Client
	Table  string
}

// Load reads every row of the catalog table into records.
func (s *PostgresSource) Load(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf(`
		SELECT name, species, temperament, care_level, diet, description,
		       max_size, min_tank_size
		FROM %s
		ORDER BY id`, s.Table)

	rows, err := s.Client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying catalog table %s: %w", s.Table, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			name, species, temperament, careLevel, diet, description sql.NullString
			maxSize, minTankSize                                     sql.NullFloat64
		)
		if err := rows.Scan(
			&name, &species, &temperament, &careLevel, &diet, &description,
			&maxSize, &minTankSize,
		); err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}
		rec := Record{}
		setString(rec, "name", name)
		setString(rec, "species", species)
		setString(rec, "temperament", temperament)
		setString(rec, "care_level", careLevel)
		setString(rec, "diet", diet)
		setString(rec, "description", description)
		setNumber(rec, "max_size", maxSize)
		setNumber(rec, "min_tank_size", minTankSize)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog rows: %w", err)
	}
	return records, nil
}

func setString(rec Record, field string, v sql.NullString) {
	if v.Valid && v.String != "" {
		rec[field] = v.String
	}
}

func setNumber(rec Record, field string, v sql.NullFloat64) {
	if v.Valid {
		rec[field] = v.Float64
	}
}
