package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/feattab/feattab/internal/embl"
	"github.com/feattab/feattab/internal/feature"
)

// FeatureRow is the flattened form of a feature as stored in DuckDB.
// Location preserves the original geometry; Start and End are the
// outermost bounds used for region queries. Qualifiers are serialized
// as "name=value" pairs joined with ";", bare flags as the name alone.
type FeatureRow struct {
	SeqID      string
	Key        string
	Start      int64
	End        int64
	Strand     int8
	Location   string
	Qualifiers string
}

// RowFromFeature flattens a feature into a row for the named sequence.
func RowFromFeature(seqID string, f *feature.Feature) FeatureRow {
	quals := make([]string, 0, len(f.QualifierNames()))
	for _, name := range f.QualifierNames() {
		vals := f.QualifierValues(name)
		if len(vals) == 0 {
			quals = append(quals, name)
			continue
		}
		for _, v := range vals {
			quals = append(quals, fmt.Sprintf("%s=%s", name, v))
		}
	}

	return FeatureRow{
		SeqID:      seqID,
		Key:        f.Key(),
		Start:      int64(f.Start()),
		End:        int64(f.End()),
		Strand:     int8(f.Strand()),
		Location:   embl.FormatLocation(f.Ranges()),
		Qualifiers: strings.Join(quals, ";"),
	}
}

// WriteFeatures batch-inserts feature rows using the Appender API.
func (s *Store) WriteFeatures(rows []FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "features")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range rows {
		if err := appender.AppendRow(
			r.SeqID, r.Key, r.Start, r.End, r.Strand, r.Location, r.Qualifiers,
		); err != nil {
			return fmt.Errorf("append feature: %w", err)
		}
	}

	return appender.Flush()
}

// Clear removes all stored features.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM features")
	return err
}

// Count returns the number of stored features.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM features").Scan(&n); err != nil {
		return 0, fmt.Errorf("count features: %w", err)
	}
	return n, nil
}

// QueryRegion returns all features of a sequence overlapping the
// 1-based inclusive window [start, end], ordered by position.
func (s *Store) QueryRegion(seqID string, start, end int64) ([]FeatureRow, error) {
	rows, err := s.db.Query(`SELECT
		seq_id, feat_key, feat_start, feat_end, strand, location, qualifiers
		FROM features
		WHERE seq_id=? AND feat_start<=? AND feat_end>=?
		ORDER BY feat_start, feat_end`,
		seqID, end, start)
	if err != nil {
		return nil, fmt.Errorf("query region: %w", err)
	}
	defer rows.Close()

	return scanFeatureRows(rows)
}

// QueryByKey returns all features of a sequence with the given key,
// ordered by position. An empty seqID matches every sequence.
func (s *Store) QueryByKey(seqID, key string) ([]FeatureRow, error) {
	query := `SELECT
		seq_id, feat_key, feat_start, feat_end, strand, location, qualifiers
		FROM features
		WHERE feat_key=?`
	args := []any{key}
	if seqID != "" {
		query += " AND seq_id=?"
		args = append(args, seqID)
	}
	query += " ORDER BY seq_id, feat_start, feat_end"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query by key: %w", err)
	}
	defer rows.Close()

	return scanFeatureRows(rows)
}

// QueryByQualifier returns all features carrying a "name=value" qualifier
// pair, matched against the serialized qualifier column.
func (s *Store) QueryByQualifier(name, value string) ([]FeatureRow, error) {
	pair := fmt.Sprintf("%s=%s", name, value)
	rows, err := s.db.Query(`SELECT
		seq_id, feat_key, feat_start, feat_end, strand, location, qualifiers
		FROM features
		WHERE qualifiers=? OR qualifiers LIKE ? OR qualifiers LIKE ? OR qualifiers LIKE ?
		ORDER BY seq_id, feat_start, feat_end`,
		pair, pair+";%", "%;"+pair+";%", "%;"+pair)
	if err != nil {
		return nil, fmt.Errorf("query by qualifier: %w", err)
	}
	defer rows.Close()

	return scanFeatureRows(rows)
}

// scanFeatureRows scans rows into FeatureRow slices.
func scanFeatureRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]FeatureRow, error) {
	var results []FeatureRow
	for rows.Next() {
		var r FeatureRow
		if err := rows.Scan(
			&r.SeqID, &r.Key, &r.Start, &r.End, &r.Strand, &r.Location, &r.Qualifiers,
		); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return results, nil
}
