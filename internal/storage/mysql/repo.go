package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"toilanguoisaigon/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

// valJSON marshals maps/slices for JSON columns.
func valJSON(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) InsertLocation(ctx context.Context, rec domain.LocationRecord) (int64, error) {
	var hours, highlights any
	if rec.OpeningHours != nil {
		hours = valJSON(rec.OpeningHours)
	}
	if rec.GoogleHighlights != nil {
		highlights = valJSON(rec.GoogleHighlights)
	}
	res, err := r.db.ExecContext(ctx, insertLocationSQL,
		rec.Name,
		rec.Slug,
		rec.Address,
		rec.District,
		valStr(rec.Description),
		valStr(rec.Phone),
		valStr(rec.PriceRange),
		hours,
		valF64(rec.Lat),
		valF64(rec.Lng),
		valF64(rec.GoogleRating),
		valInt64(rec.GoogleReviewCount),
		valStr(rec.GoogleReviewSummary),
		highlights,
		valStr(rec.GooglePlaceID),
		valStr(rec.GoogleMapsURI),
		rec.Status,
		rec.AverageRating,
		rec.ReviewCount,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert location: %v", domain.ErrPersistence, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: last insert id: %v", domain.ErrPersistence, err)
	}
	return id, nil
}

// UpdateLocation applies a partial patch. Columns are sorted so the
// generated statement is deterministic.
func (r *Repo) UpdateLocation(ctx context.Context, id int64, patch domain.Patch) error {
	if len(patch) == 0 {
		return nil
	}
	cols := make([]string, 0, len(patch))
	for c := range patch {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for _, c := range cols {
		sets = append(sets, c+" = ?")
		switch v := patch[c].(type) {
		case map[string]string, []string:
			args = append(args, valJSON(v))
		default:
			args = append(args, v)
		}
	}
	args = append(args, id)

	q := "UPDATE locations SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("%w: update location %d: %v", domain.ErrPersistence, id, err)
	}
	return nil
}

func (r *Repo) AddCategory(ctx context.Context, locationID, categoryID int64) error {
	if _, err := r.db.ExecContext(ctx, addCategorySQL, locationID, categoryID); err != nil {
		return fmt.Errorf("%w: add category: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *Repo) AddTag(ctx context.Context, locationID, tagID int64) error {
	if _, err := r.db.ExecContext(ctx, addTagSQL, locationID, tagID); err != nil {
		return fmt.Errorf("%w: add tag: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *Repo) AddCollection(ctx context.Context, locationID, collectionID int64) error {
	if _, err := r.db.ExecContext(ctx, addCollectionSQL, collectionID, locationID); err != nil {
		return fmt.Errorf("%w: add collection: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *Repo) LogExtractionFailure(ctx context.Context, query, raw string) error {
	if _, err := r.db.ExecContext(ctx, insertExtractionFailureSQL, query, raw); err != nil {
		return fmt.Errorf("%w: log extraction failure: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *Repo) ListIdentities(ctx context.Context) ([]string, []string, error) {
	rows, err := r.db.QueryContext(ctx, listIdentitiesSQL)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var slugs, placeIDs []string
	for rows.Next() {
		var slug string
		var placeID sql.NullString
		if err := rows.Scan(&slug, &placeID); err != nil {
			return nil, nil, err
		}
		slugs = append(slugs, slug)
		if placeID.Valid && placeID.String != "" {
			placeIDs = append(placeIDs, placeID.String)
		}
	}
	return slugs, placeIDs, rows.Err()
}

func (r *Repo) TaxonomyIDs(ctx context.Context) (domain.TaxonomyIDs, error) {
	out := domain.TaxonomyIDs{}
	var err error
	if out.Categories, err = r.slugIDs(ctx, "categories"); err != nil {
		return out, err
	}
	if out.Tags, err = r.slugIDs(ctx, "tags"); err != nil {
		return out, err
	}
	if out.Collections, err = r.slugIDs(ctx, "collections"); err != nil {
		return out, err
	}
	return out, nil
}

func (r *Repo) slugIDs(ctx context.Context, table string) (map[string]int64, error) {
	// table is one of three compile-time constants, never user input
	rows, err := r.db.QueryContext(ctx, "SELECT id, slug FROM "+table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var id int64
		var slug string
		if err := rows.Scan(&id, &slug); err != nil {
			return nil, err
		}
		out[slug] = id
	}
	return out, rows.Err()
}

func (r *Repo) ListNeedingEnrichment(ctx context.Context, limit int) ([]domain.LocationRecord, error) {
	rows, err := r.db.QueryContext(ctx, listNeedingEnrichmentSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LocationRecord
	for rows.Next() {
		rec, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanLocation(rows *sql.Rows) (domain.LocationRecord, error) {
	var rec domain.LocationRecord
	var (
		desc, phone, price, summary, placeID, mapsURI sql.NullString
		hoursJSON, highlightsJSON                     []byte
		lat, lng, rating                              sql.NullFloat64
		reviewCount                                   sql.NullInt64
	)
	if err := rows.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Slug,
		&rec.Address,
		&rec.District,
		&desc,
		&phone,
		&price,
		&hoursJSON,
		&lat, &lng,
		&rating,
		&reviewCount,
		&summary,
		&highlightsJSON,
		&placeID,
		&mapsURI,
		&rec.Status,
		&rec.AverageRating,
		&rec.ReviewCount,
	); err != nil {
		return domain.LocationRecord{}, err
	}

	setStr := func(dst **string, v sql.NullString) {
		if v.Valid {
			s := v.String
			*dst = &s
		}
	}
	setStr(&rec.Description, desc)
	setStr(&rec.Phone, phone)
	setStr(&rec.PriceRange, price)
	setStr(&rec.GoogleReviewSummary, summary)
	setStr(&rec.GooglePlaceID, placeID)
	setStr(&rec.GoogleMapsURI, mapsURI)

	// Coordinates are stored together or not at all; treat a half-set row
	// as unset.
	if lat.Valid && lng.Valid {
		la, ln := lat.Float64, lng.Float64
		rec.Lat, rec.Lng = &la, &ln
	}
	if rating.Valid {
		f := rating.Float64
		rec.GoogleRating = &f
	}
	if reviewCount.Valid {
		n := reviewCount.Int64
		rec.GoogleReviewCount = &n
	}
	if len(hoursJSON) > 0 {
		_ = json.Unmarshal(hoursJSON, &rec.OpeningHours)
	}
	if len(highlightsJSON) > 0 {
		_ = json.Unmarshal(highlightsJSON, &rec.GoogleHighlights)
	}
	return rec, nil
}
