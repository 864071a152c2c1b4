package mysql

const insertLocationSQL = `
INSERT INTO locations
  (name, slug, address, district, description, phone_number, price_range,
   opening_hours, latitude, longitude,
   google_rating, google_review_count, google_review_summary, google_highlights,
   google_place_id, google_maps_uri, status, average_rating, review_count)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const listIdentitiesSQL = `
SELECT slug, google_place_id FROM locations
`

const listNeedingEnrichmentSQL = `
SELECT
  id, name, slug, address, district, description, phone_number, price_range,
  opening_hours, latitude, longitude,
  google_rating, google_review_count, google_review_summary, google_highlights,
  google_place_id, google_maps_uri, status, average_rating, review_count
FROM locations
WHERE status <> 'rejected'
  AND (google_rating IS NULL
    OR google_review_summary IS NULL
    OR latitude IS NULL
    OR price_range IS NULL)
ORDER BY created_at ASC
LIMIT ?
`

// Membership inserts are idempotent: re-assigning an existing edge is a no-op.
const addCategorySQL = `
INSERT IGNORE INTO location_categories (location_id, category_id) VALUES (?, ?)
`

const addTagSQL = `
INSERT IGNORE INTO location_tags (location_id, tag_id) VALUES (?, ?)
`

const addCollectionSQL = `
INSERT IGNORE INTO collection_locations (collection_id, location_id) VALUES (?, ?)
`

const insertExtractionFailureSQL = `
INSERT INTO extraction_failures (query, raw) VALUES (?, ?)
`
