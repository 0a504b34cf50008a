package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/theophile-senechal/unlock-app/internal/models"
	"github.com/theophile-senechal/unlock-app/internal/spatial"
)

// RegionRepository looks up administrative regions (communes) in a
// PostGIS-backed store
type RegionRepository struct {
	db *sql.DB
}

// NewRegionRepository opens a connection pool to the spatial store
func NewRegionRepository(dsn string) (*RegionRepository, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open region store: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping region store: %w", err)
	}

	return &RegionRepository{db: db}, nil
}

// Close closes the underlying connection pool
func (r *RegionRepository) Close() error {
	return r.db.Close()
}

// FindIntersecting returns every commune whose geometry intersects at least one
// of the given points, with its geodesic area in m² and its boundary as GeoJSON.
// One SQL round trip per call; a row with unusable geometry is skipped with a
// warning rather than failing the batch.
func (r *RegionRepository) FindIntersecting(ctx context.Context, points []spatial.Point) ([]models.Region, error) {
	if len(points) == 0 {
		return nil, nil
	}

	query := `
		SELECT nom_commune,
		       ST_Area(geometry::geography) AS area_m2,
		       ST_AsGeoJSON(geometry) AS outline
		FROM communes
		WHERE ST_Intersects(geometry, ST_SetSRID(ST_GeomFromText($1), 4326))
	`

	rows, err := r.db.QueryContext(ctx, query, multipointWKT(points))
	if err != nil {
		return nil, fmt.Errorf("failed to query intersecting regions: %w", err)
	}
	defer rows.Close()

	var regions []models.Region
	for rows.Next() {
		var (
			name    string
			areaM2  float64
			outline string
		)
		if err := rows.Scan(&name, &areaM2, &outline); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}

		ring, err := parseOutline(outline)
		if err != nil {
			log.Printf("[RegionRepository] Region %q has unusable geometry, skipping: %v", name, err)
			continue
		}

		regions = append(regions, models.Region{
			Name:    name,
			AreaM2:  areaM2,
			Outline: ring,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read regions: %w", err)
	}

	return regions, nil
}

// multipointWKT renders the probe set in PostGIS native (lon, lat) order
func multipointWKT(points []spatial.Point) string {
	var b strings.Builder
	b.WriteString("MULTIPOINT(")
	for i, p := range points {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		b.WriteString(strconv.FormatFloat(p.Lon, 'f', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(p.Lat, 'f', -1, 64))
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// parseOutline extracts the outer boundary ring from a GeoJSON geometry and
// inverts PostGIS (lon, lat) pairs to the (lat, lon) order used everywhere
// downstream. For a MultiPolygon the first polygon's outer ring is used.
func parseOutline(raw string) ([]spatial.Point, error) {
	var geom geoJSONGeometry
	if err := json.Unmarshal([]byte(raw), &geom); err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	var ring [][]float64
	switch geom.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(geom.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("failed to parse polygon coordinates: %w", err)
		}
		if len(rings) == 0 {
			return nil, fmt.Errorf("polygon has no rings")
		}
		ring = rings[0]
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(geom.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("failed to parse multipolygon coordinates: %w", err)
		}
		if len(polys) == 0 || len(polys[0]) == 0 {
			return nil, fmt.Errorf("multipolygon has no rings")
		}
		ring = polys[0][0]
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", geom.Type)
	}

	points := make([]spatial.Point, 0, len(ring))
	for _, coord := range ring {
		if len(coord) < 2 {
			return nil, fmt.Errorf("malformed coordinate pair")
		}
		points = append(points, spatial.Point{Lat: coord[1], Lon: coord[0]})
	}

	return points, nil
}
