package candidates

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"swellyo-workers/internal/models"
)

const (
	profileColumns = `p.id, p.name, p.country_from, p.board_type, p.surf_level, p.travel_experience,
		p.budget_tier, p.age, p.group_type, p.lifestyle_keywords, p.wave_keywords`

	profilesAtDestinationSQL = `SELECT ` + profileColumns + `
		FROM surfer_profiles p
		WHERE EXISTS (
			SELECT 1 FROM surfer_trips t
			WHERE t.profile_id = p.id AND lower(t.destination) = $1
		)
		ORDER BY p.id
		LIMIT $2`

	allProfilesSQL = `SELECT ` + profileColumns + `
		FROM surfer_profiles p
		ORDER BY p.id
		LIMIT $1`

	tripsForProfilesSQL = `SELECT profile_id, destination, areas, days
		FROM surfer_trips
		WHERE profile_id = ANY($1)
		ORDER BY profile_id, destination`
)

// PostgresRepository reads profiles and their trips from surfer_profiles and surfer_trips.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Source() string { return "postgres" }

func (r *PostgresRepository) FindCandidates(ctx context.Context, q Query) ([]models.CandidateProfile, error) {
	q = q.normalized()

	var (
		rows *sql.Rows
		err  error
	)
	if q.Destination == "" {
		rows, err = r.db.QueryContext(ctx, allProfilesSQL, q.Limit)
	} else {
		rows, err = r.db.QueryContext(ctx, profilesAtDestinationSQL, q.Destination, q.Limit)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: profiles: %v", ErrQueryFailed, err)
	}

	profiles, err := scanProfiles(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: scan profiles: %v", ErrQueryFailed, err)
	}
	if len(profiles) == 0 {
		return profiles, nil
	}

	if err := r.attachTrips(ctx, profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func scanProfiles(rows *sql.Rows) ([]models.CandidateProfile, error) {
	defer rows.Close()

	profiles := []models.CandidateProfile{}
	for rows.Next() {
		var (
			p                              models.CandidateProfile
			name, board, group             sql.NullString
			surfLevel, travel, budget, age sql.NullInt64
		)
		if err := rows.Scan(
			&p.ID, &name, &p.CountryFrom, &board, &surfLevel, &travel,
			&budget, &age, &group,
			pq.Array(&p.LifestyleKeywords), pq.Array(&p.WaveKeywords),
		); err != nil {
			return nil, err
		}
		p.Name = name.String
		p.BoardType = board.String
		p.GroupType = group.String
		p.SurfLevel = int(surfLevel.Int64)
		p.TravelExperience = int(travel.Int64)
		p.BudgetTier = int(budget.Int64)
		p.Age = int(age.Int64)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *PostgresRepository) attachTrips(ctx context.Context, profiles []models.CandidateProfile) error {
	ids := make([]string, len(profiles))
	index := make(map[string]int, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
		index[p.ID] = i
	}

	rows, err := r.db.QueryContext(ctx, tripsForProfilesSQL, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: trips: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			profileID string
			trip      models.Trip
			days      sql.NullInt64
		)
		if err := rows.Scan(&profileID, &trip.Destination, pq.Array(&trip.Areas), &days); err != nil {
			return fmt.Errorf("%w: scan trips: %v", ErrQueryFailed, err)
		}
		trip.Days = int(days.Int64)
		if i, ok := index[profileID]; ok {
			profiles[i].Trips = append(profiles[i].Trips, trip)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: trips: %v", ErrQueryFailed, err)
	}
	return nil
}
