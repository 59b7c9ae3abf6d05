//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swellyo-workers/internal/candidates"
	"swellyo-workers/internal/common/camunda"
	"swellyo-workers/internal/common/config"
	"swellyo-workers/internal/common/database"
	"swellyo-workers/internal/common/logger"
	"swellyo-workers/internal/matching"
	querycandidates "swellyo-workers/internal/workers/data-access/query-candidates"
	matchcompanions "swellyo-workers/internal/workers/matching/match-companions"
)

const fixtureSQL = `
CREATE TABLE IF NOT EXISTS surfer_profiles (
	id TEXT PRIMARY KEY,
	name TEXT,
	country_from TEXT NOT NULL,
	board_type TEXT,
	surf_level INT,
	travel_experience INT,
	budget_tier INT,
	age INT,
	group_type TEXT,
	lifestyle_keywords TEXT[],
	wave_keywords TEXT[]
);
CREATE TABLE IF NOT EXISTS surfer_trips (
	profile_id TEXT REFERENCES surfer_profiles(id) ON DELETE CASCADE,
	destination TEXT NOT NULL,
	areas TEXT[],
	days INT
);
DELETE FROM surfer_profiles WHERE id LIKE 'e2e-%';
INSERT INTO surfer_profiles VALUES
	('e2e-il-1', 'Noa', 'Israel', 'shortboard', 3, 4, 2, 27, 'solo', '{yoga,party}', '{reef}'),
	('e2e-il-2', 'Amit', 'Israel', 'longboard', 2, 2, 1, 31, 'couple', '{coffee}', '{beach break}'),
	('e2e-fr-1', 'Luc', 'France', 'shortboard', 4, 5, 3, 35, 'solo', '{wine}', '{point break}');
INSERT INTO surfer_trips VALUES
	('e2e-il-1', 'Sri Lanka', '{Arugam Bay}', 21),
	('e2e-il-2', 'Sri Lanka', '{Weligama}', 9),
	('e2e-fr-1', 'Sri Lanka', '{Hiriketiya}', 14),
	('e2e-fr-1', 'Bali', '{Uluwatu}', 30);
`

// ==========================
// Setup
// ==========================

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func seedPostgres(t *testing.T, cfg *config.Config) *database.PostgresClient {
	t.Helper()
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "postgres open failed")
	require.NoError(t, pg.Ping(context.Background()), "postgres ping failed")

	_, err = pg.DB.ExecContext(context.Background(), fixtureSQL)
	require.NoError(t, err, "fixture load failed")
	t.Cleanup(func() {
		_, _ = pg.DB.ExecContext(context.Background(), `DELETE FROM surfer_profiles WHERE id LIKE 'e2e-%'`)
		pg.Close()
	})
	return pg
}

func cachedRepository(t *testing.T, cfg *config.Config, pg *database.PostgresClient, log logger.Logger) candidates.Repository {
	t.Helper()
	repo := candidates.Repository(candidates.NewPostgresRepository(pg.DB))

	rdb := database.NewRedis(cfg.Database.Redis)
	if err := rdb.Ping(context.Background()); err != nil {
		t.Logf("redis unavailable, running without candidate cache: %v", err)
		return repo
	}
	t.Cleanup(func() { rdb.Close() })
	return candidates.NewCachedRepository(repo, rdb.Client, time.Minute, log)
}

// ==========================
// Tests
// ==========================

func TestZeebeTopology(t *testing.T) {
	cfg := loadConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), logger.NewTestLogger(t))
	require.NoError(t, err, "zeebe connect failed")
	defer client.Close()

	assert.NoError(t, client.HealthCheck(ctx))
}

func TestCompanionMatchingAgainstPostgres(t *testing.T) {
	cfg := loadConfig(t)
	log := logger.NewTestLogger(t)
	repo := cachedRepository(t, cfg, seedPostgres(t, cfg), log)

	engine, err := matching.NewEngine(cfg.Matching)
	require.NoError(t, err)
	defer engine.Release()

	t.Run("query candidates", func(t *testing.T) {
		h, err := querycandidates.NewHandler(querycandidates.DefaultConfig(), repo, log)
		require.NoError(t, err)

		out, err := h.Execute(context.Background(), &querycandidates.Input{Destination: "sri lanka"})
		require.NoError(t, err)

		ids := map[string]bool{}
		for _, c := range out.Candidates {
			ids[c.ID] = true
		}
		assert.True(t, ids["e2e-il-1"])
		assert.True(t, ids["e2e-il-2"])
		assert.True(t, ids["e2e-fr-1"])
		assert.Equal(t, "postgres", out.Source)
	})

	t.Run("match companions fetches population", func(t *testing.T) {
		h, err := matchcompanions.NewHandler(matchcompanions.HandlerOptions{
			Engine:     engine,
			Repository: repo,
			Logger:     log,
		})
		require.NoError(t, err)

		out, err := h.ExecuteVariables(context.Background(), `{
			"matchRequest": {
				"destination": "Sri Lanka",
				"destinationKnown": true,
				"purpose": {"purposeType": "specific_advice", "specificTopics": ["visa"]},
				"nonNegotiableCriteria": {"countryFrom": ["Israel"]}
			},
			"topK": 5
		}`)
		require.NoError(t, err)
		require.NotEmpty(t, out.Matches)

		for _, m := range out.Matches {
			assert.Contains(t, []string{"e2e-il-1", "e2e-il-2"}, m.CandidateID)
		}
		assert.Equal(t, "postgres", out.CandidateSource)
		assert.NotEmpty(t, out.MatchID)
	})
}
