package hivekeeper_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	hivekeeper "github.com/apiarylab/hivekeeper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const sqliteCreateResources = `CREATE TABLE hives (
    id TEXT NOT NULL PRIMARY KEY,
    keeper_id TEXT NOT NULL,
    name TEXT,
    number INTEGER,
    photo TEXT,
    body_frames INTEGER,
    supers INTEGER,
    frames_per_super INTEGER,
    brood_frames INTEGER,
    food_frames INTEGER,
    free_frames INTEGER,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE weights (
    id TEXT NOT NULL PRIMARY KEY,
    hive_id TEXT NOT NULL,
    weight INTEGER NOT NULL,
    recorded_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE harvests (
    id TEXT NOT NULL PRIMARY KEY,
    hive_id TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    harvested_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE equipment (
    id TEXT NOT NULL PRIMARY KEY,
    hive_id TEXT NOT NULL,
    name TEXT,
    type TEXT,
    condition TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

func setupResourceDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateResources)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	return bunDB
}

func seedWeight(t *testing.T, repo hivekeeper.Weights, hiveID uuid.UUID, grams int, recordedAt time.Time) {
	t.Helper()
	_, err := repo.Create(context.Background(), &hivekeeper.WeightEntry{
		HiveID:     hiveID,
		Weight:     grams,
		RecordedAt: recordedAt,
	})
	require.NoError(t, err)
}

func TestHivesCRUD(t *testing.T) {
	repo := hivekeeper.NewHivesRepository(setupResourceDB(t))
	ctx := context.Background()
	keeperID := uuid.New()

	created, err := repo.Create(ctx, &hivekeeper.Hive{
		KeeperID: keeperID,
		Name:     "Reine des pres",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reine des pres", found.Name)

	byKeeper, err := repo.ListByKeeper(ctx, keeperID)
	require.NoError(t, err)
	assert.Len(t, byKeeper, 1)

	byName, err := repo.SearchByName(ctx, "Reine")
	require.NoError(t, err)
	assert.Len(t, byName, 1)

	found.Name = "Reine des bois"
	updated, err := repo.Update(ctx, found)
	require.NoError(t, err)
	assert.Equal(t, "Reine des bois", updated.Name)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.Error(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWeightsAnnualAverage(t *testing.T) {
	repo := hivekeeper.NewWeightsRepository(setupResourceDB(t))
	hiveID := uuid.New()

	seedWeight(t, repo, hiveID, 30000, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))
	seedWeight(t, repo, hiveID, 40000, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	// Different year, must not count.
	seedWeight(t, repo, hiveID, 90000, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC))
	// Different hive, must not count.
	seedWeight(t, repo, uuid.New(), 90000, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))

	avg, err := repo.AnnualAverage(context.Background(), hiveID, 2025)
	require.NoError(t, err)
	assert.InDelta(t, 35000, avg, 0.001)

	// A year with no readings averages to zero.
	avg, err = repo.AnnualAverage(context.Background(), hiveID, 2020)
	require.NoError(t, err)
	assert.Zero(t, avg)
}

func TestWeightsMonthlyAverages(t *testing.T) {
	repo := hivekeeper.NewWeightsRepository(setupResourceDB(t))
	hiveID := uuid.New()

	seedWeight(t, repo, hiveID, 30000, time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC))
	seedWeight(t, repo, hiveID, 34000, time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC))
	seedWeight(t, repo, hiveID, 41000, time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC))

	monthly, err := repo.MonthlyAverages(context.Background(), hiveID, 2025)
	require.NoError(t, err)

	require.Len(t, monthly, 2)
	assert.InDelta(t, 32000, monthly[time.April], 0.001)
	assert.InDelta(t, 41000, monthly[time.July], 0.001)
}

func TestWeightsEvolution(t *testing.T) {
	repo := hivekeeper.NewWeightsRepository(setupResourceDB(t))
	hiveID := uuid.New()

	seedWeight(t, repo, hiveID, 30000, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	seedWeight(t, repo, hiveID, 36000, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	evolution, err := repo.Evolution(context.Background(), hiveID, []int{2024, 2025})
	require.NoError(t, err)

	require.Len(t, evolution, 2)
	assert.InDelta(t, 30000, evolution[2024], 0.001)
	assert.InDelta(t, 36000, evolution[2025], 0.001)
}

func TestWeightsLatest(t *testing.T) {
	repo := hivekeeper.NewWeightsRepository(setupResourceDB(t))
	hiveID := uuid.New()

	seedWeight(t, repo, hiveID, 30000, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))
	seedWeight(t, repo, hiveID, 38000, time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC))

	latest, err := repo.Latest(context.Background(), hiveID)
	require.NoError(t, err)
	assert.Equal(t, 38000, latest.Weight)
}

func TestHarvestTotals(t *testing.T) {
	repo := hivekeeper.NewHarvestsRepository(setupResourceDB(t))
	ctx := context.Background()
	hiveID := uuid.New()

	for _, h := range []struct {
		quantity int
		when     time.Time
	}{
		{12000, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{8000, time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)},
		{5000, time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)},
	} {
		_, err := repo.Create(ctx, &hivekeeper.Harvest{
			HiveID:      hiveID,
			Quantity:    h.quantity,
			HarvestedAt: h.when,
		})
		require.NoError(t, err)
	}

	total, err := repo.TotalByHive(ctx, hiveID)
	require.NoError(t, err)
	assert.Equal(t, 25000, total)

	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	total, err = repo.TotalByHiveInRange(ctx, hiveID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 20000, total)

	// No harvests in the window totals to zero.
	empty, err := repo.TotalByHiveInRange(ctx, uuid.New(), from, to)
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestEquipmentFilters(t *testing.T) {
	repo := hivekeeper.NewEquipmentRepository(setupResourceDB(t))
	ctx := context.Background()
	hiveID := uuid.New()

	for _, e := range []*hivekeeper.Equipment{
		{HiveID: hiveID, Name: "Smoker", Type: "tool", Condition: "good"},
		{HiveID: hiveID, Name: "Super", Type: "box", Condition: "worn"},
		{HiveID: uuid.New(), Name: "Feeder", Type: "tool", Condition: "good"},
	} {
		_, err := repo.Create(ctx, e)
		require.NoError(t, err)
	}

	byType, err := repo.ListByType(ctx, "tool")
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	byCondition, err := repo.ListByCondition(ctx, "worn")
	require.NoError(t, err)
	assert.Len(t, byCondition, 1)

	byHive, err := repo.ListByHive(ctx, hiveID)
	require.NoError(t, err)
	assert.Len(t, byHive, 2)
}
