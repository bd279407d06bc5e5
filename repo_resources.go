package hivekeeper

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Hives interface {
	Create(ctx context.Context, record *Hive) (*Hive, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Hive, error)
	ListAll(ctx context.Context) ([]*Hive, error)
	ListByKeeper(ctx context.Context, keeperID uuid.UUID) ([]*Hive, error)
	SearchByName(ctx context.Context, name string) ([]*Hive, error)
	Update(ctx context.Context, record *Hive) (*Hive, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type hives struct {
	db *bun.DB
}

var _ Hives = (*hives)(nil)

func NewHivesRepository(db *bun.DB) Hives {
	return &hives{db: db}
}

func (r *hives) Create(ctx context.Context, record *Hive) (*Hive, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *hives) GetByID(ctx context.Context, id uuid.UUID) (*Hive, error) {
	record := &Hive{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapResourceLookup(err, "hive")
	}
	return record, nil
}

func (r *hives) ListAll(ctx context.Context) ([]*Hive, error) {
	var records []*Hive
	err := r.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *hives) ListByKeeper(ctx context.Context, keeperID uuid.UUID) ([]*Hive, error) {
	var records []*Hive
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.keeper_id = ?", keeperID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *hives) SearchByName(ctx context.Context, name string) ([]*Hive, error) {
	var records []*Hive
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.name LIKE ?", "%"+name+"%").
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *hives) Update(ctx context.Context, record *Hive) (*Hive, error) {
	now := time.Now()
	record.UpdatedAt = &now
	_, err := r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *hives) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Hive)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *hives) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*Hive)(nil)).Count(ctx)
}

type Weights interface {
	Create(ctx context.Context, record *WeightEntry) (*WeightEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*WeightEntry, error)
	ListByHive(ctx context.Context, hiveID uuid.UUID) ([]*WeightEntry, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*WeightEntry, error)
	Latest(ctx context.Context, hiveID uuid.UUID) (*WeightEntry, error)
	Update(ctx context.Context, record *WeightEntry) (*WeightEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AnnualAverage(ctx context.Context, hiveID uuid.UUID, year int) (float64, error)
	MonthlyAverages(ctx context.Context, hiveID uuid.UUID, year int) (map[time.Month]float64, error)
	Evolution(ctx context.Context, hiveID uuid.UUID, years []int) (map[int]float64, error)
}

type weights struct {
	db *bun.DB
}

var _ Weights = (*weights)(nil)

func NewWeightsRepository(db *bun.DB) Weights {
	return &weights{db: db}
}

func (r *weights) Create(ctx context.Context, record *WeightEntry) (*WeightEntry, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now()
	}
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *weights) GetByID(ctx context.Context, id uuid.UUID) (*WeightEntry, error) {
	record := &WeightEntry{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapResourceLookup(err, "weight entry")
	}
	return record, nil
}

func (r *weights) ListByHive(ctx context.Context, hiveID uuid.UUID) ([]*WeightEntry, error) {
	var records []*WeightEntry
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.hive_id = ?", hiveID).
		Order("recorded_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *weights) ListByDateRange(ctx context.Context, from, to time.Time) ([]*WeightEntry, error) {
	var records []*WeightEntry
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.recorded_at >= ?", from).
		Where("?TableAlias.recorded_at <= ?", to).
		Order("recorded_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *weights) Latest(ctx context.Context, hiveID uuid.UUID) (*WeightEntry, error) {
	record := &WeightEntry{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.hive_id = ?", hiveID).
		Order("recorded_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapResourceLookup(err, "weight entry")
	}
	return record, nil
}

func (r *weights) Update(ctx context.Context, record *WeightEntry) (*WeightEntry, error) {
	_, err := r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *weights) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*WeightEntry)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// AnnualAverage returns the mean of all readings for the hive in the given
// calendar year, or 0 when the year has no readings.
func (r *weights) AnnualAverage(ctx context.Context, hiveID uuid.UUID, year int) (float64, error) {
	from, to := yearBounds(year)

	var avg sql.NullFloat64
	err := r.db.NewSelect().
		Model((*WeightEntry)(nil)).
		ColumnExpr("AVG(weight)").
		Where("hive_id = ?", hiveID).
		Where("recorded_at >= ?", from).
		Where("recorded_at < ?", to).
		Scan(ctx, &avg)
	if err != nil {
		return 0, err
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

// MonthlyAverages buckets the year's readings by month. Months without
// readings are absent from the result.
func (r *weights) MonthlyAverages(ctx context.Context, hiveID uuid.UUID, year int) (map[time.Month]float64, error) {
	from, to := yearBounds(year)

	var records []*WeightEntry
	err := r.db.NewSelect().
		Model(&records).
		Column("weight", "recorded_at").
		Where("?TableAlias.hive_id = ?", hiveID).
		Where("?TableAlias.recorded_at >= ?", from).
		Where("?TableAlias.recorded_at < ?", to).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	sums := map[time.Month]int{}
	counts := map[time.Month]int{}
	for _, rec := range records {
		m := rec.RecordedAt.Month()
		sums[m] += rec.Weight
		counts[m]++
	}

	result := make(map[time.Month]float64, len(sums))
	for m, sum := range sums {
		result[m] = float64(sum) / float64(counts[m])
	}
	return result, nil
}

// Evolution maps each requested year to its annual average weight.
func (r *weights) Evolution(ctx context.Context, hiveID uuid.UUID, years []int) (map[int]float64, error) {
	result := make(map[int]float64, len(years))
	for _, year := range years {
		avg, err := r.AnnualAverage(ctx, hiveID, year)
		if err != nil {
			return nil, err
		}
		result[year] = avg
	}
	return result, nil
}

type Harvests interface {
	Create(ctx context.Context, record *Harvest) (*Harvest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Harvest, error)
	ListByHive(ctx context.Context, hiveID uuid.UUID) ([]*Harvest, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*Harvest, error)
	TotalByHive(ctx context.Context, hiveID uuid.UUID) (int, error)
	TotalByHiveInRange(ctx context.Context, hiveID uuid.UUID, from, to time.Time) (int, error)
	Update(ctx context.Context, record *Harvest) (*Harvest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type harvests struct {
	db *bun.DB
}

var _ Harvests = (*harvests)(nil)

func NewHarvestsRepository(db *bun.DB) Harvests {
	return &harvests{db: db}
}

func (r *harvests) Create(ctx context.Context, record *Harvest) (*Harvest, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.HarvestedAt.IsZero() {
		record.HarvestedAt = time.Now()
	}
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *harvests) GetByID(ctx context.Context, id uuid.UUID) (*Harvest, error) {
	record := &Harvest{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapResourceLookup(err, "harvest")
	}
	return record, nil
}

func (r *harvests) ListByHive(ctx context.Context, hiveID uuid.UUID) ([]*Harvest, error) {
	var records []*Harvest
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.hive_id = ?", hiveID).
		Order("harvested_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *harvests) ListByDateRange(ctx context.Context, from, to time.Time) ([]*Harvest, error) {
	var records []*Harvest
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.harvested_at >= ?", from).
		Where("?TableAlias.harvested_at <= ?", to).
		Order("harvested_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *harvests) TotalByHive(ctx context.Context, hiveID uuid.UUID) (int, error) {
	var total sql.NullInt64
	err := r.db.NewSelect().
		Model((*Harvest)(nil)).
		ColumnExpr("SUM(quantity)").
		Where("hive_id = ?", hiveID).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}

func (r *harvests) TotalByHiveInRange(ctx context.Context, hiveID uuid.UUID, from, to time.Time) (int, error) {
	var total sql.NullInt64
	err := r.db.NewSelect().
		Model((*Harvest)(nil)).
		ColumnExpr("SUM(quantity)").
		Where("hive_id = ?", hiveID).
		Where("harvested_at >= ?", from).
		Where("harvested_at <= ?", to).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}

func (r *harvests) Update(ctx context.Context, record *Harvest) (*Harvest, error) {
	_, err := r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *harvests) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Harvest)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

type EquipmentRepo interface {
	Create(ctx context.Context, record *Equipment) (*Equipment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Equipment, error)
	ListAll(ctx context.Context) ([]*Equipment, error)
	ListByHive(ctx context.Context, hiveID uuid.UUID) ([]*Equipment, error)
	ListByType(ctx context.Context, equipmentType string) ([]*Equipment, error)
	ListByCondition(ctx context.Context, condition string) ([]*Equipment, error)
	Update(ctx context.Context, record *Equipment) (*Equipment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type equipmentRepo struct {
	db *bun.DB
}

var _ EquipmentRepo = (*equipmentRepo)(nil)

func NewEquipmentRepository(db *bun.DB) EquipmentRepo {
	return &equipmentRepo{db: db}
}

func (r *equipmentRepo) Create(ctx context.Context, record *Equipment) (*Equipment, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *equipmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*Equipment, error) {
	record := &Equipment{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapResourceLookup(err, "equipment")
	}
	return record, nil
}

func (r *equipmentRepo) ListAll(ctx context.Context) ([]*Equipment, error) {
	var records []*Equipment
	err := r.db.NewSelect().
		Model(&records).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *equipmentRepo) ListByHive(ctx context.Context, hiveID uuid.UUID) ([]*Equipment, error) {
	var records []*Equipment
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.hive_id = ?", hiveID).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *equipmentRepo) ListByType(ctx context.Context, equipmentType string) ([]*Equipment, error) {
	var records []*Equipment
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.type = ?", equipmentType).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *equipmentRepo) ListByCondition(ctx context.Context, condition string) ([]*Equipment, error) {
	var records []*Equipment
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.condition = ?", condition).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *equipmentRepo) Update(ctx context.Context, record *Equipment) (*Equipment, error) {
	_, err := r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *equipmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Equipment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

type Inspections interface {
	Create(ctx context.Context, record *Inspection) (*Inspection, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Inspection, error)
	ListAll(ctx context.Context) ([]*Inspection, error)
	ListByHive(ctx context.Context, hiveID uuid.UUID) ([]*Inspection, error)
	Update(ctx context.Context, record *Inspection) (*Inspection, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type inspections struct {
	db *bun.DB
}

var _ Inspections = (*inspections)(nil)

func NewInspectionsRepository(db *bun.DB) Inspections {
	return &inspections{db: db}
}

func (r *inspections) Create(ctx context.Context, record *Inspection) (*Inspection, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.VisitedAt.IsZero() {
		record.VisitedAt = time.Now()
	}
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *inspections) GetByID(ctx context.Context, id uuid.UUID) (*Inspection, error) {
	record := &Inspection{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapResourceLookup(err, "inspection")
	}
	return record, nil
}

func (r *inspections) ListAll(ctx context.Context) ([]*Inspection, error) {
	var records []*Inspection
	err := r.db.NewSelect().
		Model(&records).
		Order("visited_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *inspections) ListByHive(ctx context.Context, hiveID uuid.UUID) ([]*Inspection, error) {
	var records []*Inspection
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.hive_id = ?", hiveID).
		Order("visited_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *inspections) Update(ctx context.Context, record *Inspection) (*Inspection, error) {
	_, err := r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *inspections) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Inspection)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func yearBounds(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

func wrapResourceLookup(err error, kind string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return goNotFound(kind)
	}
	return err
}
