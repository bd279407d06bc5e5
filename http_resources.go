package hivekeeper

import (
	"sort"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// ResourceController serves the apiary resources behind the auth gate:
// hives, weight readings, harvests, equipment, and inspections.
type ResourceController struct {
	Logger       Logger
	Repo         RepositoryManager
	ErrorHandler router.ErrorHandler
}

func NewResourceController(repo RepositoryManager) *ResourceController {
	if repo == nil {
		panic("Missing RepositoryManager in resource controller...")
	}

	return &ResourceController{
		Logger:       defLogger{},
		Repo:         repo,
		ErrorHandler: defaultErrHandler,
	}
}

func (rc *ResourceController) WithLogger(l Logger) *ResourceController {
	rc.Logger = l
	return rc
}

// RegisterResourceRoutes mounts the resource API. Every route is protected.
func RegisterResourceRoutes[T any](app router.Router[T], rc *ResourceController, protected router.MiddlewareFunc) {
	app.Get("/hives", rc.HivesIndex, protected).SetName("hives.index")
	app.Get("/hives/user/:userID", rc.HivesByKeeper, protected).SetName("hives.by-keeper")
	app.Get("/hives/:id", rc.HiveShow, protected).SetName("hives.show")
	app.Post("/hives", rc.HiveCreate, protected).SetName("hives.create")
	app.Put("/hives/:id", rc.HiveUpdate, protected).SetName("hives.update")
	app.Delete("/hives/:id", rc.HiveDelete, protected).SetName("hives.delete")

	app.Get("/hives/:id/weights", rc.WeightsByHive, protected).SetName("weights.by-hive")
	app.Get("/hives/:id/weights/latest", rc.WeightLatest, protected).SetName("weights.latest")
	app.Get("/hives/:id/weights/average/:year", rc.WeightAnnualAverage, protected).SetName("weights.annual-average")
	app.Get("/hives/:id/weights/monthly/:year", rc.WeightMonthlyAverages, protected).SetName("weights.monthly-averages")
	app.Get("/hives/:id/weights/evolution", rc.WeightEvolution, protected).SetName("weights.evolution")
	app.Get("/weights/range", rc.WeightsInRange, protected).SetName("weights.range")
	app.Post("/weights", rc.WeightCreate, protected).SetName("weights.create")
	app.Delete("/weights/:id", rc.WeightDelete, protected).SetName("weights.delete")

	app.Get("/hives/:id/harvests", rc.HarvestsByHive, protected).SetName("harvests.by-hive")
	app.Get("/hives/:id/harvests/total", rc.HarvestTotal, protected).SetName("harvests.total")
	app.Get("/harvests/range", rc.HarvestsInRange, protected).SetName("harvests.range")
	app.Post("/harvests", rc.HarvestCreate, protected).SetName("harvests.create")
	app.Delete("/harvests/:id", rc.HarvestDelete, protected).SetName("harvests.delete")

	app.Get("/equipment", rc.EquipmentIndex, protected).SetName("equipment.index")
	app.Get("/hives/:id/equipment", rc.EquipmentByHive, protected).SetName("equipment.by-hive")
	app.Post("/equipment", rc.EquipmentCreate, protected).SetName("equipment.create")
	app.Put("/equipment/:id", rc.EquipmentUpdate, protected).SetName("equipment.update")
	app.Delete("/equipment/:id", rc.EquipmentDelete, protected).SetName("equipment.delete")

	app.Get("/hives/:id/inspections", rc.InspectionsByHive, protected).SetName("inspections.by-hive")
	app.Post("/inspections", rc.InspectionCreate, protected).SetName("inspections.create")
	app.Put("/inspections/:id", rc.InspectionUpdate, protected).SetName("inspections.update")
	app.Delete("/inspections/:id", rc.InspectionDelete, protected).SetName("inspections.delete")
}

func (rc *ResourceController) HivesIndex(ctx router.Context) error {
	if name := ctx.Query("name", ""); name != "" {
		records, err := rc.Repo.Hives().SearchByName(ctx.Context(), name)
		if err != nil {
			return rc.ErrorHandler(ctx, err)
		}
		return ctx.JSON(router.StatusOK, map[string]any{"hives": records})
	}

	if keeper := ctx.Query("keeper_id", ""); keeper != "" {
		keeperID, err := uuid.Parse(keeper)
		if err != nil {
			return badID(ctx, "keeper id")
		}
		records, err := rc.Repo.Hives().ListByKeeper(ctx.Context(), keeperID)
		if err != nil {
			return rc.ErrorHandler(ctx, err)
		}
		return ctx.JSON(router.StatusOK, map[string]any{"hives": records})
	}

	records, err := rc.Repo.Hives().ListAll(ctx.Context())
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{"hives": records})
}

func (rc *ResourceController) HivesByKeeper(ctx router.Context) error {
	keeperID, err := uuid.Parse(ctx.Param("userID"))
	if err != nil {
		return badID(ctx, "keeper id")
	}

	records, err := rc.Repo.Hives().ListByKeeper(ctx.Context(), keeperID)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{"hives": records})
}

func (rc *ResourceController) HiveShow(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "hive id")
	}

	record, err := rc.Repo.Hives().GetByID(ctx.Context(), id)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, record)
}

// HivePayload carries hive attributes on create and update.
type HivePayload struct {
	KeeperID       string `json:"keeper_id"`
	Name           string `json:"name"`
	Number         *int   `json:"number"`
	Photo          string `json:"photo"`
	BodyFrames     *int   `json:"body_frames"`
	Supers         *int   `json:"supers"`
	FramesPerSuper *int   `json:"frames_per_super"`
	BroodFrames    *int   `json:"brood_frames"`
	FoodFrames     *int   `json:"food_frames"`
	FreeFrames     *int   `json:"free_frames"`
}

func (p HivePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.KeeperID, validation.Required, validation.By(validUUID)),
		validation.Field(&p.Name, validation.Required, validation.Length(1, 50)),
	)
}

func (rc *ResourceController) HiveCreate(ctx router.Context) error {
	payload := new(HivePayload)
	if err := ctx.Bind(payload); err != nil {
		return badBody(ctx)
	}
	if err := payload.Validate(); err != nil {
		return validationFailed(ctx, err)
	}

	keeperID, _ := uuid.Parse(payload.KeeperID)
	record, err := rc.Repo.Hives().Create(ctx.Context(), &Hive{
		KeeperID:       keeperID,
		Name:           payload.Name,
		Number:         payload.Number,
		Photo:          payload.Photo,
		BodyFrames:     payload.BodyFrames,
		Supers:         payload.Supers,
		FramesPerSuper: payload.FramesPerSuper,
		BroodFrames:    payload.BroodFrames,
		FoodFrames:     payload.FoodFrames,
		FreeFrames:     payload.FreeFrames,
	})
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusCreated, record)
}

func (rc *ResourceController) HiveUpdate(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "hive id")
	}

	record, err := rc.Repo.Hives().GetByID(ctx.Context(), id)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}

	payload := new(HivePayload)
	if err := ctx.Bind(payload); err != nil {
		return badBody(ctx)
	}

	if payload.Name != "" {
		record.Name = payload.Name
	}
	if payload.Photo != "" {
		record.Photo = payload.Photo
	}
	if payload.Number != nil {
		record.Number = payload.Number
	}
	if payload.BodyFrames != nil {
		record.BodyFrames = payload.BodyFrames
	}
	if payload.Supers != nil {
		record.Supers = payload.Supers
	}
	if payload.FramesPerSuper != nil {
		record.FramesPerSuper = payload.FramesPerSuper
	}
	if payload.BroodFrames != nil {
		record.BroodFrames = payload.BroodFrames
	}
	if payload.FoodFrames != nil {
		record.FoodFrames = payload.FoodFrames
	}
	if payload.FreeFrames != nil {
		record.FreeFrames = payload.FreeFrames
	}

	record, err = rc.Repo.Hives().Update(ctx.Context(), record)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, record)
}

func (rc *ResourceController) HiveDelete(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "hive id")
	}

	if err := rc.Repo.Hives().Delete(ctx.Context(), id); err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]string{"status": "deleted"})
}

func (rc *ResourceController) WeightsByHive(ctx router.Context) error {
	hiveID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "hive id")
	}

	records, err := rc.Repo.Weights().ListByHive(ctx.Context(), hiveID)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{"weights": records})
}

func (rc *ResourceController) WeightLatest(ctx router.Context) error {
	hiveID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "hive id")
	}

	record, err := rc.Repo.Weights().Latest(ctx.Context(), hiveID)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, record)
}

func (rc *ResourceController) WeightAnnualAverage(ctx router.Context) error {
	hiveID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "hive id")
	}

	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		return badID(ctx, "year")
	}

	avg, err := rc.Repo.Weights().AnnualAverage(ctx.Context(), hiveID, year)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{
		"year":    year,
		"average": avg,
	})
}

func (rc *ResourceController) WeightMonthlyAverages(ctx router.Context) error {
	hiveID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "hive id")
	}

	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		return badID(ctx, "year")
	}

	averages, err := rc.Repo.Weights().MonthlyAverages(ctx.Context(), hiveID, year)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}

	monthly := make(map[string]float64, len(averages))
	for month, avg := range averages {
		monthly[strconv.Itoa(int(month))] = avg
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"year":    year,
		"monthly": monthly,
	})
}

// WeightEvolution expects a comma separated years query, e.g. ?years=2024,2025.
func (rc *ResourceController) WeightEvolution(ctx router.Context) error {
	hiveID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "hive id")
	}

	years, err := parseYears(ctx.Query("years", ""))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "years must be a comma separated list of integers",
		})
	}

	evolution, err := rc.Repo.Weights().Evolution(ctx.Context(), hiveID, years)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}

	// Year over year deltas between consecutive requested years.
	sort.Ints(years)
	deltas := make(map[string]float64, len(years))
	for i := 1; i < len(years); i++ {
		key := strconv.Itoa(years[i])
		deltas[key] = evolution[years[i]] - evolution[years[i-1]]
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"evolution": evolution,
		"deltas":    deltas,
	})
}

// WeightsInRange lists readings between ?from and ?to, RFC 3339 dates.
func (rc *ResourceController) WeightsInRange(ctx router.Context) error {
	from, to, err := parseRange(ctx)
	if err != nil {
		return badID(ctx, "date range")
	}

	records, err := rc.Repo.Weights().ListByDateRange(ctx.Context(), from, to)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{"weights": records})
}

// WeightPayload carries a new scale reading.
type WeightPayload struct {
	HiveID     string     `json:"hive_id"`
	Weight     int        `json:"weight"`
	RecordedAt *time.Time `json:"recorded_at"`
}

func (p WeightPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.HiveID, validation.Required, validation.By(validUUID)),
		validation.Field(&p.Weight, validation.Required, validation.Min(1)),
	)
}

func (rc *ResourceController) WeightCreate(ctx router.Context) error {
	payload := new(WeightPayload)
	if err := ctx.Bind(payload); err != nil {
		return badBody(ctx)
	}
	if err := payload.Validate(); err != nil {
		return validationFailed(ctx, err)
	}

	hiveID, _ := uuid.Parse(payload.HiveID)
	record := &WeightEntry{
		HiveID: hiveID,
		Weight: payload.Weight,
	}
	if payload.RecordedAt != nil {
		record.RecordedAt = *payload.RecordedAt
	}

	record, err := rc.Repo.Weights().Create(ctx.Context(), record)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusCreated, record)
}

func (rc *ResourceController) WeightDelete(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "weight id")
	}

	if err := rc.Repo.Weights().Delete(ctx.Context(), id); err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]string{"status": "deleted"})
}

func (rc *ResourceController) HarvestsByHive(ctx router.Context) error {
	hiveID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "hive id")
	}

	records, err := rc.Repo.Harvests().ListByHive(ctx.Context(), hiveID)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{"harvests": records})
}

func (rc *ResourceController) HarvestTotal(ctx router.Context) error {
	hiveID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "hive id")
	}

	// Both bounds present narrows the total to that window.
	if ctx.Query("from", "") != "" && ctx.Query("to", "") != "" {
		from, to, err := parseRange(ctx)
		if err != nil {
			return badID(ctx, "date range")
		}
		total, err := rc.Repo.Harvests().TotalByHiveInRange(ctx.Context(), hiveID, from, to)
		if err != nil {
			return rc.ErrorHandler(ctx, err)
		}
		return ctx.JSON(router.StatusOK, map[string]any{"total": total})
	}

	total, err := rc.Repo.Harvests().TotalByHive(ctx.Context(), hiveID)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{"total": total})
}

// HarvestsInRange lists extractions between ?from and ?to, RFC 3339 dates.
func (rc *ResourceController) HarvestsInRange(ctx router.Context) error {
	from, to, err := parseRange(ctx)
	if err != nil {
		return badID(ctx, "date range")
	}

	records, err := rc.Repo.Harvests().ListByDateRange(ctx.Context(), from, to)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{"harvests": records})
}

// HarvestPayload carries a new honey extraction.
type HarvestPayload struct {
	HiveID      string     `json:"hive_id"`
	Quantity    int        `json:"quantity"`
	HarvestedAt *time.Time `json:"harvested_at"`
}

func (p HarvestPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.HiveID, validation.Required, validation.By(validUUID)),
		validation.Field(&p.Quantity, validation.Required, validation.Min(1)),
	)
}

func (rc *ResourceController) HarvestCreate(ctx router.Context) error {
	payload := new(HarvestPayload)
	if err := ctx.Bind(payload); err != nil {
		return badBody(ctx)
	}
	if err := payload.Validate(); err != nil {
		return validationFailed(ctx, err)
	}

	hiveID, _ := uuid.Parse(payload.HiveID)
	record := &Harvest{
		HiveID:   hiveID,
		Quantity: payload.Quantity,
	}
	if payload.HarvestedAt != nil {
		record.HarvestedAt = *payload.HarvestedAt
	}

	record, err := rc.Repo.Harvests().Create(ctx.Context(), record)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusCreated, record)
}

func (rc *ResourceController) HarvestDelete(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "harvest id")
	}

	if err := rc.Repo.Harvests().Delete(ctx.Context(), id); err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]string{"status": "deleted"})
}

func (rc *ResourceController) EquipmentIndex(ctx router.Context) error {
	if t := ctx.Query("type", ""); t != "" {
		records, err := rc.Repo.Equipment().ListByType(ctx.Context(), t)
		if err != nil {
			return rc.ErrorHandler(ctx, err)
		}
		return ctx.JSON(router.StatusOK, map[string]any{"equipment": records})
	}

	if cond := ctx.Query("condition", ""); cond != "" {
		records, err := rc.Repo.Equipment().ListByCondition(ctx.Context(), cond)
		if err != nil {
			return rc.ErrorHandler(ctx, err)
		}
		return ctx.JSON(router.StatusOK, map[string]any{"equipment": records})
	}

	records, err := rc.Repo.Equipment().ListAll(ctx.Context())
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{"equipment": records})
}

func (rc *ResourceController) EquipmentByHive(ctx router.Context) error {
	hiveID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "hive id")
	}

	records, err := rc.Repo.Equipment().ListByHive(ctx.Context(), hiveID)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{"equipment": records})
}

// EquipmentPayload carries equipment attributes.
type EquipmentPayload struct {
	HiveID    string `json:"hive_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Condition string `json:"condition"`
}

func (p EquipmentPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.HiveID, validation.Required, validation.By(validUUID)),
		validation.Field(&p.Name, validation.Required, validation.Length(1, 50)),
	)
}

func (rc *ResourceController) EquipmentCreate(ctx router.Context) error {
	payload := new(EquipmentPayload)
	if err := ctx.Bind(payload); err != nil {
		return badBody(ctx)
	}
	if err := payload.Validate(); err != nil {
		return validationFailed(ctx, err)
	}

	hiveID, _ := uuid.Parse(payload.HiveID)
	record, err := rc.Repo.Equipment().Create(ctx.Context(), &Equipment{
		HiveID:    hiveID,
		Name:      payload.Name,
		Type:      payload.Type,
		Condition: payload.Condition,
	})
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusCreated, record)
}

func (rc *ResourceController) EquipmentUpdate(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "equipment id")
	}

	record, err := rc.Repo.Equipment().GetByID(ctx.Context(), id)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}

	payload := new(EquipmentPayload)
	if err := ctx.Bind(payload); err != nil {
		return badBody(ctx)
	}

	if payload.Name != "" {
		record.Name = payload.Name
	}
	if payload.Type != "" {
		record.Type = payload.Type
	}
	if payload.Condition != "" {
		record.Condition = payload.Condition
	}

	record, err = rc.Repo.Equipment().Update(ctx.Context(), record)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, record)
}

func (rc *ResourceController) EquipmentDelete(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "equipment id")
	}

	if err := rc.Repo.Equipment().Delete(ctx.Context(), id); err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]string{"status": "deleted"})
}

func (rc *ResourceController) InspectionsByHive(ctx router.Context) error {
	hiveID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "hive id")
	}

	records, err := rc.Repo.Inspections().ListByHive(ctx.Context(), hiveID)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{"inspections": records})
}

// InspectionPayload carries inspection attributes.
type InspectionPayload struct {
	HiveID      string     `json:"hive_id"`
	VisitedAt   *time.Time `json:"visited_at"`
	Description string     `json:"description"`
	Photo       string     `json:"photo"`
}

func (p InspectionPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.HiveID, validation.Required, validation.By(validUUID)),
	)
}

func (rc *ResourceController) InspectionCreate(ctx router.Context) error {
	payload := new(InspectionPayload)
	if err := ctx.Bind(payload); err != nil {
		return badBody(ctx)
	}
	if err := payload.Validate(); err != nil {
		return validationFailed(ctx, err)
	}

	hiveID, _ := uuid.Parse(payload.HiveID)
	record := &Inspection{
		HiveID:      hiveID,
		Description: payload.Description,
		Photo:       payload.Photo,
	}
	if payload.VisitedAt != nil {
		record.VisitedAt = *payload.VisitedAt
	}

	record, err := rc.Repo.Inspections().Create(ctx.Context(), record)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusCreated, record)
}

func (rc *ResourceController) InspectionUpdate(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "inspection id")
	}

	record, err := rc.Repo.Inspections().GetByID(ctx.Context(), id)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}

	payload := new(InspectionPayload)
	if err := ctx.Bind(payload); err != nil {
		return badBody(ctx)
	}

	if payload.Description != "" {
		record.Description = payload.Description
	}
	if payload.Photo != "" {
		record.Photo = payload.Photo
	}
	if payload.VisitedAt != nil {
		record.VisitedAt = *payload.VisitedAt
	}

	record, err = rc.Repo.Inspections().Update(ctx.Context(), record)
	if err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, record)
}

func (rc *ResourceController) InspectionDelete(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return badID(ctx, "inspection id")
	}

	if err := rc.Repo.Inspections().Delete(ctx.Context(), id); err != nil {
		return rc.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]string{"status": "deleted"})
}

func badID(ctx router.Context, what string) error {
	return ctx.JSON(router.StatusBadRequest, map[string]string{
		"error": "invalid " + what,
	})
}

func badBody(ctx router.Context) error {
	return ctx.JSON(router.StatusBadRequest, map[string]string{
		"error": "failed to parse request body",
	})
}

func validationFailed(ctx router.Context, err error) error {
	return ctx.JSON(router.StatusBadRequest, map[string]any{
		"error":      "validation failed",
		"validation": FormatValidationErrorToMap(err),
	})
}

func validUUID(value any) error {
	s, _ := value.(string)
	if _, err := uuid.Parse(s); err != nil {
		return validation.NewError("validation_uuid", "must be a valid UUID")
	}
	return nil
}

func parseRange(ctx router.Context) (time.Time, time.Time, error) {
	from, err := parseDate(ctx.Query("from", ""))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate(ctx.Query("to", ""))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func parseYears(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, strconv.ErrSyntax
	}

	parts := strings.Split(raw, ",")
	years := make([]int, 0, len(parts))
	for _, part := range parts {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	return years, nil
}
