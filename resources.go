package hivekeeper

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Hive is a single colony owned by a keeper. Frame counts describe the
// current box configuration and are updated after inspections.
type Hive struct {
	bun.BaseModel `bun:"table:hives,alias:hiv"`

	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	KeeperID       uuid.UUID  `bun:"keeper_id,notnull,type:uuid" json:"keeper_id,omitempty"`
	Keeper         *User      `bun:"rel:belongs-to,join:keeper_id=id" json:"keeper,omitempty"`
	Name           string     `bun:"name" json:"name,omitempty"`
	Number         *int       `bun:"number" json:"number,omitempty"`
	Photo          string     `bun:"photo" json:"photo,omitempty"`
	BodyFrames     *int       `bun:"body_frames" json:"body_frames,omitempty"`
	Supers         *int       `bun:"supers" json:"supers,omitempty"`
	FramesPerSuper *int       `bun:"frames_per_super" json:"frames_per_super,omitempty"`
	BroodFrames    *int       `bun:"brood_frames" json:"brood_frames,omitempty"`
	FoodFrames     *int       `bun:"food_frames" json:"food_frames,omitempty"`
	FreeFrames     *int       `bun:"free_frames" json:"free_frames,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// WeightEntry is one scale reading for a hive, in grams.
type WeightEntry struct {
	bun.BaseModel `bun:"table:weights,alias:wgt"`

	ID         uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	HiveID     uuid.UUID  `bun:"hive_id,notnull,type:uuid" json:"hive_id,omitempty"`
	Hive       *Hive      `bun:"rel:belongs-to,join:hive_id=id" json:"hive,omitempty"`
	Weight     int        `bun:"weight,notnull" json:"weight"`
	RecordedAt time.Time  `bun:"recorded_at,notnull" json:"recorded_at"`
	CreatedAt  *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Harvest is one honey extraction from a hive, quantity in grams.
type Harvest struct {
	bun.BaseModel `bun:"table:harvests,alias:hrv"`

	ID          uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	HiveID      uuid.UUID  `bun:"hive_id,notnull,type:uuid" json:"hive_id,omitempty"`
	Hive        *Hive      `bun:"rel:belongs-to,join:hive_id=id" json:"hive,omitempty"`
	Quantity    int        `bun:"quantity,notnull" json:"quantity"`
	HarvestedAt time.Time  `bun:"harvested_at,notnull" json:"harvested_at"`
	CreatedAt   *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Equipment is a piece of apiary gear assigned to a hive.
type Equipment struct {
	bun.BaseModel `bun:"table:equipment,alias:eqp"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	HiveID    uuid.UUID  `bun:"hive_id,notnull,type:uuid" json:"hive_id,omitempty"`
	Hive      *Hive      `bun:"rel:belongs-to,join:hive_id=id" json:"hive,omitempty"`
	Name      string     `bun:"name" json:"name,omitempty"`
	Type      string     `bun:"type" json:"type,omitempty"`
	Condition string     `bun:"condition" json:"condition,omitempty"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Inspection is a dated visit note for a hive.
type Inspection struct {
	bun.BaseModel `bun:"table:inspections,alias:ins"`

	ID          uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	HiveID      uuid.UUID  `bun:"hive_id,notnull,type:uuid" json:"hive_id,omitempty"`
	Hive        *Hive      `bun:"rel:belongs-to,join:hive_id=id" json:"hive,omitempty"`
	VisitedAt   time.Time  `bun:"visited_at,notnull" json:"visited_at"`
	Description string     `bun:"description" json:"description,omitempty"`
	Photo       string     `bun:"photo" json:"photo,omitempty"`
	CreatedAt   *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
