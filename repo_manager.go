package hivekeeper

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Sessions() Sessions
	Hives() Hives
	Weights() Weights
	Harvests() Harvests
	Equipment() EquipmentRepo
	Inspections() Inspections
}

type mngr struct {
	db          *bun.DB
	users       Users
	sessions    Sessions
	hives       Hives
	weights     Weights
	harvests    Harvests
	equipment   EquipmentRepo
	inspections Inspections
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:          db,
		users:       NewUsersRepository(db),
		sessions:    NewSessionsRepository(db),
		hives:       NewHivesRepository(db),
		weights:     NewWeightsRepository(db),
		harvests:    NewHarvestsRepository(db),
		equipment:   NewEquipmentRepository(db),
		inspections: NewInspectionsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.sessions == nil {
		return errors.New("repository sessions should be initialized")
	}

	if m.hives == nil {
		return errors.New("repository hives should be initialized")
	}

	if m.weights == nil {
		return errors.New("repository weights should be initialized")
	}

	if m.harvests == nil {
		return errors.New("repository harvests should be initialized")
	}

	if m.equipment == nil {
		return errors.New("repository equipment should be initialized")
	}

	if m.inspections == nil {
		return errors.New("repository inspections should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Sessions() Sessions {
	return m.sessions
}

func (m mngr) Hives() Hives {
	return m.hives
}

func (m mngr) Weights() Weights {
	return m.weights
}

func (m mngr) Harvests() Harvests {
	return m.harvests
}

func (m mngr) Equipment() EquipmentRepo {
	return m.equipment
}

func (m mngr) Inspections() Inspections {
	return m.inspections
}
