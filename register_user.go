package hivekeeper

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries everything needed to create a keeper account.
type RegisterUserMessage struct {
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Password     string     `json:"password"`
	KeeperNumber *int       `json:"keeper_number"`
	BirthDate    *time.Time `json:"birth_date"`
	UseHashid    bool       `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler creates user accounts. Password hashing runs through
// the configured PasswordAuthenticator so registration shares the same
// worker pool as login verification.
type RegisterUserHandler struct {
	repo   RepositoryManager
	hasher PasswordAuthenticator
}

func NewRegisterUserHandler(repo RepositoryManager, hasher PasswordAuthenticator) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:   repo,
		hasher: hasher,
	}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	if err := validateRegistration(event); err != nil {
		return nil, err
	}

	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := h.hasher.HashPassword(ctx, event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Email = normalizeEmail(event.Email)
		user.Phone = event.Phone
		user.FirstName = event.FirstName
		user.LastName = event.LastName
		user.KeeperNumber = event.KeeperNumber
		user.BirthDate = event.BirthDate
		if event.UseHashid {
			if id, err := hashid.NewUUID(user.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return user, nil
}

func validateRegistration(event RegisterUserMessage) error {
	if strings.TrimSpace(event.Email) == "" {
		return goerrors.New("email is required", goerrors.CategoryValidation).
			WithTextCode("EMAIL_REQUIRED")
	}

	if !isEmail(event.Email) {
		return goerrors.New("email is not valid", goerrors.CategoryValidation).
			WithTextCode("EMAIL_INVALID")
	}

	if event.Password == "" {
		return ErrNoEmptyString
	}

	if event.Phone != "" {
		if err := validatePhone(event.Phone); err != nil {
			return err
		}
	}

	return nil
}

// validatePhone accepts E.164 style numbers, defaulting to FR for national
// formats since that is where most keeper accounts register from.
func validatePhone(phone string) error {
	parsed, err := phonenumbers.Parse(phone, "FR")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "phone number could not be parsed").
			WithTextCode("PHONE_INVALID")
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return goerrors.New("phone number is not valid", goerrors.CategoryValidation).
			WithTextCode("PHONE_INVALID")
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
