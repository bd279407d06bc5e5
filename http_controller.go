package hivekeeper

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// RawTokenKey is the locals key the auth gate uses to expose the raw bearer
// token to downstream handlers.
const RawTokenKey = "bearer_token"

// AuthController serves the JSON auth API: registration, login, logout, and
// session management.
type AuthController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Auther       Authenticator
	Registrar    *RegisterUserHandler
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = l
		return c
	}
}

func WithRepositoryManager(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithRegistrar(r *RegisterUserHandler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Registrar = r
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Registrar == nil {
		panic("Missing RegisterUserHandler in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the auth API. Registration, login, and the token
// probe stay open; everything else runs behind the gate.
func RegisterAuthRoutes[T any](app router.Router[T], c *AuthController, protected router.MiddlewareFunc) {
	app.Post("/register", c.RegisterPost).SetName("auth.register")
	app.Post("/login", c.LoginPost).SetName("auth.login")
	app.Post("/sessions/validate", c.SessionValidatePost).SetName("sessions.validate")

	app.Post("/logout", c.LogoutPost, protected).SetName("auth.logout")

	app.Get("/sessions", c.SessionsIndex, protected).SetName("sessions.index")
	app.Post("/sessions", c.SessionCreate, protected).SetName("sessions.create")
	app.Get("/sessions/:id", c.SessionShow, protected).SetName("sessions.show")
	app.Get("/sessions/user/:userID", c.SessionsByUser, protected).SetName("sessions.by-user")
	app.Put("/sessions/:id", c.SessionUpdate, protected).SetName("sessions.update")
	app.Delete("/sessions/:id", c.SessionDelete, protected).SetName("sessions.delete")
	app.Post("/sessions/:id/invalidate", c.SessionInvalidate, protected).SetName("sessions.invalidate")
	app.Post("/sessions/user/:userID/invalidate", c.SessionInvalidateAll, protected).SetName("sessions.invalidate-all")

	app.Get("/users", c.UsersIndex, protected).SetName("users.index")
	app.Get("/users/:id", c.UserShow, protected).SetName("users.show")
	app.Put("/users/:id", c.UserUpdate, protected).SetName("users.update")
	app.Delete("/users/:id", c.UserDelete, protected).SetName("users.delete")
	app.Get("/me", c.Me, protected).SetName("users.me")
}

// LoginRequest payload
type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error":      "validation failed",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	meta := sessionMetadataFromRequest(ctx)

	result, err := a.Auther.Login(ctx.Context(), payload.Identifier, payload.Password, meta)
	if err != nil {
		// Unknown email and wrong password produce the same response so
		// callers cannot enumerate accounts.
		if goerrors.Is(err, ErrInvalidCredentials) || goerrors.Is(err, ErrIdentityNotFound) {
			return ctx.JSON(router.StatusUnauthorized, map[string]string{
				"error": "invalid credentials",
			})
		}
		a.Logger.Error("login error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user": map[string]string{
			"id":    result.Identity.ID(),
			"email": result.Identity.Email(),
			"name":  result.Identity.Name(),
		},
	})
}

func (a *AuthController) LogoutPost(ctx router.Context) error {
	token, _ := ctx.Locals(RawTokenKey).(string)

	if err := a.Auther.Logout(ctx.Context(), token); err != nil {
		a.Logger.Error("logout error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"status": "logged out",
	})
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	FirstName    string     `form:"first_name" json:"first_name"`
	LastName     string     `form:"last_name" json:"last_name"`
	Email        string     `form:"email" json:"email"`
	Phone        string     `form:"phone_number" json:"phone_number"`
	Password     string     `form:"password" json:"password"`
	KeeperNumber *int       `form:"keeper_number" json:"keeper_number"`
	BirthDate    *time.Time `form:"birth_date" json:"birth_date"`
}

// Validate will validate the payload
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
	)
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error":      "validation failed",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		a.Logger.Debug("register payload", "payload", print.MaybePrettyJSON(payload))
	}

	user, err := a.Registrar.Execute(ctx.Context(), RegisterUserMessage{
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        payload.Email,
		Phone:        payload.Phone,
		Password:     payload.Password,
		KeeperNumber: payload.KeeperNumber,
		BirthDate:    payload.BirthDate,
	})
	if err != nil {
		if goerrors.Is(err, ErrDuplicateEmail) {
			return ctx.JSON(router.StatusConflict, map[string]string{
				"error": ErrDuplicateEmail.Message,
			})
		}
		a.Logger.Error("register user error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, user)
}

// SessionValidateRequest carries the raw token to probe.
type SessionValidateRequest struct {
	Token string `form:"token" json:"token"`
}

// SessionValidatePost reports whether a token still maps to a live session.
// It is unauthenticated on purpose: clients use it to decide whether to show
// a login screen without burning the token on a protected call.
func (a *AuthController) SessionValidatePost(ctx router.Context) error {
	payload := new(SessionValidateRequest)

	if err := ctx.Bind(payload); err != nil || payload.Token == "" {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "token is required",
		})
	}

	active, err := a.Repo.Sessions().IsActive(ctx.Context(), payload.Token)
	if err != nil {
		a.Logger.Error("session validate error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]bool{
		"valid": active,
	})
}

func (a *AuthController) SessionsIndex(ctx router.Context) error {
	records, err := a.Repo.Sessions().List(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{
		"sessions": records,
	})
}

// SessionCreateRequest is the admin payload to create a session row by hand.
type SessionCreateRequest struct {
	UserID    string     `json:"user_id"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
	UserAgent string     `json:"user_agent"`
	IPAddress string     `json:"ip_address"`
}

func (r SessionCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, validation.By(validUUID)),
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.ExpiresAt, validation.Required),
	)
}

func (a *AuthController) SessionCreate(ctx router.Context) error {
	payload := new(SessionCreateRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error":      "validation failed",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid user id",
		})
	}

	record, err := a.Repo.Sessions().Create(ctx.Context(), userID, payload.Token, *payload.ExpiresAt, SessionMetadata{
		UserAgent: payload.UserAgent,
		IPAddress: payload.IPAddress,
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusCreated, record)
}

func (a *AuthController) SessionShow(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid session id",
		})
	}

	record, err := a.Repo.Sessions().GetByID(ctx.Context(), id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, record)
}

func (a *AuthController) SessionsByUser(ctx router.Context) error {
	userID, err := uuid.Parse(ctx.Param("userID"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid user id",
		})
	}

	records, err := a.Repo.Sessions().ListByUser(ctx.Context(), userID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{
		"sessions": records,
	})
}

// SessionUpdateRequest allows touching the mutable parts of a session.
type SessionUpdateRequest struct {
	ExpiresAt *time.Time `json:"expires_at"`
	Valid     *bool      `json:"valid"`
}

func (a *AuthController) SessionUpdate(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid session id",
		})
	}

	payload := new(SessionUpdateRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse request body",
		})
	}

	record, err := a.Repo.Sessions().GetByID(ctx.Context(), id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if payload.ExpiresAt != nil {
		record.ExpiresAt = *payload.ExpiresAt
	}
	if payload.Valid != nil {
		record.Valid = *payload.Valid
	}

	record, err = a.Repo.Sessions().Update(ctx.Context(), record)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, record)
}

func (a *AuthController) SessionDelete(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid session id",
		})
	}

	if err := a.Repo.Sessions().Delete(ctx.Context(), id); err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]string{
		"status": "deleted",
	})
}

func (a *AuthController) SessionInvalidate(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid session id",
		})
	}

	if err := a.Repo.Sessions().Invalidate(ctx.Context(), id); err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]string{
		"status": "invalidated",
	})
}

func (a *AuthController) SessionInvalidateAll(ctx router.Context) error {
	userID, err := uuid.Parse(ctx.Param("userID"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid user id",
		})
	}

	count, err := a.Repo.Sessions().InvalidateAll(ctx.Context(), userID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{
		"status":      "invalidated",
		"invalidated": count,
	})
}

func (a *AuthController) UsersIndex(ctx router.Context) error {
	records, err := a.Repo.Users().ListAll(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{
		"users": records,
	})
}

func (a *AuthController) UserShow(ctx router.Context) error {
	record, err := a.Repo.Users().GetByIdentifier(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, record)
}

// UserUpdateRequest is the profile update payload. Password and email are
// deliberately excluded from profile updates.
type UserUpdateRequest struct {
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	Phone        *string    `json:"phone_number"`
	KeeperNumber *int       `json:"keeper_number"`
	BirthDate    *time.Time `json:"birth_date"`
}

func (a *AuthController) UserUpdate(ctx router.Context) error {
	record, err := a.Repo.Users().GetByIdentifier(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(UserUpdateRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse request body",
		})
	}

	if payload.FirstName != nil {
		record.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		record.LastName = *payload.LastName
	}
	if payload.Phone != nil {
		if *payload.Phone != "" {
			if err := validatePhone(*payload.Phone); err != nil {
				return a.ErrorHandler(ctx, err)
			}
		}
		record.Phone = *payload.Phone
	}
	if payload.KeeperNumber != nil {
		record.KeeperNumber = payload.KeeperNumber
	}
	if payload.BirthDate != nil {
		record.BirthDate = payload.BirthDate
	}

	now := time.Now()
	record.UpdatedAt = &now

	record, err = a.Repo.Users().Update(ctx.Context(), record)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, record)
}

func (a *AuthController) UserDelete(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid user id",
		})
	}

	if err := a.Repo.Users().DeleteByID(ctx.Context(), id); err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]string{
		"status": "deleted",
	})
}

// Me returns the profile behind the validated token.
func (a *AuthController) Me(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, "user")
	if !ok {
		return ctx.JSON(router.StatusUnauthorized, map[string]string{
			"error": "authentication required",
		})
	}

	record, err := a.Repo.Users().GetByIdentifier(ctx.Context(), claims.UserID())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, record)
}

func sessionMetadataFromRequest(ctx router.Context) SessionMetadata {
	return SessionMetadata{
		UserAgent: ctx.GetString("User-Agent", ""),
		IPAddress: ctx.IP(),
	}
}

// defaultErrHandler maps categorized errors to JSON responses.
func defaultErrHandler(c router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred")
	}

	status := router.StatusInternalServerError
	switch richErr.Category {
	case goerrors.CategoryAuth:
		status = router.StatusUnauthorized
	case goerrors.CategoryNotFound:
		status = router.StatusNotFound
	case goerrors.CategoryConflict:
		status = router.StatusConflict
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		status = router.StatusBadRequest
	}

	body := map[string]any{
		"error": richErr.Message,
	}
	if richErr.TextCode != "" {
		body["text_code"] = richErr.TextCode
	}

	return c.JSON(status, body)
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field to message map for JSON responses.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if verrs, ok := err.(validation.Errors); ok {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["error"] = err.Error()
	return out
}
