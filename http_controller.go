package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/nyaruka/phonenumbers"
)

// AuthControllerRoutes are the mount points for the thin API layer.
type AuthControllerRoutes struct {
	Register string
	Login    string
	Profile  string
}

// AuthController exposes registration, login and profile endpoints over
// the UserService. It holds no business rules of its own.
type AuthController struct {
	Debug        bool
	Logger       Logger
	Service      *UserService
	Gate         fiber.Handler
	ContextKey   string
	Routes       *AuthControllerRoutes
	ErrorHandler func(c *fiber.Ctx, err error) error
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(service *UserService, gate fiber.Handler, contextKey string, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:     defLogger{},
		Service:    service,
		Gate:       gate,
		ContextKey: contextKey,
		Routes: &AuthControllerRoutes{
			Register: "/api/auth/register",
			Login:    "/api/auth/login",
			Profile:  "/api/users/profile",
		},
	}

	c.ErrorHandler = func(ctx *fiber.Ctx, err error) error {
		return RespondError(ctx, err, c.Logger)
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Service == nil {
		panic("Missing UserService in auth controller...")
	}

	if c.Gate == nil {
		panic("Missing authentication gate in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the controller on a fiber app. The gate runs
// in front of every route so optional authentication is uniform; only the
// profile handlers insist on a principal.
func RegisterAuthRoutes(app *fiber.App, controller *AuthController) {
	app.Use(controller.Gate)

	app.Post(controller.Routes.Register, controller.Register)
	app.Post(controller.Routes.Login, controller.Login)
	app.Get(controller.Routes.Profile, controller.ProfileShow)
	app.Put(controller.Routes.Profile, controller.ProfileUpdate)
}

// RegistrationPayload is the request body for POST /api/auth/register.
type RegistrationPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone_number"`
}

// Validate will run validation rules
func (r RegistrationPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.FirstName, validation.Length(0, 100)),
		validation.Field(&r.LastName, validation.Length(0, 100)),
		validation.Field(&r.Phone, validation.By(ValidatePhoneNumber)),
	)
}

// ValidatePhoneNumber accepts an empty value or anything that parses as a
// real phone number, local formats included.
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "RU")
	if err != nil {
		return fmt.Errorf("must be a valid phone number")
	}

	if !phonenumbers.IsValidNumber(num) {
		return fmt.Errorf("must be a valid phone number")
	}

	return nil
}

// LoginPayload is the request body for POST /api/auth/login. Login can be
// an email or a username.
type LoginPayload struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Login, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Register(ctx *fiber.Ctx) error {
	payload := new(RegistrationPayload)

	if err := ctx.BodyParser(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	if a.Debug {
		masked := *payload
		masked.Password = "[redacted]"
		a.Logger.Debug("register payload: %s", print.MaybePrettyJSON(masked))
	}

	user, err := a.Service.Register(ctx.UserContext(), RegisterUserRequest{
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(user.Public())
}

func (a *AuthController) Login(ctx *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := ctx.BodyParser(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	result, err := a.Service.Authenticate(ctx.UserContext(), payload.Login, payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(result)
}

// ProfileShow returns the authenticated user's profile. This is where
// downstream authorization bites: no principal means 401.
func (a *AuthController) ProfileShow(ctx *fiber.Ctx) error {
	principal, ok := PrincipalFromLocals(ctx, a.ContextKey)
	if !ok {
		return a.ErrorHandler(ctx, ErrInvalidCredentials)
	}

	user, err := a.Service.GetProfile(ctx.UserContext(), principal.ID())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(user.Public())
}

// UpdateProfilePayload is the request body for PUT /api/users/profile.
type UpdateProfilePayload struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone_number"`
}

// Validate will run validation rules
func (r UpdateProfilePayload) Validate() error {
	if r.Phone != nil {
		if err := ValidatePhoneNumber(*r.Phone); err != nil {
			return err
		}
	}
	return nil
}

func (a *AuthController) ProfileUpdate(ctx *fiber.Ctx) error {
	principal, ok := PrincipalFromLocals(ctx, a.ContextKey)
	if !ok {
		return a.ErrorHandler(ctx, ErrInvalidCredentials)
	}

	payload := new(UpdateProfilePayload)
	if err := ctx.BodyParser(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	user, err := a.Service.UpdateProfile(ctx.UserContext(), principal.ID(), UpdateProfileRequest{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(user.Public())
}
