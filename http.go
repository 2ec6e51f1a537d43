package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/numerouno-life/ecommerce-auth/middleware/tokenware"
)

// NewAuthGate wires the tokenware middleware with this package's token
// provider and principal resolver. Requests always continue past the
// gate; downstream handlers decide whether an absent principal is a 401.
func NewAuthGate(tokens TokenProvider, resolver PrincipalResolver, cfg Config) fiber.Handler {
	return tokenware.New(tokenware.Config{
		Validator:  tokens,
		AuthScheme: cfg.GetAuthScheme(),
		ContextKey: cfg.GetContextKey(),
		Resolver: func(ctx context.Context, userID int64) (any, error) {
			return resolver.LoadByID(ctx, userID)
		},
		ContextEnricher: func(ctx context.Context, principal any) context.Context {
			if p, ok := principal.(Principal); ok {
				return WithPrincipal(ctx, p)
			}
			return ctx
		},
	})
}

// ErrorResponse is the wire shape for failed requests, the same for every
// handler in the service.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Status  int    `json:"status"`
}

// RespondError maps an error to its HTTP status by category and writes
// the JSON body. Unknown errors collapse to a 500 with no detail leaked.
func RespondError(c *fiber.Ctx, err error, logger Logger) error {
	if logger == nil {
		logger = defLogger{}
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	status := statusFromCategory(richErr.Category)

	if status >= fiber.StatusInternalServerError {
		logger.Error("request failed: %v", err)
		return c.Status(status).JSON(ErrorResponse{
			Message: "internal server error",
			Status:  status,
		})
	}

	logger.Info("request rejected: %s code=%s path=%s", richErr.Message, richErr.TextCode, c.OriginalURL())

	return c.Status(status).JSON(ErrorResponse{
		Message: richErr.Message,
		Code:    richErr.TextCode,
		Status:  status,
	})
}

func statusFromCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return fiber.StatusUnauthorized
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
