package storefrontserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	userapp "github.com/Apurer/go-gin-storefront/internal/domains/users/application"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// Envelope wraps every successful response.
type Envelope struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	OrderID string `json:"orderId,omitempty"`
	Message string `json:"message,omitempty"`
}

func respondOK(c *gin.Context, status int, result any) {
	c.JSON(status, Envelope{Success: true, Result: result})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

var responder = apierrors.NewChainedResponder("", orderProblem, catalogProblem, userProblem, internalProblem)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondBindError reports a malformed request body or query.
func respondBindError(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// respondServiceError maps application errors from any bounded context to problems.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func orderProblem(err error) (apierrors.ProblemDetail, bool) {
	var stock *ordersapp.InsufficientStockError
	switch {
	case errors.As(err, &stock):
		return apierrors.ErrInsufficientStock.
			WithDetail(stock.Error()).
			WithExtension("productId", stock.ProductID).
			WithExtension("requested", stock.Requested).
			WithExtension("available", stock.Available), true
	case errors.Is(err, ordersapp.ErrInsufficientStock):
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrUnauthorized):
		return apierrors.ErrForbidden.WithCode(apierrors.CodeUnauthorized).WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidTransition):
		return apierrors.ErrConflict.WithCode(apierrors.CodeInvalidTransition).WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrAlreadyCancelled):
		return apierrors.ErrConflict.WithCode(apierrors.CodeAlreadyCancelled).WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithCode(apierrors.CodeIdempotencyConflict).WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func catalogProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogapp.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, catalogapp.ErrCategoryInUse), errors.Is(err, catalogapp.ErrProductInUse):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func userProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, userapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, userapp.ErrAuthentication):
		return apierrors.ErrUnauthorized.WithDetail("invalid email, password or session"), true
	case errors.Is(err, userapp.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, userapp.ErrEmailTaken):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// internalProblem hides storage and driver errors from clients.
func internalProblem(error) (apierrors.ProblemDetail, bool) {
	return apierrors.ErrInternal.WithDetail("unexpected error"), true
}

func badQueryProblem(name, raw string) apierrors.ProblemDetail {
	return apierrors.NewValidationProblem(map[string]string{name: "must be an integer, got " + strconv.Quote(raw)})
}
