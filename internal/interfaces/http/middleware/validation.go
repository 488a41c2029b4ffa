package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/report"
	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures gin's validator with JSON field names and the
// zone, unit, report_type and period tags
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("zone", func(fl validator.FieldLevel) bool {
		return access.IsKnownZone(fl.Field().String())
	})
	_ = v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
		return access.IsKnownUnit(fl.Field().String())
	})
	_ = v.RegisterValidation("report_type", func(fl validator.FieldLevel) bool {
		return report.Type(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
		return report.Period(fl.Field().String()).IsValid()
	})
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError answers 400 with the field details of err
func HandleValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Must be at least " + e.Param()
	case "max":
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "zone":
		return "Unknown zone"
	case "unit":
		return "Unknown unit"
	case "report_type":
		return "Invalid report type. Must be one of: snapshot, fa, bp, unp"
	case "period":
		return "Invalid period. Must be one of: daily, weekly, monthly, yearly"
	default:
		return "Invalid value"
	}
}
