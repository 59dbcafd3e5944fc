package handler

import (
	"net/http"
	"reflect"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/apierror"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeServiceError maps a service error to its HTTP representation.
// Consistency breaches are logged and hidden behind a generic 500; every
// other business kind travels to the client with its machine-readable code.
func writeServiceError(c *gin.Context, err error) {
	if service.EsFatal(err) {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("inconsistencia detectada")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno"))
		return
	}
	kind := service.KindOf(err)
	switch kind {
	case service.KindNoEncontrado:
		c.JSON(http.StatusNotFound, apierror.NewWithCode(string(kind), err.Error()))
	case service.KindTransicionInvalida:
		c.JSON(http.StatusConflict, apierror.NewWithCode(string(kind), err.Error()))
	case service.KindMontoInsuficiente, service.KindMontoExcedeTotal,
		service.KindPoliticaNoPermitida, service.KindMotivoRequerido,
		service.KindCreditoInsuficiente, service.KindClienteSinCredito:
		c.JSON(http.StatusUnprocessableEntity, apierror.NewWithCode(string(kind), err.Error()))
	case "":
		log.Error().Err(err).Str("path", c.FullPath()).Msg("error no clasificado")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno"))
	default:
		c.JSON(http.StatusBadRequest, apierror.NewWithCode(string(kind), err.Error()))
	}
}
