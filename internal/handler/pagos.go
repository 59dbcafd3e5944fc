package handler

import (
	"net/http"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/apierror"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/dto"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/middleware"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PagosHandler struct{ svc service.PagoService }

func NewPagosHandler(svc service.PagoService) *PagosHandler { return &PagosHandler{svc: svc} }

// Registrar godoc
// @Summary      Registrar pago
// @Description  Registra un pago inmutable y aplica sus asignaciones a las cuentas por cobrar. Libera utilización de crédito en deudas financiadas. Todo o nada.
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarPagoRequest true "Pago y asignaciones"
// @Success      201  {object} dto.PagoResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/pagos [post]
func (h *PagosHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Aplicar(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CuentasDeCliente godoc
// @Summary      Cuentas por cobrar de un cliente
// @Description  Lista las cuentas por cobrar del cliente con su estado derivado al día.
// @Tags         pagos
// @Produce      json
// @Security     BearerAuth
// @Param        clienteId path string true "UUID del cliente"
// @Success      200 {array} dto.CuentaPorCobrarResponse
// @Router       /v1/pagos/cuentas/{clienteId} [get]
func (h *PagosHandler) CuentasDeCliente(c *gin.Context) {
	clienteID, err := uuid.Parse(c.Param("clienteId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.CuentasDeCliente(c.Request.Context(), clienteID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
