package handler

import (
	"net/http"
	"strconv"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/apierror"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/dto"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreditosHandler struct{ svc service.CreditoService }

func NewCreditosHandler(svc service.CreditoService) *CreditosHandler {
	return &CreditosHandler{svc: svc}
}

// Otorgar godoc
// @Summary      Otorgar cuenta de crédito
// @Description  Crea la cuenta de crédito del cliente copiando el límite aprobado del registro. Idempotente por cliente.
// @Tags         creditos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.OtorgarCreditoRequest true "Cliente y límite aprobado"
// @Success      201  {object} dto.EstadoCreditoResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/creditos [post]
func (h *CreditosHandler) Otorgar(c *gin.Context) {
	var req dto.OtorgarCreditoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Otorgar(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Estado godoc
// @Summary      Estado de crédito de un cliente
// @Description  Retorna límite, saldo utilizado, disponible, porcentaje y estado derivado.
// @Tags         creditos
// @Produce      json
// @Security     BearerAuth
// @Param        clienteId path string true "UUID del cliente"
// @Success      200 {object} dto.EstadoCreditoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/creditos/{clienteId} [get]
func (h *CreditosHandler) Estado(c *gin.Context) {
	clienteID, err := uuid.Parse(c.Param("clienteId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Estado(c.Request.Context(), clienteID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar cuentas de crédito
// @Tags         creditos
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Página (default 1)"
// @Param        limit query int false "Registros por página (default 50)"
// @Success      200 {object} dto.CreditoListResponse
// @Router       /v1/creditos [get]
func (h *CreditosHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	resp, err := h.svc.Listar(c.Request.Context(), page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
