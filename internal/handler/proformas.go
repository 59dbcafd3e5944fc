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

type ProformasHandler struct{ svc service.ProformaService }

func NewProformasHandler(svc service.ProformaService) *ProformasHandler {
	return &ProformasHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear proforma
// @Description  Registra una proforma PENDIENTE con sus detalles y la coordinación de entrega solicitada.
// @Tags         proformas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProformaRequest true "Detalle de la proforma"
// @Success      201  {object} dto.ProformaResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/proformas [post]
func (h *ProformasHandler) Crear(c *gin.Context) {
	var req dto.CrearProformaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary      Obtener proforma
// @Tags         proformas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la proforma"
// @Success      200 {object} dto.ProformaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/proformas/{id} [get]
func (h *ProformasHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar proformas
// @Description  Lista paginada, filtrable por estado, cliente y rango de fechas.
// @Tags         proformas
// @Produce      json
// @Security     BearerAuth
// @Param        estado     query string false "PENDIENTE | APROBADA | RECHAZADA | CONVERTIDA | VENCIDA"
// @Param        cliente_id query string false "UUID del cliente"
// @Param        page       query int    false "Página (default 1)"
// @Param        limit      query int    false "Registros por página (default 50)"
// @Success      200 {object} dto.ProformaListResponse
// @Router       /v1/proformas [get]
func (h *ProformasHandler) Listar(c *gin.Context) {
	var filter dto.ProformaFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Aprobar godoc
// @Summary      Aprobar proforma
// @Description  Transición PENDIENTE→APROBADA. Confirma la coordinación de entrega y valida el pago contra la política. Con con_pago=true convierte en la misma operación.
// @Tags         proformas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la proforma"
// @Param        body body dto.AprobarProformaRequest true "Coordinación confirmada y pago opcional"
// @Success      200  {object} dto.ProformaResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/proformas/{id}/aprobar [post]
func (h *ProformasHandler) Aprobar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AprobarProformaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Aprobar(c.Request.Context(), usuarioID, id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Rechazar godoc
// @Summary      Rechazar proforma
// @Description  Transición PENDIENTE→RECHAZADA. El motivo es obligatorio.
// @Tags         proformas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la proforma"
// @Param        body body dto.RechazarProformaRequest true "Motivo del rechazo"
// @Success      200  {object} dto.ProformaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/proformas/{id}/rechazar [post]
func (h *ProformasHandler) Rechazar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RechazarProformaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Rechazar(c.Request.Context(), id, req.Motivo)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Convertir godoc
// @Summary      Convertir proforma en venta
// @Description  Transición APROBADA→CONVERTIDA: crea la venta, la cuenta por cobrar si queda saldo, y reserva crédito bajo política CREDITO.
// @Tags         proformas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la proforma"
// @Success      201 {object} dto.VentaResponse
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/proformas/{id}/convertir [post]
func (h *ProformasHandler) Convertir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Convertir(c.Request.Context(), usuarioID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Alertas godoc
// @Summary      Alertas de proformas
// @Description  Conteo de proformas pendientes de aprobación y aprobadas próximas a vencer.
// @Tags         proformas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.AlertasProformasResponse
// @Router       /v1/proformas/alertas [get]
func (h *ProformasHandler) Alertas(c *gin.Context) {
	resp, err := h.svc.Alertas(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
