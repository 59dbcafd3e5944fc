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

type CierresHandler struct{ svc service.CierreService }

func NewCierresHandler(svc service.CierreService) *CierresHandler {
	return &CierresHandler{svc: svc}
}

// Registrar godoc
// @Summary      Registrar cierre de caja
// @Description  Crea un cierre pendiente de consolidación. La diferencia se calcula en el servidor como contado - esperado.
// @Tags         cierres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarCierreRequest true "Montos del cierre"
// @Success      201  {object} dto.CierreResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/cierres [post]
func (h *CierresHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarCierreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Registrar(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Pendientes godoc
// @Summary      Cierres pendientes de consolidación
// @Tags         cierres
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CierreResponse
// @Router       /v1/admin/cierres/pendientes [get]
func (h *CierresHandler) Pendientes(c *gin.Context) {
	resp, err := h.svc.Pendientes(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Estadisticas godoc
// @Summary      Estadísticas de cierres
// @Description  Conteos por estado y cierres con diferencia no nula.
// @Tags         cierres
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} repository.EstadisticasCierres
// @Router       /v1/admin/cierres/estadisticas [get]
func (h *CierresHandler) Estadisticas(c *gin.Context) {
	resp, err := h.svc.Estadisticas(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Consolidar godoc
// @Summary      Consolidar cierre
// @Description  Transición pendiente→consolidado. Una diferencia no nula se registra, no bloquea.
// @Tags         cierres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del cierre"
// @Param        body body dto.ConsolidarCierreRequest false "Observaciones"
// @Success      200  {object} dto.CierreResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/admin/cierres/{id}/consolidar [post]
func (h *CierresHandler) Consolidar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ConsolidarCierreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	adminID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Consolidar(c.Request.Context(), adminID, id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Rechazar godoc
// @Summary      Rechazar cierre
// @Description  Transición pendiente→rechazado. El motivo es obligatorio; puede marcar reapertura requerida.
// @Tags         cierres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del cierre"
// @Param        body body dto.RechazarCierreRequest true "Motivo del rechazo"
// @Success      200  {object} dto.CierreResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/admin/cierres/{id}/rechazar [post]
func (h *CierresHandler) Rechazar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RechazarCierreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	adminID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Rechazar(c.Request.Context(), adminID, id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
