package echo

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"watermark-service/internal/app"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	v1 := s.echo.Group("/api/v1")
	v1.POST("/watermarks", s.applyWatermarkHandler)
	v1.POST("/watermarks/batch", s.applyWatermarkBatchHandler)
	v1.GET("/assets/:id/watermarks", s.listWatermarksHandler)
	s.echo.GET("/ping", s.pingHandler)
}

func (s *Server) applyWatermarkHandler(c echo.Context) error {
	var req app.ApplyWatermarkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(http.StatusBadRequest, "malformed request body"))
	}

	resp, err := s.service.ApplyWatermark(c.Request().Context(), &req)
	if err != nil {
		code, msg := mapError(err)
		s.log.Error().Err(err).Str("source_asset_id", req.SourceAssetID.String()).Msg("watermark request failed")
		return c.JSON(code, getFailureResponse(code, msg))
	}

	return c.JSON(http.StatusOK, getSuccessResponse(resp))
}

func (s *Server) applyWatermarkBatchHandler(c echo.Context) error {
	var req app.ApplyWatermarkBatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(http.StatusBadRequest, "malformed request body"))
	}

	resp, err := s.service.ApplyWatermarkBatch(c.Request().Context(), &req)
	if err != nil {
		code, msg := mapError(err)
		s.log.Error().Err(err).Str("source_asset_id", req.SourceAssetID.String()).Msg("batch watermark request failed")
		return c.JSON(code, getFailureResponse(code, msg))
	}

	return c.JSON(http.StatusOK, getSuccessResponse(resp))
}

func (s *Server) listWatermarksHandler(c echo.Context) error {
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(http.StatusBadRequest, "malformed asset id"))
	}
	ownerID, err := uuid.Parse(c.QueryParam("owner_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(http.StatusBadRequest, "malformed owner id"))
	}

	resp, err := s.service.ListWatermarks(c.Request().Context(), ownerID, assetID)
	if err != nil {
		code, msg := mapError(err)
		s.log.Error().Err(err).Str("asset_id", assetID.String()).Msg("watermark listing failed")
		return c.JSON(code, getFailureResponse(code, msg))
	}

	return c.JSON(http.StatusOK, getSuccessResponse(resp))
}

func (s *Server) pingHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "pong"})
}
