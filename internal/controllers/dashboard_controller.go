package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"guard-analytics/internal/dto"
	"guard-analytics/internal/services"
	apperrors "guard-analytics/pkg/errors"
	"guard-analytics/pkg/types"
	"guard-analytics/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	defaultDate      string
	logger           *zap.Logger
}

func NewDashboardController(ds services.DashboardServiceInterface, defaultDate string, logger *zap.Logger) *DashboardController {
	return &DashboardController{
		dashboardService: ds,
		defaultDate:      defaultDate,
		logger:           logger,
	}
}

func (ctrl *DashboardController) parseQuery(c echo.Context) (dto.DashboardQueryDTO, error) {
	var q dto.DashboardQueryDTO
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return q, apperrors.NewHttpError(http.StatusBadRequest, "Неверные параметры запроса", err, nil)
	}
	if err := c.Validate(&q); err != nil {
		return q, err
	}
	if !c.QueryParams().Has("date") {
		q.Date = ctrl.defaultDate
	}
	q.Search = strings.TrimSpace(q.Search)
	return q, nil
}

func (ctrl *DashboardController) build(c echo.Context) (*types.Dashboard, dto.DashboardQueryDTO, error) {
	q, err := ctrl.parseQuery(c)
	if err != nil {
		return nil, q, err
	}
	d, err := ctrl.dashboardService.Build(c.Request().Context(), q.Date)
	return d, q, err
}

func (ctrl *DashboardController) GetDashboard(c echo.Context) error {
	d, _, err := ctrl.build(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, d, "Дашборд рассчитан", http.StatusOK)
}

func (ctrl *DashboardController) GetHourly(c echo.Context) error {
	d, _, err := ctrl.build(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, d.Hourly, "Почасовая активность", http.StatusOK)
}

func (ctrl *DashboardController) GetGuards(c echo.Context) error {
	d, q, err := ctrl.build(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, filterGuards(d.Guards, q.Search), "Профили охранников", http.StatusOK)
}

func (ctrl *DashboardController) GetLocations(c echo.Context) error {
	d, q, err := ctrl.build(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, filterLocations(d.Locations, q.Search), "Профили постов", http.StatusOK)
}

func (ctrl *DashboardController) GetCompliance(c echo.Context) error {
	d, _, err := ctrl.build(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, d.Compliance, "Оценка соответствия", http.StatusOK)
}

func (ctrl *DashboardController) ExportDashboard(c echo.Context) error {
	d, q, err := ctrl.build(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	f, err := services.BuildWorkbook(*d)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	defer f.Close()

	suffix := q.Date
	if suffix == "" {
		suffix = "all"
	}
	fileName := fmt.Sprintf("guard-dashboard_%s.xlsx", suffix)
	c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}

// SelectDate запускает фоновый пересчет и сразу отвечает номером поколения.
func (ctrl *DashboardController) SelectDate(c echo.Context) error {
	var body dto.SelectDateDTO
	if err := c.Bind(&body); err != nil {
		return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err, nil), ctrl.logger)
	}
	if err := c.Validate(&body); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	date := ctrl.defaultDate
	if body.Date.Valid {
		date = body.Date.String
	}
	gen := ctrl.dashboardService.Select(c.Request().Context(), date)
	return utils.SuccessResponse(c, dto.GenerationDTO{Generation: gen}, "Пересчет запущен", http.StatusAccepted)
}

func (ctrl *DashboardController) GetState(c echo.Context) error {
	state := ctrl.dashboardService.State()
	if state.Status == types.DashboardStatusFailed {
		return c.JSON(http.StatusBadGateway, &utils.HTTPResponse{Status: false, Message: state.Error, Body: state})
	}
	return utils.SuccessResponse(c, state, "Состояние дашборда", http.StatusOK)
}

func (ctrl *DashboardController) Health(c echo.Context) error {
	return utils.SuccessResponse(c, map[string]string{"state": string(ctrl.dashboardService.State().Status)}, "ok", http.StatusOK)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func filterGuards(guards []types.GuardProfile, search string) []types.GuardProfile {
	if search == "" {
		return guards
	}
	out := make([]types.GuardProfile, 0, len(guards))
	for _, g := range guards {
		if containsFold(g.Name, search) || containsFold(g.GuardID, search) || anyContains(g.Locations, search) {
			out = append(out, g)
		}
	}
	return out
}

func filterLocations(locations []types.LocationProfile, search string) []types.LocationProfile {
	if search == "" {
		return locations
	}
	out := make([]types.LocationProfile, 0, len(locations))
	for _, l := range locations {
		if containsFold(l.PostName, search) || anyContains(l.Guards, search) {
			out = append(out, l)
		}
	}
	return out
}

func anyContains(values []string, search string) bool {
	for _, v := range values {
		if containsFold(v, search) {
			return true
		}
	}
	return false
}
