package echoapi

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/sauti/core/feedback"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type feedbackApi struct {
	svc feedback.Service
}

func registerFeedbackAPI(g *echo.Group, submitLimit echo.MiddlewareFunc, svc feedback.Service) {
	api := feedbackApi{svc: svc}

	g.GET("", api.query)
	g.POST("", api.create, submitLimit)
	g.DELETE("", api.clear)
	g.GET("/analytics", api.analytics)
	g.GET("/teachers", api.teachers)
	g.GET("/teacher/:teacherName", api.queryByTeacher)
	g.GET("/teacher/:teacherName/stats", api.teacherStats)
	g.DELETE("/:id", api.destroy)
}

// Handlers

func (api *feedbackApi) query(ctx echo.Context) error {
	var filter feedback.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	fbs, err := api.svc.Filter(filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, fbs)
}

func (api *feedbackApi) create(ctx echo.Context) error {
	var data feedback.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	fb, err := api.svc.Create(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, fb)
}

func (api *feedbackApi) clear(ctx echo.Context) error {
	if err := api.svc.Clear(); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "All feedback cleared"})
}

func (api *feedbackApi) destroy(ctx echo.Context) error {
	// unknown and malformed ids are not an error
	if id, err := strconv.ParseInt(ctx.Param("id"), 10, 64); err == nil {
		if _, err = api.svc.Delete(id); err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Deleted"})
}

func (api *feedbackApi) analytics(ctx echo.Context) error {
	res, err := api.svc.Analytics()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *feedbackApi) teachers(ctx echo.Context) error {
	teachers, err := api.svc.Teachers()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *feedbackApi) queryByTeacher(ctx echo.Context) error {
	fbs, err := api.svc.Filter(feedback.QueryFilter{Teacher: teacherParam(ctx)})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, fbs)
}

func (api *feedbackApi) teacherStats(ctx echo.Context) error {
	st, err := api.svc.TeacherStats(teacherParam(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

// Helpers

func teacherParam(ctx echo.Context) string {
	name := ctx.Param("teacherName")
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
