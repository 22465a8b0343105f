package httpapi

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// Querier runs a one-shot weather query.
type Querier interface {
	Query(ctx context.Context, q weather.Query, units weather.UnitSystem) (*weather.Result, error)
}

// Deps are the collaborators the handlers need.
type Deps struct {
	Service   Querier
	Geocoder  weather.Geocoder
	Dashboard *dashboard.Dashboard
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		req, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		units, err := weather.ParseUnitSystem(req.Units)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := deps.Service.Query(c.UserContext(), req.toQuery(), units)
		if errors.Is(err, weather.ErrValidationSkip) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		if err != nil {
			return queryError(err)
		}
		return c.JSON(fiber.Map{
			"units":      units,
			"symbols":    units.Symbols(),
			"location":   res.Bundle.Location,
			"current":    res.Bundle.Current,
			"airQuality": res.Bundle.AirQuality,
			"forecast":   res.Forecast,
		})
	})

	v1.Get("/units/:system", func(c *fiber.Ctx) error {
		units, err := weather.ParseUnitSystem(c.Params("system"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(fiber.Map{
			"units":   units,
			"symbols": units.Symbols(),
		})
	})

	v1.Get("/geo/suggest", func(c *fiber.Ctx) error {
		return c.JSON(weather.Suggest(c.UserContext(), deps.Geocoder, c.Query("q")))
	})

	registerDashboard(v1, deps.Dashboard)
	registerFavorites(v1, deps.Dashboard)
}

func registerDashboard(r fiber.Router, d *dashboard.Dashboard) {
	g := r.Group("/dashboard")

	g.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(d.View())
	})

	g.Post("/search", func(c *fiber.Ctx) error {
		var req searchRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		// Query failures are part of the view; only the state matters here.
		_ = d.Search(c.UserContext(), req.City)
		return c.JSON(d.View())
	})

	g.Post("/locate", func(c *fiber.Ctx) error {
		var req locateRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		if (req.Lat == nil) != (req.Lon == nil) {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lon must be given together")
		}
		if req.Lat != nil {
			_ = d.SearchCoordinates(c.UserContext(), *req.Lat, *req.Lon)
			return c.JSON(d.View())
		}

		err := d.UseMyLocation(c.UserContext())
		switch {
		case errors.Is(err, geo.ErrDenied):
			return fiber.NewError(fiber.StatusForbidden, geo.Message(err))
		case errors.Is(err, geo.ErrUnavailable):
			return fiber.NewError(fiber.StatusServiceUnavailable, geo.Message(err))
		}
		return c.JSON(d.View())
	})

	g.Post("/units/toggle", func(c *fiber.Ctx) error {
		_ = d.ToggleUnits(c.UserContext())
		return c.JSON(d.View())
	})

	g.Post("/refresh", func(c *fiber.Ctx) error {
		_ = d.Refresh(c.UserContext())
		return c.JSON(d.View())
	})
}

func registerFavorites(r fiber.Router, d *dashboard.Dashboard) {
	g := r.Group("/favorites")

	g.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"favorites": d.Favorites()})
	})

	g.Post("/toggle", func(c *fiber.Ctx) error {
		if d.View().Current == nil {
			return fiber.NewError(fiber.StatusConflict, "no city is displayed")
		}
		on := d.ToggleFavorite(c.UserContext())
		return c.JSON(fiber.Map{"favorite": on, "favorites": d.Favorites()})
	})

	g.Put("/:city", func(c *fiber.Ctx) error {
		city, err := cityParam(c)
		if err != nil {
			return err
		}
		added := d.AddFavorite(c.UserContext(), city)
		status := fiber.StatusOK
		if added {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(fiber.Map{"favorites": d.Favorites()})
	})

	g.Delete("/:city", func(c *fiber.Ctx) error {
		city, err := cityParam(c)
		if err != nil {
			return err
		}
		if !d.RemoveFavorite(c.UserContext(), city) {
			return fiber.NewError(fiber.StatusNotFound, "not a favorite")
		}
		return c.JSON(fiber.Map{"favorites": d.Favorites()})
	})

	g.Post("/:city/select", func(c *fiber.Ctx) error {
		city, err := cityParam(c)
		if err != nil {
			return err
		}
		_ = d.SelectFavorite(c.UserContext(), city)
		return c.JSON(d.View())
	})
}

// queryError maps service errors to HTTP errors.
func queryError(err error) error {
	var qe *weather.QueryError
	if errors.As(err, &qe) {
		return fiber.NewError(fiber.StatusBadGateway, qe.Message())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
}

// weatherQuery holds query parameters for the weather endpoint.
type weatherQuery struct {
	City  string   `validate:"max=100"`
	Lat   *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lon   *float64 `validate:"omitempty,gte=-180,lte=180"`
	Units string   `validate:"omitempty,oneof=metric imperial"`
}

// toQuery keeps a half-specified coordinate pair so that the service skips it.
func (w weatherQuery) toQuery() weather.Query {
	if w.Lat != nil || w.Lon != nil {
		return weather.Query{Lat: w.Lat, Lon: w.Lon}
	}
	return weather.CityQuery(w.City)
}

func parseWeatherQuery(c *fiber.Ctx) (weatherQuery, error) {
	var q weatherQuery

	q.City = strings.TrimSpace(c.Query("city"))
	q.Units = c.Query("units")

	var err error
	if q.Lat, err = parseCoord(c.Query("lat")); err != nil {
		return q, errors.New("lat must be a number")
	}
	if q.Lon, err = parseCoord(c.Query("lon")); err != nil {
		return q, errors.New("lon must be a number")
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func parseCoord(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

type searchRequest struct {
	City string `json:"city" validate:"max=100"`
}

type locateRequest struct {
	Lat *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
}

// bindJSON parses and validates an optional JSON body.
func bindJSON(c *fiber.Ctx, out any) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func cityParam(c *fiber.Ctx) (string, error) {
	city, err := url.PathUnescape(c.Params("city"))
	if err != nil || strings.TrimSpace(city) == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid city")
	}
	return city, nil
}
