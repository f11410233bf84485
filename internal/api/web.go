package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"mealmetrics/internal/contact"
	"mealmetrics/internal/engine"
	"mealmetrics/internal/models"
	"mealmetrics/internal/pages"
)

const (
	previewRows   = 10
	contactThanks = "Thank you for your message. We'll be in touch soon!"
)

// pageRenderer lets c.Render reach the page templates.
type pageRenderer struct {
	r *pages.Renderer
}

func (p *pageRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	v, _ := data.(pages.View)
	return p.r.Render(w, name, v)
}

func (h *Handler) view() pages.View {
	v := pages.View{Contact: h.contactInfo}
	if snap := h.current(); snap != nil {
		v.Data = snap.data
		v.Charts = snap.charts
		v.Preview = engine.Preview(snap.table, previewRows)
	}
	return v
}

// page serves a page; it never 503s, the templates show a loading notice instead.
func (h *Handler) page(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.pages == nil {
			return echo.NewHTTPError(http.StatusNotFound, "pages are not enabled")
		}
		return c.Render(http.StatusOK, name, h.view())
	}
}

func (h *Handler) PostContact(c echo.Context) error {
	if h.pages == nil {
		return echo.NewHTTPError(http.StatusNotFound, "pages are not enabled")
	}
	v := h.view()
	v.Form = pages.ContactForm{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Message: c.FormValue("message"),
	}

	if h.contact == nil {
		v.FormError = "Messages cannot be accepted right now."
		return c.Render(http.StatusServiceUnavailable, pages.Contact, v)
	}

	msg, err := h.contact.Save(c.Request().Context(), models.ContactMessage{
		Name:    v.Form.Name,
		Email:   v.Form.Email,
		Message: v.Form.Message,
	})
	if err != nil {
		if errors.Is(err, contact.ErrInvalid) {
			v.FormError = err.Error()
			return c.Render(http.StatusBadRequest, pages.Contact, v)
		}
		c.Logger().Errorf("contact: %v", err)
		v.FormError = "Your message could not be saved. Please try again later."
		return c.Render(http.StatusInternalServerError, pages.Contact, v)
	}

	c.Logger().Infof("contact message %s stored", msg.ID)
	v.Form = pages.ContactForm{}
	v.Notice = contactThanks
	return c.Render(http.StatusOK, pages.Contact, v)
}
