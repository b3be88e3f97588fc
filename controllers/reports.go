// path: controllers/reports.go
package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/PaoloBrandonE/Denuncia-app/geo"
	"github.com/PaoloBrandonE/Denuncia-app/media"
	"github.com/PaoloBrandonE/Denuncia-app/models"
	"github.com/PaoloBrandonE/Denuncia-app/stats"
	"github.com/PaoloBrandonE/Denuncia-app/store"
	"github.com/PaoloBrandonE/Denuncia-app/submit"
)

// ReportPayload is the JSON body for POST /api/reports. ImageData is
// base64 in transit; it is validated and inline-encoded server side.
type ReportPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	ImageMime   string   `json:"image_mime,omitempty"`
	ImageData   []byte   `json:"image_data,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
}

// ReportItem is the wire shape of a report, including the transition
// actions offered to the caller's role for its current status.
type ReportItem struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	ImageInline string         `json:"image_inline,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	Location    string         `json:"location"`
	Lat         *float64       `json:"lat,omitempty"`
	Lng         *float64       `json:"lng,omitempty"`
	Status      string         `json:"status"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at,omitempty"`
	AuthorID    string         `json:"author_id"`
	AuthorLabel string         `json:"author_label"`
	Actions     []stats.Action `json:"actions,omitempty"`
	Updating    bool           `json:"updating"`
}

type ReportListResp struct {
	OK    bool         `json:"ok"`
	Items []ReportItem `json:"items"`
}

func HandleCreateReport(c *fiber.Ctx) error {
	user, ok := requireUser(c)
	if !ok {
		return nil
	}

	var p ReportPayload
	if err := c.BodyParser(&p); err != nil {
		return badReq(c, "invalid JSON")
	}

	form := submit.NewForm(reportsStore)
	form.SetTitle(p.Title)
	form.SetDescription(p.Description)
	if p.Category != "" {
		form.SetCategory(p.Category)
	}
	if len(p.ImageData) > 0 {
		if len(p.ImageData) > media.MaxInlineBytes && imageHoster != nil {
			// Too big to embed: park the original in object storage and
			// reference it instead.
			name := fmt.Sprintf("%s/%d", user.ID, time.Now().UnixNano())
			url, err := imageHoster.Host(c.Context(), name, p.ImageMime, p.ImageData)
			if err != nil {
				return badReq(c, err.Error())
			}
			form.AttachImageURL(url)
		} else if err := form.AttachImage(p.ImageMime, p.ImageData); err != nil {
			return badReq(c, err.Error())
		}
	}
	if p.ImageURL != "" {
		form.AttachImageURL(p.ImageURL)
	}
	if p.Lat != nil && p.Lng != nil {
		form.UseLocation(geo.Point{Lat: *p.Lat, Lng: *p.Lng})
	}

	rec, err := form.Submit(c.Context(), user)
	var fieldErr *submit.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return badReq(c, fieldErr.Error())
	case errors.Is(err, submit.ErrNotAuthenticated), errors.Is(err, store.ErrPermissionDenied):
		return unauthorized(c, err.Error())
	case err != nil:
		return serverErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.CreateReportResp{
		OK:     true,
		ID:     rec.ID.Hex(),
		Report: toItem(rec, user.Role),
	})
}

// HandleListReports is the point-in-time read, newest first. scope=mine
// narrows to the caller's own reports.
func HandleListReports(c *fiber.Ctx) error {
	user, ok := requireUser(c)
	if !ok {
		return nil
	}

	scope := store.All()
	if c.Query("scope") == "mine" {
		scope = store.Mine(user.ID)
	}

	reports, err := reportsStore.ListOnce(c.Context(), scope)
	if err != nil {
		return serverErr(c, err)
	}

	items := make([]ReportItem, 0, len(reports))
	for _, r := range reports {
		items = append(items, toItem(r, user.Role))
	}
	return c.JSON(ReportListResp{OK: true, Items: items})
}

func toItem(r models.Report, viewer models.Role) ReportItem {
	item := ReportItem{
		ID:          r.ID.Hex(),
		Title:       r.Title,
		Description: r.Description,
		Category:    string(r.Category),
		ImageInline: r.ImageInline,
		ImageURL:    r.ImageURL,
		Location:    r.Location,
		Lat:         r.Lat,
		Lng:         r.Lng,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		AuthorID:    r.AuthorID,
		AuthorLabel: r.AuthorLabel,
		Updating:    transitioner.Updating(r.ID.Hex()),
	}
	if r.UpdatedAt != nil {
		item.UpdatedAt = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if !item.Updating {
		item.Actions = stats.ActionsFor(viewer, r.Status)
	}
	return item
}
