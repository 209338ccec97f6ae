package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/opencourt/tennis-tour/models"
	"github.com/opencourt/tennis-tour/services"
)

type CalendarHandler struct {
	calendarService services.CalendarService
}

func NewCalendarHandler(calendarService services.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

func (h *CalendarHandler) ListCalendarHandler(w http.ResponseWriter, r *http.Request) {
	filter := models.CalendarFilter{
		Skip:    readIntQuery(r, "skip", 0),
		Results: readIntQuery(r, "results", 20),
	}
	if raw := r.URL.Query().Get("tournament_id"); raw != "" {
		id := readIntQuery(r, "tournament_id", 0)
		if id > 0 {
			filter.TournamentID = &id
		}
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequestResponse(w, r, errors.New("from must be an RFC3339 timestamp"))
			return
		}
		filter.From = &from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequestResponse(w, r, errors.New("to must be an RFC3339 timestamp"))
			return
		}
		filter.To = &to
	}

	entries, err := h.calendarService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	total, err := h.calendarService.Count(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"calendar": entries, "total": total}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CalendarHandler) GetCalendarHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "calendarID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.calendarService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"calendar": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CalendarHandler) CreateCalendarHandler(w http.ResponseWriter, r *http.Request) {
	var entry models.Calendar
	if err := readJSON(w, r, &entry); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.calendarService.Create(r.Context(), &entry); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"calendar": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CalendarHandler) UpdateCalendarHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "calendarID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var entry models.Calendar
	if err := readJSON(w, r, &entry); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	entry.ID = id

	if err := h.calendarService.Update(r.Context(), &entry); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"calendar": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DrawCalendarHandler triggers the one-time draw for a calendar entry.
func (h *CalendarHandler) DrawCalendarHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "calendarID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.calendarService.DrawMatches(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"calendar": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CalendarHandler) GetDrawHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "calendarID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	draw, err := h.calendarService.GetDraw(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"draw": draw}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMatchByPositionHandler resolves a bracket slot to the match stored
// there. Position is 0-based, matching the draw arrays.
func (h *CalendarHandler) GetMatchByPositionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "calendarID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matchType := models.MatchType(r.URL.Query().Get("match_type"))
	if matchType == "" {
		matchType = models.MatchTypeSingles
	}
	category := models.PlayerCategory(r.URL.Query().Get("category"))
	if category == "" {
		category = models.PlayerCategoryATP
	}
	position := readIntQuery(r, "position", -1)
	if position < 0 {
		badRequestResponse(w, r, errors.New("position query parameter required"))
		return
	}

	matchID, err := h.calendarService.GetMatchIDByPosition(r.Context(), id, matchType, category, position)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match_id": matchID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
