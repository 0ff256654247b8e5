/*
handlers.go - HTTP API handlers for the Patro calendar engine

PURPOSE:
  Exposes the BS/AD converter, month views, holidays and forex rates via a
  REST API. Handles HTTP request/response, JSON serialization, and
  delegates to the bsdate, calendar and forex packages.

ENDPOINTS:
  Conversion:
    GET    /api/convert/ad-to-bs?date=   AD -> BS
    GET    /api/convert/bs-to-ad?date=   BS -> AD
    POST   /api/convert                  Either direction, JSON body
    GET    /api/today                    Today in Nepal

  Calendar:
    GET    /api/calendar/{year}/{month}       Month grid with holidays
    GET    /api/calendar/{year}/{month}/days  Month length

  Holidays:
    GET    /api/holidays             List (optionally from/to, source)
    POST   /api/holidays             Create one holiday
    POST   /api/holidays/import      Import an iCalendar feed
    POST   /api/holidays/defaults    Seed fixed national holidays
    GET    /api/holidays.ics         Export as iCalendar
    DELETE /api/holidays/{id}        Delete

  Forex:
    GET    /api/forex                Latest rates, or ?date=
    POST   /api/forex                Upsert a rate
    GET    /api/forex/convert        Convert an amount through NPR

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (validator tags, then bsdate)
  3. Call domain logic
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid dates, malformed input
  - 404: Holiday or rate not found
  - 422: Date outside the convertible range
  - 500: Internal errors

  The optional ?lang=ne query switches month and weekday names to Nepali.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/patro/calendar-engine/bsdate"
	"github.com/patro/calendar-engine/calendar"
	"github.com/patro/calendar-engine/forex"
	"github.com/patro/calendar-engine/internal/logger"
	"github.com/patro/calendar-engine/store"
	"github.com/shopspring/decimal"
)

// maxImportSize bounds iCalendar uploads.
const maxImportSize = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Store   store.Store
	Logger  *logger.Logger
	Metrics *Metrics

	validate *validator.Validate
	now      func() time.Time
}

// NewHandler creates a new handler. metrics may be nil.
func NewHandler(s store.Store, log *logger.Logger, metrics *Metrics) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		Store:    s,
		Logger:   log.WithComponent("api"),
		Metrics:  metrics,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Health reports liveness. If the store can be pinged, it is.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthDTO{Status: "ok", Time: h.now().UTC()})
}

// =============================================================================
// CONVERSION ENDPOINTS
// =============================================================================

// ConvertADToBS converts a Gregorian date.
// GET /api/convert/ad-to-bs?date=YYYY-MM-DD
func (h *Handler) ConvertADToBS(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("date")

	ad, err := bsdate.ParseGregorianDate(input)
	if err != nil {
		h.conversionFailed(w, DirectionADToBS, input, err)
		return
	}
	h.writeADToBS(w, r, ad)
}

// ConvertBSToAD converts a Bikram Sambat date.
// GET /api/convert/bs-to-ad?date=YYYY-MM-DD
func (h *Handler) ConvertBSToAD(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("date")

	bs, err := bsdate.ParseNepaliDate(input)
	if err != nil {
		h.conversionFailed(w, DirectionBSToAD, input, err)
		return
	}
	h.writeBSToAD(w, r, bs)
}

// Convert converts in the direction named by the body.
// POST /api/convert
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	switch req.Direction {
	case DirectionADToBS:
		h.writeADToBS(w, r, bsdate.GregorianDate{Year: req.Year, Month: req.Month, Day: req.Day})
	case DirectionBSToAD:
		h.writeBSToAD(w, r, bsdate.NepaliDate{Year: req.Year, Month: req.Month, Day: req.Day})
	}
}

func (h *Handler) writeADToBS(w http.ResponseWriter, r *http.Request, ad bsdate.GregorianDate) {
	bs, err := bsdate.ADToBS(ad.Year, ad.Month, ad.Day)
	if err != nil {
		h.conversionFailed(w, DirectionADToBS, ad.String(), err)
		return
	}
	h.Metrics.ObserveConversion(DirectionADToBS, OutcomeOK)
	writeJSON(w, http.StatusOK, toConversionDTO(bs, ad, langOf(r)))
}

func (h *Handler) writeBSToAD(w http.ResponseWriter, r *http.Request, bs bsdate.NepaliDate) {
	ad, err := bsdate.BSToAD(bs.Year, bs.Month, bs.Day)
	if err != nil {
		h.conversionFailed(w, DirectionBSToAD, bs.String(), err)
		return
	}
	h.Metrics.ObserveConversion(DirectionBSToAD, OutcomeOK)
	writeJSON(w, http.StatusOK, toConversionDTO(bs, ad, langOf(r)))
}

func (h *Handler) conversionFailed(w http.ResponseWriter, direction, input string, err error) {
	outcome := OutcomeInvalid
	if bsdate.IsOutOfRange(err) {
		outcome = OutcomeOutOfRange
	}
	h.Metrics.ObserveConversion(direction, outcome)
	h.Logger.LogConversionError(direction, input, err)
	writeDomainError(w, err)
}

// Today returns today's date in Nepal.
// GET /api/today
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	bs, err := bsdate.Today(h.now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	ad, err := bs.ToAD()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConversionDTO(bs, ad, langOf(r)))
}

// =============================================================================
// CALENDAR ENDPOINTS
// =============================================================================

// GetMonth returns a BS month grid with holidays.
// GET /api/calendar/{year}/{month}
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthParams(w, r)
	if !ok {
		return
	}

	view, err := calendar.Month(r.Context(), year, month, h.Store)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthDTO(view, langOf(r)))
}

// GetDaysInMonth returns the length of a BS month. Unknown months get the
// 30-day fallback rather than an error.
// GET /api/calendar/{year}/{month}/days
func (h *Handler) GetDaysInMonth(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthParams(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, DaysInMonthDTO{
		Year:  year,
		Month: month,
		Days:  bsdate.DaysInMonth(year, month),
	})
}

func yearMonthParams(w http.ResponseWriter, r *http.Request) (year, month int, ok bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Year must be an integer", err)
		return 0, 0, false
	}
	month, err = strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Month must be an integer", err)
		return 0, 0, false
	}
	return year, month, true
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns holidays, optionally within an AD date range.
// GET /api/holidays?from=YYYY-MM-DD&to=YYYY-MM-DD&source=
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	source := q.Get("source")

	var (
		holidays []calendar.Holiday
		err      error
	)
	if q.Has("from") || q.Has("to") {
		from, to, ok := dateRangeParams(w, r)
		if !ok {
			return
		}
		holidays, err = h.Store.HolidaysBetween(ctx, from, to)
		if source != "" {
			holidays = filterSource(holidays, source)
		}
	} else {
		holidays, err = h.Store.ListHolidays(ctx, source)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holidays", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"holidays": toHolidayDTOs(holidays)})
}

func dateRangeParams(w http.ResponseWriter, r *http.Request) (from, to bsdate.GregorianDate, ok bool) {
	q := r.URL.Query()
	from, err := bsdate.ParseGregorianDate(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return from, to, false
	}
	to, err = bsdate.ParseGregorianDate(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return from, to, false
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "from must not be after to", nil)
		return from, to, false
	}
	return from, to, true
}

func filterSource(hs []calendar.Holiday, source string) []calendar.Holiday {
	out := hs[:0]
	for _, hol := range hs {
		if hol.Source == source {
			out = append(out, hol)
		}
	}
	return out
}

// CreateHoliday creates a new holiday. The date may be given in either
// calendar.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateHolidayRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	var date bsdate.GregorianDate
	var err error
	if req.Calendar == "bs" {
		var bs bsdate.NepaliDate
		if bs, err = bsdate.ParseNepaliDate(req.Date); err == nil {
			date, err = bs.ToAD()
		}
	} else {
		date, err = bsdate.ParseGregorianDate(req.Date)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	holiday, err := calendar.NewHoliday("manual", date, req.Name, req.Public)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.Store.SaveHoliday(ctx, holiday); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

// ImportHolidays imports an iCalendar feed from the request body.
// POST /api/holidays/import?source=
func (h *Handler) ImportHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	source := r.URL.Query().Get("source")
	if source == "" {
		source = "import"
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "iCalendar feed too large",
				fmt.Errorf("feed exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	holidays, err := calendar.ParseICS(bytes.NewReader(body), source)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid iCalendar feed", err)
		return
	}

	if err := h.Store.SaveHolidays(ctx, holidays); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to import holidays", err)
		return
	}

	h.Logger.Infow("Imported holidays", "source", source, "count", len(holidays))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "imported",
		"source":   source,
		"imported": len(holidays),
	})
}

// AddDefaultHolidays seeds the fixed-date national holidays of a BS year,
// the current one unless ?year= is given.
// POST /api/holidays/defaults
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var year int
	if y := r.URL.Query().Get("year"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Year must be an integer", err)
			return
		}
		year = n
	} else {
		today, err := bsdate.Today(h.now())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		year = today.Year
	}

	holidays, err := calendar.NationalHolidays(year)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.Store.SaveHolidays(ctx, holidays); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add holidays", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":   "created",
		"year":     year,
		"holidays": toHolidayDTOs(holidays),
	})
}

// ExportHolidays writes stored holidays as an iCalendar feed.
// GET /api/holidays.ics?source=
func (h *Handler) ExportHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context(), r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holidays", err)
		return
	}

	var buf bytes.Buffer
	if err := calendar.ExportICS(&buf, holidays, h.now()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export holidays", err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="holidays.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// DeleteHoliday deletes a holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteHoliday(ctx, id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// FOREX ENDPOINTS
// =============================================================================

// ListRates returns the latest rate per currency, or the rates of one day.
// GET /api/forex?date=YYYY-MM-DD
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	rates, ok := h.ratesFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"base":  forex.Base,
		"rates": toRateDTOs(rates),
	})
}

// SaveRate inserts or replaces one day's rate for a currency.
// POST /api/forex
func (h *Handler) SaveRate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SaveRateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	date, err := bsdate.ParseGregorianDate(req.Date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rate, err := forex.NewRate(req.Currency, req.Unit, req.Buy, req.Sell, date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.Store.SaveRate(ctx, rate); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rate", err)
		return
	}

	writeJSON(w, http.StatusCreated, toRateDTOs([]forex.Rate{rate})[0])
}

// ConvertCurrency converts an amount between two currencies through NPR.
// GET /api/forex/convert?amount=100&from=USD&to=NPR&date=YYYY-MM-DD
func (h *Handler) ConvertCurrency(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Amount must be a decimal number", err)
		return
	}
	from, to := strings.ToUpper(q.Get("from")), strings.ToUpper(q.Get("to"))
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to currencies are required", nil)
		return
	}

	rates, ok := h.ratesFor(w, r)
	if !ok {
		return
	}

	result, err := forex.NewTable(rates).Convert(amount, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ForexConversionDTO{Amount: amount, From: from, To: to, Result: result})
}

func (h *Handler) ratesFor(w http.ResponseWriter, r *http.Request) ([]forex.Rate, bool) {
	ctx := r.Context()

	var (
		rates []forex.Rate
		err   error
	)
	if d := r.URL.Query().Get("date"); d != "" {
		date, perr := bsdate.ParseGregorianDate(d)
		if perr != nil {
			writeDomainError(w, perr)
			return nil, false
		}
		rates, err = h.Store.RatesOn(ctx, date)
	} else {
		rates, err = h.Store.LatestRates(ctx)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get rates", err)
		return nil, false
	}
	return rates, true
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		writeDomainError(w, err)
		return false
	}
	return true
}

func langOf(r *http.Request) calendar.Lang {
	return calendar.ParseLang(r.URL.Query().Get("lang"))
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case bsdate.IsOutOfRange(err):
		writeError(w, http.StatusUnprocessableEntity, "Date outside the supported range", err)
	case bsdate.IsInvalidDate(err):
		writeError(w, http.StatusBadRequest, "Invalid date", err)
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, "Validation failed", validationError(verrs))
	case errors.Is(err, calendar.ErrHolidayNameRequired), errors.Is(err, forex.ErrInvalidRate):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, store.ErrNotFound), errors.Is(err, forex.ErrRateNotFound):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

// validationError flattens validator output into "field: tag" pairs.
func validationError(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, ", "))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
