/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the bsdate/calendar/forex value types from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator struct tags. Structural
  checks (required, ranges, enums) happen there; calendar validity is left
  to bsdate so the error kinds stay the converter's.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"strconv"
	"time"

	"github.com/patro/calendar-engine/bsdate"
	"github.com/patro/calendar-engine/calendar"
	"github.com/patro/calendar-engine/forex"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CONVERSION
// =============================================================================

// Conversion directions accepted by POST /api/convert.
const (
	DirectionADToBS = "ad-to-bs"
	DirectionBSToAD = "bs-to-ad"
)

// ConvertRequest is the body of POST /api/convert.
type ConvertRequest struct {
	Direction string `json:"direction" validate:"required,oneof=ad-to-bs bs-to-ad"`
	Year      int    `json:"year" validate:"required"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
}

// BSDateDTO is a BS date with display fields.
type BSDateDTO struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	ISO       string `json:"iso"`
	MonthName string `json:"month_name"`
	Formatted string `json:"formatted"`
}

// ADDateDTO is a Gregorian date.
type ADDateDTO struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Day   int    `json:"day"`
	ISO   string `json:"iso"`
}

// ConversionDTO is the result of a conversion in either direction.
type ConversionDTO struct {
	BS      BSDateDTO `json:"bs"`
	AD      ADDateDTO `json:"ad"`
	Weekday string    `json:"weekday"`
}

func toConversionDTO(bs bsdate.NepaliDate, ad bsdate.GregorianDate, lang calendar.Lang) ConversionDTO {
	return ConversionDTO{
		BS:      toBSDateDTO(bs, lang),
		AD:      toADDateDTO(ad),
		Weekday: calendar.WeekdayName(ad.Time().Weekday(), lang),
	}
}

func toBSDateDTO(d bsdate.NepaliDate, lang calendar.Lang) BSDateDTO {
	return BSDateDTO{
		Year:      d.Year,
		Month:     d.Month,
		Day:       d.Day,
		ISO:       d.String(),
		MonthName: calendar.MonthName(d.Month, lang),
		Formatted: calendar.Format(d, lang),
	}
}

func toADDateDTO(d bsdate.GregorianDate) ADDateDTO {
	return ADDateDTO{Year: d.Year, Month: d.Month, Day: d.Day, ISO: d.String()}
}

// =============================================================================
// CALENDAR
// =============================================================================

// MonthDTO is a BS month grid.
type MonthDTO struct {
	Year      int      `json:"year"`
	Month     int      `json:"month"`
	MonthName string   `json:"month_name"`
	Leading   int      `json:"leading"`
	Days      []DayDTO `json:"days"`
}

// DayDTO is one grid cell.
type DayDTO struct {
	BSDay    int      `json:"bs_day"`
	Label    string   `json:"label"`
	AD       string   `json:"ad"`
	Weekday  string   `json:"weekday"`
	Holiday  bool     `json:"holiday"`
	Holidays []string `json:"holidays,omitempty"`
}

// DaysInMonthDTO is the response of the month-length lookup.
type DaysInMonthDTO struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Days  int `json:"days"`
}

func toMonthDTO(v calendar.MonthView, lang calendar.Lang) MonthDTO {
	dto := MonthDTO{
		Year:      v.Year,
		Month:     v.Month,
		MonthName: calendar.MonthName(v.Month, lang),
		Leading:   v.Leading,
		Days:      make([]DayDTO, len(v.Days)),
	}
	for i, d := range v.Days {
		label := strconv.Itoa(d.BS.Day)
		if lang == calendar.Nepali {
			label = calendar.DevanagariDigits(label)
		}
		var names []string
		for _, h := range d.Holidays {
			names = append(names, h.Name)
		}
		dto.Days[i] = DayDTO{
			BSDay:    d.BS.Day,
			Label:    label,
			AD:       d.AD.String(),
			Weekday:  calendar.WeekdayName(d.Weekday, lang),
			Holiday:  d.IsHoliday(),
			Holidays: names,
		}
	}
	return dto
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a holiday in API responses.
type HolidayDTO struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Date   string `json:"date"`
	BSDate string `json:"bs_date"`
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// CreateHolidayRequest is the body of POST /api/holidays. Calendar says
// which calendar Date is written in; it defaults to AD.
type CreateHolidayRequest struct {
	Date     string `json:"date" validate:"required"`
	Calendar string `json:"calendar" validate:"omitempty,oneof=ad bs"`
	Name     string `json:"name" validate:"required,max=200"`
	Public   bool   `json:"public"`
}

func toHolidayDTO(h calendar.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:     h.ID,
		Source: h.Source,
		Date:   h.Date.String(),
		BSDate: h.BSDate.String(),
		Name:   h.Name,
		Public: h.Public,
	}
}

func toHolidayDTOs(hs []calendar.Holiday) []HolidayDTO {
	dtos := make([]HolidayDTO, 0, len(hs))
	for _, h := range hs {
		dtos = append(dtos, toHolidayDTO(h))
	}
	return dtos
}

// =============================================================================
// FOREX
// =============================================================================

// RateDTO is a forex rate. Decimals serialise as JSON strings.
type RateDTO struct {
	Currency string          `json:"currency"`
	Unit     int             `json:"unit"`
	Buy      decimal.Decimal `json:"buy"`
	Sell     decimal.Decimal `json:"sell"`
	Date     string          `json:"date"`
	BSDate   string          `json:"bs_date"`
}

// SaveRateRequest is the body of POST /api/forex.
type SaveRateRequest struct {
	Currency string          `json:"currency" validate:"required,len=3,alpha"`
	Unit     int             `json:"unit" validate:"required,min=1"`
	Buy      decimal.Decimal `json:"buy"`
	Sell     decimal.Decimal `json:"sell"`
	Date     string          `json:"date" validate:"required"`
}

// ForexConversionDTO is the result of GET /api/forex/convert.
type ForexConversionDTO struct {
	Amount decimal.Decimal `json:"amount"`
	From   string          `json:"from"`
	To     string          `json:"to"`
	Result decimal.Decimal `json:"result"`
}

func toRateDTOs(rs []forex.Rate) []RateDTO {
	dtos := make([]RateDTO, 0, len(rs))
	for _, r := range rs {
		dtos = append(dtos, RateDTO{
			Currency: r.Currency,
			Unit:     r.Unit,
			Buy:      r.Buy,
			Sell:     r.Sell,
			Date:     r.Date.String(),
			BSDate:   r.BSDate.String(),
		})
	}
	return dtos
}

// =============================================================================
// COMMON
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthDTO is the body of GET /healthz.
type HealthDTO struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
