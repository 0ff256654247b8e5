package calendar

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/patro/calendar-engine/bsdate"
)

// ProductID identifies feeds written by ExportICS.
const ProductID = "-//patro//calendar-engine//EN"

// ParseICS reads all-day VEVENTs from an iCalendar feed. An event spanning
// several days yields one holiday per day. Days the converter cannot place
// are skipped; events without a summary or start date are skipped too.
// Events whose CATEGORIES mention "public" are marked Public.
func ParseICS(r io.Reader, source string) ([]Holiday, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	var holidays []Holiday
	for _, ev := range cal.Events() {
		name := propertyValue(ev, ics.ComponentPropertySummary)
		if name == "" {
			continue
		}
		start, err := ev.GetAllDayStartAt()
		if err != nil {
			continue
		}
		end, err := ev.GetAllDayEndAt()
		if err != nil || !end.After(start) {
			end = start.AddDate(0, 0, 1)
		}
		public := strings.Contains(strings.ToLower(propertyValue(ev, ics.ComponentPropertyCategories)), "public")

		for t := start; t.Before(end); t = t.AddDate(0, 0, 1) {
			date := bsdate.FromTime(t)
			bs, err := date.ToBS()
			if err != nil {
				continue
			}
			holidays = append(holidays, Holiday{
				ID:     holidayID(source, ev.Id(), date),
				Source: source,
				Date:   date,
				BSDate: bs,
				Name:   name,
				Public: public,
			})
		}
	}

	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays, nil
}

// ExportICS writes holidays as a feed of one-day all-day events. The BS
// date goes into DESCRIPTION and generated is stamped on every event.
func ExportICS(w io.Writer, holidays []Holiday, generated time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)

	for _, h := range holidays {
		start := h.Date.Time()
		ev := cal.AddEvent(h.ID)
		ev.SetDtStampTime(generated)
		ev.SetSummary(h.Name)
		ev.SetAllDayStartAt(start)
		ev.SetAllDayEndAt(start.AddDate(0, 0, 1))
		ev.SetDescription(Format(h.BSDate, English) + " BS")
		if h.Public {
			ev.SetProperty(ics.ComponentPropertyCategories, "PUBLIC")
		}
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

func propertyValue(ev *ics.VEvent, prop ics.ComponentProperty) string {
	p := ev.GetProperty(prop)
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Value)
}
