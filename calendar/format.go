package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/patro/calendar-engine/bsdate"
)

// Lang selects the script used for names and digits.
type Lang string

const (
	English Lang = "en"
	Nepali  Lang = "ne"
)

// ParseLang maps a query value to a Lang, defaulting to English.
func ParseLang(s string) Lang {
	if strings.EqualFold(strings.TrimSpace(s), string(Nepali)) {
		return Nepali
	}
	return English
}

var monthNames = map[Lang][12]string{
	English: {"Baisakh", "Jestha", "Asar", "Shrawan", "Bhadra", "Asoj", "Kartik", "Mangsir", "Poush", "Magh", "Falgun", "Chaitra"},
	Nepali:  {"बैशाख", "जेठ", "असार", "साउन", "भदौ", "असोज", "कार्तिक", "मंसिर", "पुस", "माघ", "फागुन", "चैत"},
}

var nepaliWeekdays = [7]string{"आइतबार", "सोमबार", "मंगलबार", "बुधबार", "बिहीबार", "शुक्रबार", "शनिबार"}

const devanagariZero = '०'

// MonthName returns the BS month name, or "" for a month outside 1..12.
func MonthName(month int, lang Lang) string {
	if month < 1 || month > 12 {
		return ""
	}
	names, ok := monthNames[lang]
	if !ok {
		names = monthNames[English]
	}
	return names[month-1]
}

// WeekdayName returns the weekday in the requested language.
func WeekdayName(wd time.Weekday, lang Lang) string {
	if lang == Nepali && wd >= time.Sunday && wd <= time.Saturday {
		return nepaliWeekdays[wd]
	}
	return wd.String()
}

// DevanagariDigits replaces ASCII digits in s with Devanagari digits.
func DevanagariDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			r = devanagariZero + (r - '0')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Format renders a BS date as "15 Asoj 2081" or "१५ असोज २०८१".
func Format(d bsdate.NepaliDate, lang Lang) string {
	s := fmt.Sprintf("%d %s %d", d.Day, MonthName(d.Month, lang), d.Year)
	if lang == Nepali {
		return DevanagariDigits(s)
	}
	return s
}
