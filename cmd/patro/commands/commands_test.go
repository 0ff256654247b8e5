package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestConvertAD(t *testing.T) {
	out, err := run(t, "convert", "ad", "2024-10-17")
	require.NoError(t, err)
	assert.Equal(t, "2081-07-01  1 Kartik 2081  Thursday\n", out)
}

func TestConvertAD_Nepali(t *testing.T) {
	out, err := run(t, "convert", "ad", "2024-10-17", "--lang", "ne")
	require.NoError(t, err)
	assert.Contains(t, out, "१ कार्तिक २०८१")
	assert.Contains(t, out, "बिहीबार")
}

func TestConvertBS(t *testing.T) {
	out, err := run(t, "convert", "bs", "2000-01-01")
	require.NoError(t, err)
	assert.Equal(t, "1943-04-14  Wednesday\n", out)
}

func TestConvert_OutOfRange(t *testing.T) {
	_, err := run(t, "convert", "ad", "2034-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AD year 2034 is not supported")

	_, err = run(t, "convert", "bs", "2081-13-01")
	assert.Error(t, err)
}

func TestCalendar(t *testing.T) {
	out, err := run(t, "calendar", "2081", "7")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "Kartik 2081  (2024-10-17 to 2024-11-15)", lines[0])
	assert.Equal(t, " Su  Mo  Tu  We  Th  Fr  Sa", lines[1])
	// Kartik 1 is a Thursday; Kartik 3 is a Saturday
	assert.Equal(t, strings.Repeat(" ", 16)+"  1   2   3*", lines[2])
}

func TestCalendar_BadArgs(t *testing.T) {
	_, err := run(t, "calendar", "2081")
	assert.Error(t, err)

	_, err = run(t, "calendar", "2081", "thirteen")
	assert.Error(t, err)

	_, err = run(t, "calendar", "2095", "1")
	assert.Error(t, err)
}

func TestHolidays_ImportSeedList(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_PATH", filepath.Join(dir, "patro.db"))

	// GIVEN: an iCalendar file
	feed := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:laxmi-puja-2081",
		"DTSTAMP:20240101T000000Z",
		"DTSTART;VALUE=DATE:20241101",
		"SUMMARY:Laxmi Puja",
		"CATEGORIES:Public",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")
	icsPath := filepath.Join(dir, "holidays.ics")
	require.NoError(t, os.WriteFile(icsPath, []byte(feed), 0o600))

	// WHEN: importing and seeding
	out, err := run(t, "holidays", "import", icsPath, "--source", "gov")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 holidays")

	out, err = run(t, "holidays", "seed", "2081")
	require.NoError(t, err)
	assert.Contains(t, out, "national holidays for 2081")

	// THEN: list shows them, filtered by source
	out, err = run(t, "holidays", "list", "--source", "gov")
	require.NoError(t, err)
	assert.Equal(t, "2024-11-01  2081-07-16  Laxmi Puja (public)\n", out)

	// AND: the grid marks and names the day
	out, err = run(t, "calendar", "2081", "7", "--holidays")
	require.NoError(t, err)
	assert.Contains(t, out, "16 Kartik 2081  Laxmi Puja")
}

func TestHolidays_ImportMissingFile(t *testing.T) {
	_, err := run(t, "holidays", "import", filepath.Join(t.TempDir(), "nope.ics"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "patro dev")
	assert.Contains(t, out, "BS 2000-2090, AD 1943-2033")
}
