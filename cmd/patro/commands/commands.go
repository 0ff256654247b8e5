package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/patro/calendar-engine/bsdate"
	"github.com/patro/calendar-engine/calendar"
	"github.com/patro/calendar-engine/internal/config"
	"github.com/patro/calendar-engine/store/sqlite"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...commands.Version=...".
var Version = "dev"

// NewRootCommand creates the patro command tree.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "patro",
		Short:         "Bikram Sambat calendar engine",
		Long:          `Patro converts dates between Bikram Sambat and Gregorian calendars and serves BS month views, holidays and NPR exchange rates over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")

	rootCmd.AddCommand(NewServeCommand(&cfgFile))
	rootCmd.AddCommand(NewConvertCommand())
	rootCmd.AddCommand(NewCalendarCommand(&cfgFile))
	rootCmd.AddCommand(NewHolidaysCommand(&cfgFile))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewConvertCommand creates the convert command with ad and bs subcommands.
func NewConvertCommand() *cobra.Command {
	var lang string

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a date between calendars",
	}
	convertCmd.PersistentFlags().StringVar(&lang, "lang", "en", "month and weekday names: en or ne")

	convertCmd.AddCommand(&cobra.Command{
		Use:   "ad <YYYY-MM-DD>",
		Short: "Convert a Gregorian date to Bikram Sambat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ad, err := bsdate.ParseGregorianDate(args[0])
			if err != nil {
				return err
			}
			bs, err := ad.ToBS()
			if err != nil {
				return err
			}
			l := calendar.ParseLang(lang)
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
				bs, calendar.Format(bs, l), calendar.WeekdayName(ad.Time().Weekday(), l))
			return nil
		},
	})

	convertCmd.AddCommand(&cobra.Command{
		Use:   "bs <YYYY-MM-DD>",
		Short: "Convert a Bikram Sambat date to Gregorian",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := bsdate.ParseNepaliDate(args[0])
			if err != nil {
				return err
			}
			ad, err := bs.ToAD()
			if err != nil {
				return err
			}
			l := calendar.ParseLang(lang)
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", ad, calendar.WeekdayName(ad.Time().Weekday(), l))
			return nil
		},
	})

	return convertCmd
}

// NewCalendarCommand creates the calendar command.
func NewCalendarCommand(cfgFile *string) *cobra.Command {
	var (
		lang         string
		withHolidays bool
	)

	calendarCmd := &cobra.Command{
		Use:   "calendar <year> <month>",
		Short: "Print a BS month grid",
		Long:  "Print a Bikram Sambat month as a Sunday-first grid. Saturdays and public holidays are marked with '*'.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("year must be an integer: %w", err)
			}
			month, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("month must be an integer: %w", err)
			}

			var holidays calendar.HolidayCalendar = calendar.NoHolidays{}
			if withHolidays {
				st, err := openStore(*cfgFile)
				if err != nil {
					return err
				}
				defer st.Close()
				holidays = st
			}

			view, err := calendar.Month(cmd.Context(), year, month, holidays)
			if err != nil {
				return err
			}
			renderMonth(cmd.OutOrStdout(), view, calendar.ParseLang(lang))
			return nil
		},
	}

	calendarCmd.Flags().StringVar(&lang, "lang", "en", "month names and digits: en or ne")
	calendarCmd.Flags().BoolVar(&withHolidays, "holidays", false, "include holidays from the configured database")

	return calendarCmd
}

// NewHolidaysCommand creates the holidays command with subcommands.
func NewHolidaysCommand(cfgFile *string) *cobra.Command {
	holidaysCmd := &cobra.Command{
		Use:   "holidays",
		Short: "Holiday management commands",
		Long:  "Import, seed and list holidays in the configured database",
	}

	var source string
	importCmd := &cobra.Command{
		Use:   "import <file.ics>",
		Short: "Import holidays from an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			holidays, err := calendar.ParseICS(f, source)
			if err != nil {
				return err
			}

			st, err := openStore(*cfgFile)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SaveHolidays(cmd.Context(), holidays); err != nil {
				return fmt.Errorf("failed to save holidays: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d holidays from %s\n", len(holidays), args[0])
			return nil
		},
	}
	importCmd.Flags().StringVar(&source, "source", "import", "source name recorded on each holiday")
	holidaysCmd.AddCommand(importCmd)

	holidaysCmd.AddCommand(&cobra.Command{
		Use:   "seed <bs-year>",
		Short: "Store the fixed-date national holidays of a BS year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("year must be an integer: %w", err)
			}
			holidays, err := calendar.NationalHolidays(year)
			if err != nil {
				return err
			}

			st, err := openStore(*cfgFile)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SaveHolidays(cmd.Context(), holidays); err != nil {
				return fmt.Errorf("failed to save holidays: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d national holidays for %d\n", len(holidays), year)
			return nil
		},
	})

	var listSource string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored holidays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(*cfgFile)
			if err != nil {
				return err
			}
			defer st.Close()

			holidays, err := st.ListHolidays(cmd.Context(), listSource)
			if err != nil {
				return err
			}
			for _, h := range holidays {
				public := ""
				if h.Public {
					public = " (public)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s%s\n", h.Date, h.BSDate, h.Name, public)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&listSource, "source", "", "only holidays from this source")
	holidaysCmd.AddCommand(listCmd)

	return holidaysCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print patro version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "patro %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "BS %d-%d, AD %d-%d\n",
				bsdate.StartBSYear, bsdate.EndBSYear, bsdate.StartADYear, bsdate.EndADYear-1)
		},
	}
}

func openStore(cfgFile string) (*sqlite.Store, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	st, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return st, nil
}
