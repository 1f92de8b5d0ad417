package cmd

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clinicsim/clinicsim/sim"
	"github.com/clinicsim/clinicsim/store"
)

var (
	seedDB       string // Target SQLite database
	seedSpanDays int    // Number of calendar days of history to generate
	seedRandSeed int64  // Seed for the fake data generator
)

// seedCmd fills the historical bookings table with synthetic data so that
// `run` works out of the box, mirroring the dummy-data step the simulator's
// distributions are normally fitted from.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a synthetic historical bookings database",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		gofakeit.Seed(seedRandSeed)

		db, err := store.OpenSQLite(seedDB)
		if err != nil {
			logrus.Fatalf("Unable to open database: %v", err)
		}
		defer db.Close()

		inserted, err := seedHistory(db, seedSpanDays)
		if err != nil {
			logrus.Fatalf("Seeding failed: %v", err)
		}
		fmt.Printf("Seeded %d historical bookings into %s\n", inserted, seedDB)
	},
}

// seedHistory writes spanDays of booking history ending today. Volumes are
// weekday-dependent (closed Sundays, light Saturdays), lead times skew
// short, and morning slots are favored, so the fitted distributions have
// realistic structure.
func seedHistory(db *store.SQLite, spanDays int) (int, error) {
	today := time.Now().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -spanDays)

	inserted := 0
	for d := 0; d < spanDays; d++ {
		scheduleDate := start.AddDate(0, 0, d)
		volume := dailyVolume(scheduleDate.Weekday())
		for i := 0; i < volume; i++ {
			row := fakeBooking(scheduleDate)
			if err := db.InsertBooking(uuid.New().String(), row); err != nil {
				return inserted, err
			}
			inserted++
		}
	}
	return inserted, nil
}

func dailyVolume(wd time.Weekday) int {
	switch wd {
	case time.Sunday:
		return 0
	case time.Saturday:
		return gofakeit.Number(2, 6)
	default:
		return gofakeit.Number(8, 16)
	}
}

func fakeBooking(scheduleDate time.Time) sim.BookingRow {
	// Two draws, keep the smaller: short lead times dominate.
	lead := gofakeit.Number(0, 13)
	if alt := gofakeit.Number(0, 13); alt < lead {
		lead = alt
	}

	// Morning-heavy slot choice over the clinic's 8:00-17:00 hours.
	hour := 8 + gofakeit.Number(0, 9)
	if gofakeit.Float64Range(0, 1) < 0.6 {
		hour = 8 + gofakeit.Number(0, 4)
	}

	outcome := sim.OutcomeCompleted
	switch r := gofakeit.Float64Range(0, 1); {
	case r < 0.12:
		outcome = sim.OutcomeCancelled
	case r < 0.18:
		outcome = sim.OutcomeNoShow
	}

	apptDate := scheduleDate.AddDate(0, 0, lead)
	return sim.BookingRow{
		ScheduleDate: scheduleDate.Format("2006-01-02"),
		ApptDate:     apptDate.Format("2006-01-02"),
		ApptTime:     fmt.Sprintf("%02d:00", hour),
		Outcome:      outcome,
	}
}

func init() {
	seedCmd.Flags().StringVar(&seedDB, "db", "clinic.db", "Target SQLite database")
	seedCmd.Flags().IntVar(&seedSpanDays, "span-days", 365, "Calendar days of history to generate")
	seedCmd.Flags().Int64Var(&seedRandSeed, "seed", 42, "Seed for the fake data generator")
	seedCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(seedCmd)
}
