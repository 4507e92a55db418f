package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"vivah/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Prints a moderation and engagement snapshot: profile counts per status and,
// for a given month, views and shortlists recorded.

func main() {
	month := flag.String("month", time.Now().UTC().Format("2006-01"), "month to report (YYYY-MM)")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	t, err := time.Parse("2006-01", *month)
	if err != nil {
		log.Fatalf("invalid month format, expected YYYY-MM: %v", err)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	fmt.Printf("Report for %s (UTC):\n", *month)

	fmt.Println("  profiles by status:")
	for _, status := range []string{models.StatusPending, models.StatusApproved, models.StatusRejected, models.StatusDeactivated} {
		var cnt int64
		if err := db.Model(&models.Profile{}).Where("status = ?", status).Count(&cnt).Error; err != nil {
			log.Fatalf("count %s: %v", status, err)
		}
		fmt.Printf("    %-12s %d\n", status, cnt)
	}

	var views, shortlists int64
	if err := db.Model(&models.ProfileView{}).
		Where("viewed_at >= ? AND viewed_at < ?", start, end).
		Count(&views).Error; err != nil {
		log.Fatalf("count views: %v", err)
	}
	if err := db.Model(&models.ShortlistEntry{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&shortlists).Error; err != nil {
		log.Fatalf("count shortlists: %v", err)
	}
	fmt.Printf("  views=%d shortlists=%d\n", views, shortlists)
}
