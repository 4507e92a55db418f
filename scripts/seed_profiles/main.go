package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	"vivah/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Seeds N approved demo profiles (with owning users) so search has a
// candidate pool to work against in development.

var (
	firstNames  = []string{"Aarav", "Vihaan", "Aditya", "Rohan", "Ananya", "Diya", "Isha", "Priya", "Kavya", "Meera"}
	lastNames   = []string{"Sharma", "Patel", "Reddy", "Iyer", "Khan", "Singh", "Das", "Nair"}
	cities      = map[string][]string{"Maharashtra": {"Pune", "Mumbai", "Nagpur"}, "Karnataka": {"Bengaluru", "Mysuru"}, "Delhi": {"New Delhi"}}
	educations  = []string{"bachelors", "masters", "phd", "diploma"}
	professions = []string{"engineer", "doctor", "teacher", "designer", "accountant"}
)

func main() {
	n := flag.Int("n", 50, "number of demo profiles to create")
	seed := flag.Int64("seed", 1, "rng seed for reproducible data")
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

	var religions []models.Religion
	if err := db.Where("is_active").Find(&religions).Error; err != nil || len(religions) == 0 {
		log.Fatal("no active religions; run the server once (or `vivah migrate`) to seed master data")
	}

	rng := rand.New(rand.NewSource(*seed))
	hpw, _ := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)

	created := 0
	for i := 0; i < *n; i++ {
		username := fmt.Sprintf("demo_%04d", i)
		var existing models.User
		if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
			continue
		}
		user := models.User{Username: username, HashedPassword: hpw}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("create user %s: %v", username, err)
		}

		gender := models.GenderFemale
		if rng.Intn(2) == 0 {
			gender = models.GenderMale
		}
		state := pick(rng, keys(cities))
		rel := religions[rng.Intn(len(religions))]
		age := 21 + rng.Intn(20)
		dob := time.Now().AddDate(-age, -rng.Intn(12), -rng.Intn(28))

		p := models.Profile{
			ID:            uuid.New(),
			UserID:        user.ID,
			FirstName:     pick(rng, firstNames),
			LastName:      pick(rng, lastNames),
			Gender:        gender,
			DateOfBirth:   dob,
			ReligionID:    &rel.ID,
			MaritalStatus: models.MaritalNeverMarried,
			HeightCM:      150 + float64(rng.Intn(40)),
			Education:     pick(rng, educations),
			Profession:    pick(rng, professions),
			City:          pick(rng, cities[state]),
			State:         state,
			Country:       "India",
			Status:        models.StatusApproved,
		}
		if err := db.Create(&p).Error; err != nil {
			log.Fatalf("create profile for %s: %v", username, err)
		}
		created++
	}
	fmt.Printf("seeded %d demo profiles\n", created)
}

func pick(rng *rand.Rand, vals []string) string {
	return vals[rng.Intn(len(vals))]
}

func keys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
