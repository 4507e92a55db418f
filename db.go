package main

import (
	"os"
	"strings"

	"vivah/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB(cfg *Config) {
	var err error
	dsn := cfg.DBDSN
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}
	if dsn == "" {
		log.Fatal("db_dsn is not set; a Postgres DSN is required")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database", zap.Error(err))
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any
	// permission errors are logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		// Master and role tables first so FKs apply safely, then the rest.
		// Migrate models individually so a failure on one doesn't block others.
		for _, m := range []any{
			&models.Role{}, &models.Religion{}, &models.Caste{},
			&models.User{}, &models.Profile{}, &models.Preference{},
			&models.ProfileView{}, &models.ShortlistEntry{}, &models.HiddenProfile{},
			&models.RefreshToken{},
		} {
			if err := db.AutoMigrate(m); err != nil {
				log.Warn("migration warning", zap.Error(err))
			}
		}
	}
	seedDB()
}

func seedDB() {
	// Ensure master roles exist
	roles := []models.Role{{Name: "administrator", Description: "full access"}, {Name: "user", Description: "regular user"}}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}

	seedMasterData()

	// Seed the admin account used by the moderation routes
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", "administrator").First(&role).Error; err != nil {
			log.Warn("failed to find administrator role", zap.Error(err))
		}
		rid := role.ID
		admin := models.User{Username: "admin", RoleID: &rid}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		log.Info("seeded admin user", zap.String("username", "admin"))
	}
}

// seedMasterData fills the religion/caste dropdown tables when empty.
func seedMasterData() {
	var cnt int64
	db.Model(&models.Religion{}).Count(&cnt)
	if cnt > 0 {
		return
	}
	religions := []string{"Hindu", "Muslim", "Christian", "Sikh", "Jain", "Buddhist", "Other"}
	for i, name := range religions {
		db.Create(&models.Religion{Name: name, IsActive: true, DisplayOrder: i + 1})
	}
	log.Info("seeded religion master data", zap.Int("count", len(religions)))
}
