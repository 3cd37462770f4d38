package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
)

// Loads the ingredient catalog from a CSV file of (name, measurement unit)
// rows and creates a default tag set. Existing rows are kept as-is, so the
// command is safe to re-run.
func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.csv", "path to the ingredients CSV file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	created, err := seedIngredients(db, *ingredientsPath)
	if err != nil {
		log.Fatalf("Failed to seed ingredients: %v", err)
	}
	fmt.Printf("Seeded %d ingredients\n", created)

	created, err = seedTags(db)
	if err != nil {
		log.Fatalf("Failed to seed tags: %v", err)
	}
	fmt.Printf("Seeded %d tags\n", created)
}

func seedIngredients(db *gorm.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2

	created := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return created, err
		}

		ingredient := models.Ingredient{Name: record[0], Measurement: record[1]}
		err = db.Create(&ingredient).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

var defaultTags = []models.Tag{
	{Name: "Breakfast", Color: models.ColorOrange, Slug: "breakfast"},
	{Name: "Lunch", Color: models.ColorSeaGreen, Slug: "lunch"},
	{Name: "Dinner", Color: models.ColorTeal, Slug: "dinner"},
	{Name: "Dessert", Color: models.ColorPaleRed, Slug: "dessert"},
}

func seedTags(db *gorm.DB) (int, error) {
	created := 0
	for _, tag := range defaultTags {
		err := db.Create(&tag).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
