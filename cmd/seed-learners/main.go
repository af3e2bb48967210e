package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/scholark/scholark-backend/internal/config"
	"github.com/scholark/scholark-backend/internal/database"
	"github.com/scholark/scholark-backend/internal/events"
	"github.com/scholark/scholark-backend/internal/logger"
	"github.com/scholark/scholark-backend/internal/model"
	"github.com/scholark/scholark-backend/internal/repository"
	"github.com/scholark/scholark-backend/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	classRepo := repository.NewClassRepository(pool)
	learnerRepo := repository.NewLearnerRepository(pool)
	seqRepo := repository.NewSequenceRepository()

	hub := events.NewHub(log)
	statsService := service.NewStatsService(pool, rdb, cfg.StatsCacheTTL, log)
	idService := service.NewStudentIDService(pool, seqRepo)
	classService := service.NewClassService(classRepo, statsService, log)
	learnerService := service.NewLearnerService(pool, learnerRepo, classRepo, idService, statsService, hub, log)

	fmt.Println("=== Seeding 30 Learners ===")

	className := "Grade 8A"
	year := 2025

	// Find or create the seed class.
	var classID int
	err = pool.QueryRow(ctx,
		"SELECT id FROM classes WHERE name = $1 AND year = $2", className, year,
	).Scan(&classID)
	if err != nil {
		if err == pgx.ErrNoRows {
			fmt.Printf("Class %q (%d) not found. Creating it...\n", className, year)
			class, err := classService.Create(ctx, model.CreateClassRequest{
				Name: className,
				Year: year,
			})
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create class")
			}
			classID = class.ID
			fmt.Printf("Created class with ID: %d\n", classID)
		} else {
			log.Fatal().Err(err).Msg("Failed to check existing class")
		}
	} else {
		fmt.Printf("Found existing class with ID: %d\n", classID)
	}

	names := []string{
		"Amina Moyo", "Brian Ncube", "Chipo Dube", "Daniel Sibanda", "Ethel Nkomo",
		"Farai Chirwa", "Grace Banda", "Henry Phiri", "Ivy Mutasa", "Joseph Zulu",
		"Kudzai Mhlanga", "Linda Tembo", "Martin Gumbo", "Nomsa Khumalo", "Oscar Maseko",
		"Patience Moyo", "Quenton Ndlovu", "Ruth Chikore", "Simba Mpofu", "Tariro Mujuru",
		"Unathi Sithole", "Violet Mangena", "Wesley Dube", "Xolani Nyathi", "Yemurai Chitepo",
		"Zanele Mabhena", "Alice Mhike", "Blessing Gono", "Cathrine Mavhunga", "David Shumba",
	}

	successCount := 0
	for i, name := range names {
		age := 12 + i%4
		learner, err := learnerService.Enroll(ctx, classID, model.EnrollLearnerRequest{
			Name: name,
			Age:  &age,
		})
		if err != nil {
			fmt.Printf("Error enrolling %s: %v\n", name, err)
			continue
		}
		successCount++
		if (i+1)%10 == 0 {
			fmt.Printf("Enrolled %d learners, latest ID %s...\n", i+1, learner.StudentID)
		}
	}

	fmt.Printf("\nSeed completed! Successfully enrolled %d/%d learners.\n", successCount, len(names))
}
