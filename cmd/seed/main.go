// Command main runs the database seeder for ProjectHub.
package main

import (
	"flag"
	"log"

	"projecthub/internal/config"
	"projecthub/internal/database"
	"projecthub/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numProjects := flag.Int("projects", defaults.NumProjects, "Number of projects to create")
	shouldClean := flag.Bool("clean", defaults.ShouldClean, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (dev only, much faster)")
	dryRun := flag.Bool("dry-run", false, "Build entities without writing to the database")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d projects, clean=%v", *numUsers, *numProjects, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		NumUsers:    *numUsers,
		NumProjects: *numProjects,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *skipBcrypt,
		DryRun:      *dryRun,
		MaxDays:     defaults.MaxDays,
	}
	s := seed.NewSeeder(db, opts)

	if opts.ShouldClean && !opts.DryRun {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedCommunity()
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	if err := s.SeedActivity(users); err != nil {
		log.Fatalf("Activity seeding failed: %v", err)
	}

	log.Println("All done. Test users share the password: password123")
}
