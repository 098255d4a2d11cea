// Command main runs the database seeder for Parlor.
package main

import (
	"flag"
	"log"

	"parlor/internal/config"
	"parlor/internal/database"
	"parlor/internal/seed"
)

func main() {
	// Parse command line flags
	numThreads := flag.Int("threads", 40, "Number of threads to create")
	numComments := flag.Int("comments", 200, "Number of comments to create")
	numChat := flag.Int("chat", 50, "Number of chat messages to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d threads, %d comments, %d chat messages, clean=%v\n",
		*numThreads, *numComments, *numChat, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run seeder
	s := seed.NewSeeder(database.DB)
	if err := s.Seed(seed.Options{
		NumThreads:  *numThreads,
		NumComments: *numComments,
		NumChat:     *numChat,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✅ Seeding complete")
}
