package main

import (
	"flag"
	"log"

	"adopte-server/internal/config"
	"adopte-server/pkg/database"
)

func main() {
	adminEmail := flag.String("admin-email", "", "seed an admin account with this email")
	adminPassword := flag.String("admin-password", "", "password for the seeded admin account")
	seedDev := flag.Bool("seed-dev", false, "seed demo students, companies and offers")
	flag.Parse()

	cfg := config.LoadConfig()
	database.Connect(cfg)

	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("migrations applied")

	if *adminEmail != "" {
		if *adminPassword == "" {
			log.Fatal("admin-password is required with admin-email")
		}
		if err := database.SeedAdmin(database.DB, *adminEmail, *adminPassword); err != nil {
			log.Fatalf("seed admin: %v", err)
		}
		log.Printf("admin %s seeded", *adminEmail)
	}

	if *seedDev {
		if err := database.SeedDev(database.DB); err != nil {
			log.Fatalf("seed dev data: %v", err)
		}
		log.Println("dev data seeded")
	}
}
