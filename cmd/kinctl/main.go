package main

import (
	"log"

	"github.com/joho/godotenv"
)

func main() {
	// Flags read their defaults from the environment, so load it first.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}
	registerFlags()

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
