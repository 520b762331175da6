package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Optional: a .env in the working directory supplies ANTHROPIC_API_KEY
	// and friends during development.
	_ = godotenv.Load()

	Execute()
}
