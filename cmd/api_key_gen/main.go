package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"campus-collective/agora/internal/db"
	"campus-collective/agora/internal/db/repositories"
)

// Issues an API key for a scanner kiosk. The key acts as the given user.
func main() {
	label := flag.String("label", "", "device label, e.g. 'library-entrance-kiosk'")
	userID := flag.String("user", "", "user id the key acts as")
	flag.Parse()

	if *label == "" || *userID == "" {
		log.Fatal("usage: api_key_gen -label <device label> -user <user id>")
	}

	_ = godotenv.Load()

	if err := db.InitPostgres(); err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.DB.Close()

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		log.Fatalf("generate key: %v", err)
	}
	key := hex.EncodeToString(raw)

	keysRepo := repositories.NewApiKeysRepo(db.DB)
	id, err := keysRepo.Create(context.Background(), key, *label, *userID)
	if err != nil {
		log.Fatalf("insert api key: %v", err)
	}

	fmt.Println("New API key id:", id)
	fmt.Println("X-API-Key:", key)
}
