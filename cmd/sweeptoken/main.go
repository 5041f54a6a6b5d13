// Command sweeptoken mints a short-lived token for the manual sweep trigger
// endpoints, signed with the key in SWEEP_TRIGGER_KEY. With -genkey it
// generates a fresh key instead.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/fernet/fernet-go"

	"github.com/topmart/Investment-Engine-Backend/internal/config"
)

func main() {
	genKey := flag.Bool("genkey", false, "generate a new signing key and exit")
	flag.Parse()

	if *genKey {
		var key fernet.Key
		if err := key.Generate(); err != nil {
			log.Fatalf("Failed to generate key: %v", err)
		}
		fmt.Println(key.Encode())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Trigger.FernetKey == "" {
		log.Fatal("SWEEP_TRIGGER_KEY is not set; run with -genkey to create one")
	}

	key, err := fernet.DecodeKey(cfg.Trigger.FernetKey)
	if err != nil {
		log.Fatalf("Failed to decode SWEEP_TRIGGER_KEY: %v", err)
	}

	token, err := fernet.EncryptAndSign([]byte("sweep-trigger"), key)
	if err != nil {
		log.Fatalf("Failed to mint token: %v", err)
	}

	fmt.Println(string(token))
}
