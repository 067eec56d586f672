package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/push"
)

// vapid-keys 產生 Web Push 金鑰，輸出可直接貼進 .env
func main() {
	subject := flag.String("subject", "mailto:admin@kuro.pe", "VAPID subject (mailto: or https: URL)")
	flag.Parse()

	keys, err := push.GenerateKeys()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vapid-keys: %v\n", err)
		os.Exit(1)
	}

	cfg := push.Config{PublicKey: keys.PublicKey, PrivateKey: keys.PrivateKey, Subject: *subject}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "vapid-keys: generated keys failed validation: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("VAPID_PUBLIC_KEY=%s\n", keys.PublicKey)
	fmt.Printf("VAPID_PRIVATE_KEY=%s\n", keys.PrivateKey)
	fmt.Printf("VAPID_SUBJECT=%s\n", *subject)
	fmt.Fprintln(os.Stderr, "keep VAPID_PRIVATE_KEY secret; rotating it invalidates every existing subscription")
}
