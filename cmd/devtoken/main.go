// Command devtoken prints a bearer token signed with JWT_SECRET for local testing.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"ms-eventplatform/internal/auth"
	"ms-eventplatform/internal/config"
)

func main() {
	sub := flag.String("sub", "1", "subject claim, normally a user id")
	role := flag.String("role", "admin", "role claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime; 0 for no expiry")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	token, err := auth.IssueToken(cfg.Auth, *sub, map[string]interface{}{"role": *role}, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
