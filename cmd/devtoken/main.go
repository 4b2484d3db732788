// Command devtoken mints a development access token for the crmdesk CLI.
//
// The token is signed with the jwt_secret of the given config file (or the
// built-in development secret) and printed to stdout.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/crmdesk/internal/client/auth"
	"github.com/dmitrijs2005/crmdesk/internal/client/config"
	"github.com/dmitrijs2005/crmdesk/internal/flagx"
)

func main() {
	fs := flag.NewFlagSet("devtoken", flag.ExitOnError)
	user := fs.String("user", "", "user id (token subject)")
	email := fs.String("email", "", "email claim")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-user", "-email", "-ttl"}))

	if *user == "" {
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(flagx.FilterArgs(os.Args[1:], []string{"-c", "-config"}))
	if err != nil {
		log.Fatalf("%v", err)
	}

	tok, err := auth.IssueToken(*user, *email, []byte(cfg.JWTSecret), *ttl)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Println(tok)
}
