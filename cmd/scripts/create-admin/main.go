package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ayokitanulis/ayokitanulis/pkg/auth"
	"github.com/ayokitanulis/ayokitanulis/pkg/config"
	"github.com/ayokitanulis/ayokitanulis/pkg/database"
	"github.com/ayokitanulis/ayokitanulis/pkg/migrations"
	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		Password     string `short:"p" long:"password" description:"The new admin password" env:"ADMIN_PASSWORD" required:"true"`
		OnlyIfAbsent bool   `long:"only-if-absent" description:"Leave an existing admin untouched"`
	}

	_, err := flags.Parse(&opts)
	if err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		log.Err(err).Fatal("flags parse error")
	}

	password := strings.TrimSpace(opts.Password)
	if len(password) < 6 || len(password) > 72 {
		fmt.Println("the password must be between 6 and 72 characters")
		os.Exit(1)
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		log.Err(err).Fatal("migrations error")
	}

	authService := auth.NewService(db, auth.NewHasher(cfg.PasswordHashAlgorithm), cfg.JWTSecret, cfg.SessionExpiry)

	if opts.OnlyIfAbsent {
		needsSetup, err := authService.NeedsSetup(ctx)
		if err != nil {
			log.Err(err).Fatal("admin lookup error")
		}
		if !needsSetup {
			fmt.Println("admin already exists, nothing to do")
			return
		}
	}

	created, err := authService.ResetAdminPassword(ctx, password)
	if err != nil {
		log.Err(err).Fatal("admin password error")
	}
	if created {
		fmt.Println("admin created")
	} else {
		fmt.Println("admin password reset")
	}
}
