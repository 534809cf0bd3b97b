package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/omarwaleed/egystore/app/configs"
	"github.com/omarwaleed/egystore/app/db/seeders"
	"github.com/omarwaleed/egystore/app/models/migrations"
	"github.com/urfave/cli/v3"
)

func RunCli() {
	cmd := &cli.Command{
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Seed the database with fake catalog data",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					if err := seeders.DBSeed(db); err != nil {
						return err
					}
					log.Println("✅ Seeding complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate a JWT secret and Paymob webhook HMAC secret for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					jwtKey := securecookie.GenerateRandomKey(64)
					if jwtKey == nil {
						return fmt.Errorf("error: could not generate JWT secret")
					}
					hmacKey := securecookie.GenerateRandomKey(32)
					if hmacKey == nil {
						return fmt.Errorf("error: could not generate HMAC secret")
					}

					fmt.Println("\n================================================")
					fmt.Println("Generated keys:")
					fmt.Printf("JWT_SECRET=%s\n", base64.URLEncoding.EncodeToString(jwtKey))
					fmt.Printf("PAYMOB_HMAC_SECRET=%s\n", base64.URLEncoding.EncodeToString(hmacKey))
					fmt.Println("================================================")
					fmt.Println("Copy these lines into your .env file.")
					fmt.Println("REMINDER: regenerating the JWT secret invalidates existing sessions,")
					fmt.Println("and the HMAC secret must match the one configured at the gateway.")
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
