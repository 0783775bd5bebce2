package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/zazapeta/restify/pkg/config"
	"github.com/zazapeta/restify/pkg/db"
	"github.com/zazapeta/restify/pkg/model"
	"github.com/zazapeta/restify/pkg/registry"
	"github.com/zazapeta/restify/pkg/server"
	"github.com/zazapeta/restify/pkg/server/routes"
	gormstore "github.com/zazapeta/restify/pkg/store/gorm"
)

func defaultBindAddress() string {
	if addr := os.Getenv("RESTIFY_BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the restify application server",
	Long: `Run the restify application server

To run the server requires the environment variables RESTIFY_AUTH_SECRET and DATABASE_URL.

By default, the schema is migrated on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad configuration:", err)
			os.Exit(1)
		}
		if cfg.Auth.Mode == "" {
			cfg.Auth.Mode = config.ModeToken
		}

		// Validate required settings first (fail fast)
		if cfg.Auth.Mode == config.ModeToken && cfg.Auth.Secret == "" {
			fmt.Fprintln(os.Stderr, "RESTIFY_AUTH_SECRET environment variable is required")
			os.Exit(1)
		}
		if cfg.DatabaseURL == "" && db.URL() == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		conn, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := migrateSchema(conn); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		st := gormstore.NewEntityStore(conn)
		model.Bind(st, conn)

		reg, err := registry.New(&model.User{}, &model.Post{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad model registration:", err)
			os.Exit(1)
		}
		cfg.Auth.IdentityModel = &model.User{}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(conn, host, port)

		if err := routes.Mount(s, routes.Deps{
			Registry: reg,
			Store:    st,
			Config:   cfg,
		}); err != nil {
			fmt.Fprintln(os.Stderr, "Unable to mount routes:", err)
			os.Exit(1)
		}

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().StringP("config", "c", "", "path to a YAML config file")
	serverCmd.Flags().Bool("no-migrate", false, "skip migrating the schema on start")
}
