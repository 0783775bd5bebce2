package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/zazapeta/restify/pkg/db"
	"github.com/zazapeta/restify/pkg/model"
)

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

The schema is derived from the registered models, so this is an
auto-migration: new columns and tables are added, nothing is dropped.

Example:
  restifyctl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		conn, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}
		if err := migrateSchema(conn); err != nil {
			fmt.Println("Migration failed:", err)
			os.Exit(1)
		}
		fmt.Println("Migrations complete")
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
}

func migrateSchema(conn *gorm.DB) error {
	return conn.AutoMigrate(&model.User{}, &model.Post{})
}
