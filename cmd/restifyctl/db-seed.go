package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/zazapeta/restify/pkg/credentials"
	"github.com/zazapeta/restify/pkg/db"
	"github.com/zazapeta/restify/pkg/model"
)

// dbSeedCmd represents the db seed command
var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo users and posts",
	Long: `Insert demo users and posts.

Creates an admin, a manager and a regular user, each with the password
"password", plus a couple of posts to exercise role-scoped listing.

Example:
  restifyctl db seed`,
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
		if err := seed(conn); err != nil {
			fmt.Println("Seed failed:", err)
			os.Exit(1)
		}
		fmt.Println("Seed complete")
	},
}

func init() {
	dbCmd.AddCommand(dbSeedCmd)
}

func seed(conn *gorm.DB) error {
	users := []model.User{
		{Username: "admin", FirstName: "Ada", LastName: "Admin", Email: "admin@example.com", Role: "admin"},
		{Username: "manager", FirstName: "Max", LastName: "Manager", Email: "manager@example.com", Role: "manager"},
		{Username: "user", FirstName: "Uma", LastName: "User", Email: "user@example.com", Role: "user"},
	}
	for i := range users {
		hashed, err := credentials.Hash("password", credentials.DefaultConfig())
		if err != nil {
			return err
		}
		users[i].Password = hashed
		if err := conn.Where(model.User{Email: users[i].Email}).
			FirstOrCreate(&users[i]).Error; err != nil {
			return err
		}
	}

	posts := []model.Post{
		{Title: "Welcome", Message: "First post from the admin.", UserID: users[0].ID},
		{Title: "Status", Message: "Weekly update from the manager.", UserID: users[1].ID},
	}
	for i := range posts {
		if err := conn.Where(model.Post{Title: posts[i].Title, UserID: posts[i].UserID}).
			FirstOrCreate(&posts[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
