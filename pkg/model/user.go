package model

import (
	"gorm.io/gorm"

	"github.com/zazapeta/restify/pkg/restify"
	"github.com/zazapeta/restify/pkg/store"
)

var (
	entities store.EntityStore
	conn     *gorm.DB
)

// Bind attaches the data layer used by the query handlers in this package.
// Call it once before mounting routes.
func Bind(st store.EntityStore, db *gorm.DB) {
	entities = st
	conn = db
}

// User is the identity model. Signup is open; everything else needs a token.
type User struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" gorm:"uniqueIndex"`
	Role      string `json:"role"`
}

func (User) Restify() restify.Options {
	return restify.Options{
		Auth: map[restify.Op]restify.Auth{
			restify.Create: restify.Allow(),
		},
		Validate: map[restify.Op]restify.Validator{
			restify.Create: restify.Schema(map[string]string{
				"username":  "required,min=1,max=140",
				"firstName": "required,min=1,max=140",
				"lastName":  "required,min=1,max=140",
				"password":  "required,min=1,max=140",
				"email":     "required,email",
				"role":      "omitempty,oneof=user manager admin",
			}),
			restify.Update: restify.Schema(map[string]string{
				"username":  "omitempty,min=1,max=140",
				"firstName": "omitempty,min=1,max=140",
				"lastName":  "omitempty,min=1,max=140",
				"email":     "omitempty,email",
			}),
		},
	}
}
