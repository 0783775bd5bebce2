package model

import (
	"net/http"

	"github.com/zazapeta/restify/pkg/identity"
	"github.com/zazapeta/restify/pkg/restify"
)

// Post belongs to the user that created it. Admins list every post, managers
// and users only their own.
type Post struct {
	ID      uint   `json:"id" gorm:"primarykey"`
	Title   string `json:"title"`
	Message string `json:"message"`
	UserID  uint   `json:"UserId"`
}

func (Post) Restify() restify.Options {
	return restify.Options{
		Validate: map[restify.Op]restify.Validator{
			restify.Create: restify.Schema(map[string]string{
				"title":   "required,min=1,max=140",
				"message": "required,min=1,max=255",
			}),
			restify.Update: restify.Schema(map[string]string{
				"title":   "omitempty,min=1,max=140",
				"message": "omitempty,min=1,max=255",
			}),
		},
		Query: map[restify.Op]restify.Query{
			restify.Create: restify.QueryFunc(createOwnPost),
			restify.ReadAll: restify.QueryByRole(map[string]restify.QueryHandlerFunc{
				"admin":   listAllPosts,
				"manager": listOwnPosts,
				"user":    listOwnPosts,
			}),
		},
	}
}

// createOwnPost stamps the authenticated user as the owner before insert.
func createOwnPost(r *http.Request, value map[string]any) (any, error) {
	id, _ := identity.Get(r.Context())
	value["UserId"] = id.Key("id")
	return entities.Create(r.Context(), &Post{}, value)
}

func listAllPosts(r *http.Request, _ map[string]any) (any, error) {
	return entities.FindAll(r.Context(), &Post{})
}

func listOwnPosts(r *http.Request, _ map[string]any) (any, error) {
	id, _ := identity.Get(r.Context())
	var posts []Post
	if err := conn.WithContext(r.Context()).Where("user_id = ?", id.Key("id")).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
