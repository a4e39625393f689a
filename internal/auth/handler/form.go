package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// credentialsForm is shared by login and registration. The password upper
// bound is bcrypt's input limit.
type credentialsForm struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// bindCredentials binds and validates the request body. On failure it
// writes the 400 response and returns false.
func bindCredentials(c *gin.Context) (credentialsForm, bool) {
	var form credentialsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		body := gin.H{"error": "invalid request"}

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make(map[string]string, len(ve))
			for _, fe := range ve {
				fields[strings.ToLower(fe.Field())] = fe.Tag()
			}
			body["fields"] = fields
		}

		c.JSON(http.StatusBadRequest, body)
		return credentialsForm{}, false
	}

	form.Email = strings.TrimSpace(form.Email)
	return form, true
}
