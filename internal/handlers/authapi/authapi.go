// Package authapi exposes the auth service over HTTP. It only marshals:
// bodies in, tokens and errors out. All decisions live in the auth service.
package authapi

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/mpetrov/tasknest/internal/apperr"
	"github.com/mpetrov/tasknest/internal/auth"
)

var (
	logger = log.With().Str("component", "authapi").Logger()
)

func init() {
	// Report binding failures under the JSON field names clients sent.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

type Handlers struct {
	service *auth.Service
}

func RegisterHandlers(rg *gin.RouterGroup, service *auth.Service) {
	h := &Handlers{service: service}

	rg.POST("/register", h.handleRegister)
	rg.POST("/login", h.handleLogin)
	rg.POST("/refresh-token", h.handleRefreshToken)
	rg.POST("/logout", h.handleLogout)
}

type registerParams struct {
	FirstName       string `json:"firstName" binding:"required,max=128"`
	Surname         string `json:"surname" binding:"required,max=128"`
	Email           string `json:"email" binding:"required,max=128"`
	Password        string `json:"password" binding:"required,max=255"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,max=255"`
}

func (h *Handlers) handleRegister(c *gin.Context) {
	params := &registerParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := checkmail.ValidateFormat(params.Email); err != nil {
		respondError(c, apperr.Validation("Validation failed", map[string]string{
			"email": "Invalid email address",
		}))
		return
	}

	user, aerr := h.service.Register(&auth.RegisterParams{
		FirstName:       params.FirstName,
		Surname:         params.Surname,
		Email:           params.Email,
		Password:        params.Password,
		ConfirmPassword: params.ConfirmPassword,
	})
	if aerr != nil {
		respondError(c, aerr)
		return
	}

	c.JSON(http.StatusCreated, user)
}

type loginParams struct {
	Email    string `json:"email" binding:"required,max=128"`
	Password string `json:"password" binding:"required,max=255"`
}

func (h *Handlers) handleLogin(c *gin.Context) {
	params := &loginParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		respondBindingError(c, err)
		return
	}

	tokens, aerr := h.service.Login(params.Email, params.Password)
	if aerr != nil {
		respondError(c, aerr)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

type refreshTokenParams struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *Handlers) handleRefreshToken(c *gin.Context) {
	params := &refreshTokenParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		respondBindingError(c, err)
		return
	}

	accessToken, aerr := h.service.RefreshAccessToken(params.RefreshToken)
	if aerr != nil {
		respondError(c, aerr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

func (h *Handlers) handleLogout(c *gin.Context) {
	params := &refreshTokenParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		respondBindingError(c, err)
		return
	}

	if aerr := h.service.Logout(params.RefreshToken); aerr != nil {
		respondError(c, aerr)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondError(c *gin.Context, aerr *apperr.Error) {
	if aerr.Status == http.StatusInternalServerError {
		logger.Error().Str("path", c.FullPath()).Msg(aerr.Message)
	}
	c.JSON(aerr.Status, aerr)
}

// respondBindingError turns gin binding failures into the 422 field-error
// shape; anything not a validator error is reported as a malformed body.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondError(c, apperr.Validation("Invalid request body", nil))
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldErrorMessage(fe)
	}

	respondError(c, apperr.Validation("Validation failed", fields))
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return "Cannot be longer than " + fe.Param() + " characters"
	default:
		return "Invalid value"
	}
}
