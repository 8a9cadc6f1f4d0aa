package storefrontserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/http/mapper"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/application/types"
	userports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

// AuthAPI handles sign-up, sign-in and sign-out.
type AuthAPI struct {
	service      userports.Service
	secureCookie bool
}

// NewAuthAPI wires dependencies. secureCookie marks the session cookie Secure.
func NewAuthAPI(service userports.Service, secureCookie bool) AuthAPI {
	return AuthAPI{service: service, secureCookie: secureCookie}
}

// Post /api/auth/register
func (api *AuthAPI) Register(c *gin.Context) {
	var payload userhttpmapper.Register
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.service.Register(c.Request.Context(), userhttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	api.setSessionCookie(c, result)
	respondOK(c, http.StatusCreated, userhttpmapper.FromAuthResult(result))
}

// Post /api/auth/login
func (api *AuthAPI) Login(c *gin.Context) {
	var payload userhttpmapper.Login
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	api.setSessionCookie(c, result)
	respondOK(c, http.StatusOK, userhttpmapper.FromAuthResult(result))
}

// Post /api/auth/logout
func (api *AuthAPI) Logout(c *gin.Context) {
	if err := api.service.Logout(c.Request.Context(), currentToken(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", api.secureCookie, true)
	respondMessage(c, "logged out")
}

func (api *AuthAPI) setSessionCookie(c *gin.Context, result *types.AuthResult) {
	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, result.Token, maxAge, "/", "", api.secureCookie, true)
}

// ProfileAPI serves the signed-in user's own profile.
type ProfileAPI struct {
	service userports.Service
}

func NewProfileAPI(service userports.Service) ProfileAPI {
	return ProfileAPI{service: service}
}

// Get /api/profile
func (api *ProfileAPI) GetProfile(c *gin.Context) {
	user, ok := requireCurrentUser(c)
	if !ok {
		return
	}
	profile, err := api.service.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, userhttpmapper.FromDomainUser(profile))
}

// Put /api/profile
func (api *ProfileAPI) UpdateProfile(c *gin.Context) {
	user, ok := requireCurrentUser(c)
	if !ok {
		return
	}
	var payload userhttpmapper.UpdateProfile
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	updated, err := api.service.UpdateProfile(c.Request.Context(), userhttpmapper.ToUpdateProfileInput(user.ID, payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, userhttpmapper.FromDomainUser(updated))
}
