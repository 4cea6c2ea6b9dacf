package httpserver

import (
	"net/http"
	"strings"

	"storefront/internal/domain"
	accountsvc "storefront/internal/service/account"

	"github.com/gin-gonic/gin"
)

type tokenRequest struct {
	GrantType    string `form:"grant_type" binding:"required"`
	Username     string `form:"username"`
	Password     string `form:"password"`
	RefreshToken string `form:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	GuestID      string `json:"guest_id,omitempty"`
}

type meResponse struct {
	User            *domain.User `json:"user"`
	ProfileComplete bool         `json:"profileComplete"`
}

func newMeResponse(u *domain.User) meResponse {
	return meResponse{User: u, ProfileComplete: u.ProfileComplete()}
}

func (h *handlers) signup(c *gin.Context) {
	var req accountsvc.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	u, err := h.deps.AccountSvc.Signup(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newMeResponse(u))
}

func (h *handlers) token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "grant_type required")
		return
	}
	ctx := c.Request.Context()
	switch strings.ToLower(req.GrantType) {
	case "password":
		if req.Username == "" || req.Password == "" {
			badRequest(c, "username and password required")
			return
		}
		_, access, refresh, err := h.deps.AccountSvc.Login(ctx, req.Username, req.Password)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, tokenResponse{
			AccessToken:  access,
			RefreshToken: refresh,
			TokenType:    "Bearer",
			ExpiresIn:    h.deps.AccountSvc.AccessTTLSeconds(),
		})
	case "refresh_token":
		_, access, err := h.deps.AccountSvc.Refresh(ctx, req.RefreshToken)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, tokenResponse{
			AccessToken: access,
			TokenType:   "Bearer",
			ExpiresIn:   h.deps.AccountSvc.AccessTTLSeconds(),
		})
	default:
		c.JSON(http.StatusBadRequest, errorBody("unsupported_grant_type", "unsupported grant_type"))
	}
}

func (h *handlers) anonymousToken(c *gin.Context) {
	ctx := c.Request.Context()
	if c.PostForm("grant_type") == "refresh_token" {
		access, guestID, err := h.deps.GuestSvc.Refresh(ctx, c.PostForm("refresh_token"))
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, tokenResponse{
			AccessToken: access,
			TokenType:   "Bearer",
			ExpiresIn:   h.deps.GuestSvc.AccessTTLSeconds(),
			GuestID:     guestID,
		})
		return
	}
	access, refresh, guestID, err := h.deps.GuestSvc.Issue(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    h.deps.GuestSvc.AccessTTLSeconds(),
		GuestID:      guestID,
	})
}

// logout drops the session cart and guest wishlist, then revokes the bearer token
// together with an optional refresh_token form value.
func (h *handlers) logout(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := viewerFrom(c)
	if err := h.deps.CartSvc.Discard(ctx, viewer); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.deps.WishlistSvc.Discard(ctx, viewer); err != nil {
		h.fail(c, err)
		return
	}
	tokens := []string{bearerToken(c.GetHeader("Authorization")), c.PostForm("refresh_token")}
	var err error
	if u := userFrom(c); u != nil {
		err = h.deps.AccountSvc.Logout(ctx, u.ID, tokens...)
	} else {
		err = h.deps.GuestSvc.Logout(ctx, viewer.GuestID, tokens...)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	c.JSON(http.StatusOK, newMeResponse(userFrom(c)))
}

func (h *handlers) updateProfile(c *gin.Context) {
	var req accountsvc.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	u, err := h.deps.AccountSvc.UpdateProfile(c.Request.Context(), userFrom(c).ID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newMeResponse(u))
}
