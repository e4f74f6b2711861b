package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/booktrail/booktrail/internal/auth"
	"github.com/booktrail/booktrail/internal/database/accounts"
)

// AccountsController handles registration, login/logout and the streak
// summary shown on the home view.
type AccountsController struct {
	store          AccountStore
	sessionManager *auth.SessionManager
}

func NewAccountsController(store AccountStore, sessionManager *auth.SessionManager) *AccountsController {
	return &AccountsController{
		store:          store,
		sessionManager: sessionManager,
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new account.
// POST /register
func (ac *AccountsController) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	user, err := ac.store.Register(req.Username, req.Password)
	switch {
	case err == nil:
		log.Printf("User %q registered successfully", user.Username)
		respondCreated(c, gin.H{"id": user.ID, "username": user.Username})
	case errors.Is(err, accounts.ErrUsernameTaken):
		respondConflict(c, "username already exists, please choose another one")
	case errors.Is(err, accounts.ErrUsernameRequired),
		errors.Is(err, accounts.ErrPasswordRequired):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, "register user")
	}
}

// Login authenticates credentials and opens a session.
// POST /login
func (ac *AccountsController) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	user, err := ac.store.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			log.Printf("Login attempt failed for username %q", req.Username)
			respondUnauthorized(c, "login failed, please check your username and password")
			return
		}
		respondInternalError(c, err, "authenticate user")
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		respondInternalError(c, err, "create session")
		return
	}

	log.Printf("User %q logged in successfully", user.Username)
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username})
}

// Logout clears the current session. Logging out without an active
// session is not an error.
// POST /logout, GET /logout
func (ac *AccountsController) Logout(c *gin.Context) {
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		respondInternalError(c, err, "destroy session")
		return
	}
	respondSuccess(c, "logged out")
}

// Home returns the streak summary for the session user. Missing rows and
// storage faults both show as a zeroed streak.
// GET /
func (ac *AccountsController) Home(c *gin.Context) {
	userID := GetUserID(c)
	data := ac.store.GetStreak(userID)

	c.JSON(http.StatusOK, gin.H{
		"username": auth.GetUsername(c),
		"streak":   data,
	})
}
