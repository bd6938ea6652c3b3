package webserver

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/querysync/querysync/src/api/data"
)

type Auth struct {
	db     *gorm.DB
	otp    OTPStore
	mailer Mailer
	secret []byte
}

func NewAuth(db *gorm.DB, otp OTPStore, mailer Mailer, secret []byte) Auth {
	return Auth{db: db, otp: otp, mailer: mailer, secret: secret}
}

// Register creates an admin account. The email must have been verified with
// an OTP first.
func (a Auth) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required,email,max=255"`
		Password string `json:"password" binding:"required,min=6,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if !a.otp.IsVerified(c, req.Email) {
		c.JSON(http.StatusForbidden, gin.H{"err": "Email not verified. Request a verification code first."})
		return
	}

	if _, err := data.GetUserByEmail(a.db, req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "Email already registered"})
		return
	}
	if _, err := data.GetUserByUsername(a.db, req.Username); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "Username already taken"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	user, err := data.CreateUser(a.db, req.Username, req.Email, string(hash))
	if err != nil {
		// Raced duplicate registrations land on the unique indexes.
		if data.IsConflict(err) {
			c.JSON(http.StatusBadRequest, gin.H{"err": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	a.otp.Clear(c, req.Email)
	log.Printf("registered admin %s (%s)", user.Username, user.Email)
	c.JSON(http.StatusCreated, userOut(user))
}

func (a Auth) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	user, err := data.GetUserByEmail(a.db, req.Email)
	if errors.Is(err, data.ErrNotFound) ||
		(err == nil && bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil) {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "Invalid email or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	token, err := issueJWT(user, a.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// RequestOTP mails a fresh verification code to the address.
func (a Auth) RequestOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	code, err := data.GenerateCode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to create verification code"})
		return
	}
	if err := a.otp.Set(c, req.Email, code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to store verification code"})
		return
	}

	subject := "[QuerySync] Your Verification Code"
	body := fmt.Sprintf(`Your verification code for QuerySync admin registration is:

    %s

This code will expire in 10 minutes.

If you did not request this code, please ignore this email.
`, code)
	if err := a.mailer.SendEmail([]string{req.Email}, subject, body); err != nil {
		a.otp.Clear(c, req.Email)
		c.JSON(http.StatusServiceUnavailable, gin.H{"err": "email delivery unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

func (a Auth) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email,max=255"`
		OTP   string `json:"otp" binding:"required,len=4"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	stored, err := a.otp.Get(c, req.Email)
	if errors.Is(err, data.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "No verification code found for this email. Please request a new one."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	if stored != req.OTP {
		c.JSON(http.StatusBadRequest, gin.H{"err": "Invalid verification code. Please try again."})
		return
	}

	if err := a.otp.MarkVerified(c, req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}
