package security

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"labhouse/internal/repository"
	"labhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var (
	jwtSecret     []byte
	jwtSecretOnce sync.Once
)

// secretKey loads JWT_SECRET on first use and refuses to run without it.
func secretKey() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")

		if secret == "" {
			if err := godotenv.Load(); err != nil {
				log.Printf("Unable to load .env: %v", err)
			}
			secret = os.Getenv("JWT_SECRET")
		}

		if secret == "" {
			log.Fatal("JWT_SECRET environment variable is not set")
		}

		jwtSecret = []byte(secret)
	})

	return jwtSecret
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.Select("id", "username", "password_hash", "role").From("users").Where(goqu.Ex{"username": username})

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID int, role string, username string) (string, error) {
	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     role,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ActorFromContext reads the identity the JWT middleware stored on the
// request context.
func ActorFromContext(c *gin.Context) (models.Actor, error) {
	rawID, idExists := c.Get("userID")
	rawRole, roleExists := c.Get("role")
	if !idExists || !roleExists {
		return models.Actor{}, fmt.Errorf("request context is missing authentication claims")
	}

	id, ok := rawID.(float64) // JWT numeric claims decode as float64
	if !ok {
		return models.Actor{}, fmt.Errorf("userID claim is not a number")
	}
	role, ok := rawRole.(string)
	if !ok {
		return models.Actor{}, fmt.Errorf("role claim is not a string")
	}

	return models.Actor{ID: int(id), Role: role}, nil
}
