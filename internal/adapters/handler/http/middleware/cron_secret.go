package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const CronSecretHeader = "X-Cron-Secret"

// CronSecret guards scheduler-only endpoints. The configured value is a
// bcrypt hash of the shared secret; an empty hash disables the endpoint.
func CronSecret(secretHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretHash == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "cron trigger disabled"})
			return
		}

		secret := c.GetHeader(CronSecretHeader)
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-Cron-Secret header required"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(secret)); err != nil {
			log.Printf("[CRON] Rejected trigger from %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid cron secret"})
			return
		}

		c.Next()
	}
}
