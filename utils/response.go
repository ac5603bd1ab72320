// utils/response.go
package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/gin-gonic/gin"
)

// Pagination is the metadata block nested in paginated list responses.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := (total + int64(limit) - 1) / int64(limit)
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// RespondWithError writes the uniform failure envelope.
func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"message": message,
		"error":   message,
	})
}

// RespondWithData writes the uniform success envelope.
func RespondWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

const randomChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomString returns a random alphanumeric string, used for
// invoice numbers.
func GenerateRandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(randomChars))))
		if err != nil {
			b[i] = randomChars[0]
			continue
		}
		b[i] = randomChars[num.Int64()]
	}
	return string(b)
}
