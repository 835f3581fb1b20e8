package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mayank2130/user-leagues/models"
)

// ActivityRecorder touches the member's last-active timestamp after
// each successful authenticated request. Best effort: scoring
// operations update last-active inside their own transaction, this
// keeps it fresh for read-only traffic too.
func ActivityRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}
		value, exists := c.Get(ContextMemberIDKey)
		if !exists {
			return
		}
		memberID, ok := value.(uint)
		if !ok {
			return
		}

		_ = db.Model(&models.Member{}).
			Where("id = ?", memberID).
			Update("last_active", time.Now()).Error
	}
}
