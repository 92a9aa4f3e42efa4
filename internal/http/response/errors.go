package response

import (
	"github.com/gin-gonic/gin"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/apierr"
)

// RespondAPIError writes err with the status and code carried by its
// *apierr.Error, or 500 "internal". The message is err's text unchanged.
func RespondAPIError(c *gin.Context, err error) {
	RespondError(c, apierr.StatusCode(err), apierr.Code(err), err)
}
