package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

// bindOptionalJSON decodes the body into dst, treating an empty body as
// an empty object.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
