package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

func termQuery(c *gin.Context) string {
	return strings.TrimSpace(c.Query("term"))
}

// intQuery parses an optional integer query parameter, returning fallback when absent.
func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+key+" parameter")
	}
	return value, nil
}
