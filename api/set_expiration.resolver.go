package api

import (
	"errors"
	"time"

	"algopilot/internal/domain"

	"github.com/gin-gonic/gin"
)

type setExpirationRequest struct {
	Expiration *time.Time `json:"expiration"`
	TtlSeconds *int64     `json:"ttlSeconds"`
}

// setExpiration moves an algorithm's deadline. The scheduler observes the
// edit within one reconciliation interval; nothing is stopped inline here.
func (h ApiHandler) setExpiration(c *gin.Context) {
	id, err := algorithmIDFromPath(c)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	var requestBody setExpirationRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	expiration := requestBody.Expiration
	if expiration == nil && requestBody.TtlSeconds != nil {
		t := time.Now().UTC().Add(time.Duration(*requestBody.TtlSeconds) * time.Second)
		expiration = &t
	}
	if expiration == nil {
		returnErrorJsonCode(errors.New("expiration or ttlSeconds is required"), c, 400)
		return
	}

	record, err := h.Registry.SetExpiration(id, *expiration)
	if errors.Is(err, domain.ErrNotFound) {
		returnErrorJsonCode(err, c, 404)
		return
	}
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, toAlgorithmResponse(*record))
}

// killAlgorithm is sugar for setting the expiration to now.
func (h ApiHandler) killAlgorithm(c *gin.Context) {
	id, err := algorithmIDFromPath(c)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	record, err := h.Registry.SetExpiration(id, time.Now().UTC())
	if errors.Is(err, domain.ErrNotFound) {
		returnErrorJsonCode(err, c, 404)
		return
	}
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, toAlgorithmResponse(*record))
}
