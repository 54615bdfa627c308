package api

import (
	"errors"
	"fmt"

	"algopilot/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func algorithmIDFromPath(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid algorithm id %q: %w", c.Param("id"), err)
	}
	return id, nil
}

func (h ApiHandler) getAlgorithm(c *gin.Context) {
	id, err := algorithmIDFromPath(c)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	record, err := h.Registry.Get(id)
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

func (h ApiHandler) listAlgorithms(c *gin.Context) {
	records, err := h.Registry.ListActive()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := []algorithmResponse{}
	for _, record := range records {
		out = append(out, toAlgorithmResponse(record))
	}

	c.JSON(200, gin.H{"algorithms": out})
}
