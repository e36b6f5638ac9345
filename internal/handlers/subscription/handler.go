package subscription

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cakequest/landing-api/internal/models"
	service "github.com/cakequest/landing-api/internal/services/subscription"
)

const timeoutDuration = 10 * time.Second

type subscriber interface {
	Subscribe(ctx context.Context, email string) error
}

type Handler struct {
	Service subscriber
}

func NewHandler(svc subscriber) *Handler {
	return &Handler{Service: svc}
}

// CollectEmail
// @Summary Collect a launch-notification email
// @Description Records a visitor email in the subscriber sheet unless it is already registered.
// @Tags subscription
// @Accept application/json
// @Param request body models.CollectEmailData true "Email to record"
// @Success 200
// @Failure 400
// @Failure 405
// @Failure 500
// @Router /collect-email [post]
func (h *Handler) CollectEmail(c *gin.Context) {
	var data models.CollectEmailData
	if err := c.ShouldBindJSON(&data); err != nil {
		log.Printf("Failed to bind email data: %s", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email address"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	err := h.Service.Subscribe(ctx, data.Email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email address"})
			return
		}
		if errors.Is(err, service.ErrAlreadySubscribed) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered"})
			return
		}
		log.Printf("Failed to collect email with that error: %s", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error processing subscription",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully subscribed!"})
}

// MethodNotAllowed answers any verb the route table does not accept.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method not allowed"})
}
