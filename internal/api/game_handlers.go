// internal/api/game_handlers.go
// Game lifecycle and command HTTP handlers (spec §6 route surface).

package api

import (
	"net/http"

	"rotation-planner/internal/models"
	"rotation-planner/internal/services"

	"github.com/gin-gonic/gin"
)

// HandleCreateGame creates a new game from a SetupInput body.
func HandleCreateGame(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		var setup models.SetupInput
		if err := c.ShouldBindJSON(&setup); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
			return
		}

		coachID := c.GetString("coach_id")
		gameID, err := svc.Game.CreateGame(c.Request.Context(), coachID, setup)
		if err != nil {
			if ve, ok := err.(*models.ValidationError); ok {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ve.Error(), "violations": ve.Violations})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create game"})
			return
		}

		state, _ := svc.Game.Snapshot(c.Request.Context(), gameID)
		c.JSON(http.StatusCreated, gin.H{"id": gameID, "state": state})
	}
}

// HandleGetGame returns the current snapshot for a game.
func HandleGetGame(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameID := c.Param("id")
		state, err := svc.Game.Snapshot(c.Request.Context(), gameID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// HandleStartGame starts the game clock.
func HandleStartGame(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Game.Start(c.Param("id")); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "started"})
	}
}

// HandleStopGame pauses the game clock.
func HandleStopGame(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Game.Stop(c.Param("id")); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "stopped"})
	}
}

// HandleConfirmRotation applies the pending rotation.
func HandleConfirmRotation(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Game.ConfirmRotation(c.Param("id")); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "confirmed"})
	}
}

// HandleCancelRotation discards the pending rotation.
func HandleCancelRotation(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Game.CancelRotation(c.Param("id")); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "cancelled"})
	}
}

// HandleEmergencySubstitution bypasses the gap lockout for an
// immediate substitution, optionally removing the off players.
func HandleEmergencySubstitution(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Off            []string `json:"off" binding:"required"`
			On             []string `json:"on" binding:"required"`
			RemoveFromGame bool     `json:"remove_from_game"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
			return
		}

		if err := svc.Game.EmergencySubstitution(c.Param("id"), req.Off, req.On, req.RemoveFromGame); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "substitution applied"})
	}
}

// HandleFoulOut removes a player permanently due to a foul-out.
func HandleFoulOut(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Player string `json:"player" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
			return
		}

		if err := svc.Game.PlayerFouledOut(c.Param("id"), req.Player); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "player fouled out"})
	}
}

// HandleRemovePlayer removes a player from the game (e.g. injury).
func HandleRemovePlayer(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Player string `json:"player" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
			return
		}

		if err := svc.Game.RemovePlayer(c.Param("id"), req.Player); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "player removed"})
	}
}

// HandleReturnPlayer reinstates a previously removed player.
func HandleReturnPlayer(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Player string `json:"player" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
			return
		}

		if err := svc.Game.ReturnPlayer(c.Param("id"), req.Player); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "player reinstated"})
	}
}

// HandleUpdateScore updates a player's point total, or the team total
// when no player is given.
func HandleUpdateScore(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Player *string `json:"player"`
			IsHome bool    `json:"is_home"`
			Delta  int     `json:"delta" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
			return
		}

		gameID := c.Param("id")
		var err error
		if req.Player != nil {
			err = svc.Game.UpdatePlayerScore(gameID, *req.Player, req.Delta)
		} else {
			err = svc.Game.UpdateTeamScore(gameID, req.IsHome, req.Delta)
		}
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "score updated"})
	}
}

// HandleVisibilityChange notifies the engine of a tab-hidden event or
// a catch-up replay once the host tab regains visibility.
func HandleVisibilityChange(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Hidden        bool `json:"hidden"`
			MissedSeconds int  `json:"missed_seconds"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
			return
		}

		gameID := c.Param("id")
		if err := svc.Game.HandleVisibilityChange(gameID, req.Hidden); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if !req.Hidden && req.MissedSeconds > 0 {
			if err := svc.Game.ApplyMissedTime(gameID, req.MissedSeconds); err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "visibility change applied"})
	}
}

// HandleFinalStats returns the final game state and the rotation
// history once the snapshot reports game_over (409 before then). The
// FinalStats report computed at game end is not part of the response.
func HandleFinalStats(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := svc.Game.Snapshot(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		if !state.GameOver {
			c.JSON(http.StatusConflict, gin.H{"error": "game has not ended"})
			return
		}
		history, _ := svc.Game.History(c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"state": state, "history": history})
	}
}
