// internal/services/analytics_service.go
// Rotation-event analytics sink, adapted from the teacher's
// AnalyticsService (other_services.go), trimmed to the one event
// shape this host produces: every emitted rotation and disruption.

package services

import (
	"context"
	"log"
	"time"

	"rotation-planner/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AnalyticsService logs rotation events for later reporting.
type AnalyticsService struct {
	db     *mongo.Database
	logger *log.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(db *mongo.Database, logger *log.Logger) *AnalyticsService {
	return &AnalyticsService{db: db, logger: logger}
}

// LogRotation records one emitted rotation for a game: a proposed
// rotation, or an applied emergency or foul-out substitution.
func (s *AnalyticsService) LogRotation(ctx context.Context, gameID string, rot models.Rotation) {
	event := models.RotationEvent{
		GameID:   gameID,
		Time:     rot.Time,
		Off:      rot.Off,
		On:       rot.On,
		Reason:   rot.Reason,
		LoggedAt: time.Now(),
	}

	if _, err := s.db.Collection("rotation_events").InsertOne(ctx, event); err != nil {
		s.logger.Printf("failed to log rotation event for game %s: %v", gameID, err)
		// analytics failures never propagate to the game engine
	}
}

// LogDisruption records a non-rotation disruption (recovery, error) as
// a lightweight free-form document, mirroring the teacher's
// eventType/data convention for ad-hoc event shapes.
func (s *AnalyticsService) LogDisruption(ctx context.Context, gameID, kind string, data map[string]interface{}) {
	event := bson.M{
		"game_id":    gameID,
		"kind":       kind,
		"data":       data,
		"logged_at":  time.Now(),
	}
	if _, err := s.db.Collection("game_disruptions").InsertOne(ctx, event); err != nil {
		s.logger.Printf("failed to log disruption event for game %s: %v", gameID, err)
	}
}

// RotationsForGame returns every logged rotation for a game, most
// recent first.
func (s *AnalyticsService) RotationsForGame(ctx context.Context, gameID string) ([]models.RotationEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "logged_at", Value: -1}})
	cursor, err := s.db.Collection("rotation_events").Find(ctx, bson.M{"game_id": gameID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.RotationEvent
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
