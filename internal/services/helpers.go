package services

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"zaffira/internal/apperr"
	"zaffira/internal/models"
)

func parseObjectID(raw, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, apperr.BadRequest("invalid " + field)
	}
	return id, nil
}

// lookupError maps a store lookup failure onto the client taxonomy.
func lookupError(err error, notFoundMessage string) error {
	if errors.Is(err, models.ErrNotFound) {
		return apperr.NotFound(notFoundMessage)
	}
	return apperr.Internal(err)
}
