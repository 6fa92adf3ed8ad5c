package handlers

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func encodeTaskIDs(ids []uuid.UUID) (datatypes.JSON, error) {
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
