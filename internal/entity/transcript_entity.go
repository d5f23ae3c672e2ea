package entity

import (
	"time"

	"github.com/google/uuid"
)

type Transcript struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Content   string
	Summary   string
	CreatedAt time.Time
}
