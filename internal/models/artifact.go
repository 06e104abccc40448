package models

import "time"

// AudioArtifact is a synthesized speech payload on disk plus its
// ownership metadata. Its lifetime is governed by its own deletion
// timer, independent of the owning session's expiry.
type AudioArtifact struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Path        string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
