package gather

import "gatherbeat/cmd/internal/domain/entity"

// playersResponse is keyed by the player's session id.
type playersResponse map[string]*playerResponse

type playerResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	DisplayEmail string `json:"displayEmail"`
}

func (p playersResponse) ToDomain() entity.PresenceSnapshot {
	snapshot := make(entity.PresenceSnapshot, len(p))
	for sessionID, player := range p {
		if player == nil {
			continue
		}

		snapshot[sessionID] = &entity.Participant{
			ID:           player.ID,
			Name:         player.Name,
			Status:       entity.Status(player.Status),
			DisplayEmail: player.DisplayEmail,
		}
	}
	return snapshot
}
