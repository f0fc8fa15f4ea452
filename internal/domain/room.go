package domain

import "github.com/samber/lo"

// Room - снимок комнаты из каталога комнат. Шлюз его только читает.
type Room struct {
	ID           string        `json:"id"`
	Participants []Participant `json:"participants"`
}

// Participant - членство пользователя в комнате. ID совпадает с user id.
type Participant struct {
	ID          string  `json:"_id"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// Participant возвращает участника по user id
func (r *Room) Participant(userID string) (Participant, bool) {
	if r == nil {
		return Participant{}, false
	}
	return lo.Find(r.Participants, func(p Participant) bool {
		return p.ID == userID
	})
}

// HasParticipant проверяет, состоит ли пользователь в комнате
func (r *Room) HasParticipant(userID string) bool {
	_, ok := r.Participant(userID)
	return ok
}
