package server

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// SessionInfo is the directory entry for one live session.
type SessionInfo struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Score      int       `json:"score"`
	Stability  int       `json:"stability"`
	Mirror     bool      `json:"mirror"`
	Over       bool      `json:"over"`
	Joined     time.Time `json:"joined"`
	Spectators int       `json:"spectators"`
}

// Directory is an immutable listing of live sessions, best score first.
type Directory struct {
	Sessions  []SessionInfo `json:"sessions"`
	Players   int           `json:"players"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// infoOf builds a directory entry from the handle's latest snapshot.
func infoOf(h *ClientHandle) SessionInfo {
	info := SessionInfo{
		ID:         h.ID,
		Username:   h.Username,
		Joined:     h.Joined,
		Spectators: int(h.spectators.Load()),
	}
	if snap := h.Snapshot(); snap != nil {
		info.Score = snap.Score
		info.Stability = snap.Stability
		info.Mirror = snap.Mirror
		info.Over = snap.Over
	}
	return info
}

// sortSessions orders by score, then by join time so equal scores keep a
// stable order between refreshes.
func sortSessions(sessions []SessionInfo) {
	sort.Slice(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Joined.Equal(b.Joined) {
			return a.Joined.Before(b.Joined)
		}
		return a.ID.String() < b.ID.String()
	})
}
