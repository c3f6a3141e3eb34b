package rewards

import (
	"sync"

	"herocraft/application"
	"herocraft/bot/common"
	"herocraft/domain/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// VoiceTracker follows voice state updates and reports who is eligible for
// voice rewards. It implements application.VoicePresence.
type VoiceTracker struct {
	clock utils.Clock

	mu      sync.Mutex
	members map[int64]*application.VoiceMember
}

func NewVoiceTracker(clock utils.Clock) *VoiceTracker {
	return &VoiceTracker{
		clock:   clock,
		members: make(map[int64]*application.VoiceMember),
	}
}

// HandleVoiceStateUpdate is registered as a discordgo handler
func (t *VoiceTracker) HandleVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.VoiceState == nil {
		return
	}
	if v.Member != nil && v.Member.User != nil && v.Member.User.Bot {
		return
	}
	t.Update(v.VoiceState)
}

// Seed loads the voice states a guild reports on connect
func (t *VoiceTracker) Seed(states []*discordgo.VoiceState) {
	for _, vs := range states {
		t.Update(vs)
	}
}

// Update applies one voice state. Leaving voice removes the member; changing
// channel or becoming eligible restarts the active clock.
func (t *VoiceTracker) Update(vs *discordgo.VoiceState) {
	accountID, err := common.ParseUserID(vs.UserID)
	if err != nil {
		log.Warnf("Ignoring voice state with invalid user ID %q", vs.UserID)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if vs.ChannelID == "" {
		delete(t.members, accountID)
		return
	}

	channelID, err := common.ParseUserID(vs.ChannelID)
	if err != nil {
		log.Warnf("Ignoring voice state with invalid channel ID %q", vs.ChannelID)
		return
	}

	now := t.clock.Now()
	active := isActive(vs)

	m, ok := t.members[accountID]
	if !ok || m.ChannelID != channelID {
		t.members[accountID] = &application.VoiceMember{
			AccountID:   accountID,
			ChannelID:   channelID,
			ActiveSince: now,
			Active:      active,
		}
		return
	}

	if active && !m.Active {
		m.ActiveSince = now
	}
	m.Active = active
}

// VoiceMembers returns a snapshot of everyone in voice
func (t *VoiceTracker) VoiceMembers() []application.VoiceMember {
	t.mu.Lock()
	defer t.mu.Unlock()

	members := make([]application.VoiceMember, 0, len(t.members))
	for _, m := range t.members {
		members = append(members, *m)
	}
	return members
}

// isActive treats a member as present when they can talk and hear, or when
// they are sharing their screen or camera
func isActive(vs *discordgo.VoiceState) bool {
	if vs.SelfStream || vs.SelfVideo {
		return true
	}
	return !vs.SelfMute && !vs.SelfDeaf && !vs.Mute && !vs.Deaf
}
