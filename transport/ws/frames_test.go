package ws

import (
	"chat-relay/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

// The relay broadcasts every message; clients must render only what is
// addressed to everyone or to themselves. This filter is the entire
// privacy model of direct messages.
func TestShouldRender_TargetFiltering(t *testing.T) {
	req := require.New(t)

	broadcast := domain.NewMessage(domain.KindChat, "Alice", "hello all")
	forMe := domain.NewTargetedMessage(domain.KindChat, "Alice", "psst", "conn-me")
	forOther := domain.NewTargetedMessage(domain.KindChat, "Alice", "psst", "conn-other")

	req.True(ShouldRender(broadcast, "conn-me"))
	req.True(ShouldRender(forMe, "conn-me"))
	req.False(ShouldRender(forOther, "conn-me"))

	// Bot replies and join rejections are targeted the same way.
	botReply := domain.NewTargetedMessage(domain.KindBotReply, domain.SenderBot, "42", "conn-other")
	req.False(ShouldRender(botReply, "conn-me"))
	req.True(ShouldRender(botReply, "conn-other"))
}

func TestNewWelcome_CarriesConnectionID(t *testing.T) {
	req := require.New(t)

	raw, err := newWelcome("conn-1")

	req.NoError(err)
	req.JSONEq(`{"type":"WELCOME","connectionId":"conn-1"}`, string(raw))
}
