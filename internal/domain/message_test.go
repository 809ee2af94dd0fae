package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKindRoundTrip(t *testing.T) {
	for k := KindCreateRoom; k <= KindUserMuted; k++ {
		assert.Equal(t, k, ParseKind(k.String()), k.String())
	}
	assert.Equal(t, KindUnknown, ParseKind("unknown"))
	assert.Equal(t, KindUnknown, ParseKind("bogus"))
	assert.Equal(t, KindUnknown, ParseKind(""))
}

func TestKindInbound(t *testing.T) {
	assert.True(t, KindJoin.Inbound())
	assert.True(t, KindMakeHost.Inbound())
	assert.False(t, KindUserJoined.Inbound())
	assert.False(t, KindUnknown.Inbound())
}

func TestDecodeEnvelope(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"type":"offer","to":"bob","roomId":"r1","data":{"sdp":"x","nested":[1,2]}}`))
	require.NoError(t, err)
	assert.Equal(t, KindOffer, env.Kind())
	assert.EqualValues(t, "bob", env.To)
	assert.EqualValues(t, "r1", env.RoomID)
	assert.JSONEq(t, `{"sdp":"x","nested":[1,2]}`, string(env.Data))

	_, err = DecodeEnvelope([]byte(`{"roomId":"r1"}`))
	assert.ErrorIs(t, err, ErrMissingType)

	_, err = DecodeEnvelope([]byte(`{not json`))
	assert.Error(t, err)
}

func TestEnvelopeMarshalOmitsEmpty(t *testing.T) {
	env := NewEnvelope(KindUserLeft, "r1")
	env.StampIdentity(User{ID: "u1", Username: "Ann"})

	b, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"user-left","roomId":"r1","from":"u1","username":"Ann"}`, string(b))
}

func TestHostDataPayload(t *testing.T) {
	isHost := false
	env := NewEnvelope(KindJoinSuccess, "r1")
	require.NoError(t, env.SetData(HostData{IsHost: &isHost, HostID: "h"}))
	assert.JSONEq(t, `{"isHost":false,"hostId":"h"}`, string(env.Data))

	require.NoError(t, env.SetData(HostData{HostID: "h"}))
	assert.JSONEq(t, `{"hostId":"h"}`, string(env.Data))
}
