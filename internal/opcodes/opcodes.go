// Package opcodes names the wire opcodes this client sends and the
// subset of server opcodes it dispatches on (spec.md §6's external
// contract), supplemented from
// original_source/src/World/WorldSession.cpp's GetOpcodeHandlers table.
package opcodes

// Client is a client-to-server opcode. Per spec.md §4.5, these are
// 4 bytes wide on the wire.
type Client uint32

// Server is a server-to-client opcode. Per spec.md §4.5, these are
// 2 bytes wide on the wire.
type Server uint16

const (
	CMSGAuthSession Client = 0x1ED
	CMSGKeepAlive   Client = 0x407
	CMSGPing        Client = 0x1DC
)

const (
	SMSGAuthChallenge     Server = 0x1EC
	SMSGAuthResponse      Server = 0x1EE
	SMSGChannelNotify     Server = 0x0099
	SMSGCharEnum          Server = 0x003B
	SMSGMessageChat       Server = 0x0096
	SMSGGMMessageChat     Server = 0x03B1
	SMSGMotd              Server = 0x033D
	SMSGPong              Server = 0x01DD
	SMSGTimeSyncReq       Server = 0x0390
	SMSGNameQueryResponse Server = 0x0051
)

var serverNames = map[Server]string{
	SMSGAuthChallenge:     "SMSG_AUTH_CHALLENGE",
	SMSGAuthResponse:      "SMSG_AUTH_RESPONSE",
	SMSGChannelNotify:     "SMSG_CHANNEL_NOTIFY",
	SMSGCharEnum:          "SMSG_CHAR_ENUM",
	SMSGMessageChat:       "SMSG_MESSAGECHAT",
	SMSGGMMessageChat:     "SMSG_GM_MESSAGECHAT",
	SMSGMotd:              "SMSG_MOTD",
	SMSGPong:              "SMSG_PONG",
	SMSGTimeSyncReq:       "SMSG_TIME_SYNC_REQ",
	SMSGNameQueryResponse: "SMSG_NAME_QUERY_RESPONSE",
}

// Name returns the opcode's symbolic name, or "UNKNOWN" if it isn't one
// this client recognizes.
func (s Server) Name() string {
	if name, ok := serverNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

var clientNames = map[Client]string{
	CMSGAuthSession: "CMSG_AUTH_SESSION",
	CMSGKeepAlive:   "CMSG_KEEP_ALIVE",
	CMSGPing:        "CMSG_PING",
}

func (c Client) Name() string {
	if name, ok := clientNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
