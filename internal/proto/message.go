// Package proto describes the line-oriented text protocol spoken over the
// websocket: one logical message per frame, plain text except for the
// structured roster frame.
package proto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Frame prefixes.
const (
	RosterPrefix  = "[USERS]"
	TypingPrefix  = "[TYPING] "
	PrivatePrefix = "[Private] "
)

// TypingNotice is the inbound line announcing that the sender is typing.
const TypingNotice = "typing:"

// Replies sent to a single connection.
const (
	NicknamePrompt = "Enter your nickname:"
	NicknameTaken  = "Nickname taken. Try another:"
	AdminGranted   = "You are now the admin."
	WrongPassword  = "Wrong password."
	AdminOnly      = "Admin only."
	UserNotFound   = "User not found."
	Kicked         = "You have been kicked."
	Muted          = "You are muted."
	LastSeenHeader = "Last seen:"
	OnlinePrefix   = "Online: "
	StatusOnline   = "Online"
	AnonymousUser  = "A user"
)

// CommandSummary is appended to the welcome line.
const CommandSummary = "Commands: /list, /msg <user> <text>, /lastseen, /admin <password>, /kick <user>, /mute <user>, /unmute <user>, exit"

// LastSeenLayout renders roster timestamps (ISO-8601, millisecond precision, UTC).
const LastSeenLayout = "2006-01-02T15:04:05.000Z07:00"

// ChatTimeLayout renders the timestamp of a public chat line.
const ChatTimeLayout = "1/2/2006, 3:04:05 PM"

// RosterEntry is one element of the roster frame.
type RosterEntry struct {
	Nickname string `json:"nickname"`
	LastSeen string `json:"lastSeen"`
}

// Welcome greets a freshly named connection.
func Welcome(nickname string) string {
	return fmt.Sprintf("Welcome %s! %s", nickname, CommandSummary)
}

// EncodeRoster renders a roster frame.
func EncodeRoster(entries []RosterEntry) (string, error) {
	if entries == nil {
		entries = []RosterEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshal roster: %w", err)
	}
	return RosterPrefix + string(data), nil
}

// DecodeRoster parses frame if it is a roster frame. ok is false for any
// other frame.
func DecodeRoster(frame string) (entries []RosterEntry, ok bool, err error) {
	payload, found := strings.CutPrefix(frame, RosterPrefix)
	if !found {
		return nil, false, nil
	}
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, true, fmt.Errorf("unmarshal roster: %w", err)
	}
	return entries, true, nil
}
