package core

import (
	"strings"

	"github.com/vovakirdan/linechat/internal/proto"
)

// CommandKind describes what an authenticated line asks for.
type CommandKind int

const (
	// CommandChat is a public chat line (the fallback).
	CommandChat CommandKind = iota
	// CommandExit closes the sender's connection.
	CommandExit
	// CommandList replies with the online nicknames.
	CommandList
	// CommandTyping relays a typing notice.
	CommandTyping
	// CommandAdmin attempts elevation with a password.
	CommandAdmin
	// CommandKick disconnects a user (admin only).
	CommandKick
	// CommandMute silences a nickname (admin only).
	CommandMute
	// CommandUnmute lifts a mute (admin only).
	CommandUnmute
	// CommandMsg sends a private message.
	CommandMsg
	// CommandLastSeen replies with the last-seen block.
	CommandLastSeen
)

func (k CommandKind) String() string {
	switch k {
	case CommandExit:
		return "exit"
	case CommandList:
		return "list"
	case CommandTyping:
		return "typing"
	case CommandAdmin:
		return "admin"
	case CommandKick:
		return "kick"
	case CommandMute:
		return "mute"
	case CommandUnmute:
		return "unmute"
	case CommandMsg:
		return "msg"
	case CommandLastSeen:
		return "lastseen"
	default:
		return "chat"
	}
}

// Command is one parsed inbound line.
type Command struct {
	Kind CommandKind
	// Arg is the password for CommandAdmin and the target nickname for
	// CommandKick, CommandMute, CommandUnmute and CommandMsg.
	Arg string
	// Text is the message body for CommandMsg and CommandChat.
	Text string
}

// ParseCommand interprets a trimmed line. The checks run in a fixed order and
// the first match wins; anything unrecognised is chat.
func ParseCommand(line string) Command {
	switch {
	case strings.EqualFold(line, "exit"):
		return Command{Kind: CommandExit}
	case line == "/list":
		return Command{Kind: CommandList}
	case strings.EqualFold(line, proto.TypingNotice):
		return Command{Kind: CommandTyping}
	case strings.HasPrefix(line, "/admin "):
		return Command{Kind: CommandAdmin, Arg: secondField(line)}
	case strings.HasPrefix(line, "/kick "):
		return Command{Kind: CommandKick, Arg: secondField(line)}
	case strings.HasPrefix(line, "/mute "):
		return Command{Kind: CommandMute, Arg: secondField(line)}
	case strings.HasPrefix(line, "/unmute "):
		return Command{Kind: CommandUnmute, Arg: secondField(line)}
	case strings.HasPrefix(line, "/msg "):
		fields := strings.Fields(line)
		cmd := Command{Kind: CommandMsg}
		if len(fields) > 1 {
			cmd.Arg = fields[1]
		}
		if len(fields) > 2 {
			cmd.Text = strings.Join(fields[2:], " ")
		}
		return cmd
	case line == "/lastseen":
		return Command{Kind: CommandLastSeen}
	default:
		return Command{Kind: CommandChat, Text: line}
	}
}

func secondField(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}
