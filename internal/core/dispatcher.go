package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat/internal/proto"
)

// Dispatcher interprets inbound lines for one connection at a time. Calls for
// the same connection must be sequential; calls for different connections may
// run concurrently.
type Dispatcher struct {
	sessions  *Sessions
	mutes     *Mutes
	admin     *Admin
	out       *Broadcaster
	transport Transport
	sink      LogSink
	typing    *typingThrottle
	now       func() time.Time
	log       *zerolog.Logger
}

// Dispatch handles one raw inbound line from id.
func (d *Dispatcher) Dispatch(id ConnID, raw string) {
	line := strings.TrimSpace(raw)

	sess, ok := d.sessions.Get(id)
	if !ok {
		d.log.Warn().Str("conn_id", string(id)).Msg("message from unknown connection")
		return
	}
	if !sess.Authenticated() {
		d.claim(id, line)
		return
	}

	d.sessions.Touch(id)
	d.out.PublishRoster()

	d.execute(sess, ParseCommand(line))
}

func (d *Dispatcher) claim(id ConnID, name string) {
	if name == "" {
		d.out.SendTo(id, proto.NicknamePrompt)
		return
	}

	if err := d.sessions.ClaimNickname(id, name); err != nil {
		if errors.Is(err, ErrNicknameTaken) {
			d.out.SendTo(id, proto.NicknameTaken)
			return
		}
		d.log.Error().Err(err).Str("conn_id", string(id)).Msg("claim nickname")
		return
	}

	d.log.Info().Str("conn_id", string(id)).Str("nickname", name).Msg("nickname claimed")
	d.out.SendTo(id, proto.Welcome(name))
	d.out.Broadcast(name+" joined the chat", id)
	d.out.PublishRoster()
}

func (d *Dispatcher) execute(sess Session, cmd Command) {
	switch cmd.Kind {
	case CommandExit:
		if err := d.transport.Close(sess.ID); err != nil {
			d.log.Debug().Err(err).Str("conn_id", string(sess.ID)).Msg("close on exit")
		}
	case CommandList:
		d.out.SendTo(sess.ID, proto.OnlinePrefix+strings.Join(d.sessions.Nicknames(), ", "))
	case CommandTyping:
		if d.typing.allow(sess.ID, d.now()) {
			d.out.BroadcastAuthenticated(proto.TypingPrefix+sess.Nickname, sess.ID)
		}
	case CommandAdmin:
		d.elevate(sess, cmd.Arg)
	case CommandKick:
		if d.requireAdmin(sess) {
			d.kick(sess, cmd.Arg)
		}
	case CommandMute:
		if d.requireAdmin(sess) {
			d.mutes.Mute(cmd.Arg)
			d.log.Info().Str("admin", sess.Nickname).Str("nickname", cmd.Arg).Msg("muted")
			d.out.Broadcast(cmd.Arg+" has been muted.", sess.ID)
		}
	case CommandUnmute:
		if d.requireAdmin(sess) {
			d.mutes.Unmute(cmd.Arg)
			d.log.Info().Str("admin", sess.Nickname).Str("nickname", cmd.Arg).Msg("unmuted")
			d.out.Broadcast(cmd.Arg+" has been unmuted.", sess.ID)
		}
	case CommandMsg:
		d.private(sess, cmd.Arg, cmd.Text)
	case CommandLastSeen:
		d.out.SendTo(sess.ID, d.lastSeen())
	default:
		d.chat(sess, cmd.Text)
	}
}

func (d *Dispatcher) elevate(sess Session, password string) {
	if err := d.admin.TryElevate(sess.ID, password); err != nil {
		d.log.Debug().Str("nickname", sess.Nickname).Msg("admin login rejected")
		d.out.SendTo(sess.ID, proto.WrongPassword)
		return
	}
	d.log.Info().Str("conn_id", string(sess.ID)).Str("nickname", sess.Nickname).Msg("admin elevated")
	d.out.SendTo(sess.ID, proto.AdminGranted)
}

func (d *Dispatcher) requireAdmin(sess Session) bool {
	if d.admin.IsAdmin(sess.ID) {
		return true
	}
	d.out.SendTo(sess.ID, proto.AdminOnly)
	return false
}

// kick only closes the target; its own teardown removes it from the registry.
func (d *Dispatcher) kick(sess Session, name string) {
	target, ok := d.sessions.Lookup(name)
	if !ok {
		d.out.SendTo(sess.ID, proto.UserNotFound)
		return
	}
	d.log.Info().Str("admin", sess.Nickname).Str("nickname", name).Msg("kick")
	d.out.SendTo(target, proto.Kicked)
	if err := d.transport.Close(target); err != nil {
		d.log.Warn().Err(err).Str("conn_id", string(target)).Msg("close kicked connection")
	}
}

// private messages bypass the mute set.
func (d *Dispatcher) private(sess Session, name, text string) {
	target, ok := d.sessions.Lookup(name)
	if !ok {
		d.out.SendTo(sess.ID, proto.UserNotFound)
		return
	}
	line := proto.PrivatePrefix + sess.Nickname + ": " + text
	d.out.SendTo(target, line)
	d.out.SendTo(sess.ID, fmt.Sprintf("(to %s): %s", name, text))
	d.sink.Write(line)
}

// lastSeen lists registered sessions only; nothing is remembered after a
// disconnect, so every entry is online.
func (d *Dispatcher) lastSeen() string {
	var b strings.Builder
	b.WriteString(proto.LastSeenHeader)
	for _, name := range d.sessions.Nicknames() {
		fmt.Fprintf(&b, "\n- %s: %s", name, proto.StatusOnline)
	}
	return b.String()
}

func (d *Dispatcher) chat(sess Session, text string) {
	if d.mutes.IsMuted(sess.Nickname) {
		d.out.SendTo(sess.ID, proto.Muted)
		return
	}
	line := fmt.Sprintf("[%s -- %s] %s", d.now().Format(proto.ChatTimeLayout), sess.Nickname, text)
	d.out.Broadcast(line, sess.ID)
	d.sink.Write(line)
}
