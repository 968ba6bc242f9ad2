package client

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/vovakirdan/linechat/internal/proto"
)

const displayTimeLayout = "2006-01-02 15:04:05"

var (
	privateStyle = color.New(color.FgMagenta, color.OpBold)
	typingStyle  = color.New(color.FgCyan)
	systemStyle  = color.New(color.FgYellow)
)

// Renderer prints server frames for a terminal.
type Renderer struct {
	out        io.Writer
	showRoster bool
	loc        *time.Location
}

// NewRenderer creates a renderer writing to out. Roster frames arrive after
// every message, so they are only printed when showRoster is set.
func NewRenderer(out io.Writer, showRoster bool) *Renderer {
	return &Renderer{out: out, showRoster: showRoster, loc: time.Local}
}

// Render prints one frame.
func (r *Renderer) Render(frame string) error {
	if entries, ok, err := proto.DecodeRoster(frame); ok {
		if err != nil {
			return err
		}
		if r.showRoster {
			r.renderRoster(entries)
		}
		return nil
	}

	switch {
	case strings.HasPrefix(frame, proto.LastSeenHeader):
		r.renderLastSeen(frame)
	case strings.HasPrefix(frame, proto.TypingPrefix):
		name := strings.TrimPrefix(frame, proto.TypingPrefix)
		r.println(typingStyle.Render(name + " is typing..."))
	case strings.HasPrefix(frame, proto.PrivatePrefix), strings.HasPrefix(frame, "(to "):
		r.println(privateStyle.Render(frame))
	case strings.HasPrefix(frame, "["):
		r.println(frame)
	default:
		r.println(systemStyle.Render(frame))
	}
	return nil
}

func (r *Renderer) renderRoster(entries []proto.RosterEntry) {
	table := r.newTable("Nickname", "Last seen")
	table.AppendBulk(lo.Map(entries, func(e proto.RosterEntry, _ int) []string {
		return []string{e.Nickname, r.localTime(e.LastSeen)}
	}))
	table.Render()
}

func (r *Renderer) renderLastSeen(frame string) {
	lines := strings.Split(frame, "\n")
	r.println(systemStyle.Render(lines[0]))

	table := r.newTable("Nickname", "Status")
	for _, line := range lines[1:] {
		name, status, found := strings.Cut(strings.TrimPrefix(line, "- "), ": ")
		if !found {
			continue
		}
		table.Append([]string{name, status})
	}
	table.Render()
}

func (r *Renderer) newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	return table
}

func (r *Renderer) localTime(stamp string) string {
	t, err := time.Parse(proto.LastSeenLayout, stamp)
	if err != nil {
		return stamp
	}
	return t.In(r.loc).Format(displayTimeLayout)
}

func (r *Renderer) println(line string) {
	fmt.Fprintln(r.out, line)
}
