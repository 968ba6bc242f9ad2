package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/vovakirdan/linechat/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	sender := flag.String("sender", "smoke-a", "nickname of the sending connection")
	receiver := flag.String("receiver", "smoke-b", "nickname of the receiving connection")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	a, err := join(ctx, *addr, *sender)
	if err != nil {
		return err
	}
	defer a.Close(websocket.StatusNormalClosure, "bye")

	b, err := join(ctx, *addr, *receiver)
	if err != nil {
		return err
	}
	defer b.Close(websocket.StatusNormalClosure, "bye")

	if err := a.Write(ctx, websocket.MessageText, []byte(*text)); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	want := fmt.Sprintf(" -- %s] %s", *sender, *text)
	line, err := waitFor(ctx, b, func(frame string) bool { return strings.HasSuffix(frame, want) })
	if err != nil {
		return err
	}
	fmt.Printf("Received chat line: %s\n", line)

	if err := b.Write(ctx, websocket.MessageText, []byte("/list")); err != nil {
		return fmt.Errorf("send /list: %w", err)
	}
	online, err := waitFor(ctx, b, func(frame string) bool { return strings.HasPrefix(frame, proto.OnlinePrefix) })
	if err != nil {
		return err
	}
	fmt.Println(online)
	return nil
}

func join(ctx context.Context, addr, nickname string) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if _, err := waitFor(ctx, conn, func(frame string) bool { return frame == proto.NicknamePrompt }); err != nil {
		conn.Close(websocket.StatusNormalClosure, "bye")
		return nil, err
	}
	if err := conn.Write(ctx, websocket.MessageText, []byte(nickname)); err != nil {
		conn.Close(websocket.StatusNormalClosure, "bye")
		return nil, fmt.Errorf("send nickname: %w", err)
	}
	reply, err := waitFor(ctx, conn, func(frame string) bool {
		return frame == proto.Welcome(nickname) || frame == proto.NicknameTaken
	})
	if err != nil {
		conn.Close(websocket.StatusNormalClosure, "bye")
		return nil, err
	}
	if reply == proto.NicknameTaken {
		conn.Close(websocket.StatusNormalClosure, "bye")
		return nil, fmt.Errorf("nickname %q is taken", nickname)
	}
	fmt.Printf("Joined as %s\n", nickname)
	return conn, nil
}

func waitFor(ctx context.Context, conn *websocket.Conn, match func(string) bool) (string, error) {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return "", fmt.Errorf("read: %w", err)
		}
		if typ == websocket.MessageText && match(string(data)) {
			return string(data), nil
		}
	}
}
