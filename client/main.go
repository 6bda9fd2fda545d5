// Command client is a terminal tic-tac-toe player. It prints every server message and
// sends a move for each "row col" line typed on stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"
	"github.com/wfunc/tictactoe/logger"
	"github.com/wfunc/tictactoe/protocol"
)

func main() {
	cmd := &cli.Command{
		Name:  "tictactoe-client",
		Usage: "play tic-tac-toe against another client from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: "localhost:8080", Usage: "server host:port"},
			&cli.StringFlag{Name: "path", Value: "/ws", Usage: "websocket endpoint"},
			&cli.BoolFlag{Name: "verbose", Usage: "log connection events"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	level := "warn"
	if cmd.Bool("verbose") {
		level = "debug"
	}
	if err := logger.Init(level, true); err != nil {
		return err
	}
	defer logger.Sync()

	u := url.URL{Scheme: "ws", Host: cmd.String("addr"), Path: cmd.String("path")}
	logger.Log.Infof("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.String(), err)
	}
	defer c.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		readLoop(c, os.Stdout)
	}()

	lines := make(chan string)
	go scanLines(os.Stdin, lines)

	fmt.Println(`Type "row col" (0-2) and press Enter to move.`)
	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			logger.Log.Info("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				logger.Log.Warnf("Write close error: %v", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			mv, err := parseMove(line)
			if err != nil {
				fmt.Println(err)
				continue
			}
			data, err := protocol.Encode(mv)
			if err != nil {
				return err
			}
			if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}
	}
}

func scanLines(r io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
}

func readLoop(c *websocket.Conn, out io.Writer) {
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				logger.Log.Warnf("Read error: %v", err)
			}
			return
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			logger.Log.Warnf("Undecodable frame %q: %v", data, err)
			continue
		}
		fmt.Fprintln(out, render(msg))
	}
}

var errMoveSyntax = errors.New(`expected "row col", e.g. "1 2"`)

func parseMove(line string) (protocol.Move, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return protocol.Move{}, errMoveSyntax
	}
	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return protocol.Move{}, errMoveSyntax
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return protocol.Move{}, errMoveSyntax
	}
	return protocol.Move{Row: float64(row), Col: float64(col)}, nil
}

func render(msg protocol.Message) string {
	switch m := msg.(type) {
	case protocol.PlayerInfo:
		if m.YourTurn {
			return fmt.Sprintf("You play %s and move first.", m.Symbol)
		}
		return fmt.Sprintf("You play %s. Waiting for your opponent.", m.Symbol)
	case protocol.RoomStatus:
		return m.Status
	case protocol.BoardUpdate:
		var b strings.Builder
		for i, row := range m.Board {
			cells := make([]string, 3)
			for j, cell := range row {
				cells[j] = cell
				if cell == "" {
					cells[j] = "."
				}
			}
			b.WriteString(" " + strings.Join(cells, " "))
			if i < 2 {
				b.WriteByte('\n')
			}
		}
		if m.YourTurn {
			b.WriteString("\nYour move.")
		}
		return b.String()
	case protocol.Error:
		return "! " + m.Info
	default:
		switch msg.MessageType() {
		case protocol.TypeWin:
			return "You won!"
		case protocol.TypeLose:
			return "You lost."
		case protocol.TypeDraw:
			return "Draw."
		}
		return string(msg.MessageType())
	}
}
