// watch is a terminal observer for a running game: it subscribes to a room
// and renders the board, scores and result as the game unfolds.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/FalconsSky/penguins/internal/client"
	"github.com/FalconsSky/penguins/internal/network"
	"github.com/FalconsSky/penguins/pkg/game"
)

var (
	flagURL  = flag.String("url", "ws://localhost:8080/ws", "WebSocket endpoint")
	flagRoom = flag.String("room", "", "Room id to observe (required)")
)

// Messages from the observing client into the TUI.
type (
	joinedMsg       string
	stateMsg        game.GameState
	resultMsg       network.ResultPayload
	serverErrMsg    string
	disconnectedMsg struct{ err error }
)

// watchHandler forwards every game event into the TUI's channel.
type watchHandler struct {
	client.BaseHandler
	events chan tea.Msg
}

func (h *watchHandler) CalculateMove(game.GameState) (game.Move, error) {
	return game.Move{}, errors.New("observers do not move")
}
func (h *watchHandler) OnGameJoined(roomID string) { h.events <- joinedMsg(roomID) }
func (h *watchHandler) OnUpdate(s game.GameState) { h.events <- stateMsg(s) }
func (h *watchHandler) OnResult(r network.ResultPayload) { h.events <- resultMsg(r) }
func (h *watchHandler) OnError(msg string) { h.events <- serverErrMsg(msg) }

type model struct {
	roomID string
	events chan tea.Msg

	state    game.GameState
	hasState bool
	result   *network.ResultPayload
	note     string
}

func initialModel(roomID string, events chan tea.Msg) model {
	return model{roomID: roomID, events: events}
}

func waitForEvent(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case joinedMsg:
		m.roomID = string(msg)
		return m, waitForEvent(m.events)

	case stateMsg:
		m.state = game.GameState(msg)
		m.hasState = true
		return m, waitForEvent(m.events)

	case resultMsg:
		r := network.ResultPayload(msg)
		m.result = &r
		return m, waitForEvent(m.events)

	case serverErrMsg:
		m.note = "server: " + string(msg)
		return m, waitForEvent(m.events)

	case disconnectedMsg:
		if msg.err != nil {
			m.note = "disconnected: " + msg.err.Error()
		}
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "observing room %s\n\n", m.roomID)

	if !m.hasState {
		b.WriteString("waiting for the game to start...\n")
	} else {
		st := m.state
		fmt.Fprintf(&b, "turn %d  round %d", st.Progress.Turn, st.Progress.Round)
		if m.result == nil {
			fmt.Fprintf(&b, "  to move: %s", st.CurrentTeam())
		}
		fmt.Fprintf(&b, "\nscore  ONE %d : %d TWO\n\n", st.Score.One, st.Score.Two)
		b.WriteString(st.Board.String())
		if st.LastMove != nil {
			fmt.Fprintf(&b, "\nlast move: %s\n", st.LastMove)
		}
	}

	if m.result != nil {
		b.WriteString("\n")
		switch m.result.Winner {
		case "":
			fmt.Fprintf(&b, "game over (%s): draw\n", m.result.Reason)
		default:
			fmt.Fprintf(&b, "game over (%s): %s wins\n", m.result.Reason, m.result.Winner)
		}
	}
	if m.note != "" {
		fmt.Fprintf(&b, "\n%s\n", m.note)
	}

	b.WriteString("\nPress q to quit.\n")
	return b.String()
}

func main() {
	flag.Parse()
	if *flagRoom == "" {
		fmt.Fprintln(os.Stderr, "watch: -room is required")
		flag.Usage()
		os.Exit(2)
	}

	events := make(chan tea.Msg, 16)
	handler := &watchHandler{events: events}

	c, err := client.Dial(*flagURL, handler, zerolog.Nop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: connect %s: %v\n", *flagURL, err)
		os.Exit(1)
	}
	defer c.Close()

	if err := c.Observe(*flagRoom); err != nil {
		fmt.Fprintf(os.Stderr, "watch: observe: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		err := c.Run(ctx)
		events <- disconnectedMsg{err: err}
	}()

	p := tea.NewProgram(initialModel(*flagRoom, events))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		os.Exit(1)
	}
}
