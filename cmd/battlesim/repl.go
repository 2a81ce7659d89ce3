package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cory-johannsen/deckbattle/internal/game/battle"
)

const replHelp = `commands:
  status            show the battle state
  play <n> [target] play hand card n (1-based) at an optional unit id
  shed <n>          exhaust Noise card n by paying its discard cost
  end               end the turn and run the AI phases
  wait              end the turn without acting
  flee              try to escape
  quit              abandon the battle`

// errQuit ends the loop at the player's request.
var errQuit = errors.New("quit")

// repl reads one command per line from in and applies it to c. AI phases run
// as soon as the controller reaches them.
//
// Postcondition: Returns the last snapshot; err is nil when the battle ended
// or the player quit.
func repl(ctx context.Context, c *battle.Controller, in io.Reader, out *narrator) (*battle.Session, error) {
	sc := bufio.NewScanner(in)
	out.status(c.Snapshot())
	for {
		s := c.Snapshot()
		if s.Over() {
			return s, nil
		}
		if err := ctx.Err(); err != nil {
			return s, err
		}
		switch s.Phase {
		case battle.PhasePartyAI:
			res, err := c.ProcessPartyTurn()
			out.lines(res.Log)
			if err != nil {
				return c.Snapshot(), err
			}
			continue
		case battle.PhaseEnemy:
			res, err := c.ProcessEnemyTurn()
			out.lines(res.Log)
			if err != nil {
				return c.Snapshot(), err
			}
			if !res.Session.Over() {
				out.status(res.Session)
			}
			continue
		}

		fmt.Fprint(out.w, "> ")
		if !sc.Scan() {
			return s, sc.Err()
		}
		res, err := command(c, s, strings.Fields(sc.Text()), out)
		if errors.Is(err, errQuit) {
			return c.Snapshot(), nil
		}
		out.lines(res.Log)
		if err != nil && len(res.Log) == 0 {
			fmt.Fprintln(out.w, err)
		}
	}
}

func command(c *battle.Controller, s *battle.Session, args []string, out *narrator) (battle.Result, error) {
	if len(args) == 0 {
		return battle.Result{}, nil
	}
	switch args[0] {
	case "status", "s":
		out.status(s)
		return battle.Result{}, nil
	case "play", "p":
		if len(args) < 2 {
			return battle.Result{}, errors.New("usage: play <n> [target]")
		}
		id, err := handCard(s, args[1])
		if err != nil {
			return battle.Result{}, err
		}
		target := ""
		if len(args) > 2 {
			target = args[2]
		}
		return c.PlayCard(id, target)
	case "shed":
		if len(args) < 2 {
			return battle.Result{}, errors.New("usage: shed <n>")
		}
		id, err := handCard(s, args[1])
		if err != nil {
			return battle.Result{}, err
		}
		return c.ExhaustNoise(id)
	case "end", "e":
		return c.EndTurn()
	case "wait", "w":
		return c.Wait()
	case "flee", "f":
		return c.Flee()
	case "quit", "q":
		return battle.Result{}, errQuit
	case "help", "h", "?":
		fmt.Fprintln(out.w, replHelp)
		return battle.Result{}, nil
	}
	return battle.Result{}, fmt.Errorf("unknown command %q, try help", args[0])
}

// handCard maps a 1-based hand position to the card's instance id.
func handCard(s *battle.Session, pos string) (string, error) {
	n, err := strconv.Atoi(pos)
	if err != nil || n < 1 || n > len(s.Piles.Hand) {
		return "", fmt.Errorf("no card at position %q", pos)
	}
	return s.Piles.Hand[n-1].InstanceID, nil
}
