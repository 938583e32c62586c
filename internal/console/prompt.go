package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Martin-Matzer/connect-4/internal/game"
)

// SurrenderPhrase typed on a turn gives the match to the opponent.
const SurrenderPhrase = "I surrender!"

// Prompter asks questions on out and reads answers line by line from in.
// All methods return io.EOF once input is exhausted.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

func (p *Prompter) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// ReadMove implements game.MoveReader for human players.
func (p *Prompter) ReadMove(ctx context.Context, player *game.Player, _ game.View) (game.Move, error) {
	for {
		line, err := p.readLine(ctx, fmt.Sprintf("Player%d (%s), choose column: ", player.Number, player.Name))
		if err != nil {
			return game.Move{}, err
		}
		if line == SurrenderPhrase {
			fmt.Fprintf(p.out, "Player %d surrendered!\n", player.Number)
			return game.SurrenderMove(), nil
		}
		if col, err := strconv.Atoi(line); err == nil && col >= 0 && col < game.Columns {
			return game.ColumnMove(col), nil
		}
		fmt.Fprintln(p.out, "Invalid input. Please enter a column or surrender your soul.")
	}
}

// choose keeps asking until the answer is one of options.
func (p *Prompter) choose(ctx context.Context, question string, options []string, invalid string) (string, error) {
	for {
		fmt.Fprintln(p.out, question)
		line, err := p.readLine(ctx, "> ")
		if err != nil {
			return "", err
		}
		for _, o := range options {
			if line == o {
				return line, nil
			}
		}
		fmt.Fprintln(p.out, invalid)
	}
}

// ChoosePlayers returns the number of human players, 1 or 2.
func (p *Prompter) ChoosePlayers(ctx context.Context) (int, error) {
	answer, err := p.choose(ctx,
		"Choose number of players:\n1 - single player\n2 - two player",
		[]string{"1", "2"},
		"Invalid input. Please enter 1 or 2.\n")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(answer)
}

// ChooseBotDifficulty returns 0 for the random bot and 1 for the heuristic one.
func (p *Prompter) ChooseBotDifficulty(ctx context.Context, easy, hard string) (int, error) {
	answer, err := p.choose(ctx,
		fmt.Sprintf("\nChoose bot difficulty:\n0 - play against %s\n1 - play against %s", easy, hard),
		[]string{"0", "1"},
		"Invalid input. Please enter 0 or 1.\n")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(answer)
}

func (p *Prompter) PlayAgain(ctx context.Context) (bool, error) {
	for {
		line, err := p.readLine(ctx, "Play again? Please enter yes or no: ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		fmt.Fprintln(p.out, "Invalid input. Please enter yes or no")
	}
}
