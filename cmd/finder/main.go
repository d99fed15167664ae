// Command finder seeds an event world and answers coordinate queries read
// from standard input with the closest events and their cheapest tickets.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/iliyamo/event-ticket-finder/internal/config"
	"github.com/iliyamo/event-ticket-finder/internal/model"
	"github.com/iliyamo/event-ticket-finder/internal/repository"
)

const resultCount = 5

func main() {
	config.LoadDotEnv()
	wc := config.LoadWorldConfig()

	ctx := context.Background()
	repo, err := repository.NewWorld(ctx, wc.Size, wc.EventCount, wc.Seed, nil)
	if err != nil {
		log.Fatalf("seed world: %v", err)
	}
	if err := run(ctx, repo, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run prompts for coordinates until in is exhausted or the user types
// "quit".  Bad input is reported and the prompt repeats.
func run(ctx context.Context, repo *repository.EventRepo, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "Please Input Coordinates (x,y) between -%d and %d:\n> ", repo.Size(), repo.Size())
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "quit") || strings.EqualFold(line, "exit") {
			return nil
		}
		loc, err := parseLocation(line)
		if err != nil {
			fmt.Fprintf(out, "Invalid input: %v\n", err)
			continue
		}
		found, err := repo.Nearest(ctx, repository.NearestQuery{From: loc, Limit: resultCount})
		if errors.Is(err, repository.ErrOutOfBounds) {
			fmt.Fprintf(out, "Coordinates %s are outside the world\n", loc)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Closest Events to %s:\n", loc)
		if len(found) == 0 {
			fmt.Fprintln(out, "No Events in the world")
		}
		for _, d := range found {
			fmt.Fprintf(out, "%s, Distance %d\n", d.Event, d.Distance)
		}
	}
}

// parseLocation accepts "x,y" or "x y", with optional surrounding
// parentheses.
func parseLocation(s string) (model.Location, error) {
	s = strings.Trim(strings.TrimSpace(s), "()")
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != 2 {
		return model.Location{}, fmt.Errorf("expected two coordinates, got %q", s)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return model.Location{}, fmt.Errorf("bad x coordinate %q", fields[0])
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return model.Location{}, fmt.Errorf("bad y coordinate %q", fields[1])
	}
	return model.Location{X: x, Y: y}, nil
}
