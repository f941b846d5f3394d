package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zzenonn/go-mckp"
)

// prompter asks for values the flags left out.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *prompter) budget() (float64, error) {
	answer, err := p.ask("Enter the weight cap: ")
	if err != nil {
		return 0, fmt.Errorf("reading weight cap: %w", err)
	}
	v, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return 0, fmt.Errorf("weight cap %q is not a number", answer)
	}
	return v, nil
}

// attribute shows the numbered menu and returns the chosen attribute.
func (p *prompter) attribute(attrs []string) (string, error) {
	if len(attrs) == 0 {
		return "", errors.New("dataset has no attributes to maximize")
	}
	fmt.Fprint(p.out, mckp.FormatMenu(attrs, 4))
	answer, err := p.ask("Enter the number of the parameter: ")
	if err != nil {
		return "", fmt.Errorf("reading parameter: %w", err)
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(attrs) {
		return "", fmt.Errorf("parameter %q is not between 1 and %d", answer, len(attrs))
	}
	return attrs[n-1], nil
}
